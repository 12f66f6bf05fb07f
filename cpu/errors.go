package cpu

import "fmt"

// IllegalInstructionError is returned by Engine.Step when the word at
// PC does not decode to a defined opcode (an undefined non-basic
// opcode; the basic opcode space has no gaps). It carries the
// offending word and the PC it was fetched from.
type IllegalInstructionError struct {
	Word Word
	PC   Word
}

func (e *IllegalInstructionError) Error() string {
	return fmt.Sprintf("illegal instruction %#04x at pc=%#04x", e.Word, e.PC)
}
