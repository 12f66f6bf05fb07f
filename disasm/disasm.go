// Package disasm renders a DCPU-16 word stream back to assembly text,
// the mirror image of package asm. It walks the stream with
// cpu.Decode so its notion of opcodes and addressing modes can never
// drift from the execution core's.
package disasm

import (
	"fmt"
	"io"

	"github.com/0x10c/dcpu16/cpu"
)

// WordReader yields successive words of a program image, returning
// io.EOF once exhausted.
type WordReader interface {
	ReadWord() (w cpu.Word, err error)
}

type sliceReader struct {
	words []cpu.Word
	pos   int
}

// NewWordReader returns a WordReader over an in-memory word slice.
func NewWordReader(words []cpu.Word) WordReader {
	return &sliceReader{words: words}
}

func (r *sliceReader) ReadWord() (cpu.Word, error) {
	if r.pos >= len(r.words) {
		return 0, io.EOF
	}
	w := r.words[r.pos]
	r.pos++
	return w, nil
}

// Disassemble walks r starting at address addr and writes one line of
// assembly text per instruction to w, until r is exhausted. The
// instruction following an IFE/IFN/IFG/IFB is its conditional body and
// is printed with one extra level of indentation.
func Disassemble(addr cpu.Word, r WordReader, w io.Writer) error {
	indent := false
	for {
		startAddr := addr
		word, err := r.ReadWord()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		addr++

		instr, err := cpu.Decode(word)
		if err != nil {
			fmt.Fprintf(w, "0x%04x:\t%04x\n", startAddr, word)
			indent = false
			continue
		}

		prefix := "\t\t"
		if indent {
			prefix = "\t\t\t"
		}

		if instr.Basic {
			aText, err := formatOperand(instr.A, &addr, r)
			if err != nil {
				return err
			}
			bText, err := formatOperand(instr.B, &addr, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "0x%04x:%s%s\t%s, %s\n", startAddr, prefix, instr.Op, aText, bText)
			indent = instr.Op.IsConditional()
			continue
		}

		aText, err := formatOperand(instr.A, &addr, r)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "0x%04x:%s%s\t%s\n", startAddr, prefix, instr.NonBasicOp, aText)
		indent = false
	}
}

var registerNames = [...]string{"A", "B", "C", "X", "Y", "Z", "I", "J"}

// formatOperand renders a single operand code to assembly text,
// consuming an extra word from r (and advancing *addr) if
// code.ExtraWords reports the mode requires one.
func formatOperand(code cpu.OperandCode, addr *cpu.Word, r WordReader) (string, error) {
	var nextWord cpu.Word
	if code.ExtraWords() == 1 {
		n, err := r.ReadWord()
		if err != nil {
			return "", err
		}
		*addr++
		nextWord = n
	}

	switch {
	case code <= 0x07:
		return registerNames[code], nil
	case code <= 0x0f:
		return fmt.Sprintf("[%s]", registerNames[code-0x08]), nil
	case code <= 0x17:
		return fmt.Sprintf("[0x%x+%s]", nextWord, registerNames[code-0x10]), nil
	case code == 0x18:
		return "POP", nil
	case code == 0x19:
		return "PEEK", nil
	case code == 0x1a:
		return "PUSH", nil
	case code == 0x1b:
		return "SP", nil
	case code == 0x1c:
		return "PC", nil
	case code == 0x1d:
		return "O", nil
	case code == 0x1e:
		return fmt.Sprintf("[0x%x]", nextWord), nil
	case code == 0x1f:
		return fmt.Sprintf("0x%x", nextWord), nil
	default: // 0x20-0x3f
		return fmt.Sprintf("0x%02x", code-0x20), nil
	}
}
