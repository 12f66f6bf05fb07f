package cpu

// Engine owns one Memory and drives it one instruction at a time. It
// replaces the reader-over-mutable-state pattern of the system this
// core is modelled on with an explicit value: every operation is a
// method on Engine, and there is no state outside the Memory it holds.
type Engine struct {
	Mem *Memory
}

// NewEngine returns an Engine over a freshly constructed Memory.
func NewEngine() *Engine {
	return &Engine{Mem: NewMemory()}
}

// LoadProgram writes ws into RAM starting at address 0.
func (e *Engine) LoadProgram(ws []Word) {
	e.Mem.LoadProgram(ws)
}

// fetch reads the word at PC and advances PC by one, wrapping.
func (e *Engine) fetch() Word {
	w := e.Mem.Load(RamAddr(e.Mem.pc))
	e.Mem.pc++
	return w
}

// resolve turns a raw OperandCode into a Value, fetching any nextword
// the mode requires (advancing PC) and mutating SP for PUSH/POP modes.
// Resolution has side effects regardless of whether the instruction
// being decoded will ultimately be skipped, so that skipped
// instructions still consume the right number of words.
func (e *Engine) resolve(code OperandCode) Value {
	m := e.Mem
	switch {
	case code <= opRegisterEnd:
		return addressValue(RegisterAddr(Register(code)))

	case code <= opRegisterIndEnd:
		r := Register(code - opRegisterIndStart)
		return addressValue(RamAddr(m.Load(RegisterAddr(r))))

	case code <= opRegisterOffEnd:
		r := Register(code - opRegisterOffStart)
		n := e.fetch()
		return addressValue(RamAddr(n + m.Load(RegisterAddr(r))))

	case code == opPop:
		addr := RamAddr(m.sp)
		m.sp++
		return addressValue(addr)

	case code == opPeek:
		return addressValue(RamAddr(m.sp))

	case code == opPush:
		m.sp--
		return addressValue(RamAddr(m.sp))

	case code == opSP:
		return addressValue(SPAddr())

	case code == opPC:
		return addressValue(PCAddr())

	case code == opO:
		return addressValue(OAddr())

	case code == opIndirectNextWord:
		n := e.fetch()
		return addressValue(RamAddr(n))

	case code == opNextWordLiteral:
		return literalValue(e.fetch())

	default: // 0x20-0x3f: embedded small literal
		return literalValue(Word(code - opSmallLiteralStart))
	}
}

// Step advances the machine by one logical instruction: fetch, decode,
// resolve operands (always), then either apply the opcode's semantics
// or, if the skip latch was set, clear it and return without applying.
func (e *Engine) Step() error {
	m := e.Mem
	skip := m.skip != 0

	fetchPC := m.pc
	word := e.fetch()
	instr, err := Decode(word)
	if err != nil {
		if ie, ok := err.(*IllegalInstructionError); ok {
			ie.PC = fetchPC
		}
		return err
	}

	if !instr.Basic {
		a := e.resolve(instr.A)
		if skip {
			m.skip = 0
			return nil
		}
		e.executeNonBasic(instr.NonBasicOp, a)
		return nil
	}

	a := e.resolve(instr.A)
	b := e.resolve(instr.B)
	if skip {
		m.skip = 0
		return nil
	}
	e.executeBasic(instr.Op, a, b)
	return nil
}

// Run steps the engine until it halts (an instruction jumps PC back to
// its own address, the idiom DCPU-16 programs use to halt — most
// commonly "SET PC, <label>" where <label> names that same
// instruction), an illegal instruction is hit, or max steps have
// executed (max <= 0 means unbounded). It returns the number of steps
// actually taken.
func (e *Engine) Run(max int) (int, error) {
	steps := 0
	for max <= 0 || steps < max {
		pcBefore := e.Mem.pc
		if err := e.Step(); err != nil {
			return steps, err
		}
		steps++
		if e.Mem.skip == 0 && e.halted(pcBefore) {
			return steps, nil
		}
	}
	return steps, nil
}

// halted reports whether the instruction at pcBeforeFetch just sent PC
// straight back to its own address: the next fetch would read the
// exact same instruction, so nothing can ever make forward progress
// again. This is the general form of the self-jump halt idiom,
// independent of which addressing modes the jump instruction used to
// name its own address.
func (e *Engine) halted(pcBeforeFetch Word) bool {
	return e.Mem.pc == pcBeforeFetch
}
