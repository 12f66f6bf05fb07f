package asm

import (
	"github.com/0x10c/dcpu16/cpu"
	"github.com/pkg/errors"
)

// Assemble encodes stmts to a word stream, resolving label references
// against labels. It is the second, encode-only pass; size was already
// fixed during ResolveLabels so every offset labels holds is final.
func Assemble(stmts []Statement, labels LabelMap) ([]cpu.Word, error) {
	var out []cpu.Word
	for _, st := range stmts {
		if st.Mnemonic == "" {
			continue
		}
		words, err := encodeStatement(st, labels)
		if err != nil {
			return nil, err
		}
		out = append(out, words...)
	}
	return out, nil
}

func encodeStatement(st Statement, labels LabelMap) ([]cpu.Word, error) {
	if op, ok := basicMnemonics[st.Mnemonic]; ok {
		if len(st.Operands) != 2 {
			return nil, errors.Errorf("line %d: %s takes 2 operands, got %d", st.Line, st.Mnemonic, len(st.Operands))
		}
		aCode, aWords, err := encodeOperand(st.Operands[0], labels, st.Line)
		if err != nil {
			return nil, err
		}
		bCode, bWords, err := encodeOperand(st.Operands[1], labels, st.Line)
		if err != nil {
			return nil, err
		}
		word0 := cpu.Word(op&0xf) | cpu.Word(aCode&0x3f)<<4 | cpu.Word(bCode&0x3f)<<10
		words := make([]cpu.Word, 0, 1+len(aWords)+len(bWords))
		words = append(words, word0)
		words = append(words, aWords...)
		words = append(words, bWords...)
		return words, nil
	}

	nb, ok := nonBasicMnemonics[st.Mnemonic]
	if !ok {
		return nil, errors.Errorf("line %d: unknown mnemonic %q", st.Line, st.Mnemonic)
	}
	if len(st.Operands) != 1 {
		return nil, errors.Errorf("line %d: %s takes 1 operand, got %d", st.Line, st.Mnemonic, len(st.Operands))
	}
	aCode, aWords, err := encodeOperand(st.Operands[0], labels, st.Line)
	if err != nil {
		return nil, err
	}
	word0 := cpu.Word(nb&0x3f)<<4 | cpu.Word(aCode&0x3f)<<10
	words := make([]cpu.Word, 0, 1+len(aWords))
	words = append(words, word0)
	words = append(words, aWords...)
	return words, nil
}

// encodeOperand returns the 6-bit addressing-mode field for op and any
// extra words it must be followed by, in program order.
func encodeOperand(op Operand, labels LabelMap, line int) (cpu.OperandCode, []cpu.Word, error) {
	switch op.Kind {
	case OperandRegister:
		return cpu.OperandCode(op.Register), nil, nil

	case OperandRegisterIndirect:
		return cpu.OperandCode(0x08 + int(op.Register)), nil, nil

	case OperandRegisterOffsetIndirect:
		val, err := resolveValue(op.ValueExpr, labels, line)
		if err != nil {
			return 0, nil, err
		}
		return cpu.OperandCode(0x10 + int(op.Register)), []cpu.Word{val}, nil

	case OperandPop:
		return 0x18, nil, nil
	case OperandPeek:
		return 0x19, nil, nil
	case OperandPush:
		return 0x1a, nil, nil
	case OperandSP:
		return 0x1b, nil, nil
	case OperandPC:
		return 0x1c, nil, nil
	case OperandO:
		return 0x1d, nil, nil

	case OperandIndirect:
		val, err := resolveValue(op.ValueExpr, labels, line)
		if err != nil {
			return 0, nil, err
		}
		return 0x1e, []cpu.Word{val}, nil

	case OperandLiteral:
		if !op.ValueExpr.IsLabel && op.ValueExpr.Literal <= 0x1f {
			return cpu.OperandCode(0x20 + op.ValueExpr.Literal), nil, nil
		}
		val, err := resolveValue(op.ValueExpr, labels, line)
		if err != nil {
			return 0, nil, err
		}
		return 0x1f, []cpu.Word{val}, nil
	}

	return 0, nil, errors.Errorf("line %d: unrecognised operand form", line)
}

func resolveValue(ve ValueExpr, labels LabelMap, line int) (cpu.Word, error) {
	if !ve.IsLabel {
		return ve.Literal, nil
	}
	addr, ok := labels[ve.Label]
	if !ok {
		return 0, &LinkError{Label: ve.Label, Line: line}
	}
	return addr, nil
}

// AssembleSource runs the full pipeline — parse, resolve labels,
// encode — over src in one call. file annotates parse error messages;
// pass "" if unknown.
func AssembleSource(file, src string) ([]cpu.Word, error) {
	stmts, errs := Parse(file, src)
	if len(errs) > 0 {
		return nil, ParseErrors(errs)
	}
	labels, err := ResolveLabels(stmts)
	if err != nil {
		return nil, err
	}
	return Assemble(stmts, labels)
}
