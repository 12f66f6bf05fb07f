package asm

import (
	"strconv"
	"strings"

	"github.com/0x10c/dcpu16/cpu"
	"github.com/pkg/errors"
)

var basicMnemonics = map[string]cpu.Opcode{
	"SET": cpu.SET,
	"ADD": cpu.ADD,
	"SUB": cpu.SUB,
	"MUL": cpu.MUL,
	"DIV": cpu.DIV,
	"MOD": cpu.MOD,
	"SHL": cpu.SHL,
	"SHR": cpu.SHR,
	"AND": cpu.AND,
	"BOR": cpu.BOR,
	"XOR": cpu.XOR,
	"IFE": cpu.IFE,
	"IFN": cpu.IFN,
	"IFG": cpu.IFG,
	"IFB": cpu.IFB,
}

var nonBasicMnemonics = map[string]cpu.NonBasicOpcode{
	"JSR": cpu.JSR,
}

var registerByName = map[string]cpu.Register{
	"A": cpu.A, "B": cpu.B, "C": cpu.C, "X": cpu.X,
	"Y": cpu.Y, "Z": cpu.Z, "I": cpu.I, "J": cpu.J,
}

// Parse tokenises and parses src line by line into Statements. It
// never stops at the first bad line: every line is attempted, and the
// returned error slice holds one *ParseError per line that failed.
// file is used only to annotate error messages; pass "" if unknown.
func Parse(file, src string) ([]Statement, []error) {
	var stmts []Statement
	var errs []error

	for i, raw := range strings.Split(src, "\n") {
		lineNo := i + 1
		text := stripComment(raw)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		stmt, err := parseLine(text, lineNo)
		if err != nil {
			errs = append(errs, &ParseError{File: file, Line: lineNo, Msg: err.Error()})
			continue
		}
		if stmt.Label == "" && stmt.Mnemonic == "" {
			continue
		}
		stmts = append(stmts, stmt)
	}

	return stmts, errs
}

func stripComment(line string) string {
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		return line[:idx]
	}
	return line
}

func parseLine(text string, lineNo int) (Statement, error) {
	stmt := Statement{Line: lineNo}

	if strings.HasPrefix(text, ":") {
		rest := text[1:]
		fields := strings.SplitN(rest, " ", 2)
		label := strings.TrimRight(fields[0], "\t")
		if label == "" {
			return Statement{}, errors.New("empty label")
		}
		stmt.Label = label
		if len(fields) < 2 {
			return stmt, nil
		}
		text = strings.TrimSpace(fields[1])
		if text == "" {
			return stmt, nil
		}
	}

	fields := strings.SplitN(text, " ", 2)
	stmt.Mnemonic = strings.ToUpper(strings.TrimSpace(fields[0]))
	if stmt.Mnemonic == "" {
		return stmt, nil
	}

	if _, ok := basicMnemonics[stmt.Mnemonic]; !ok {
		if _, ok := nonBasicMnemonics[stmt.Mnemonic]; !ok {
			return Statement{}, errors.Errorf("unknown mnemonic %q", stmt.Mnemonic)
		}
	}

	if len(fields) < 2 {
		return Statement{}, errors.Errorf("%s: missing operands", stmt.Mnemonic)
	}
	for _, opText := range splitOperands(fields[1]) {
		op, err := parseOperand(strings.TrimSpace(opText))
		if err != nil {
			return Statement{}, errors.Wrapf(err, "%s operand %q", stmt.Mnemonic, opText)
		}
		stmt.Operands = append(stmt.Operands, op)
	}

	return stmt, nil
}

// splitOperands splits an operand list on top-level commas. The
// grammar has no commas inside brackets, so a plain split suffices.
func splitOperands(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseOperand(text string) (Operand, error) {
	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		return parseIndirectOperand(text[1 : len(text)-1])
	}

	switch strings.ToUpper(text) {
	case "POP":
		return Operand{Kind: OperandPop}, nil
	case "PEEK":
		return Operand{Kind: OperandPeek}, nil
	case "PUSH":
		return Operand{Kind: OperandPush}, nil
	case "SP":
		return Operand{Kind: OperandSP}, nil
	case "PC":
		return Operand{Kind: OperandPC}, nil
	case "O":
		return Operand{Kind: OperandO}, nil
	}

	if reg, ok := registerByName[strings.ToUpper(text)]; ok {
		return Operand{Kind: OperandRegister, Register: reg}, nil
	}

	ve, err := parseValueExpr(text)
	if err != nil {
		return Operand{}, err
	}
	return Operand{Kind: OperandLiteral, ValueExpr: ve}, nil
}

func parseIndirectOperand(inner string) (Operand, error) {
	inner = strings.TrimSpace(inner)
	if idx := strings.IndexByte(inner, '+'); idx >= 0 {
		left := strings.TrimSpace(inner[:idx])
		right := strings.TrimSpace(inner[idx+1:])

		regText, valText := right, left
		if _, ok := registerByName[strings.ToUpper(left)]; ok {
			regText, valText = left, right
		}

		reg, ok := registerByName[strings.ToUpper(regText)]
		if !ok {
			return Operand{}, errors.Errorf("%q: expected a value offset by a register", inner)
		}
		ve, err := parseValueExpr(valText)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandRegisterOffsetIndirect, Register: reg, ValueExpr: ve}, nil
	}

	if reg, ok := registerByName[strings.ToUpper(inner)]; ok {
		return Operand{Kind: OperandRegisterIndirect, Register: reg}, nil
	}

	ve, err := parseValueExpr(inner)
	if err != nil {
		return Operand{}, err
	}
	return Operand{Kind: OperandIndirect, ValueExpr: ve}, nil
}

func parseValueExpr(text string) (ValueExpr, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ValueExpr{}, errors.New("empty value")
	}
	if isNumeric(text) {
		n, err := strconv.ParseUint(text, 0, 16)
		if err != nil {
			return ValueExpr{}, errors.Wrapf(err, "invalid numeric literal %q", text)
		}
		return ValueExpr{Literal: cpu.Word(n)}, nil
	}
	return ValueExpr{IsLabel: true, Label: text}, nil
}

func isNumeric(text string) bool {
	c := text[0]
	return c >= '0' && c <= '9'
}
