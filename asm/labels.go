package asm

import (
	"github.com/0x10c/dcpu16/cpu"
	"github.com/pkg/errors"
)

// LabelMap maps a label name to the word offset of the statement it
// was defined on.
type LabelMap map[string]cpu.Word

// ResolveLabels walks stmts in order, accumulating the word offset
// each statement will land at once assembled, and records the offset
// of every label definition. It is the first-pass, size-only half of
// the two-pass assembler described in DESIGN.md: offsets are computed
// without knowing any label's resolved value, because operand sizes
// depend only on syntactic form (see Operand.extraWords).
func ResolveLabels(stmts []Statement) (LabelMap, error) {
	labels := LabelMap{}
	offset := cpu.Word(0)

	for _, st := range stmts {
		if st.Label != "" {
			if _, dup := labels[st.Label]; dup {
				return nil, errors.Errorf("line %d: label %q redefined", st.Line, st.Label)
			}
			labels[st.Label] = offset
		}
		offset += st.encodedLength()
	}

	return labels, nil
}
