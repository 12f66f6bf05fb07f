package disasm_test

import (
	"bytes"
	"testing"

	"github.com/0x10c/dcpu16/cpu"
	"github.com/0x10c/dcpu16/disasm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassembleSetLiteral(t *testing.T) {
	var buf bytes.Buffer
	words := []cpu.Word{0x7c01, 0x0030, 0x7de1, 0x1000, 0x0020}
	err := disasm.Disassemble(0, disasm.NewWordReader(words), &buf)
	require.NoError(t, err)
	assert.Equal(t,
		"0x0000:\t\tSET\tA, 0x30\n"+
			"0x0002:\t\tSET\t[0x1000], 0x20\n",
		buf.String())
}

func TestDisassembleJSR(t *testing.T) {
	var buf bytes.Buffer
	words := []cpu.Word{0x7c10, 0x0018}
	err := disasm.Disassemble(0, disasm.NewWordReader(words), &buf)
	require.NoError(t, err)
	assert.Equal(t, "0x0000:\t\tJSR\t0x18\n", buf.String())
}

func TestDisassembleIndentsConditionalBody(t *testing.T) {
	var buf bytes.Buffer
	// IFN A, 0x10 ; c00d   SET A, 0x30 ; 7c01 0030
	words := []cpu.Word{0xc00d, 0x7c01, 0x0030}
	err := disasm.Disassemble(0, disasm.NewWordReader(words), &buf)
	require.NoError(t, err)
	assert.Equal(t,
		"0x0000:\t\tIFN\tA, 0x10\n"+
			"0x0001:\t\t\tSET\tA, 0x30\n",
		buf.String())
}

func TestDisassembleFallsBackToHexOnUnknownOpcode(t *testing.T) {
	var buf bytes.Buffer
	// low nibble 0, non-basic opcode field = 0x3f: undefined.
	words := []cpu.Word{cpu.Word(0x3f) << 4}
	err := disasm.Disassemble(0, disasm.NewWordReader(words), &buf)
	require.NoError(t, err)
	assert.Equal(t, "0x0000:\t03f0\n", buf.String())
}
