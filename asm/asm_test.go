package asm

import (
	"testing"

	"github.com/0x10c/dcpu16/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// source is a short program exercising most addressing modes (all but
// PEEK, PUSH, SP and O), a
// forward label reference, a backward label reference, and a
// subroutine call/return. The comment on each line is the expected
// encoding, checked word-for-word below.
const source = "; Try some basic stuff\n" +
	"              SET A, 0x30              ; 7c01 0030\n" +
	"              SET [0x1000], 0x20       ; 7de1 1000 0020\n" +
	"              SUB A, [0x1000]          ; 7803 1000\n" +
	"              IFN A, 0x10              ; c00d\n" +
	"              SET PC, crash            ; 7dc1 001a" +
	"\n" +
	"; Do a loopy thing\n" +
	"              SET I, 10                ; a861\n" +
	"              SET A, 0x2000            ; 7c01 2000\n" +
	":loop         SET [0x2000+I], [A]      ; 2161 2000\n" +
	"              SUB I, 1                 ; 8463\n" +
	"              IFN I, 0                 ; 806d\n" +
	"              SET PC, loop             ; 7dc1 000d\n" +
	"\n" +
	"; Call a subroutine\n" +
	"              SET X, 0x4               ; 9031\n" +
	"              JSR testsub              ; 7c10 0018 [*]\n" +
	"              SET PC, crash            ; 7dc1 001a [*]\n" +
	"\n" +
	":testsub      SHL X, 4                 ; 9037\n" +
	"              SET PC, POP              ; 61c1\n" +
	"\n" +
	"; Hang forever. X should now be 0x40 if everything went right.\n" +
	":crash        SET PC, crash            ; 7dc1 001a [*]\n"

var expect = []cpu.Word{
	0x7c01, 0x0030, 0x7de1, 0x1000, 0x0020, 0x7803, 0x1000, 0xc00d,
	0x7dc1, 0x001a, 0xa861, 0x7c01, 0x2000, 0x2161, 0x2000, 0x8463,
	0x806d, 0x7dc1, 0x000d, 0x9031, 0x7c10, 0x0018, 0x7dc1, 0x001a,
	0x9037, 0x61c1, 0x7dc1, 0x001a,
}

func TestAssembleSourceMatchesExpectedWords(t *testing.T) {
	words, err := AssembleSource("fixture.dasm16", source)
	require.NoError(t, err)
	assert.Equal(t, expect, words)
}

func TestResolveLabelsComputesForwardAndBackwardOffsets(t *testing.T) {
	stmts, errs := Parse("", source)
	require.Empty(t, errs)

	labels, err := ResolveLabels(stmts)
	require.NoError(t, err)

	assert.EqualValues(t, 13, labels["loop"])
	assert.EqualValues(t, 24, labels["testsub"])
	assert.EqualValues(t, 26, labels["crash"])
}

func TestSmallLiteralIsEmbeddedWithoutExtraWord(t *testing.T) {
	words, err := AssembleSource("", "SET A, 31\n")
	require.NoError(t, err)
	assert.Equal(t, []cpu.Word{0xfc01}, words)
}

func TestLiteralAboveSmallRangeUsesNextWord(t *testing.T) {
	words, err := AssembleSource("", "SET A, 32\n")
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.EqualValues(t, 32, words[1])
}

func TestUndefinedLabelIsALinkError(t *testing.T) {
	_, err := AssembleSource("", "SET PC, nowhere\n")
	require.Error(t, err)
	var linkErr *LinkError
	assert.ErrorAs(t, err, &linkErr)
	assert.Equal(t, "nowhere", linkErr.Label)
}

func TestUnknownMnemonicIsAParseError(t *testing.T) {
	_, err := AssembleSource("", "FROB A, B\n")
	require.Error(t, err)
	var parseErrs ParseErrors
	assert.ErrorAs(t, err, &parseErrs)
	assert.Len(t, parseErrs, 1)
}

func TestDuplicateLabelIsRejected(t *testing.T) {
	_, err := AssembleSource("", ":x SET A, 1\n:x SET B, 2\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redefined")
}
