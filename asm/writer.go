package asm

import (
	"encoding/binary"
	"io"

	"github.com/0x10c/dcpu16/cpu"
	"github.com/pkg/errors"
)

// WriteBinary serialises words to w as big-endian 16-bit values, the
// on-disk form an assembled program image takes.
func WriteBinary(w io.Writer, words []cpu.Word) error {
	if err := binary.Write(w, binary.BigEndian, words); err != nil {
		return errors.Wrap(err, "writing program image")
	}
	return nil
}

// ReadBinary reads a big-endian program image back into a word slice,
// the inverse of WriteBinary.
func ReadBinary(r io.Reader) ([]cpu.Word, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading program image")
	}
	if len(raw)%2 != 0 {
		return nil, errors.New("program image has an odd number of bytes")
	}
	words := make([]cpu.Word, len(raw)/2)
	for i := range words {
		words[i] = cpu.Word(raw[2*i])<<8 | cpu.Word(raw[2*i+1])
	}
	return words, nil
}
