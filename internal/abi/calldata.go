package abi

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortOutput is returned when a result buffer holds fewer words than
// its encoding requires.
var ErrShortOutput = errors.New("abi: output too short")

// Calldata is an input buffer: a selector followed by argument words.
// Reads past the end of the buffer yield zero bytes, the same as a host
// copying call data into a zeroed buffer.
type Calldata []byte

// Selector returns the big-endian selector, zero-padded when the buffer is
// shorter than SelectorSize.
func (c Calldata) Selector() uint32 {
	var buf [SelectorSize]byte
	copy(buf[:], c)
	return binary.BigEndian.Uint32(buf[:])
}

// Arg returns argument word i, read from offset 4 + 32·i.
func (c Calldata) Arg(i int) Word {
	var w Word
	off := SelectorSize + i*WordSize
	if off < len(c) {
		copy(w[:], c[off:])
	}
	return w
}

// NumArgs returns the number of argument words present, counting a
// trailing partial word.
func (c Calldata) NumArgs() int {
	if len(c) <= SelectorSize {
		return 0
	}
	return (len(c) - SelectorSize + WordSize - 1) / WordSize
}

// Encode assembles call data from a selector and argument words.
func Encode(selector uint32, args ...Word) Calldata {
	out := make(Calldata, SelectorSize, SelectorSize+len(args)*WordSize)
	binary.BigEndian.PutUint32(out, selector)
	for _, a := range args {
		out = append(out, a[:]...)
	}
	return out
}

// Concat joins words into a single result buffer.
func Concat(words ...Word) []byte {
	out := make([]byte, 0, len(words)*WordSize)
	for _, w := range words {
		out = append(out, w[:]...)
	}
	return out
}

// Split cuts a result buffer into words. The buffer length must be a
// multiple of WordSize.
func Split(out []byte) ([]Word, error) {
	if len(out)%WordSize != 0 {
		return nil, fmt.Errorf("abi: output length %d is not a multiple of %d", len(out), WordSize)
	}
	words := make([]Word, len(out)/WordSize)
	for i := range words {
		copy(words[i][:], out[i*WordSize:])
	}
	return words, nil
}
