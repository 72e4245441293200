// Package abi encodes and decodes the binary calling convention: a 4-byte
// big-endian selector followed by 32-byte big-endian words.
//
// Scalars occupy the low 8 bytes (u64, i64) or low 4 bytes (u32) of a word.
// Decoding ignores the high bytes; encoding always zeroes them.
package abi

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// WordSize is the size in bytes of every argument and result field.
	WordSize = 32
	// SelectorSize is the size in bytes of the operation selector.
	SelectorSize = 4
)

// Word is a single 32-byte big-endian field.
type Word [WordSize]byte

// Kind describes how a word's payload is interpreted.
type Kind int

// Supported payload kinds.
const (
	KindU64 Kind = iota
	KindI64
	KindU32
	KindBool
	// KindWord is an uninterpreted 32-byte value.
	KindWord
)

func (k Kind) String() string {
	switch k {
	case KindU64:
		return "u64"
	case KindI64:
		return "i64"
	case KindU32:
		return "u32"
	case KindBool:
		return "bool"
	case KindWord:
		return "bytes32"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// U64 encodes v in the low 8 bytes.
func U64(v uint64) Word {
	var w Word
	binary.BigEndian.PutUint64(w[24:], v)
	return w
}

// I64 encodes v in the low 8 bytes as two's complement. The high bytes stay
// zero, so negative values are not sign-extended.
func I64(v int64) Word {
	return U64(uint64(v))
}

// U32 encodes v in the low 4 bytes.
func U32(v uint32) Word {
	var w Word
	binary.BigEndian.PutUint32(w[28:], v)
	return w
}

// Bool encodes true as 1 and false as 0.
func Bool(b bool) Word {
	var w Word
	if b {
		w[31] = 1
	}
	return w
}

// U64 decodes the low 8 bytes.
func (w Word) U64() uint64 { return binary.BigEndian.Uint64(w[24:]) }

// I64 decodes the low 8 bytes as two's complement.
func (w Word) I64() int64 { return int64(w.U64()) }

// U32 decodes the low 4 bytes.
func (w Word) U32() uint32 { return binary.BigEndian.Uint32(w[28:]) }

// Bool reports whether the least significant byte is non-zero.
func (w Word) Bool() bool { return w[31] != 0 }

// IsZero reports whether every byte is zero.
func (w Word) IsZero() bool { return w == Word{} }

// IsCanonical reports whether the bytes outside the payload region of k are
// zero. Boolean words must also hold 0 or 1.
func (w Word) IsCanonical(k Kind) bool {
	var payload int
	switch k {
	case KindU64, KindI64:
		payload = 8
	case KindU32:
		payload = 4
	case KindBool:
		payload = 1
	default:
		return true
	}
	for _, b := range w[:WordSize-payload] {
		if b != 0 {
			return false
		}
	}
	return k != KindBool || w[31] <= 1
}

// Hex returns the word as 0x-prefixed lowercase hex.
func (w Word) Hex() string {
	return "0x" + hex.EncodeToString(w[:])
}

// ParseWord decodes up to 32 bytes of hex (with or without 0x prefix),
// right-aligned into a word.
func ParseWord(s string) (Word, error) {
	var w Word
	raw, err := DecodeHex(s)
	if err != nil {
		return w, err
	}
	if len(raw) > WordSize {
		return w, fmt.Errorf("word too long: %d bytes", len(raw))
	}
	copy(w[WordSize-len(raw):], raw)
	return w, nil
}

// DecodeHex decodes a hex string with an optional 0x prefix. An odd number
// of digits is left-padded with a zero.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return raw, nil
}

// EncodeHex returns b as 0x-prefixed lowercase hex.
func EncodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
