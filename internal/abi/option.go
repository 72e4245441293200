package abi

import (
	"math"

	"github.com/agbru/detmath/internal/curve"
)

// Optional results are two words: a presence flag followed by the payload.
// Absent values carry a zero payload.

// OptionU64 encodes an optional uint64.
func OptionU64(v uint64, ok bool) []byte {
	if !ok {
		return Concat(Bool(false), Word{})
	}
	return Concat(Bool(true), U64(v))
}

// OptionI64 encodes an optional int64.
func OptionI64(v int64, ok bool) []byte {
	if !ok {
		return Concat(Bool(false), Word{})
	}
	return Concat(Bool(true), I64(v))
}

// OptionU32 encodes an optional uint32.
func OptionU32(v uint32, ok bool) []byte {
	if !ok {
		return Concat(Bool(false), Word{})
	}
	return Concat(Bool(true), U32(v))
}

// DecodeOption splits an optional encoding into its payload word and
// presence flag.
func DecodeOption(out []byte) (Word, bool, error) {
	if len(out) < 2*WordSize {
		return Word{}, false, ErrShortOutput
	}
	words, err := Split(out[:2*WordSize])
	if err != nil {
		return Word{}, false, err
	}
	return words[1], words[0].Bool(), nil
}

// infinityWord is the coordinate sentinel for the point at infinity.
var infinityWord = U64(math.MaxUint64)

// DecodePoint reads a point from two coordinate words. The pair
// (MaxUint64, MaxUint64), compared over all 32 bytes, denotes Infinity.
func DecodePoint(x, y Word) curve.Point {
	if x == infinityWord && y == infinityWord {
		return curve.Infinity()
	}
	return curve.Affine(x.U64(), y.U64())
}

// PointWords returns the two coordinate words for p.
func PointWords(p curve.Point) (x, y Word) {
	if p.IsInfinity() {
		return infinityWord, infinityWord
	}
	px, py := p.XY()
	return U64(px), U64(py)
}

// OptionPoint encodes an optional point as presence, x and y words.
func OptionPoint(p curve.Point, ok bool) []byte {
	if !ok {
		return Concat(Bool(false), Word{}, Word{})
	}
	x, y := PointWords(p)
	return Concat(Bool(true), x, y)
}

// DecodeOptionPoint is the inverse of OptionPoint.
func DecodeOptionPoint(out []byte) (curve.Point, bool, error) {
	if len(out) < 3*WordSize {
		return curve.Point{}, false, ErrShortOutput
	}
	words, err := Split(out[:3*WordSize])
	if err != nil {
		return curve.Point{}, false, err
	}
	if !words[0].Bool() {
		return curve.Point{}, false, nil
	}
	return DecodePoint(words[1], words[2]), true, nil
}
