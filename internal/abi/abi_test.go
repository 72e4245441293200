package abi

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/detmath/internal/curve"
)

func TestScalarWords(t *testing.T) {
	t.Parallel()

	w := U64(0x0102030405060708)
	assert.Equal(t, byte(0x01), w[24])
	assert.Equal(t, byte(0x08), w[31])
	assert.True(t, w.IsCanonical(KindU64))
	assert.Equal(t, uint64(0x0102030405060708), w.U64())

	neg := I64(-2)
	assert.Equal(t, int64(-2), neg.I64())
	assert.Equal(t, byte(0), neg[23], "negative values are not sign-extended")

	assert.Equal(t, uint32(0xDEADBEEF), U32(0xDEADBEEF).U32())
	assert.True(t, Bool(true).Bool())
	assert.False(t, Bool(false).Bool())
	assert.Equal(t, byte(1), Bool(true)[31])
	assert.True(t, Word{}.IsZero())
}

func TestHighBytesIgnoredOnDecode(t *testing.T) {
	t.Parallel()

	w := U64(7)
	w[0] = 0xFF
	assert.Equal(t, uint64(7), w.U64())
	assert.False(t, w.IsCanonical(KindU64))

	u := U32(9)
	u[27] = 1
	assert.Equal(t, uint32(9), u.U32())
	assert.False(t, u.IsCanonical(KindU32))
	assert.True(t, u.IsCanonical(KindWord))

	b := Bool(false)
	b[31] = 2
	assert.False(t, b.IsCanonical(KindBool))
}

func TestCalldata(t *testing.T) {
	t.Parallel()

	cd := Encode(0x01, U64(4), U64(13), U64(497))
	require.Len(t, cd, 4+3*32)
	assert.Equal(t, uint32(1), cd.Selector())
	assert.Equal(t, uint64(13), cd.Arg(1).U64())
	assert.Equal(t, 3, cd.NumArgs())

	// Missing arguments read as zero.
	assert.True(t, cd.Arg(3).IsZero())

	short := Calldata{0x00, 0x00}
	assert.Equal(t, uint32(0), short.Selector())
	assert.Equal(t, 0, short.NumArgs())

	partial := append(Encode(0x02), 0x00, 0x05)
	assert.Equal(t, 1, partial.NumArgs())
	arg := partial.Arg(0)
	assert.Equal(t, byte(0x05), arg[1])
	assert.Equal(t, uint64(0), arg.U64())
}

func TestHex(t *testing.T) {
	t.Parallel()

	w, err := ParseWord("0x2a")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), w.U64())

	w, err = ParseWord("fff")
	require.NoError(t, err)
	assert.Equal(t, uint64(0xfff), w.U64())

	_, err = ParseWord("0xzz")
	assert.Error(t, err)

	long := make([]byte, 66)
	for i := range long {
		long[i] = 'a'
	}
	_, err = ParseWord(string(long))
	assert.Error(t, err)

	assert.Equal(t, "0x0a0b", EncodeHex([]byte{0x0a, 0x0b}))
	assert.Len(t, U64(1).Hex(), 2+64)
}

func TestSplit(t *testing.T) {
	t.Parallel()

	words, err := Split(Concat(U64(1), U64(2)))
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, uint64(2), words[1].U64())

	_, err = Split(make([]byte, 33))
	assert.Error(t, err)
}

func TestOptionEncoding(t *testing.T) {
	t.Parallel()

	out := OptionU64(0, false)
	require.Len(t, out, 64)
	assert.Equal(t, make([]byte, 64), out)

	payload, ok, err := DecodeOption(OptionI64(-7, true))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(-7), payload.I64())

	payload, ok, err = DecodeOption(OptionU32(5, true))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(5), payload.U32())

	_, _, err = DecodeOption(make([]byte, 32))
	assert.ErrorIs(t, err, ErrShortOutput)
}

func TestPointEncoding(t *testing.T) {
	t.Parallel()

	out := OptionPoint(curve.Infinity(), true)
	require.Len(t, out, 96)
	x, y := PointWords(curve.Infinity())
	assert.Equal(t, uint64(math.MaxUint64), x.U64())
	assert.Equal(t, uint64(math.MaxUint64), y.U64())

	p, ok, err := DecodeOptionPoint(out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, p.IsInfinity())

	p, ok, err = DecodeOptionPoint(OptionPoint(curve.Affine(5, 1), true))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, curve.Affine(5, 1), p)

	_, ok, err = DecodeOptionPoint(OptionPoint(curve.Point{}, false))
	require.NoError(t, err)
	assert.False(t, ok)

	// The sentinel is compared over the full word: dirty high bytes make
	// it an ordinary coordinate.
	dirty := U64(math.MaxUint64)
	dirty[0] = 1
	assert.False(t, DecodePoint(dirty, U64(math.MaxUint64)).IsInfinity())
}

// TestOptionRoundTrip_PropertyBased checks that optional scalars and points
// survive encoding and decoding, present or absent.
func TestOptionRoundTrip_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("Option<u64> round-trips", prop.ForAll(
		func(v uint64, present bool) bool {
			payload, ok, err := DecodeOption(OptionU64(v, present))
			if err != nil || ok != present {
				return false
			}
			if !present {
				return payload.IsZero()
			}
			return payload.U64() == v
		},
		gen.UInt64(), gen.Bool(),
	))

	properties.Property("Option<Point> round-trips", prop.ForAll(
		func(x, y uint64, infinity, present bool) bool {
			want := curve.Affine(x, y)
			if infinity || (x == math.MaxUint64 && y == math.MaxUint64) {
				want = curve.Infinity()
			}
			got, ok, err := DecodeOptionPoint(OptionPoint(want, present))
			if err != nil || ok != present {
				return false
			}
			return !present || got == want
		},
		gen.UInt64(), gen.UInt64(), gen.Bool(), gen.Bool(),
	))

	properties.TestingRun(t)
}
