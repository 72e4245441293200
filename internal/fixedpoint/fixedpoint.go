// Package fixedpoint implements scale-100 decimal arithmetic on 64-bit
// integers. A stored value v represents v/100. Unsigned operations saturate
// on overflow; the signed helpers compute through a 128-bit intermediate
// and keep the low 64 bits of the quotient.
package fixedpoint

import (
	"math"
	"math/bits"

	"github.com/agbru/detmath/internal/sat"
)

// Scale is the fixed-point denominator.
const Scale = 100

// Mul returns a*b/100 with a saturating product.
func Mul(a, b uint64) uint64 {
	return sat.MulU64(a, b) / Scale
}

// Div returns a*100/b with a saturating numerator. Division by zero yields 0.
func Div(a, b uint64) uint64 {
	if b == 0 {
		return 0
	}
	return sat.MulU64(a, Scale) / b
}

// Square returns Mul(n, n).
func Square(n uint64) uint64 {
	return Mul(n, n)
}

// Sqrt returns the fixed-point square root of n, i.e. floor(sqrt(n*100))
// with n*100 saturated. It runs Newton's iteration from ceil(n*100/2).
func Sqrt(n uint64) uint64 {
	s := sat.MulU64(n, Scale)
	if s == 0 {
		return 0
	}
	x := s
	// ceil(x/2) without the x+1 overflow at MaxUint64.
	y := x>>1 + x&1
	for y < x {
		x = y
		y = (x + s/x) / 2
	}
	return x
}

// Clamp bounds value to [min, max]. The ordering of min and max is not
// checked; when min > max, values below min return min.
func Clamp(value, min, max uint64) uint64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Lerp interpolates from start toward end by t percent, t clamped to [0, 100].
func Lerp(start, end, t uint64) uint64 {
	if t > Scale {
		t = Scale
	}
	if start < end {
		return start + sat.MulU64(end-start, t)/Scale
	}
	return start - sat.MulU64(start-end, t)/Scale
}

// MulSigned returns the low 64 bits of (a*b)/100, computed exactly in 128
// bits and truncated toward zero.
func MulSigned(a, b int64) int64 {
	return mulDiv(a, b, Scale)
}

// DivSigned returns the low 64 bits of (a*100)/b. A zero divisor yields
// math.MaxInt64.
func DivSigned(a, b int64) int64 {
	if b == 0 {
		return math.MaxInt64
	}
	return mulDiv(a, Scale, b)
}

// SquareSigned returns MulSigned(a, a).
func SquareSigned(a int64) int64 {
	return mulDiv(a, a, Scale)
}

// mulDiv computes trunc(a*b/d) over 128-bit signed integers and returns the
// low 64 bits of the quotient. d must be non-zero.
func mulDiv(a, b, d int64) int64 {
	negative := (a < 0) != (b < 0) != (d < 0)
	hi, lo := bits.Mul64(magnitude(a), magnitude(b))
	ud := magnitude(d)
	// bits.Div64 requires the high word below the divisor.
	_, rem := bits.Div64(0, hi, ud)
	q, _ := bits.Div64(rem, lo, ud)
	if negative {
		return int64(-q)
	}
	return int64(q)
}

func magnitude(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}
