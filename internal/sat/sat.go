// Package sat provides saturating integer arithmetic for 64-bit values.
// Results clamp to the representable range instead of wrapping.
package sat

import (
	"math"
	"math/bits"
)

// AddU64 returns a+b, clamped to math.MaxUint64.
func AddU64(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// SubU64 returns a-b, clamped to zero.
func SubU64(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// MulU64 returns a*b, clamped to math.MaxUint64.
func MulU64(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// AddI64 returns a+b, clamped to [math.MinInt64, math.MaxInt64].
func AddI64(a, b int64) int64 {
	sum := a + b
	// Overflow happened iff both operands share a sign the result does not.
	if (a >= 0) == (b >= 0) && (sum >= 0) != (a >= 0) {
		if a >= 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return sum
}

// SubI64 returns a-b, clamped to [math.MinInt64, math.MaxInt64].
func SubI64(a, b int64) int64 {
	diff := a - b
	if (a >= 0) != (b >= 0) && (diff >= 0) != (a >= 0) {
		if a >= 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return diff
}

// MulI64 returns a*b, clamped to [math.MinInt64, math.MaxInt64].
func MulI64(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	negative := (a < 0) != (b < 0)
	hi, lo := bits.Mul64(absU64(a), absU64(b))
	if negative {
		// The magnitude of MinInt64 is 1<<63, one past MaxInt64.
		if hi != 0 || lo > 1<<63 {
			return math.MinInt64
		}
		return int64(-lo)
	}
	if hi != 0 || lo > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(lo)
}

// absU64 returns |v| as an unsigned value; it is exact for math.MinInt64.
func absU64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}
