// Package numtheory implements number-theoretic and bit-level primitives
// over 64-bit integers: modular arithmetic, primality, combinatorics, bit
// utilities and carry-less multiplication.
package numtheory

import (
	"math/bits"

	"github.com/agbru/detmath/internal/sat"
)

// MulMod returns a*b mod m using a 128-bit product. m must be non-zero.
func MulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}

// AddMod returns (a+b) mod m without intermediate overflow. m must be non-zero.
func AddMod(a, b, m uint64) uint64 {
	sum, carry := bits.Add64(a%m, b%m, 0)
	return bits.Rem64(carry, sum, m)
}

// ModExp returns base^exp mod m by square-and-multiply. A modulus of 0 or 1
// yields 0.
func ModExp(base, exp, m uint64) uint64 {
	if m <= 1 {
		return 0
	}
	result := uint64(1)
	b := base % m
	for exp > 0 {
		if exp&1 == 1 {
			result = MulMod(result, b, m)
		}
		exp >>= 1
		b = MulMod(b, b, m)
	}
	return result
}

// GCD returns the greatest common divisor of a and b. GCD(a, 0) = a.
func GCD(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns the least common multiple of a and b, saturating on overflow.
// It is 0 when either argument is 0.
func LCM(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	return sat.MulU64(a/GCD(a, b), b)
}

// ExtendedGCD returns g, x, y with a*x + b*y = g, following the classic
// Euclidean recurrence. Intermediate products wrap.
func ExtendedGCD(a, b int64) (g, x, y int64) {
	// Each step maps (a, b) to (b%a, a); the Bézout pair for the current
	// level is recovered from the next as (y' - (b/a)*x', x').
	x0, y0 := int64(0), int64(1)
	x1, y1 := int64(1), int64(0)
	for a != 0 {
		q := b / a
		a, b = b%a, a
		x0, x1 = x1, x0-q*x1
		y0, y1 = y1, y0-q*y1
	}
	return b, x0, y0
}

// ModInv returns the inverse of a modulo m when it exists. For m > 0 the
// result is in [0, m); a negative m yields a value in (m, 0]. It reports
// false for m == 0 or when gcd(a, m) != 1.
func ModInv(a, m int64) (int64, bool) {
	if m == 0 {
		return 0, false
	}
	g, x, _ := ExtendedGCD(a, m)
	if g != 1 {
		return 0, false
	}
	return (x%m + m) % m, true
}
