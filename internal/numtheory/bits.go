package numtheory

import "math/bits"

// Log2Floor returns floor(log2(n)), or false for n == 0.
func Log2Floor(n uint64) (uint32, bool) {
	if n == 0 {
		return 0, false
	}
	return uint32(63 - bits.LeadingZeros64(n)), true
}

// Log10Floor returns floor(log10(n)); Log10Floor(0) is 0.
func Log10Floor(n uint64) uint32 {
	var count uint32
	for n >= 10 {
		n /= 10
		count++
	}
	return count
}

// Popcount returns the number of set bits in n.
func Popcount(n uint64) uint32 {
	return uint32(bits.OnesCount64(n))
}

// ReverseBits reverses the bit order of n.
func ReverseBits(n uint64) uint64 {
	return bits.Reverse64(n)
}

// RotateLeft rotates n left by k mod 64 bits.
func RotateLeft(n uint64, k uint32) uint64 {
	return bits.RotateLeft64(n, int(k%64))
}

// RotateRight rotates n right by k mod 64 bits.
func RotateRight(n uint64, k uint32) uint64 {
	return bits.RotateLeft64(n, -int(k%64))
}

// CLMul returns the 128-bit carry-less product of a and b as its high and
// low halves.
func CLMul(a, b uint64) (hi, lo uint64) {
	for i := uint(0); i < 64; i++ {
		if (b>>i)&1 == 0 {
			continue
		}
		lo ^= a << i
		if i > 0 {
			hi ^= a >> (64 - i)
		}
	}
	return hi, lo
}

// ConstantTimeEq reports whether a and b are equal. For equal lengths the
// running time does not depend on where the first difference occurs;
// unequal lengths return false immediately.
func ConstantTimeEq(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var acc byte
	for i := range a {
		acc |= a[i] ^ b[i]
	}
	return acc == 0
}
