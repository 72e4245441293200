package numtheory

import "github.com/agbru/detmath/internal/sat"

// millerRabinWitnesses is a base set that makes Miller–Rabin deterministic
// for every 64-bit input.
var millerRabinWitnesses = [...]uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

// IsPrime reports whether n is prime using deterministic Miller–Rabin.
func IsPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n == 2 || n == 3 {
		return true
	}
	if n%2 == 0 || n%3 == 0 {
		return false
	}

	d := n - 1
	for d%2 == 0 {
		d /= 2
	}

	for _, a := range millerRabinWitnesses {
		if n == a {
			return true
		}
		if !passesRound(a, d, n) {
			return false
		}
	}
	return true
}

// passesRound runs a single Miller–Rabin round for witness a, where
// n-1 = d·2^s with d odd.
func passesRound(a, d, n uint64) bool {
	t := ModExp(a, d, n)
	if t == 1 {
		return true
	}
	for dt := d; dt < n-1; dt = sat.MulU64(dt, 2) {
		if t == n-1 {
			return true
		}
		t = MulMod(t, t, n)
	}
	return false
}

// Phi returns Euler's totient of n by trial division; Phi(0) = 0.
func Phi(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	result := n
	for p := uint64(2); p <= n/p; p++ {
		if n%p == 0 {
			for n%p == 0 {
				n /= p
			}
			result -= result / p
		}
	}
	if n > 1 {
		result -= result / n
	}
	return result
}
