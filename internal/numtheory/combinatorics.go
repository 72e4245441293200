package numtheory

import "github.com/agbru/detmath/internal/sat"

// MaxFactorialInput is the largest n whose factorial fits in a uint64.
const MaxFactorialInput = 20

// Factorial returns n! and true, or false when n > MaxFactorialInput.
func Factorial(n uint64) (uint64, bool) {
	if n > MaxFactorialInput {
		return 0, false
	}
	result := uint64(1)
	for i := uint64(2); i <= n; i++ {
		result = sat.MulU64(result, i)
	}
	return result, true
}

// NChooseK returns the binomial coefficient C(n, k) using the multiplicative
// formula with a running integer division. The running product saturates,
// so very large results are approximate.
func NChooseK(n, k uint64) uint64 {
	if k > n {
		return 0
	}
	if k == 0 || k == n {
		return 1
	}
	if k > n/2 {
		k = n - k
	}
	res := uint64(1)
	for i := uint64(0); i < k; i++ {
		res = sat.MulU64(res, n-i) / (i + 1)
	}
	return res
}
