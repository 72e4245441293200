package sat

import (
	"math"
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestUnsigned(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		got  uint64
		want uint64
	}{
		{"add", AddU64(2, 3), 5},
		{"add saturates", AddU64(math.MaxUint64, 1), math.MaxUint64},
		{"sub", SubU64(7, 3), 4},
		{"sub clamps to zero", SubU64(3, 7), 0},
		{"mul", MulU64(1<<31, 1<<31), 1 << 62},
		{"mul saturates", MulU64(1<<32, 1<<32), math.MaxUint64},
		{"mul by zero", MulU64(math.MaxUint64, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestSigned(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		got  int64
		want int64
	}{
		{"add", AddI64(-2, 5), 3},
		{"add saturates high", AddI64(math.MaxInt64, 1), math.MaxInt64},
		{"add saturates low", AddI64(math.MinInt64, -1), math.MinInt64},
		{"sub", SubI64(-2, 5), -7},
		{"sub saturates high", SubI64(math.MaxInt64, -1), math.MaxInt64},
		{"sub saturates low", SubI64(math.MinInt64, 1), math.MinInt64},
		{"mul", MulI64(-6, 7), -42},
		{"mul min by one", MulI64(math.MinInt64, 1), math.MinInt64},
		{"mul min by minus one", MulI64(math.MinInt64, -1), math.MaxInt64},
		{"mul exact min", MulI64(1<<62, -2), math.MinInt64},
		{"mul saturates high", MulI64(1<<62, 2), math.MaxInt64},
		{"mul saturates low", MulI64(-(1 << 40), 1<<40), math.MinInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}
}

// TestMulI64_PropertyBased checks the signed multiply against a big.Int
// product clamped to the int64 range.
func TestMulI64_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	minI, maxI := big.NewInt(math.MinInt64), big.NewInt(math.MaxInt64)
	properties.Property("MulI64 equals the clamped exact product", prop.ForAll(
		func(a, b int64) bool {
			exact := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
			if exact.Cmp(maxI) > 0 {
				exact.Set(maxI)
			} else if exact.Cmp(minI) < 0 {
				exact.Set(minI)
			}
			return MulI64(a, b) == exact.Int64()
		},
		gen.Int64(), gen.Int64(),
	))

	properties.TestingRun(t)
}
