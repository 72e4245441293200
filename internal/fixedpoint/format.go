package fixedpoint

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

var maxUint64Decimal = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// Decimal converts a scale-100 unsigned value to its exact decimal form.
func Decimal(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), -2)
}

// DecimalSigned converts a scale-100 signed value to its exact decimal form.
func DecimalSigned(v int64) decimal.Decimal {
	return decimal.New(v, -2)
}

// Format renders v as a decimal string with two fraction digits, e.g. 150 -> "1.50".
func Format(v uint64) string {
	return Decimal(v).StringFixed(2)
}

// FormatSigned renders a signed scale-100 value, e.g. -5 -> "-0.05".
func FormatSigned(v int64) string {
	return DecimalSigned(v).StringFixed(2)
}

// Parse converts a decimal string such as "1.5" into its scale-100 value.
// Negative numbers, more than two fraction digits, and values above
// math.MaxUint64 after scaling are rejected.
func Parse(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid fixed-point value %q: %w", s, err)
	}
	scaled := d.Shift(2)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("invalid fixed-point value %q: more than two fraction digits", s)
	}
	if scaled.IsNegative() {
		return 0, fmt.Errorf("invalid fixed-point value %q: negative", s)
	}
	if scaled.GreaterThan(maxUint64Decimal) {
		return 0, fmt.Errorf("invalid fixed-point value %q: out of range", s)
	}
	return scaled.BigInt().Uint64(), nil
}

// ParseSigned converts a decimal string into a signed scale-100 value.
func ParseSigned(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid fixed-point value %q: %w", s, err)
	}
	scaled := d.Shift(2)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("invalid fixed-point value %q: more than two fraction digits", s)
	}
	bi := scaled.BigInt()
	if !bi.IsInt64() {
		return 0, fmt.Errorf("invalid fixed-point value %q: out of range", s)
	}
	return bi.Int64(), nil
}
