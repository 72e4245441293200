package dispatch

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/fixedpoint"
)

// ErrUnknownOperation is returned by EncodeCall for names outside the table.
var ErrUnknownOperation = errors.New("unknown operation")

// ArgCountError reports a call with the wrong number of arguments.
type ArgCountError struct {
	Op        string
	Got, Want int
}

func (e *ArgCountError) Error() string {
	return fmt.Sprintf("%s takes %d arguments, got %d", e.Op, e.Want, e.Got)
}

// ParseArg converts one textual argument into a word according to p.
//
// A 0x-prefixed value is always taken as a raw word, which is the only way
// to set padding bytes. Otherwise u64 parameters accept decimal or "max",
// i64 accepts a signed decimal, "min" or "max", u32 accepts decimal, and
// fixed-point parameters accept a decimal with up to two fraction digits
// ("1.5" encodes 150).
func ParseArg(p Param, s string) (abi.Word, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return abi.ParseWord(s)
	}
	lower := strings.ToLower(s)

	switch p.Kind {
	case abi.KindU64:
		if lower == "max" {
			return abi.U64(math.MaxUint64), nil
		}
		if p.Fixed {
			v, err := fixedpoint.Parse(s)
			if err != nil {
				return abi.Word{}, fmt.Errorf("%s: %w", p.Name, err)
			}
			return abi.U64(v), nil
		}
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return abi.Word{}, fmt.Errorf("%s: invalid u64 %q", p.Name, s)
		}
		return abi.U64(v), nil
	case abi.KindI64:
		switch lower {
		case "min":
			return abi.I64(math.MinInt64), nil
		case "max":
			return abi.I64(math.MaxInt64), nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return abi.Word{}, fmt.Errorf("%s: invalid i64 %q", p.Name, s)
		}
		return abi.I64(v), nil
	case abi.KindU32:
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return abi.Word{}, fmt.Errorf("%s: invalid u32 %q", p.Name, s)
		}
		return abi.U32(uint32(v)), nil
	default:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return abi.Word{}, fmt.Errorf("%s: expected 0x-prefixed hex or a decimal, got %q", p.Name, s)
		}
		return abi.U64(v), nil
	}
}

// EncodeCall builds call data for the named operation from textual
// arguments.
func EncodeCall(name string, args []string) (abi.Calldata, error) {
	op, ok := ByName(strings.ToLower(name))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	if len(args) != len(op.Params) {
		return nil, &ArgCountError{Op: op.Name, Got: len(args), Want: len(op.Params)}
	}
	words := make([]abi.Word, len(args))
	for i, a := range args {
		w, err := ParseArg(op.Params[i], a)
		if err != nil {
			return nil, err
		}
		words[i] = w
	}
	return abi.Encode(uint32(op.Selector), words...), nil
}

// Usage returns a one-line signature such as "modexp <base> <exp> <m>".
func (op Operation) Usage() string {
	var b strings.Builder
	b.WriteString(op.Name)
	for _, p := range op.Params {
		b.WriteString(" <" + p.Name + ">")
	}
	return b.String()
}
