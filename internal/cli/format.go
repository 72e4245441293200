package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/dispatch"
	"github.com/agbru/detmath/internal/fixedpoint"
)

// FormatResult decodes out according to the result description of op and
// returns a human-readable rendering:
//
//   - fixed-point words as decimals with two fraction digits ("1.50")
//   - booleans as true/false
//   - pairs as "(a, b)"
//   - absent options as "none"
//   - curve points as "(x, y)" or "∞"
func FormatResult(op dispatch.Operation, out []byte) (string, error) {
	if len(out) != op.Result.Size() {
		return "", fmt.Errorf("%s: result is %d bytes, want %d", op.Name, len(out), op.Result.Size())
	}
	words, err := abi.Split(out)
	if err != nil {
		return "", err
	}

	r := op.Result
	switch r.Shape {
	case dispatch.ShapeWord:
		return formatWord(words[0], r.Kind, r.Fixed), nil
	case dispatch.ShapePair:
		return fmt.Sprintf("(%s, %s)", formatWord(words[0], r.Kind, r.Fixed), formatWord(words[1], r.Kind, r.Fixed)), nil
	case dispatch.ShapeOption:
		payload, ok, err := abi.DecodeOption(out)
		if err != nil {
			return "", err
		}
		if !ok {
			return "none", nil
		}
		return formatWord(payload, r.Kind, r.Fixed), nil
	case dispatch.ShapePoint:
		p, ok, err := abi.DecodeOptionPoint(out)
		if err != nil {
			return "", err
		}
		if !ok {
			return "none", nil
		}
		return p.String(), nil
	}
	return "", fmt.Errorf("%s: unknown result shape %s", op.Name, r.Shape)
}

func formatWord(w abi.Word, kind abi.Kind, fixed bool) string {
	switch kind {
	case abi.KindU64:
		if fixed {
			return fixedpoint.Format(w.U64())
		}
		return strconv.FormatUint(w.U64(), 10)
	case abi.KindI64:
		if fixed {
			return fixedpoint.FormatSigned(w.I64())
		}
		return strconv.FormatInt(w.I64(), 10)
	case abi.KindU32:
		return strconv.FormatUint(uint64(w.U32()), 10)
	case abi.KindBool:
		return strconv.FormatBool(w.Bool())
	default:
		return w.Hex()
	}
}

// FormatWords renders out as one 0x-prefixed hex word per line. A trailing
// partial word is printed as is.
func FormatWords(out []byte) string {
	var sb strings.Builder
	for len(out) > 0 {
		n := abi.WordSize
		if len(out) < n {
			n = len(out)
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(abi.EncodeHex(out[:n]))
		out = out[n:]
	}
	return sb.String()
}

// WordStrings is FormatWords as a slice, for JSON documents.
func WordStrings(out []byte) []string {
	if len(out) == 0 {
		return nil
	}
	return strings.Split(FormatWords(out), "\n")
}
