package calibration

import (
	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/dispatch"
)

// sampleArgs overrides the per-kind defaults where an operation's cost
// depends strongly on its inputs. Values are chosen near the expensive end
// of realistic use.
var sampleArgs = map[string][]string{
	"modexp":       {"982451653", "18446744073709551557", "18446744073709551533"},
	"modinv":       {"982451653", "9223372036854775783"},
	"is-prime":     {"18446744073709551557"},
	"gcd":          {"12157665459056928801", "7540113804746346429"},
	"lcm":          {"4294967311", "4294967357"},
	"factorial":    {"20"},
	"choose":       {"66", "33"},
	"phi":          {"1000000007"},
	"point-add":    {"5", "1", "6", "3", "2", "17"},
	"point-double": {"5", "1", "2", "17"},
	"trajectory":   {"450", "20", "9.81"},
}

func defaultSample(p dispatch.Param) string {
	switch {
	case p.Fixed:
		return "1234.56"
	case p.Kind == abi.KindU32:
		return "1234"
	case p.Kind == abi.KindWord:
		return "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	default:
		return "982451653"
	}
}

// SampleArgs returns the representative arguments used to time op.
func SampleArgs(op dispatch.Operation) []string {
	if args, ok := sampleArgs[op.Name]; ok {
		return args
	}
	args := make([]string, len(op.Params))
	for i, p := range op.Params {
		args[i] = defaultSample(p)
	}
	return args
}

// SampleCalldata encodes SampleArgs for op.
func SampleCalldata(op dispatch.Operation) (abi.Calldata, error) {
	return dispatch.EncodeCall(op.Name, SampleArgs(op))
}
