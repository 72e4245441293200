package cli

import (
	"strings"
	"testing"

	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/dispatch"
)

func mustOp(t *testing.T, name string) dispatch.Operation {
	t.Helper()
	op, ok := dispatch.ByName(name)
	if !ok {
		t.Fatalf("operation %q not found", name)
	}
	return op
}

func invoke(t *testing.T, name string, args ...string) []byte {
	t.Helper()
	cd, err := dispatch.EncodeCall(name, args)
	if err != nil {
		t.Fatalf("EncodeCall(%s, %v): %v", name, args, err)
	}
	return dispatch.Call(cd)
}

func TestFormatResult(t *testing.T) {
	t.Parallel()
	tests := []struct {
		op   string
		args []string
		want string
	}{
		{"modexp", []string{"4", "13", "497"}, "445"},
		{"mul", []string{"1.5", "2.5"}, "3.75"},
		{"sin", []string{"300"}, "0.50"},
		{"cross", []string{"0", "1", "1", "0"}, "-1.00"},
		{"is-prime", []string{"7"}, "true"},
		{"in-circle", []string{"5", "5", "0", "0", "1"}, "false"},
		{"popcount", []string{"255"}, "8"},
		{"factorial", []string{"5"}, "120"},
		{"factorial", []string{"21"}, "none"},
		{"log2", []string{"0"}, "none"},
		{"modinv", []string{"3", "7"}, "5"},
		{"clmul", []string{"3", "3"}, "(0, 5)"},
		{"vec-add", []string{"1", "2", "3", "4"}, "(4.00, 6.00)"},
		{"point-double", []string{"5", "1", "2", "17"}, "(6, 3)"},
		{"point-add", []string{"5", "1", "5", "16", "2", "17"}, "∞"},
		{"point-add", []string{"5", "1", "6", "3", "2", "0"}, "none"},
	}

	for _, tt := range tests {
		t.Run(tt.op+" "+strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()
			got, err := FormatResult(mustOp(t, tt.op), invoke(t, tt.op, tt.args...))
			if err != nil {
				t.Fatalf("FormatResult: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatResultRejectsWrongSize(t *testing.T) {
	t.Parallel()
	_, err := FormatResult(mustOp(t, "clmul"), make([]byte, abi.WordSize))
	if err == nil {
		t.Fatal("expected an error for a one-word clmul result")
	}
}

func TestFormatWords(t *testing.T) {
	t.Parallel()
	out := abi.Concat(abi.U64(1), abi.U64(2))
	lines := WordStrings(out)
	if len(lines) != 2 {
		t.Fatalf("expected 2 words, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[1], "02") || len(lines[1]) != 66 {
		t.Errorf("unexpected second word %q", lines[1])
	}
	if got := FormatWords([]byte{0xab}); got != "0xab" {
		t.Errorf("partial word: got %q", got)
	}
	if WordStrings(nil) != nil {
		t.Error("empty output should have no words")
	}
}
