package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/dispatch"
	"github.com/agbru/detmath/internal/testutil"
	"github.com/agbru/detmath/pkg/models"
)

func modexpResult(t *testing.T) Result {
	t.Helper()
	cd, err := dispatch.EncodeCall("modexp", []string{"4", "13", "497"})
	if err != nil {
		t.Fatal(err)
	}
	return NewResult(cd, dispatch.Call(cd), 1500*time.Microsecond)
}

func TestResult(t *testing.T) {
	t.Parallel()
	r := modexpResult(t)
	if r.Name() != "modexp" {
		t.Errorf("Name() = %q", r.Name())
	}
	if r.Value() != "445" {
		t.Errorf("Value() = %q", r.Value())
	}

	resp := r.Response()
	if resp.Selector != "0x01" {
		t.Errorf("Selector = %q", resp.Selector)
	}
	if len(resp.Words) != 1 || resp.Value != "445" {
		t.Errorf("unexpected response %+v", resp)
	}

	unknown := NewResult(abi.Encode(0x99), dispatch.Call(abi.Encode(0x99)), 0)
	if !strings.HasPrefix(unknown.Name(), "Selector(") {
		t.Errorf("unknown selector name %q", unknown.Name())
	}
	if unknown.Value() != (abi.Word{}).Hex() {
		t.Errorf("unknown selector value %q", unknown.Value())
	}
}

func TestFormatQuietResult(t *testing.T) {
	t.Parallel()
	r := modexpResult(t)
	if got := FormatQuietResult(r, false); got != "445" {
		t.Errorf("got %q", got)
	}
	if got := FormatQuietResult(r, true); got != abi.U64(445).Hex() {
		t.Errorf("hex got %q", got)
	}
}

func TestDisplayResultWithConfig(t *testing.T) {
	t.Parallel()
	r := modexpResult(t)

	t.Run("standard", func(t *testing.T) {
		var buf bytes.Buffer
		if err := DisplayResultWithConfig(&buf, r, OutputConfig{HexOutput: true}); err != nil {
			t.Fatal(err)
		}
		out := testutil.StripAnsiCodes(buf.String())
		for _, want := range []string{"Operation : modexp (0x01)", "Value     : 445", "Time      : 1ms", "Raw words:"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("quiet", func(t *testing.T) {
		var buf bytes.Buffer
		if err := DisplayResultWithConfig(&buf, r, OutputConfig{Quiet: true}); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "445\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := DisplayResultWithConfig(&buf, r, OutputConfig{JSON: true}); err != nil {
			t.Fatal(err)
		}
		var resp models.CallResponse
		if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if resp.Op != "modexp" || resp.Value != "445" {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "result.txt")
		var buf bytes.Buffer
		if err := DisplayResultWithConfig(&buf, r, OutputConfig{OutputFile: path, HexOutput: true}); err != nil {
			t.Fatal(err)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		text := string(content)
		if !strings.Contains(text, "# Operation: modexp (0x01)") || !strings.Contains(text, "\n445\n") {
			t.Errorf("unexpected file content:\n%s", text)
		}
		if !strings.Contains(testutil.StripAnsiCodes(buf.String()), "Result saved to: "+path) {
			t.Errorf("missing save notice: %s", buf.String())
		}
	})
}

func TestWriteResultToFileNoPath(t *testing.T) {
	t.Parallel()
	if err := WriteResultToFile(modexpResult(t), OutputConfig{}); err != nil {
		t.Errorf("expected nil error without a path, got %v", err)
	}
}
