package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/calibration"
	"github.com/agbru/detmath/internal/dispatch"
	apperrors "github.com/agbru/detmath/internal/errors"
	"github.com/agbru/detmath/internal/testutil"
	"github.com/agbru/detmath/pkg/models"
)

// newTestApp builds an Application that ignores any profile in the home
// directory. Extra arguments follow the profile flag, so a test may still
// pass its own -calibration-profile.
func newTestApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	var errBuf bytes.Buffer
	full := append([]string{"detmath", "-no-color", "-calibration-profile", filepath.Join(t.TempDir(), "absent.json")}, args...)
	app, err := New(full, &errBuf)
	if err != nil {
		t.Fatalf("New(%v) returned unexpected error: %v (stderr %q)", args, err, errBuf.String())
	}
	return app, &errBuf
}

// run executes app and returns its plain-text output and exit code.
func run(t *testing.T, app *Application) (string, int) {
	t.Helper()
	var out bytes.Buffer
	code := app.Run(context.Background(), &out)
	return testutil.StripAnsiCodes(out.String()), code
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("Valid args create application", func(t *testing.T) {
		t.Parallel()
		app, _ := newTestApp(t, "-op", "modexp", "-args", "4,13", "497")
		if app.Config.Op != "modexp" {
			t.Errorf("Op = %q, want modexp", app.Config.Op)
		}
		if want := []string{"4", "13", "497"}; strings.Join(app.Config.Args, " ") != strings.Join(want, " ") {
			t.Errorf("Args = %v, want %v", app.Config.Args, want)
		}
		if app.Service == nil || app.Logger == nil {
			t.Error("service and logger should be set")
		}
		if app.Profile != nil {
			t.Error("Profile should be nil without a profile file")
		}
	})

	t.Run("Invalid args return error", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		app, err := New([]string{"detmath", "-invalid-flag"}, &errBuf)
		if err == nil || app != nil {
			t.Errorf("New() = (%v, %v), want an error and no application", app, err)
		}
	})

	t.Run("Unknown operation is rejected", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		if _, err := New([]string{"detmath", "-op", "frobnicate"}, &errBuf); err == nil {
			t.Error("New() should reject an unknown operation")
		}
		if !strings.Contains(errBuf.String(), "unrecognized operation") {
			t.Errorf("stderr = %q", errBuf.String())
		}
	})

	t.Run("Help flag returns error", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		_, err := New([]string{"detmath", "-h"}, &errBuf)
		if !IsHelpError(err) {
			t.Errorf("IsHelpError(%v) = false, want true", err)
		}
	})

	t.Run("Nil args use default program name", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		if _, err := New(nil, &errBuf); err != nil {
			t.Errorf("New(nil) returned %v", err)
		}
	})
}

func TestRunSingleCall(t *testing.T) {
	t.Parallel()
	unknown := abi.EncodeHex(abi.Encode(0xff))

	tests := []struct {
		name     string
		args     []string
		wantCode int
		want     []string
	}{
		{"quiet", []string{"-q", "-op", "gcd", "-args", "12,18"}, apperrors.ExitSuccess, []string{"6\n"}},
		{"standard layout", []string{"-op", "modexp", "4", "13", "497"}, apperrors.ExitSuccess, []string{"Operation : modexp (0x01)", "Value     : 445"}},
		{"fixed point", []string{"-q", "-op", "mul", "-args", "1.5,2"}, apperrors.ExitSuccess, []string{"3.00"}},
		{"option absent", []string{"-q", "-op", "factorial", "21"}, apperrors.ExitSuccess, []string{"none"}},
		{"hex words", []string{"-hex", "-op", "popcount", "255"}, apperrors.ExitSuccess, []string{"Raw words:", abi.U32(8).Hex()}},
		{"unknown selector", []string{"-q", "-calldata", unknown}, apperrors.ExitSuccess, []string{(abi.Word{}).Hex()}},
		{"strict rejects short calldata", []string{"-strict", "-calldata", abi.EncodeHex(abi.Encode(uint32(dispatch.GCD), abi.U64(12)))}, apperrors.ExitErrorConfig, []string{"Status: Rejected"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			app, _ := newTestApp(t, tt.args...)
			out, code := run(t, app)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (output %q)", code, tt.wantCode, out)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q does not contain %q", out, w)
				}
			}
		})
	}
}

func TestRunSingleCallBadArguments(t *testing.T) {
	t.Parallel()
	app, errBuf := newTestApp(t, "-op", "gcd", "-args", "1")
	_, code := run(t, app)
	if code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
	if !strings.Contains(errBuf.String(), "Usage: gcd") {
		t.Errorf("stderr = %q, want usage line", errBuf.String())
	}
}

func TestRunSingleCallJSON(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t, "-json", "-op", "modexp", "-args", "4,13,497")
	out, _ := run(t, app)

	var resp models.CallResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("output is not a CallResponse: %v\n%s", err, out)
	}
	if resp.Op != "modexp" || resp.Value != "445" || resp.Selector != "0x01" {
		t.Errorf("response = %+v", resp)
	}
	if len(resp.Words) != 1 || resp.Words[0] != abi.U64(445).Hex() {
		t.Errorf("words = %v", resp.Words)
	}
}

func TestRunSingleCallCanceled(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t, "-op", "gcd", "-args", "12,18")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	if code := app.Run(ctx, &out); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}

func TestRunSingleCallOutputFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "results", "gcd.txt")
	app, _ := newTestApp(t, "-o", path, "-op", "gcd", "-args", "12,18")
	out, code := run(t, app)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "Result saved to: "+path) {
		t.Errorf("output %q lacks the save notice", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "# Operation: gcd") || !strings.Contains(string(data), "\n6\n") {
		t.Errorf("file content = %q", data)
	}
}

func TestRunShowsCalibratedCost(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	p := calibration.NewProfile()
	p.Costs = []calibration.OpCost{{Name: "gcd", Selector: uint32(dispatch.GCD), NsPerOp: 42, Weight: 3}}
	if err := p.SaveProfile(path); err != nil {
		t.Fatal(err)
	}

	app, _ := newTestApp(t, "-calibration-profile", path, "-op", "gcd", "-args", "12,18")
	if app.Profile == nil {
		t.Fatal("profile was not loaded")
	}
	out, _ := run(t, app)
	if !strings.Contains(out, "Cost      : weight 3 (42 ns/op") {
		t.Errorf("output %q lacks the cost line", out)
	}
}

func TestLoadProfileIgnoresForeignProfile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	p := calibration.NewProfile()
	p.ProfileVersion = calibration.CurrentProfileVersion + 1
	if err := p.SaveProfile(path); err != nil {
		t.Fatal(err)
	}
	app, _ := newTestApp(t, "-calibration-profile", path, "-op", "gcd", "-args", "1,2")
	if app.Profile != nil {
		t.Error("a profile from another format version should be ignored")
	}
}

func writeBatch(t *testing.T, entries []models.BatchCall) string {
	t.Helper()
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "batch.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunBatch(t *testing.T) {
	t.Parallel()
	good := []models.BatchCall{
		{Op: "gcd", Args: []string{"12", "18"}, Expect: abi.U64(6).Hex()},
		{Op: "popcount", Args: []string{"255"}},
		{Calldata: abi.EncodeHex(abi.Encode(uint32(dispatch.LCM), abi.U64(4), abi.U64(6))), Expect: abi.U64(12).Hex()},
	}
	mismatch := []models.BatchCall{
		{Op: "gcd", Args: []string{"12", "18"}, Expect: abi.U64(7).Hex()},
	}
	broken := []models.BatchCall{
		{Op: "gcd", Args: []string{"12"}},
		{Op: "popcount", Args: []string{"1"}},
	}

	tests := []struct {
		name     string
		entries  []models.BatchCall
		extra    []string
		wantCode int
		want     string
	}{
		{"all pass", good, nil, apperrors.ExitSuccess, "Batch Summary"},
		{"mismatch", mismatch, nil, apperrors.ExitErrorMismatch, "Batch Summary"},
		{"bad entry", broken, nil, apperrors.ExitErrorGeneric, "Batch Summary"},
		{"quiet", good, []string{"-q"}, apperrors.ExitSuccess, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			args := append(append([]string{}, tt.extra...), "-batch", writeBatch(t, tt.entries))
			app, _ := newTestApp(t, args...)
			out, code := run(t, app)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (output %q)", code, tt.wantCode, out)
			}
			if tt.want == "" && strings.Contains(out, "Batch Summary") {
				t.Errorf("quiet batch printed %q", out)
			}
			if tt.want != "" && !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

func TestRunBatchJSON(t *testing.T) {
	t.Parallel()
	path := writeBatch(t, []models.BatchCall{
		{Op: "gcd", Args: []string{"12", "18"}},
		{Op: "lcm", Args: []string{"4", "6"}},
	})
	app, _ := newTestApp(t, "-json", "-batch", path)
	out, _ := run(t, app)

	var resps []models.CallResponse
	if err := json.Unmarshal([]byte(out), &resps); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, out)
	}
	got := make([]string, len(resps))
	for i, r := range resps {
		got[i] = fmt.Sprintf("%s=%s", r.Op, r.Value)
	}
	if strings.Join(got, ",") != "gcd=6,lcm=12" {
		t.Errorf("batch results = %v", got)
	}
}

func TestRunBatchMissingFile(t *testing.T) {
	t.Parallel()
	app, errBuf := newTestApp(t, "-batch", filepath.Join(t.TempDir(), "missing.json"))
	_, code := run(t, app)
	if code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
	if !strings.Contains(errBuf.String(), "Error loading batch") {
		t.Errorf("stderr = %q", errBuf.String())
	}
}

func TestRunCompletion(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t, "-completion", "bash")
	out, code := run(t, app)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "_detmath_completions") || !strings.Contains(out, "modexp") {
		t.Errorf("completion script lacks expected content:\n%s", out)
	}
}

func TestRunNothingToDo(t *testing.T) {
	t.Parallel()
	app, errBuf := newTestApp(t)
	_, code := run(t, app)
	if code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
	if !strings.Contains(errBuf.String(), "Nothing to do") {
		t.Errorf("stderr = %q", errBuf.String())
	}
}

func TestSetupLifecycle(t *testing.T) {
	t.Parallel()
	ctx, cancels := SetupLifecycle(context.Background(), 10*time.Millisecond)
	defer cancels.Cleanup()

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context did not expire")
	}
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("ctx.Err() = %v, want deadline exceeded", ctx.Err())
	}
	cancels.Cleanup()
}

func TestCancelFuncsCleanupNil(t *testing.T) {
	t.Parallel()
	(&CancelFuncs{}).Cleanup()
}
