package orchestration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agbru/detmath/internal/abi"
	apperrors "github.com/agbru/detmath/internal/errors"
	"github.com/agbru/detmath/internal/service"
	"github.com/agbru/detmath/internal/testutil"
	"github.com/agbru/detmath/pkg/models"
)

// MockExecutor returns canned results and tracks concurrency.
type MockExecutor struct {
	ExecuteFunc func(ctx context.Context, calldata []byte) ([]byte, error)

	inFlight, peak atomic.Int32
}

func (m *MockExecutor) Execute(ctx context.Context, calldata []byte) ([]byte, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, calldata)
	}
	w := abi.U64(7)
	return w[:], nil
}

func newService(t *testing.T) *service.ExecutionService {
	t.Helper()
	svc, err := service.NewExecutionService(service.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func hexWord(v uint64) string { return abi.U64(v).Hex() }

func TestPrepare(t *testing.T) {
	t.Parallel()
	calls := Prepare([]models.BatchCall{
		{Op: "modexp", Args: []string{"4", "13", "497"}, Expect: hexWord(445)},
		{Calldata: "0x0000001b"},
		{Op: "modexp", Args: []string{"4"}},
		{},
		{Op: "gcd", Calldata: "0x00"},
		{Calldata: "0xzz"},
		{Op: "gcd", Args: []string{"1", "2"}, Expect: "nothex"},
	})

	if calls[0].Err != nil || len(calls[0].Calldata) != 4+3*32 || len(calls[0].Expect) != 32 {
		t.Errorf("unexpected first call %+v", calls[0])
	}
	if calls[0].Label != "#1 modexp" || calls[1].Label != "#2 gcd" {
		t.Errorf("unexpected labels %q, %q", calls[0].Label, calls[1].Label)
	}
	for i := 2; i < len(calls); i++ {
		if calls[i].Err == nil {
			t.Errorf("entry %d should fail to prepare", i+1)
		}
	}
}

func TestLoadBatch(t *testing.T) {
	t.Parallel()

	calls, err := LoadBatch(strings.NewReader(`[{"op":"gcd","args":["12","18"],"expect":"0x06"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 1 || calls[0].Op != "gcd" || calls[0].Expect != "0x06" {
		t.Errorf("unexpected calls %+v", calls)
	}

	if _, err := LoadBatch(strings.NewReader(`[{"operation":"gcd"}]`)); err == nil {
		t.Error("unknown fields should be rejected")
	}

	path := filepath.Join(t.TempDir(), "batch.json")
	if err := os.WriteFile(path, []byte(`[{"calldata":"0x00000021"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	calls, err = LoadBatchFile(path)
	if err != nil || len(calls) != 1 {
		t.Fatalf("LoadBatchFile: %v %+v", err, calls)
	}
	if _, err := LoadBatchFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestExecuteBatch(t *testing.T) {
	t.Parallel()
	calls := Prepare([]models.BatchCall{
		{Op: "gcd", Args: []string{"12", "18"}, Expect: hexWord(6)},
		{Op: "lcm", Args: []string{"4", "6"}, Expect: hexWord(13)},
		{Op: "popcount", Args: []string{"255"}},
		{Op: "nope"},
	})

	results, err := ExecuteBatch(context.Background(), newService(t), calls, 2, io.Discard)
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if results[0].Failed() || results[0].Mismatched() {
		t.Errorf("gcd should match: %+v", results[0])
	}
	if !results[1].Mismatched() {
		t.Error("lcm expectation should mismatch")
	}
	if results[2].Failed() || abi.Word(results[2].Output).U32() != 8 {
		t.Errorf("popcount result %x", results[2].Output)
	}
	if !results[3].Failed() {
		t.Error("unknown op should fail")
	}
}

func TestExecuteBatchRespectsConcurrency(t *testing.T) {
	t.Parallel()
	mock := &MockExecutor{ExecuteFunc: func(context.Context, []byte) ([]byte, error) {
		time.Sleep(5 * time.Millisecond)
		return make([]byte, 32), nil
	}}
	entries := make([]models.BatchCall, 12)
	for i := range entries {
		entries[i] = models.BatchCall{Calldata: "0x00000021"}
	}

	results, err := ExecuteBatch(context.Background(), mock, Prepare(entries), 3, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 12 {
		t.Fatalf("expected 12 results, got %d", len(results))
	}
	if peak := mock.peak.Load(); peak > 3 {
		t.Errorf("peak concurrency %d exceeds limit 3", peak)
	}
}

func TestExecuteBatchCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := ExecuteBatch(ctx, newService(t), Prepare([]models.BatchCall{
		{Op: "gcd", Args: []string{"1", "2"}},
		{Op: "gcd", Args: []string{"3", "4"}},
	}), 0, io.Discard)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	for _, r := range results {
		if !r.Failed() {
			t.Errorf("%s should be marked failed", r.Label)
		}
	}
	if code := AnalyzeBatchResults(results, io.Discard); code != apperrors.ExitErrorCanceled {
		t.Errorf("expected canceled exit code, got %d", code)
	}
}

func TestAnalyzeBatchResults(t *testing.T) {
	t.Parallel()
	ok := CallResult{Call: Call{Label: "#1 gcd", Calldata: abi.Encode(0x1B, abi.U64(12), abi.U64(18))}, Output: abi.Concat(abi.U64(6))}
	matched := ok
	matched.Expect = abi.Concat(abi.U64(6))
	mismatched := ok
	mismatched.Expect = abi.Concat(abi.U64(5))
	failed := CallResult{Call: Call{Label: "#2 nope", Err: errors.New("unknown operation")}}
	fault := CallResult{Call: Call{Label: "#3", Err: apperrors.FaultError{Selector: 1, Reason: "bad"}}}

	tests := []struct {
		name     string
		results  []CallResult
		wantCode int
		wantText string
	}{
		{"all succeed", []CallResult{ok, matched}, apperrors.ExitSuccess, "Success. All calls completed."},
		{"mismatch wins", []CallResult{failed, mismatched}, apperrors.ExitErrorMismatch, "MISMATCH"},
		{"failure", []CallResult{ok, failed}, apperrors.ExitErrorGeneric, "1 call(s) did not complete"},
		{"fault", []CallResult{fault}, apperrors.ExitErrorFault, "Failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if code := AnalyzeBatchResults(tt.results, &buf); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			out := testutil.StripAnsiCodes(buf.String())
			if !strings.Contains(out, tt.wantText) {
				t.Errorf("summary missing %q:\n%s", tt.wantText, out)
			}
			if !strings.Contains(out, "Batch Summary") {
				t.Error("missing summary header")
			}
		})
	}
}

func TestWriteBatchJSON(t *testing.T) {
	t.Parallel()
	results, err := ExecuteBatch(context.Background(), newService(t), Prepare([]models.BatchCall{
		{Op: "factorial", Args: []string{"5"}},
		{Op: "gcd", Args: []string{"1"}},
		{Op: "gcd", Args: []string{"4", "6"}, Expect: hexWord(3)},
	}), 2, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteBatchJSON(results, &buf); err != nil {
		t.Fatal(err)
	}
	var docs []models.CallResponse
	if err := json.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	if docs[0].Value != "120" || docs[0].Error != "" {
		t.Errorf("factorial doc %+v", docs[0])
	}
	if docs[1].Error == "" || docs[1].Output != "" {
		t.Errorf("failed call doc %+v", docs[1])
	}
	if docs[2].Value != "2" || docs[2].Error == "" {
		t.Errorf("mismatch doc %+v", docs[2])
	}
}
