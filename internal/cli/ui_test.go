package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"
)

type mockSpinner struct {
	mu      sync.Mutex
	started bool
	stopped bool
	suffix  string
}

func (m *mockSpinner) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
}

func (m *mockSpinner) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

func (m *mockSpinner) UpdateSuffix(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suffix = s
}

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{500 * time.Nanosecond, "0µs"},
		{10 * time.Microsecond, "10µs"},
		{10 * time.Millisecond, "10ms"},
		{2 * time.Second, "2s"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.d); got != tt.expected {
			t.Errorf("FormatExecutionDuration(%v) = %s; want %s", tt.d, got, tt.expected)
		}
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress float64
		want     string
	}{
		{0, "░░░░"},
		{0.5, "██░░"},
		{1, "████"},
		{1.7, "████"},
		{-1, "░░░░"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.progress, 4); got != tt.want {
			t.Errorf("progressBar(%v) = %q; want %q", tt.progress, got, tt.want)
		}
	}
}

func TestBatchProgress(t *testing.T) {
	t.Parallel()
	p := NewBatchProgress(4)
	if p.ETA() != 0 {
		t.Error("ETA should be zero before the first completion")
	}
	p.Complete()
	if got := p.Fraction(); got != 0.25 {
		t.Errorf("Fraction() = %v", got)
	}
	if p.ETA() <= 0 {
		t.Error("ETA should be positive mid-batch")
	}
	for i := 0; i < 10; i++ {
		p.Complete()
	}
	done, total := p.Counts()
	if done != 4 || total != 4 {
		t.Errorf("Counts() = %d/%d; completion must not exceed total", done, total)
	}
	if p.ETA() != 0 {
		t.Error("ETA should be zero when done")
	}
	if NewBatchProgress(0).Fraction() != 1 {
		t.Error("an empty batch is complete")
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	tests := map[time.Duration]string{
		0:                             "calculating...",
		500 * time.Millisecond:        "< 1s",
		42 * time.Second:              "42s",
		2*time.Minute + 5*time.Second: "2m05s",
		3*time.Hour + 7*time.Minute:   "3h07m",
	}
	for eta, want := range tests {
		if got := FormatETA(eta); got != want {
			t.Errorf("FormatETA(%v) = %q; want %q", eta, got, want)
		}
	}
}

// TestDisplayProgress replaces the spinner factory, so it does not run in
// parallel with other tests.
func TestDisplayProgress(t *testing.T) {
	mock := &mockSpinner{}
	orig := newSpinner
	newSpinner = func(...spinner.Option) Spinner { return mock }
	defer func() { newSpinner = orig }()

	var out bytes.Buffer
	var wg sync.WaitGroup
	completed := make(chan struct{})
	wg.Add(1)
	go DisplayProgress(&wg, completed, 3, &out)
	for i := 0; i < 3; i++ {
		completed <- struct{}{}
	}
	close(completed)
	wg.Wait()

	if !mock.started || !mock.stopped {
		t.Errorf("spinner started=%v stopped=%v", mock.started, mock.stopped)
	}
	if !strings.Contains(out.String(), "Calls: 3/3") {
		t.Errorf("unexpected final line %q", out.String())
	}
}

func TestDisplayProgressNoCalls(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	completed := make(chan struct{})
	wg.Add(1)
	go DisplayProgress(&wg, completed, 0, &bytes.Buffer{})
	close(completed)
	wg.Wait()
}
