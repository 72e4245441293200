package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/detmath/internal/ui"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the batch
	// progress line.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// FormatExecutionDuration formats a time.Duration for display. It shows
// microseconds below a millisecond, milliseconds below a second, and the
// default representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// Color functions return ANSI escape codes from the current theme.

func ColorReset() string   { return ui.GetCurrentTheme().Reset }
func ColorRed() string     { return ui.GetCurrentTheme().Error }
func ColorGreen() string   { return ui.GetCurrentTheme().Success }
func ColorYellow() string  { return ui.GetCurrentTheme().Warning }
func ColorBlue() string    { return ui.GetCurrentTheme().Primary }
func ColorMagenta() string { return ui.GetCurrentTheme().Value }
func ColorCyan() string    { return ui.GetCurrentTheme().Secondary }
func ColorBold() string    { return ui.GetCurrentTheme().Bold }

// Spinner abstracts a terminal spinner so progress display can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts *spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// BatchProgress counts completed calls and estimates the time remaining
// from the average completion rate so far. It is safe for concurrent use.
type BatchProgress struct {
	mu    sync.Mutex
	total int
	done  int
	start time.Time
}

// NewBatchProgress starts tracking a batch of total calls.
func NewBatchProgress(total int) *BatchProgress {
	return &BatchProgress{total: total, start: time.Now()}
}

// Complete records one finished call and returns the completed fraction.
func (p *BatchProgress) Complete() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done < p.total {
		p.done++
	}
	return p.fraction()
}

// Fraction returns the completed share in [0, 1].
func (p *BatchProgress) Fraction() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fraction()
}

func (p *BatchProgress) fraction() float64 {
	if p.total <= 0 {
		return 1
	}
	return float64(p.done) / float64(p.total)
}

// ETA estimates the remaining time. It is zero until a call has finished
// and once the batch is complete; it is capped at 24 hours.
func (p *BatchProgress) ETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == 0 || p.done >= p.total {
		return 0
	}
	perCall := time.Since(p.start) / time.Duration(p.done)
	eta := perCall * time.Duration(p.total-p.done)
	if eta > 24*time.Hour || eta < 0 {
		eta = 24 * time.Hour
	}
	return eta
}

// Counts returns completed and total calls.
func (p *BatchProgress) Counts() (done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.total
}

// FormatETA renders an ETA for the progress line.
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		return fmt.Sprintf("%dm%02ds", int(eta.Minutes()), int(eta.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%02dm", int(eta.Hours()), int(eta.Minutes())%60)
	}
}

// progressBar generates a textual progress bar of the given width.
func progressBar(progress float64, length int) string {
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0.0 {
		progress = 0.0
	}
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// DisplayProgress renders a spinner and progress bar for a running batch
// until completed is closed. Each receive on completed marks one call as
// finished. It is meant to run in its own goroutine and calls wg.Done on
// return.
func DisplayProgress(wg *sync.WaitGroup, completed <-chan struct{}, total int, out io.Writer) {
	defer wg.Done()
	if total <= 0 {
		for range completed {
		}
		return
	}

	state := NewBatchProgress(total)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	stopped := false
	defer func() {
		if !stopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case _, ok := <-completed:
			if !ok {
				s.Stop()
				stopped = true
				done, _ := state.Counts()
				fmt.Fprintf(out, "Calls: %d/%d [%s] done\n", done, total, progressBar(state.Fraction(), ProgressBarWidth))
				return
			}
			state.Complete()
		case <-ticker.C:
			done, _ := state.Counts()
			s.UpdateSuffix(fmt.Sprintf(" Calls: %d/%d [%s] ETA: %s",
				done, total, progressBar(state.Fraction(), ProgressBarWidth), FormatETA(state.ETA())))
		}
	}
}
