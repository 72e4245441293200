package orchestration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/detmath/internal/cli"
	apperrors "github.com/agbru/detmath/internal/errors"
	"github.com/agbru/detmath/internal/parallel"
	"github.com/agbru/detmath/internal/ui"
	"github.com/agbru/detmath/pkg/models"
)

// CallResult is the outcome of one batch entry.
type CallResult struct {
	Call
	Output   []byte
	Duration time.Duration
}

// Failed reports whether the call did not produce a result.
func (r CallResult) Failed() bool { return r.Err != nil }

// Mismatched reports whether the call produced a result that differs from
// its expectation.
func (r CallResult) Mismatched() bool {
	return r.Err == nil && r.Expect != nil && !bytes.Equal(r.Output, r.Expect)
}

// Executor runs raw call data. service.Service satisfies it.
type Executor interface {
	Execute(ctx context.Context, calldata []byte) ([]byte, error)
}

// ExecuteBatch runs calls with at most concurrency in flight and returns
// their results in input order. Per-call failures are stored in the
// results. The returned error is the context error when the batch was cut
// short; calls that had not started by then are marked with it.
//
// Progress is drawn on out while the batch runs.
func ExecuteBatch(ctx context.Context, exec Executor, calls []Call, concurrency int, out io.Writer) ([]CallResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]CallResult, len(calls))
	completed := make(chan struct{}, len(calls))

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, completed, len(calls), out)

	var aborted parallel.ErrorCollector
	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, c := range calls {
		g.Go(func() error {
			defer func() { completed <- struct{}{} }()
			results[i] = CallResult{Call: c}
			if c.Err != nil {
				return nil
			}
			if err := ctx.Err(); err != nil {
				aborted.SetError(err)
				results[i].Err = err
				return nil
			}
			start := time.Now()
			output, err := exec.Execute(ctx, c.Calldata)
			results[i].Duration = time.Since(start)
			results[i].Output = output
			if err != nil {
				if apperrors.IsContextError(err) {
					aborted.SetError(err)
				}
				results[i].Err = err
			}
			return nil
		})
	}

	_ = g.Wait()
	close(completed)
	displayWg.Wait()

	return results, aborted.Err()
}

// AnalyzeBatchResults prints a per-call table and a global status line.
//
// Returns:
//   - int: ExitErrorMismatch if any expectation failed; for failed calls,
//     the timeout, canceled or fault code of the first failure, else
//     ExitErrorGeneric; ExitSuccess otherwise.
func AnalyzeBatchResults(results []CallResult, out io.Writer) int {
	theme := ui.GetCurrentTheme()
	var firstErr error
	failures, mismatches, checked := 0, 0, 0

	fmt.Fprintf(out, "\n--- Batch Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sCall%s\t%sValue%s\t%sDuration%s\t%sStatus%s\n",
		theme.Bold, theme.Reset, theme.Bold, theme.Reset, theme.Bold, theme.Reset, theme.Bold, theme.Reset)

	for _, res := range results {
		var value, status string
		switch {
		case res.Failed():
			failures++
			if firstErr == nil {
				firstErr = res.Err
			}
			value = "-"
			status = ui.Paint(theme.Error, fmt.Sprintf("❌ Failure (%v)", res.Err))
		case res.Mismatched():
			checked++
			mismatches++
			value = cli.NewResult(res.Calldata, res.Output, res.Duration).Value()
			status = ui.Paint(theme.Error, "❌ Mismatch")
		case res.Expect != nil:
			checked++
			value = cli.NewResult(res.Calldata, res.Output, res.Duration).Value()
			status = ui.Paint(theme.Success, "✅ Match")
		default:
			value = cli.NewResult(res.Calldata, res.Output, res.Duration).Value()
			status = ui.Paint(theme.Success, "✅ Success")
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			ui.Paint(theme.Primary, res.Label), ui.Paint(theme.Value, value),
			ui.Paint(theme.Warning, duration), status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	fmt.Fprintf(out, "\n%d calls, %d failed, %d of %d expectations mismatched.\n",
		len(results), failures, mismatches, checked)

	switch {
	case mismatches > 0:
		fmt.Fprintf(out, "Global Status: %s\n", ui.Paint(theme.Error, "MISMATCH. At least one call did not produce its expected output."))
		return apperrors.ExitErrorMismatch
	case failures > 0:
		fmt.Fprintf(out, "Global Status: Failure. %d call(s) did not complete.\n", failures)
		if apperrors.IsContextError(firstErr) || apperrors.IsFault(firstErr) {
			return apperrors.ExitCode(firstErr)
		}
		return apperrors.ExitErrorGeneric
	}
	fmt.Fprintf(out, "Global Status: %s\n", ui.Paint(theme.Success, "Success. All calls completed."))
	return apperrors.ExitSuccess
}

// WriteBatchJSON writes results as an array of models.CallResponse.
func WriteBatchJSON(results []CallResult, out io.Writer) error {
	docs := make([]models.CallResponse, len(results))
	for i, res := range results {
		doc := cli.NewResult(res.Calldata, res.Output, res.Duration).Response()
		if res.Err != nil {
			doc.Output, doc.Words, doc.Value = "", nil, ""
			doc.Error = res.Err.Error()
		} else if res.Mismatched() {
			doc.Error = "output does not match expectation"
		}
		docs[i] = doc
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}
