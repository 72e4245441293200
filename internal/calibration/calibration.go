package calibration

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/agbru/detmath/internal/cli"
	"github.com/agbru/detmath/internal/dispatch"
	apperrors "github.com/agbru/detmath/internal/errors"
	"github.com/agbru/detmath/internal/ui"
)

const (
	// DefaultIterations is the number of calls timed per round.
	DefaultIterations = 2000
	// DefaultRounds is the number of timed rounds per operation; the median
	// round is kept.
	DefaultRounds = 5
)

// Options controls a calibration run.
type Options struct {
	Iterations int
	Rounds     int
	// ProfilePath is where the profile is saved; empty selects the default.
	ProfilePath string
	// Save writes the profile after a successful run.
	Save bool
}

func (o Options) withDefaults() Options {
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	if o.Rounds <= 0 {
		o.Rounds = DefaultRounds
	}
	return o
}

// callFunc is the dispatcher under measurement. Tests replace it.
type callFunc func([]byte) []byte

// Calibrate times every operation on its sample arguments and returns the
// cost table, ordered by selector. One value is sent on completed per
// finished operation; completed may be nil.
func Calibrate(ctx context.Context, opts Options, completed chan<- struct{}) (*Profile, error) {
	return calibrate(ctx, dispatch.Call, opts, completed)
}

func calibrate(ctx context.Context, call callFunc, opts Options, completed chan<- struct{}) (*Profile, error) {
	opts = opts.withDefaults()
	start := time.Now()
	profile := NewProfile()
	profile.Iterations = opts.Iterations
	profile.Rounds = opts.Rounds

	for _, op := range dispatch.Operations() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cd, err := SampleCalldata(op)
		if err != nil {
			return nil, fmt.Errorf("sample for %s: %w", op.Name, err)
		}
		profile.Costs = append(profile.Costs, OpCost{
			Name:     op.Name,
			Selector: uint32(op.Selector),
			NsPerOp:  measure(call, cd, opts.Iterations, opts.Rounds),
		})
		if completed != nil {
			completed <- struct{}{}
		}
	}

	assignWeights(profile.Costs)
	profile.CalibrationTime = time.Since(start).String()
	return profile, nil
}

// measure returns the median ns/op over rounds of iterations calls.
func measure(call callFunc, cd []byte, iterations, rounds int) float64 {
	perRound := make([]float64, rounds)
	for r := range perRound {
		begin := time.Now()
		for i := 0; i < iterations; i++ {
			call(cd)
		}
		perRound[r] = float64(time.Since(begin).Nanoseconds()) / float64(iterations)
	}
	sort.Float64s(perRound)
	return perRound[len(perRound)/2]
}

// assignWeights sets each Weight to ceil(NsPerOp / cheapest), at least 1.
func assignWeights(costs []OpCost) {
	cheapest := math.Inf(1)
	for _, c := range costs {
		if c.NsPerOp > 0 && c.NsPerOp < cheapest {
			cheapest = c.NsPerOp
		}
	}
	for i := range costs {
		w := uint64(1)
		if !math.IsInf(cheapest, 1) && costs[i].NsPerOp > cheapest {
			w = uint64(math.Ceil(costs[i].NsPerOp / cheapest))
		}
		costs[i].Weight = w
	}
}

// RunCalibration runs a full calibration with a progress display, prints
// the cost table and saves the profile when opts.Save is set.
//
// Returns:
//   - int: The exit code (0 for success, non-zero for errors).
func RunCalibration(ctx context.Context, out io.Writer, opts Options) int {
	opts = opts.withDefaults()
	fmt.Fprintf(out, "--- Calibration Mode: measuring %d operations (%d rounds of %d calls) ---\n",
		len(dispatch.Operations()), opts.Rounds, opts.Iterations)

	completed := make(chan struct{}, len(dispatch.Operations()))
	var wg sync.WaitGroup
	wg.Add(1)
	go cli.DisplayProgress(&wg, completed, len(dispatch.Operations()), out)

	start := time.Now()
	profile, err := Calibrate(ctx, opts, completed)
	close(completed)
	wg.Wait()

	if err != nil {
		if apperrors.IsContextError(err) {
			fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", cli.ColorYellow(), cli.ColorReset())
		}
		return apperrors.HandleExecutionError(err, time.Since(start), out, ui.Colors{})
	}

	printCalibrationResults(out, profile)

	if opts.Save {
		path := opts.ProfilePath
		if path == "" {
			path = GetDefaultProfilePath()
		}
		if err := profile.SaveProfile(path); err != nil {
			fmt.Fprintf(out, "%sWarning: %v%s\n", cli.ColorYellow(), err, cli.ColorReset())
			return apperrors.ExitErrorGeneric
		}
		fmt.Fprintf(out, "\n%s✅ Profile saved to %s%s\n", cli.ColorGreen(), path, cli.ColorReset())
	}
	return apperrors.ExitSuccess
}
