package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/calibration"
	"github.com/agbru/detmath/internal/cli"
	"github.com/agbru/detmath/internal/config"
	"github.com/agbru/detmath/internal/dispatch"
	apperrors "github.com/agbru/detmath/internal/errors"
	"github.com/agbru/detmath/internal/logging"
	"github.com/agbru/detmath/internal/orchestration"
	"github.com/agbru/detmath/internal/server"
	"github.com/agbru/detmath/internal/service"
	"github.com/agbru/detmath/internal/ui"
)

// Application represents the detmath application instance.
// It encapsulates the configuration and the execution service and runs the
// application in one of its modes (single call, batch, server, REPL).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Service executes encoded calls for every mode.
	Service *service.ExecutionService
	// Logger receives structured diagnostics on ErrWriter.
	Logger logging.Logger
	// Profile is the saved calibration profile, or nil when none is usable.
	Profile *calibration.Profile
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	programName := "detmath"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, dispatch.Names())
	if err != nil {
		return nil, err
	}

	logger := logging.NewLevelLogger(errWriter, "detmath", cfg.LogLevel)
	svc, err := service.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		Service:   svc,
		Logger:    logger,
		Profile:   loadProfile(cfg.CalibrationProfile, logger),
		ErrWriter: errWriter,
	}, nil
}

// loadProfile returns the calibration profile at path (or the default
// location) when it exists and matches the current profile format.
func loadProfile(path string, logger logging.Logger) *calibration.Profile {
	if path == "" {
		path = calibration.GetDefaultProfilePath()
	}
	if !calibration.ProfileExists(path) {
		return nil
	}
	p, err := calibration.LoadProfile(path)
	if err != nil {
		logger.Debug("ignoring calibration profile", logging.String("path", path), logging.Err(err))
		return nil
	}
	if !p.IsValid() {
		return nil
	}
	return p
}

// Run executes the application based on the configured mode.
// Modes are checked in order: completion, server, REPL, calibration,
// batch, then single call.
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	// Respects --no-color and the NO_COLOR environment variable.
	ui.InitTheme(a.Config.NoColor)

	switch {
	case a.Config.ServerMode:
		return a.runServer(ctx)
	case a.Config.Interactive:
		return a.runREPL()
	case a.Config.Calibrate:
		return a.runCalibration(ctx, out)
	case a.Config.BatchFile != "":
		return a.runBatch(ctx, out)
	case a.Config.HasCall():
		return a.runCall(ctx, out)
	default:
		fmt.Fprintln(a.ErrWriter, "Nothing to do: pass -op, -calldata, -batch, -server or -interactive (see -help).")
		return apperrors.ExitErrorConfig
	}
}

func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, dispatch.Names()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

func (a *Application) runServer(ctx context.Context) int {
	srv := server.NewServer(a.Service, a.Config,
		server.WithLogger(a.Logger),
		server.WithVersion(Version),
	)
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func (a *Application) runREPL() int {
	repl := cli.NewREPL(a.Service, cli.REPLConfig{
		Timeout:   a.Config.Timeout,
		HexOutput: a.Config.HexOutput,
	})
	repl.Start()
	return apperrors.ExitSuccess
}

// runCalibration measures every operation and saves the profile. The
// configured timeout does not apply; only a signal stops it.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, stop := SetupSignals(ctx)
	defer stop()
	return calibration.RunCalibration(ctx, out, calibration.Options{
		ProfilePath: a.Config.CalibrationProfile,
		Save:        true,
	})
}

// runBatch loads the batch file, runs every call and prints the summary
// table or, with -json, the array of responses.
func (a *Application) runBatch(ctx context.Context, out io.Writer) int {
	entries, err := orchestration.LoadBatchFile(a.Config.BatchFile)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error loading batch: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	calls := orchestration.Prepare(entries)

	ctx, cancels := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancels.Cleanup()

	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}

	results, err := orchestration.ExecuteBatch(ctx, a.Service, calls, a.Config.Concurrency, progressOut)
	if err != nil {
		a.Logger.Debug("batch cut short", logging.Err(err), logging.Int("calls", len(calls)))
	}

	if a.Config.JSONOutput {
		if err := orchestration.WriteBatchJSON(results, out); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error encoding results: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		return orchestration.AnalyzeBatchResults(results, io.Discard)
	}
	summaryOut := out
	if a.Config.Quiet {
		summaryOut = io.Discard
	}
	return orchestration.AnalyzeBatchResults(results, summaryOut)
}

// runCall encodes and runs the single call given by -op/-args or
// -calldata.
func (a *Application) runCall(ctx context.Context, out io.Writer) int {
	cd, err := a.calldata()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		if op, ok := dispatch.ByName(a.Config.Op); ok {
			fmt.Fprintf(a.ErrWriter, "Usage: %s\n", op.Usage())
		}
		return apperrors.ExitErrorConfig
	}

	ctx, cancels := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancels.Cleanup()

	start := time.Now()
	output, err := a.Service.Execute(ctx, cd)
	duration := time.Since(start)
	if err != nil {
		return apperrors.HandleExecutionError(err, duration, out, ui.Colors{})
	}

	res := cli.NewResult(cd, output, duration)
	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		HexOutput:  a.Config.HexOutput,
		Quiet:      a.Config.Quiet,
		JSON:       a.Config.JSONOutput,
	}
	if err := cli.DisplayResultWithConfig(out, res, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if !a.Config.Quiet && !a.Config.JSONOutput {
		a.printCost(out, res.Name())
	}
	return apperrors.ExitSuccess
}

func (a *Application) calldata() ([]byte, error) {
	if a.Config.Op != "" {
		cd, err := dispatch.EncodeCall(a.Config.Op, a.Config.Args)
		if err != nil {
			return nil, err
		}
		return cd, nil
	}
	return abi.DecodeHex(a.Config.Calldata)
}

// printCost shows the calibrated weight of the operation, if known.
func (a *Application) printCost(out io.Writer, name string) {
	if a.Profile == nil {
		return
	}
	if c, ok := a.Profile.Cost(name); ok {
		fmt.Fprintf(out, "Cost      : weight %d (%.0f ns/op on %s)\n", c.Weight, c.NsPerOp, a.Profile.CPUModel)
	}
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
