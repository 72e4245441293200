package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies terminal colour codes without importing the ui
// package.
type ColorProvider interface {
	Yellow() string
	Red() string
	Reset() string
}

// DefaultColorProvider provides no color codes (for non-terminal output).
type DefaultColorProvider struct{}

func (DefaultColorProvider) Yellow() string { return "" }
func (DefaultColorProvider) Red() string    { return "" }
func (DefaultColorProvider) Reset() string  { return "" }

// ExitCode maps err to a process exit status without printing anything.
func ExitCode(err error) int {
	var (
		cfg   ConfigError
		valid ValidationError
		fault FaultError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &fault):
		return ExitErrorFault
	case errors.As(err, &cfg), errors.As(err, &valid):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}

// HandleExecutionError prints a status line for a failed invocation and
// returns the matching exit code.
//
// Parameters:
//   - err: The error that occurred.
//   - duration: Time spent before the failure; zero omits it.
//   - out: Destination for the message.
//   - colors: Colour codes, or nil for none.
//
// Returns:
//   - int: The exit code from ExitCode.
func HandleExecutionError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	code := ExitCode(err)
	if code == ExitSuccess {
		return code
	}
	if colors == nil {
		colors = DefaultColorProvider{}
	}

	msgSuffix := ""
	if duration > 0 {
		msgSuffix = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", msgSuffix)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), msgSuffix, colors.Reset())
	case ExitErrorFault:
		fmt.Fprintf(out, "%sStatus: Fault. The invocation was aborted and produced no result: %v%s\n", colors.Red(), err, colors.Reset())
	case ExitErrorConfig:
		fmt.Fprintf(out, "Status: Rejected. %v\n", err)
	default:
		fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
	}
	return code
}
