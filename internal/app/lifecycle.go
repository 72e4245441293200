package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// SetupContext bounds ctx by timeout. The returned cancel function should
// be deferred.
//
// Parameters:
//   - ctx: The parent context.
//   - timeout: The duration after which the context will be canceled.
//
// Returns:
//   - context.Context: A new context with the timeout applied.
//   - context.CancelFunc: A function to cancel the context (should be deferred).
func SetupContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// SetupSignals returns a context canceled on SIGINT or SIGTERM, so a
// running batch or calibration stops between calls.
//
// Parameters:
//   - ctx: The parent context.
//
// Returns:
//   - context.Context: A new context that will be canceled on signal receipt.
//   - context.CancelFunc: A function to stop listening for signals (should be deferred).
func SetupSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}

// SetupLifecycle combines the call timeout with signal handling: the
// returned context ends on whichever comes first.
//
// Parameters:
//   - ctx: The parent context.
//   - timeout: The maximum duration for the operation.
//
// Returns:
//   - context.Context: A context with both timeout and signal handling.
//   - CancelFuncs: A struct containing both cancel functions for cleanup.
func SetupLifecycle(ctx context.Context, timeout time.Duration) (context.Context, *CancelFuncs) {
	ctx, cancelTimeout := SetupContext(ctx, timeout)
	ctx, stopSignals := SetupSignals(ctx)

	return ctx, &CancelFuncs{
		CancelTimeout: cancelTimeout,
		StopSignals:   stopSignals,
	}
}

// CancelFuncs holds the cancel functions returned by SetupLifecycle.
type CancelFuncs struct {
	// CancelTimeout cancels the timeout context.
	CancelTimeout context.CancelFunc
	// StopSignals stops listening for OS signals.
	StopSignals context.CancelFunc
}

// Cleanup stops signal delivery, then cancels the timeout.
func (c *CancelFuncs) Cleanup() {
	if c.StopSignals != nil {
		c.StopSignals()
	}
	if c.CancelTimeout != nil {
		c.CancelTimeout()
	}
}
