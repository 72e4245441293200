// Package apperrors defines the structured error types of the detmath host:
// configuration, invocation, fault, server and validation errors. Each type
// carries its cause so callers can inspect the chain with errors.Is and
// errors.As.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess       = 0   // Successful execution.
	ExitErrorGeneric  = 1   // A generic error.
	ExitErrorTimeout  = 2   // The execution deadline was reached.
	ExitErrorMismatch = 3   // A result differed from its expected value.
	ExitErrorConfig   = 4   // Invalid flags, environment or arguments.
	ExitErrorFault    = 70  // The engine aborted an invocation.
	ExitErrorCanceled = 130 // Interrupted, e.g. by SIGINT.
)

// ConfigError reports invalid user configuration.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ExecutionError wraps a failure that happened while preparing or running a
// single invocation, such as a cancelled context or unparsable argument.
type ExecutionError struct {
	// Op is the operation name, or the selector in hex when the call data
	// names no known operation.
	Op string
	// Cause is the underlying error.
	Cause error
}

// Error returns the operation name followed by the cause.
func (e ExecutionError) Error() string {
	if e.Op == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the wrapped cause.
func (e ExecutionError) Unwrap() error { return e.Cause }

// NewExecutionError wraps cause for the named operation.
//
// Parameters:
//   - op: The operation name.
//   - cause: The underlying error.
//
// Returns:
//   - error: A new ExecutionError, or nil if cause is nil.
func NewExecutionError(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return ExecutionError{Op: op, Cause: cause}
}

// FaultError reports an unrecoverable invocation failure. The engine
// produced no result and the call must not be retried.
type FaultError struct {
	// Selector is the 4-byte selector of the aborted call.
	Selector uint32
	// Reason is the fault description reported by the engine.
	Reason string
}

func (e FaultError) Error() string {
	return fmt.Sprintf("invocation fault (selector 0x%08x): %s", e.Selector, e.Reason)
}

// ServerError represents errors that occur in the HTTP server component.
type ServerError struct {
	// Message is a descriptive message about the server error.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error combines the message and the cause if present.
func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a new ServerError with a message and optional cause.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// WrapError wraps err with a formatted context message using %w.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err is a cancellation or deadline error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsFault reports whether err carries a FaultError.
func IsFault(err error) bool {
	var fe FaultError
	return errors.As(err, &fe)
}

// ValidationError reports rejected input: oversized call data, a malformed
// argument, or a non-canonical word in strict mode.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message describes why validation failed.
	Message string
	// Value is the invalid value (optional, may be nil).
	Value any
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}
