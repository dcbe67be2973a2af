package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess          = 0   // Indicates successful execution.
	ExitErrorGeneric     = 1   // Indicates a generic error.
	ExitErrorTimeout     = 2   // Indicates a sampling cycle timed out.
	ExitErrorConfig      = 4   // Indicates a configuration error.
	ExitErrorUnavailable = 5   // Indicates a system-wide kernel source could not be read.
	ExitErrorCanceled    = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// SourceUnavailableError reports that a kernel pseudo-file or system
// database could not be opened or read at all.
type SourceUnavailableError struct {
	// Path is the file that could not be read.
	Path string
	// Cause is the underlying I/O error.
	Cause error
}

// Error returns a formatted message naming the unreadable source.
func (e SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying I/O error.
func (e SourceUnavailableError) Unwrap() error { return e.Cause }

// KeyNotFoundError reports that a file was scanned to the end without
// finding a line keyed by Key.
type KeyNotFoundError struct {
	Path string
	Key  string
}

// Error returns a formatted message naming the missing key.
func (e KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found in %s", e.Key, e.Path)
}

// MalformedRecordError reports a record that does not have the shape the
// reader requires: too few fields, a missing marker line, or a value that
// does not parse.
type MalformedRecordError struct {
	// Path is the file holding the record.
	Path string
	// Want is the minimum number of fields required (0 when not applicable).
	Want int
	// Got is the number of fields actually present.
	Got int
	// Detail describes the defect when it is not a field count.
	Detail string
}

// Error returns a formatted message describing the malformed record.
func (e MalformedRecordError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("malformed record in %s: %s", e.Path, e.Detail)
	}
	return fmt.Sprintf("malformed record in %s: want at least %d fields, got %d", e.Path, e.Want, e.Got)
}

// ProcessVanishedError reports that the pseudo-files of a pid disappeared
// between enumeration and sampling. It is an expected, per-process condition.
type ProcessVanishedError struct {
	PID   int
	Cause error
}

// Error returns a formatted message naming the vanished pid.
func (e ProcessVanishedError) Error() string {
	return fmt.Sprintf("process %d vanished: %v", e.PID, e.Cause)
}

// Unwrap returns the underlying error.
func (e ProcessVanishedError) Unwrap() error { return e.Cause }

// DegenerateError reports a derivation whose denominator is zero or
// negative, such as a zero MemTotal. The metric cannot be determined.
type DegenerateError struct {
	// Metric is the name of the derived metric.
	Metric string
	// Detail explains which input was degenerate.
	Detail string
}

// Error returns a formatted message describing the degenerate input.
func (e DegenerateError) Error() string {
	return fmt.Sprintf("metric %s unavailable: %s", e.Metric, e.Detail)
}

// TimeoutError represents a sampling cycle timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
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
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsProcessVanished reports whether err means a pid exited before it could
// be sampled.
func IsProcessVanished(err error) bool {
	var pv ProcessVanishedError
	return errors.As(err, &pv)
}

// IsUnavailable reports whether err means a metric could not be determined,
// as opposed to a legitimate zero reading. Presentation layers use it to
// render a placeholder instead of a number.
func IsUnavailable(err error) bool {
	var (
		su SourceUnavailableError
		kn KeyNotFoundError
		mr MalformedRecordError
		dg DegenerateError
	)
	return errors.As(err, &su) || errors.As(err, &kn) ||
		errors.As(err, &mr) || errors.As(err, &dg) || IsProcessVanished(err)
}

// ExitCode maps an error to the process exit status.
//
// Parameters:
//   - err: The error returned by a run mode, or nil.
//
// Returns:
//   - int: The exit code matching the error class.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		cfgErr     ConfigError
		timeoutErr TimeoutError
		srcErr     SourceUnavailableError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case errors.As(err, &srcErr):
		return ExitErrorUnavailable
	}
	return ExitErrorGeneric
}
