// Package apperrors provides tests for application error types.
package apperrors

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "invalid flag value"},
			expected: "invalid flag value",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("invalid value %d for flag %s", 0, "--interval"),
			expected: "invalid value 0 for flag --interval",
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestSourceUnavailableError(t *testing.T) {
	t.Parallel()
	err := SourceUnavailableError{Path: "/proc/stat", Cause: fs.ErrNotExist}

	want := "source /proc/stat unavailable: file does not exist"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should find fs.ErrNotExist through SourceUnavailableError")
	}
}

func TestKeyNotFoundError(t *testing.T) {
	t.Parallel()
	err := KeyNotFoundError{Path: "/proc/stat", Key: "procs_running"}

	want := `key "procs_running" not found in /proc/stat`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestMalformedRecordError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      MalformedRecordError
		expected string
	}{
		{
			name:     "field count",
			err:      MalformedRecordError{Path: "/proc/1/stat", Want: 22, Got: 9},
			expected: "malformed record in /proc/1/stat: want at least 22 fields, got 9",
		},
		{
			name:     "detail",
			err:      MalformedRecordError{Path: "/proc/stat", Detail: "no cpu line"},
			expected: "malformed record in /proc/stat: no cpu line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
		})
	}
}

func TestProcessVanishedError(t *testing.T) {
	t.Parallel()
	cause := SourceUnavailableError{Path: "/proc/42/status", Cause: fs.ErrNotExist}
	err := ProcessVanishedError{PID: 42, Cause: cause}

	if !IsProcessVanished(err) {
		t.Error("IsProcessVanished should be true")
	}
	if !IsProcessVanished(WrapError(err, "snapshot")) {
		t.Error("IsProcessVanished should see through WrapError")
	}
	var srcErr SourceUnavailableError
	if !errors.As(err, &srcErr) {
		t.Error("errors.As should find the SourceUnavailableError cause")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should reach fs.ErrNotExist")
	}
}

func TestDegenerateError(t *testing.T) {
	t.Parallel()
	err := DegenerateError{Metric: "memory_utilization", Detail: "MemTotal is zero"}

	want := "metric memory_utilization unavailable: MemTotal is zero"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         TimeoutError
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns formatted message",
			err:      TimeoutError{Operation: "collect", Limit: 30 * time.Second},
			expected: `operation "collect" timed out after 30s`,
		},
		{
			name:     "Error with subsecond limit",
			err:      TimeoutError{Operation: "refresh", Limit: 500 * time.Millisecond},
			expected: `operation "refresh" timed out after 500ms`,
		},
		{
			name:        "errors.As works with TimeoutError",
			err:         TimeoutError{Operation: "collect", Limit: 10 * time.Second},
			expected:    `operation "collect" timed out after 10s`,
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var err error = tt.err
			if err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, err.Error())
			}
			if tt.checkTypeAs {
				var timeoutErr TimeoutError
				if !errors.As(err, &timeoutErr) {
					t.Error("expected error to be TimeoutError type")
				}
				if timeoutErr.Limit != tt.err.Limit {
					t.Errorf("expected Limit %v, got %v", tt.err.Limit, timeoutErr.Limit)
				}
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	err := WrapError(ValidationError{Field: "seconds", Message: "must be non-negative"}, "format")

	want := `format: validation error for "seconds": must be non-negative`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatal("errors.As should find ValidationError through WrapError")
	}
	if validationErr.Field != "seconds" {
		t.Errorf("expected Field %q, got %q", "seconds", validationErr.Field)
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		original    error
		format      string
		args        []any
		expectedMsg string
		expectNil   bool
		checkIs     error
	}{
		{
			name:        "wraps error with context",
			original:    errors.New("file not found"),
			format:      "failed to load config",
			expectedMsg: "failed to load config: file not found",
		},
		{
			name:        "preserves error chain",
			original:    context.DeadlineExceeded,
			format:      "operation timed out",
			expectedMsg: "operation timed out: context deadline exceeded",
			checkIs:     context.DeadlineExceeded,
		},
		{
			name:      "returns nil for nil error",
			original:  nil,
			format:    "some context",
			expectNil: true,
		},
		{
			name:        "supports format arguments",
			original:    errors.New("permission denied"),
			format:      "reading pid %d",
			args:        []any{1},
			expectedMsg: "reading pid 1: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := WrapError(tt.original, tt.format, tt.args...)

			if tt.expectNil {
				if wrapped != nil {
					t.Error("WrapError(nil, ...) should return nil")
				}
				return
			}

			if wrapped == nil {
				t.Fatal("wrapped error should not be nil")
			}

			if wrapped.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, wrapped.Error())
			}

			if tt.checkIs != nil && !errors.Is(wrapped, tt.checkIs) {
				t.Errorf("wrapped error should preserve %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"context.Canceled", context.Canceled, true},
		{"context.DeadlineExceeded", context.DeadlineExceeded, true},
		{"wrapped context.Canceled", WrapError(context.Canceled, "operation canceled"), true},
		{"regular error", errors.New("some error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := IsContextError(tt.err)
			if result != tt.expected {
				t.Errorf("IsContextError(%v) = %v, expected %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestIsUnavailable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"source", SourceUnavailableError{Path: "/proc/meminfo", Cause: fs.ErrPermission}, true},
		{"key", KeyNotFoundError{Path: "/proc/stat", Key: "processes"}, true},
		{"malformed", MalformedRecordError{Path: "/proc/stat", Want: 10, Got: 4}, true},
		{"degenerate", DegenerateError{Metric: "cpu", Detail: "zero jiffies"}, true},
		{"vanished", ProcessVanishedError{PID: 7, Cause: fs.ErrNotExist}, true},
		{"wrapped", WrapError(KeyNotFoundError{Key: "Uid:"}, "uid"), true},
		{"config", NewConfigError("bad"), false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsUnavailable(tt.err); got != tt.expected {
				t.Errorf("IsUnavailable(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, ExitSuccess},
		{"canceled", WrapError(context.Canceled, "run"), ExitErrorCanceled},
		{"deadline", context.DeadlineExceeded, ExitErrorTimeout},
		{"timeout", TimeoutError{Operation: "collect", Limit: time.Second}, ExitErrorTimeout},
		{"config", NewConfigError("bad interval"), ExitErrorConfig},
		{"source", SourceUnavailableError{Path: "/proc/stat", Cause: fs.ErrNotExist}, ExitErrorUnavailable},
		{"generic", errors.New("boom"), ExitErrorGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCode(tt.err); got != tt.expected {
				t.Errorf("ExitCode(%v) = %d, expected %d", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	t.Parallel()
	// Verify exit codes are distinct and match expected values
	codes := map[string]int{
		"ExitSuccess":          ExitSuccess,
		"ExitErrorGeneric":     ExitErrorGeneric,
		"ExitErrorTimeout":     ExitErrorTimeout,
		"ExitErrorConfig":      ExitErrorConfig,
		"ExitErrorUnavailable": ExitErrorUnavailable,
		"ExitErrorCanceled":    ExitErrorCanceled,
	}

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess should be 0, got %d", ExitSuccess)
	}
	if ExitErrorCanceled != 130 {
		t.Errorf("ExitErrorCanceled should be 130 (SIGINT convention), got %d", ExitErrorCanceled)
	}

	seen := make(map[int]string)
	for name, code := range codes {
		if existing, ok := seen[code]; ok {
			t.Errorf("duplicate exit code %d: %s and %s", code, existing, name)
		}
		seen[code] = name
	}
}
