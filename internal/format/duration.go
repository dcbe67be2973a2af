package format

import (
	"fmt"
	"time"

	apperrors "github.com/agbru/procmon/internal/errors"
)

// FormatElapsed renders a count of seconds as HH:MM:SS. Every field is
// zero-padded to two digits; hours keep growing past 99 rather than
// wrapping into days.
//
// Parameters:
//   - seconds: The elapsed time in whole seconds. Must not be negative.
//
// Returns:
//   - string: The formatted clock, e.g. "01:01:01" for 3661.
//   - error: A ValidationError when seconds is negative.
func FormatElapsed(seconds int64) (string, error) {
	if seconds < 0 {
		return "", apperrors.ValidationError{
			Field:   "seconds",
			Message: fmt.Sprintf("elapsed time must not be negative, got %d", seconds),
		}
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s), nil
}

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}
