package procfs

import (
	"sync"

	"github.com/tklauser/go-sysconf"
)

// DefaultClockTicks is USER_HZ on every mainstream Linux build.
const DefaultClockTicks = 100

// ClockTicks reports the number of scheduler ticks per second used by the
// per-process stat counters.
type ClockTicks interface {
	TicksPerSecond() int64
}

// FixedClock is a ClockTicks with a constant rate.
type FixedClock int64

// TicksPerSecond returns the fixed rate.
func (c FixedClock) TicksPerSecond() int64 { return int64(c) }

type sysconfClock struct{}

var clkTck = sync.OnceValue(func() int64 {
	hz, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil || hz <= 0 {
		return DefaultClockTicks
	}
	return hz
})

func (sysconfClock) TicksPerSecond() int64 { return clkTck() }

// SystemClock returns the platform clock-tick rate, queried once through
// sysconf(_SC_CLK_TCK).
func SystemClock() ClockTicks { return sysconfClock{} }
