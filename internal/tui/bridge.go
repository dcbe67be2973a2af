package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/metrics"
	"github.com/agbru/procmon/internal/process"
	"github.com/agbru/procmon/internal/sysmon"
)

// CycleObserver receives the outcome of each collection cycle.
type CycleObserver interface {
	Observe(col process.Collection, err error)
}

// Source bundles the readers the dashboard polls on every tick.
type Source struct {
	System    *sysmon.Reader
	Sampler   *sysmon.Sampler
	Collector *process.Collector
	// Observer and Memory are optional.
	Observer CycleObserver
	Memory   *metrics.MemoryCollector
}

// TickMsg drives the refresh loop.
type TickMsg time.Time

// IdentityMsg carries the host facts that do not change while running.
type IdentityMsg struct {
	OS        string
	OSErr     error
	Kernel    string
	KernelErr error
	Host      sysmon.HostInfo
}

// SampleMsg is the result of one refresh.
type SampleMsg struct {
	Stats      sysmon.Stats
	Collection process.Collection
	// Err is set when the process list could not be read or the cycle
	// was cancelled. Stats remain valid.
	Err  error
	Self metrics.MemorySnapshot
}

// ContextCancelledMsg reports that the parent context ended.
type ContextCancelledMsg struct {
	Err error
}

// Sample runs one refresh: system stats, then a full process collection.
func (s Source) Sample(ctx context.Context) SampleMsg {
	msg := SampleMsg{Stats: s.Sampler.Sample()}
	msg.Collection, msg.Err = s.collect(ctx)
	if s.Memory != nil {
		msg.Self = s.Memory.Snapshot()
	}
	return msg
}

func (s Source) collect(ctx context.Context) (process.Collection, error) {
	pids, err := s.System.Pids()
	if err != nil {
		return process.Collection{}, apperrors.WrapError(err, "listing processes")
	}
	col, err := s.Collector.Collect(ctx, pids)
	if s.Observer != nil {
		s.Observer.Observe(col, err)
	}
	return col, err
}

// Identity reads the OS name, kernel release and host facts.
func (s Source) Identity(ctx context.Context) IdentityMsg {
	var msg IdentityMsg
	msg.OS, msg.OSErr = s.System.OperatingSystem()
	msg.Kernel, msg.KernelErr = s.System.Kernel()
	msg.Host = sysmon.Host(ctx)
	return msg
}

func sampleCmd(ctx context.Context, src Source) tea.Cmd {
	return func() tea.Msg {
		return src.Sample(ctx)
	}
}

func identityCmd(ctx context.Context, src Source) tea.Cmd {
	return func() tea.Msg {
		return src.Identity(ctx)
	}
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
