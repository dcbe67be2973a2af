package cli

import (
	"context"
	"fmt"
	"io"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/process"
	"github.com/agbru/procmon/internal/sysmon"
	"github.com/agbru/procmon/internal/ui"
)

// CycleObserver receives the outcome of each collection cycle.
// *metrics.CycleMetrics satisfies it.
type CycleObserver interface {
	Observe(col process.Collection, err error)
}

// OnceOptions configures RunOnce.
type OnceOptions struct {
	System    *sysmon.Reader
	Collector *process.Collector
	Observer  CycleObserver
	SortBy    process.SortKey
	Top       int
	// Quiet suppresses the spinner.
	Quiet bool
}

// RunOnce samples the system and every process once and prints the report
// to out. The spinner, if any, is drawn on errOut.
//
// System-wide metrics that cannot be read are reported as N/A. The run
// fails only when the process list itself cannot be enumerated or the
// collection cycle is cancelled or times out.
func RunOnce(ctx context.Context, out, errOut io.Writer, opts OnceOptions) error {
	sp := Spinner(noopSpinner{})
	if !opts.Quiet {
		sp = newSpinner(errOut)
	}
	sp.UpdateSuffix(" sampling /proc")
	sp.Start()

	sys := ReadSystemSection(opts.System)
	pids, err := opts.System.Pids()
	if err != nil {
		sp.Stop()
		return apperrors.WrapError(err, "listing processes")
	}
	sp.UpdateSuffix(fmt.Sprintf(" reading %d processes", len(pids)))
	col, err := opts.Collector.Collect(ctx, pids)
	if opts.Observer != nil {
		opts.Observer.Observe(col, err)
	}
	sp.Stop()
	if err != nil {
		return err
	}

	col.SortBy(opts.SortBy)
	return RenderReport(out, Report{
		System:     sys,
		Collection: col,
		SortBy:     opts.SortBy,
		Top:        opts.Top,
	}, ui.GetCurrentTheme())
}
