package process

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/logging"
)

//go:generate mockgen -destination=mocks/mock_source.go -package=mocks github.com/agbru/procmon/internal/process SnapshotSource

// SnapshotSource reads one process. *Reader satisfies it.
type SnapshotSource interface {
	Snapshot(pid int, dir *UserDirectory) (Snapshot, error)
}

const tracerName = "github.com/agbru/procmon/internal/process"

// Collector reads a set of pids concurrently.
type Collector struct {
	source     SnapshotSource
	passwdPath string
	workers    int
	timeout    time.Duration
	logger     logging.Logger
	tracer     trace.Tracer
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithWorkers bounds the number of concurrent reads. Non-positive values
// keep the default of one worker per CPU.
func WithWorkers(n int) CollectorOption {
	return func(c *Collector) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithTimeout bounds one collection cycle. Zero disables the limit.
func WithTimeout(d time.Duration) CollectorOption {
	return func(c *Collector) { c.timeout = d }
}

// WithLogger sets the logger for skipped pids and cycle summaries.
func WithLogger(l logging.Logger) CollectorOption {
	return func(c *Collector) { c.logger = l }
}

// NewCollector creates a Collector reading through source and resolving
// user names from the password database at passwdPath.
func NewCollector(source SnapshotSource, passwdPath string, opts ...CollectorOption) *Collector {
	c := &Collector{
		source:     source,
		passwdPath: passwdPath,
		workers:    runtime.NumCPU(),
		logger:     logging.NewNopLogger(),
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect reads a snapshot of every pid in pids.
//
// The user directory is built once, before any read is dispatched, and
// shared read-only by the workers. Pids that vanish or whose records are
// malformed are counted and skipped; they never fail the cycle. Only
// cancellation of ctx, or the cycle timeout, does.
//
// The order of Collection.Processes follows pids.
func (c *Collector) Collect(ctx context.Context, pids []int) (Collection, error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "process.Collect",
		trace.WithAttributes(attribute.Int("procmon.pids", len(pids))))
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var col Collection
	dir, err := LoadUserDirectory(c.passwdPath)
	if err != nil {
		col.UsersErr = err
		c.logger.Warn("user directory unavailable, owners will be blank", logging.Err(err))
		dir = NewUserDirectory(nil)
	} else {
		c.logger.Debug("user directory loaded", logging.Int("users", dir.Len()))
	}

	slots := make([]Snapshot, len(pids))
	ok := make([]bool, len(pids))
	var vanished, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, pid := range pids {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := c.source.Snapshot(pid, dir)
			switch {
			case err == nil:
				slots[i], ok[i] = s, true
			case apperrors.IsProcessVanished(err):
				vanished.Add(1)
				c.logger.Debug("process vanished", logging.Int("pid", pid))
			default:
				failed.Add(1)
				c.logger.Debug("process skipped", logging.Int("pid", pid), logging.Err(err))
			}
			return nil
		})
	}
	waitErr := g.Wait()
	if err := ctx.Err(); err != nil || waitErr != nil {
		if err == nil {
			err = waitErr
		}
		err = c.cycleError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Collection{}, err
	}

	col.Processes = make([]Snapshot, 0, len(pids))
	for i := range slots {
		if ok[i] {
			col.Processes = append(col.Processes, slots[i])
		}
	}
	col.Vanished = int(vanished.Load())
	col.Failed = int(failed.Load())
	col.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("procmon.processes", len(col.Processes)),
		attribute.Int("procmon.vanished", col.Vanished),
		attribute.Int("procmon.failed", col.Failed),
	)
	c.logger.Debug("collection cycle",
		logging.Int("processes", len(col.Processes)),
		logging.Int("vanished", col.Vanished),
		logging.Int("failed", col.Failed),
		logging.Duration("duration", col.Duration),
	)
	return col, nil
}

func (c *Collector) cycleError(err error) error {
	if c.timeout > 0 && errors.Is(err, context.DeadlineExceeded) {
		return apperrors.TimeoutError{Operation: "process collection", Limit: c.timeout}
	}
	return err
}
