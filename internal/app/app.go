package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/procmon/internal/cli"
	"github.com/agbru/procmon/internal/config"
	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/logging"
	"github.com/agbru/procmon/internal/metrics"
	"github.com/agbru/procmon/internal/process"
	"github.com/agbru/procmon/internal/procfs"
	"github.com/agbru/procmon/internal/server"
	"github.com/agbru/procmon/internal/sysmon"
	"github.com/agbru/procmon/internal/tui"
	"github.com/agbru/procmon/internal/ui"
)

// Application represents the procmon application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// Clock overrides the kernel clock rate; nil queries sysconf.
	Clock procfs.ClockTicks
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithClock fixes the clock tick rate used for process times.
func WithClock(c procfs.ClockTicks) AppOption {
	return func(a *Application) { a.Clock = c }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "procmon"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode and returns
// the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	switch {
	case a.Config.Version:
		PrintVersion(out)
		return apperrors.ExitSuccess
	case a.Config.Completion != "":
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor)

	logger, closeLog, err := a.newLogger()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCode(err)
	}
	defer closeLog()

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	err = a.run(ctx, out, logger)
	switch {
	case err == nil:
	case apperrors.IsContextError(err) && ctx.Err() != nil:
		logger.Info("procmon interrupted", logging.Err(err))
		fmt.Fprintln(a.ErrWriter, "Interrupted.")
	default:
		logger.Error("procmon failed", err)
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
	}
	return apperrors.ExitCode(err)
}

// run wires the sampling layer and hands it to the selected mode.
func (a *Application) run(ctx context.Context, out io.Writer, logger logging.Logger) error {
	cfg := a.Config
	fsys := cfg.FS()
	sys := sysmon.NewReader(fsys)
	reader := process.NewReader(fsys, sys, a.Clock)
	cycles := metrics.NewCycleMetrics()
	collector := process.NewCollector(reader, fsys.PasswdPath,
		process.WithWorkers(cfg.Workers),
		process.WithTimeout(cfg.Timeout),
		process.WithLogger(logger),
	)

	if cfg.MetricsAddr != "" {
		stop, err := a.startMetricsServer(ctx, sys, cycles, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	logger.Debug("starting",
		logging.String("proc_root", fsys.ProcRoot),
		logging.Int("top", cfg.Top),
		logging.String("sort", cfg.SortBy),
		logging.Duration("interval", cfg.Interval),
	)

	if cfg.Once {
		return cli.RunOnce(ctx, out, a.ErrWriter, cli.OnceOptions{
			System:    sys,
			Collector: collector,
			Observer:  cycles,
			SortBy:    cfg.SortKey(),
			Top:       cfg.Top,
			Quiet:     cfg.Quiet,
		})
	}
	return tui.Run(ctx, tui.Source{
		System:    sys,
		Sampler:   sysmon.NewSampler(sys),
		Collector: collector,
		Observer:  cycles,
		Memory:    metrics.NewMemoryCollector(),
	}, tui.Options{
		Interval: cfg.Interval,
		SortBy:   cfg.SortKey(),
		Top:      cfg.Top,
		Version:  Version,
	})
}

// startMetricsServer binds the metrics address before any sampling starts
// so a busy port fails the run immediately. The returned function stops
// the server and waits for it.
func (a *Application) startMetricsServer(ctx context.Context, sys *sysmon.Reader, cycles *metrics.CycleMetrics, logger logging.Logger) (func(), error) {
	ln, err := net.Listen("tcp", a.Config.MetricsAddr)
	if err != nil {
		return nil, apperrors.WrapError(err, "metrics listener")
	}
	reg := metrics.NewRegistry(metrics.NewSystemCollector(sys), cycles)
	srv := server.New(reg, logger)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ctx, ln); err != nil {
			logger.Error("metrics server stopped", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}, nil
}

// newLogger builds the logger for this run. The dashboard owns the
// terminal, so without --log-file its logs are discarded.
func (a *Application) newLogger() (logging.Logger, func(), error) {
	cfg := a.Config
	var w io.Writer = a.ErrWriter
	closeFn := func() {}
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, apperrors.NewConfigError("opening log file: %v", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	case !cfg.Once:
		w = io.Discard
	}

	logger, err := logging.New(logging.Options{
		Writer:    w,
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Component: "procmon",
	})
	if err != nil {
		closeFn()
		return nil, nil, apperrors.NewConfigError("%v", err)
	}
	return logger, closeFn, nil
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
