// Package config defines the procmon configuration and its resolution from
// command-line flags, environment variables and an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/process"
	"github.com/agbru/procmon/internal/procfs"
)

// EnvPrefix is prepended to every environment variable procmon reads.
const EnvPrefix = "PROCMON_"

// Defaults.
const (
	DefaultInterval = time.Second
	DefaultTimeout  = 5 * time.Second
	DefaultTop      = 25
	DefaultSortBy   = string(process.SortCPU)
	DefaultEnvFile  = ".env"

	// MinInterval keeps the refresh loop from spinning on the proc files.
	MinInterval = 100 * time.Millisecond
)

// AppConfig is the resolved configuration of one procmon invocation.
type AppConfig struct {
	// Interval is the dashboard refresh period.
	Interval time.Duration
	// Timeout bounds a single collection cycle. Zero disables it.
	Timeout time.Duration
	// Once prints a single report and exits instead of running the dashboard.
	Once  bool
	Quiet bool
	// Top limits the process table. Zero shows every process.
	Top     int
	SortBy  string
	Workers int

	ProcRoot      string
	OSReleasePath string
	PasswdPath    string

	NoColor   bool
	LogLevel  string
	LogFormat string
	LogFile   string

	// MetricsAddr, when set, serves Prometheus metrics on that address.
	MetricsAddr string
	// Completion names a shell to print a completion script for.
	Completion string
	EnvFile    string
	Version    bool
}

// FS returns the source locations selected by the configuration.
func (c AppConfig) FS() procfs.FS {
	return procfs.FS{ProcRoot: c.ProcRoot, OSReleasePath: c.OSReleasePath, PasswdPath: c.PasswdPath}
}

// SortKey returns the validated sort key.
func (c AppConfig) SortKey() process.SortKey {
	k, err := process.ParseSortKey(c.SortBy)
	if err != nil {
		return process.SortCPU
	}
	return k
}

var (
	logLevels   = []string{"debug", "info", "warn", "error"}
	logFormats  = []string{"json", "console", "text"}
	completions = []string{"bash", "zsh", "fish"}
)

// Validate checks the configuration for values procmon cannot run with.
func (c AppConfig) Validate() error {
	switch {
	case c.Interval < MinInterval:
		return apperrors.NewConfigError("interval must be at least %s, got %s", MinInterval, c.Interval)
	case c.Timeout < 0:
		return apperrors.NewConfigError("timeout must not be negative, got %s", c.Timeout)
	case c.Top < 0:
		return apperrors.NewConfigError("top must not be negative, got %d", c.Top)
	case c.Workers < 0:
		return apperrors.NewConfigError("workers must not be negative, got %d", c.Workers)
	case c.ProcRoot == "":
		return apperrors.NewConfigError("proc root must not be empty")
	case !slices.Contains(logLevels, strings.ToLower(c.LogLevel)):
		return apperrors.NewConfigError("unknown log level %q (want %s)", c.LogLevel, strings.Join(logLevels, ", "))
	case !slices.Contains(logFormats, c.LogFormat):
		return apperrors.NewConfigError("unknown log format %q (want %s)", c.LogFormat, strings.Join(logFormats, ", "))
	case c.Completion != "" && !slices.Contains(completions, c.Completion):
		return apperrors.NewConfigError("unsupported shell %q (want %s)", c.Completion, strings.Join(completions, ", "))
	}
	if _, err := process.ParseSortKey(c.SortBy); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	return nil
}

// ParseConfig resolves the configuration from args, the environment and a
// .env file, in that order of priority, then validates it.
//
// Parameters:
//   - programName: The name shown in usage output.
//   - args: The command-line arguments, without the program name.
//   - errorWriter: Where usage and flag errors are written.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: flag.ErrHelp when -h was given, or a ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [flags]\n\nA terminal process and system monitor backed by procfs.\n\nFlags:\n", programName)
		fs.PrintDefaults()
		fmt.Fprintf(errorWriter, "\nEvery flag can also be set through %s<NAME> or a .env file.\n", EnvPrefix)
	}

	config := AppConfig{}
	fs.DurationVar(&config.Interval, "interval", DefaultInterval, "Refresh interval of the dashboard.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum duration of one sampling cycle (0 disables).")
	fs.BoolVar(&config.Once, "once", false, "Print a single report and exit.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Suppress the progress spinner.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.IntVar(&config.Top, "top", DefaultTop, "Number of processes to show (0 for all).")
	fs.IntVar(&config.Top, "n", DefaultTop, "Shorthand for --top.")
	fs.StringVar(&config.SortBy, "sort", DefaultSortBy, "Process ordering: cpu, ram, age or pid.")
	fs.IntVar(&config.Workers, "workers", 0, "Concurrent process readers (0 for one per CPU).")
	fs.StringVar(&config.ProcRoot, "proc-root", procfs.DefaultProcRoot, "Mount point of the proc filesystem.")
	fs.StringVar(&config.OSReleasePath, "os-release", procfs.DefaultOSReleasePath, "Path of the os-release file.")
	fs.StringVar(&config.PasswdPath, "passwd", procfs.DefaultPasswdPath, "Path of the password database.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colours.")
	fs.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn or error.")
	fs.StringVar(&config.LogFormat, "log-format", "json", "Log format: json, console or text.")
	fs.StringVar(&config.LogFile, "log-file", "", "Write logs to this file (dashboard logs are discarded otherwise).")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9120.")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script for bash, zsh or fish.")
	fs.StringVar(&config.EnvFile, "env-file", DefaultEnvFile, "Optional .env file with "+EnvPrefix+" variables.")
	fs.BoolVar(&config.Version, "version", false, "Print version information and exit.")
	fs.BoolVar(&config.Version, "V", false, "Shorthand for --version.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	lookup, err := envLookup(config.EnvFile, isFlagSet(fs, "env-file"))
	if err != nil {
		return AppConfig{}, err
	}
	applyEnvOverrides(&config, fs, lookup)
	config.LogLevel = strings.ToLower(config.LogLevel)
	config.SortBy = strings.ToLower(config.SortBy)

	if config.Version || config.Completion != "" {
		return config, nil
	}
	if err := config.Validate(); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}
