package config

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/process"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig("procmon", nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Interval != DefaultInterval || cfg.Timeout != DefaultTimeout || cfg.Top != DefaultTop {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.ProcRoot != "/proc" || cfg.OSReleasePath != "/etc/os-release" || cfg.PasswdPath != "/etc/passwd" {
		t.Errorf("unexpected source paths: %+v", cfg.FS())
	}
	if cfg.SortKey() != process.SortCPU || cfg.LogFormat != "json" || cfg.LogLevel != "info" {
		t.Errorf("unexpected presentation defaults: %+v", cfg)
	}
}

func TestParseConfig_Flags(t *testing.T) {
	args := []string{
		"--interval", "250ms", "--timeout", "0", "--once", "-q", "-n", "5",
		"--sort", "RAM", "--workers", "3", "--proc-root", "/host/proc",
		"--log-level", "DEBUG", "--log-format", "console", "--metrics-addr", ":9120",
	}
	cfg, err := ParseConfig("procmon", args, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	want := AppConfig{
		Interval: 250 * time.Millisecond, Timeout: 0, Once: true, Quiet: true, Top: 5,
		SortBy: "ram", Workers: 3, ProcRoot: "/host/proc", OSReleasePath: "/etc/os-release",
		PasswdPath: "/etc/passwd", LogLevel: "debug", LogFormat: "console",
		MetricsAddr: ":9120", EnvFile: DefaultEnvFile,
	}
	if cfg != want {
		t.Errorf("ParseConfig() =\n%+v\nwant\n%+v", cfg, want)
	}
	if cfg.SortKey() != process.SortRAM {
		t.Errorf("SortKey() = %s", cfg.SortKey())
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"INTERVAL", "2s")
	t.Setenv(EnvPrefix+"TOP", "7")
	t.Setenv(EnvPrefix+"SORT", "age")
	t.Setenv(EnvPrefix+"QUIET", "yes")
	t.Setenv(EnvPrefix+"WORKERS", "not-a-number")

	cfg, err := ParseConfig("procmon", []string{"--top", "3"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Interval != 2*time.Second {
		t.Errorf("Interval = %s, want env value 2s", cfg.Interval)
	}
	if cfg.Top != 3 {
		t.Errorf("Top = %d, want flag value 3 over env", cfg.Top)
	}
	if cfg.SortBy != "age" || !cfg.Quiet {
		t.Errorf("SortBy=%q Quiet=%v", cfg.SortBy, cfg.Quiet)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, invalid env value should be ignored", cfg.Workers)
	}
}

func TestParseConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "procmon.env")
	content := "PROCMON_PROC_ROOT=/fixture/proc\nPROCMON_TOP=12\nPROCMON_LOG_LEVEL=warn\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPrefix+"TOP", "40")

	cfg, err := ParseConfig("procmon", []string{"--env-file", path}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.ProcRoot != "/fixture/proc" || cfg.LogLevel != "warn" {
		t.Errorf(".env values not applied: %+v", cfg)
	}
	if cfg.Top != 40 {
		t.Errorf("Top = %d, process environment should win over .env", cfg.Top)
	}

	_, err = ParseConfig("procmon", []string{"--env-file", filepath.Join(dir, "missing.env")}, &bytes.Buffer{})
	var ce apperrors.ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("explicit missing env file error = %v, want ConfigError", err)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--frobnicate"}},
		{"positional argument", []string{"extra"}},
		{"interval too short", []string{"--interval", "10ms"}},
		{"negative timeout", []string{"--timeout", "-1s"}},
		{"negative top", []string{"--top", "-1"}},
		{"negative workers", []string{"--workers", "-2"}},
		{"bad sort", []string{"--sort", "memory"}},
		{"bad log level", []string{"--log-level", "trace"}},
		{"bad log format", []string{"--log-format", "xml"}},
		{"empty proc root", []string{"--proc-root", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig("procmon", tt.args, &bytes.Buffer{})
			var ce apperrors.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("error = %v, want ConfigError", err)
			}
			if apperrors.ExitCode(err) != apperrors.ExitErrorConfig {
				t.Errorf("exit code = %d", apperrors.ExitCode(err))
			}
		})
	}
}

func TestParseConfig_Help(t *testing.T) {
	var buf bytes.Buffer
	_, err := ParseConfig("procmon", []string{"-h"}, &buf)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("error = %v, want flag.ErrHelp", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Usage: procmon")) || !bytes.Contains(buf.Bytes(), []byte(EnvPrefix)) {
		t.Errorf("usage output = %s", buf.String())
	}
}

func TestParseConfig_CompletionAndVersionSkipValidation(t *testing.T) {
	cfg, err := ParseConfig("procmon", []string{"--completion", "zsh", "--interval", "1ms"}, &bytes.Buffer{})
	if err != nil || cfg.Completion != "zsh" {
		t.Errorf("completion: %+v, %v", cfg, err)
	}
	cfg, err = ParseConfig("procmon", []string{"-V", "--sort", "bogus"}, &bytes.Buffer{})
	if err != nil || !cfg.Version {
		t.Errorf("version: %+v, %v", cfg, err)
	}
}

func TestValidate_Completion(t *testing.T) {
	t.Parallel()
	cfg := AppConfig{
		Interval: time.Second, ProcRoot: "/proc", LogLevel: "info", LogFormat: "json",
		SortBy: "cpu", Completion: "powershell",
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected unsupported shell to fail validation")
	}
	cfg.Completion = "fish"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"YES", false, true},
		{"1", false, true},
		{"false", true, false},
		{"No", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v", tt.in, tt.def, got)
		}
	}
}
