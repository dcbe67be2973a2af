package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/process"
	"github.com/agbru/procmon/internal/procfs"
	"github.com/agbru/procmon/internal/procfs/procfstest"
	"github.com/agbru/procmon/internal/sysmon"
)

type fakeSpinner struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	suffixes []string
}

func (f *fakeSpinner) Start() { f.mu.Lock(); f.started = true; f.mu.Unlock() }
func (f *fakeSpinner) Stop()  { f.mu.Lock(); f.stopped = true; f.mu.Unlock() }
func (f *fakeSpinner) UpdateSuffix(s string) {
	f.mu.Lock()
	f.suffixes = append(f.suffixes, s)
	f.mu.Unlock()
}

// useFakeSpinner swaps newSpinner for the duration of the test. Tests that
// call it must not run in parallel.
func useFakeSpinner(t *testing.T) *fakeSpinner {
	t.Helper()
	fake := &fakeSpinner{}
	orig := newSpinner
	newSpinner = func(io.Writer) Spinner { return fake }
	t.Cleanup(func() { newSpinner = orig })
	return fake
}

type recordingObserver struct {
	calls int
	col   process.Collection
	err   error
}

func (o *recordingObserver) Observe(col process.Collection, err error) {
	o.calls++
	o.col, o.err = col, err
}

const testPasswd = "root:x:0:0:root:/root:/bin/bash\nalice:x:1000:1000::/home/alice:/bin/bash\n"

func hostTree(t *testing.T) *procfstest.Tree {
	t.Helper()
	tr := procfstest.NewTree(t)
	tr.Etc("os-release", "PRETTY_NAME=\"Fixture Linux 1.0\"\n")
	tr.Etc("passwd", testPasswd)
	tr.Proc("version", "Linux version 6.6.6-fixture (builder@host)\n")
	tr.Proc("stat", procfstest.SystemStat([10]uint64{300, 0, 100, 500, 100, 0, 0, 0, 0, 0}, 9000, 1))
	tr.Proc("meminfo", procfstest.Meminfo(2048, 512))
	tr.Proc("uptime", "7384.10 100.00\n")
	tr.AddProcess(procfstest.Process{PID: 1, UID: "0", RSSKB: 10240, UTime: 100, STime: 100, Cmdline: "/sbin/init\x00splash\x00"})
	tr.AddProcess(procfstest.Process{PID: 512, UID: "1000", RSSKB: 307200, UTime: 50000, StartTime: 100000, Cmdline: "editor\x00notes.txt\x00"})
	tr.AddProcess(procfstest.Process{PID: 77, UID: "0", NoRSS: true, Comm: "kworker/0:1"})
	return tr
}

func onceOptions(tr *procfstest.Tree, obs CycleObserver) OnceOptions {
	sys := sysmon.NewReader(tr.FS)
	reader := process.NewReader(tr.FS, sys, procfs.FixedClock(100))
	return OnceOptions{
		System:    sys,
		Collector: process.NewCollector(reader, tr.FS.PasswdPath, process.WithWorkers(2)),
		Observer:  obs,
		SortBy:    process.SortRAM,
	}
}

func TestRunOnce(t *testing.T) {
	sp := useFakeSpinner(t)
	tr := hostTree(t)
	obs := &recordingObserver{}

	var out, errOut bytes.Buffer
	if err := RunOnce(context.Background(), &out, &errOut, onceOptions(tr, obs)); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Fixture Linux 1.0",
		"6.6.6-fixture",
		"40.0%",
		"75.0%",
		"9000",
		"02:03:04",
		"Processes (sorted by ram)",
		"editor notes.txt",
		"/sbin/init splash",
		"3 processes read in",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
	// RAM order: editor, init, kworker.
	if e, i := strings.Index(got, "editor"), strings.Index(got, "/sbin/init"); e < 0 || i < 0 || e > i {
		t.Errorf("processes not sorted by ram\n%s", got)
	}

	if !sp.started || !sp.stopped {
		t.Errorf("spinner started=%v stopped=%v", sp.started, sp.stopped)
	}
	if len(sp.suffixes) < 2 || sp.suffixes[1] != " reading 3 processes" {
		t.Errorf("spinner suffixes = %q", sp.suffixes)
	}
	if obs.calls != 1 || obs.err != nil || len(obs.col.Processes) != 3 {
		t.Errorf("observer = %+v", obs)
	}
}

func TestRunOnce_Quiet(t *testing.T) {
	sp := useFakeSpinner(t)
	tr := hostTree(t)
	opts := onceOptions(tr, nil)
	opts.Quiet = true
	opts.Top = 1

	var out, errOut bytes.Buffer
	if err := RunOnce(context.Background(), &out, &errOut, opts); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if sp.started {
		t.Error("spinner started in quiet mode")
	}
	if strings.Contains(out.String(), "/sbin/init") {
		t.Errorf("top 1 printed more than one process\n%s", out.String())
	}
}

func TestRunOnce_DegradedSystem(t *testing.T) {
	useFakeSpinner(t)
	tr := procfstest.NewTree(t)
	tr.Etc("passwd", testPasswd)
	tr.Proc("uptime", "10.00 1.00\n")
	tr.AddProcess(procfstest.Process{PID: 5, UID: "1000", RSSKB: 1024, Cmdline: "sh"})

	var out, errOut bytes.Buffer
	if err := RunOnce(context.Background(), &out, &errOut, onceOptions(tr, nil)); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, NotAvailable) {
		t.Errorf("missing N/A for unreadable metrics\n%s", got)
	}
	if !strings.Contains(got, "alice") {
		t.Errorf("process table missing\n%s", got)
	}
}

func TestRunOnce_NoProcRoot(t *testing.T) {
	sp := useFakeSpinner(t)
	tr := hostTree(t)
	tr.FS.ProcRoot = tr.FS.Path("missing")

	var out, errOut bytes.Buffer
	err := RunOnce(context.Background(), &out, &errOut, onceOptions(tr, nil))
	if err == nil || !strings.Contains(err.Error(), "listing processes") {
		t.Fatalf("err = %v, want listing failure", err)
	}
	if !apperrors.IsUnavailable(err) {
		t.Errorf("IsUnavailable(%v) = false", err)
	}
	if !sp.stopped {
		t.Error("spinner not stopped on failure")
	}
	if out.Len() != 0 {
		t.Errorf("partial report written: %q", out.String())
	}
}

func TestRunOnce_Cancelled(t *testing.T) {
	useFakeSpinner(t)
	tr := hostTree(t)
	obs := &recordingObserver{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	err := RunOnce(ctx, &out, &errOut, onceOptions(tr, obs))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if obs.calls != 1 || obs.err == nil {
		t.Errorf("observer not told about the failed cycle: %+v", obs)
	}
}
