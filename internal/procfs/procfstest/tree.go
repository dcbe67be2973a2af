// Package procfstest builds throwaway proc and etc trees for tests.
package procfstest

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/agbru/procmon/internal/procfs"
)

// Tree is a fixture host rooted in a temporary directory.
type Tree struct {
	t    testing.TB
	Root string
	FS   procfs.FS
}

// NewTree creates empty proc and etc directories under t.TempDir().
func NewTree(t testing.TB) *Tree {
	t.Helper()
	root := t.TempDir()
	procRoot := filepath.Join(root, "proc")
	etcRoot := filepath.Join(root, "etc")
	for _, dir := range []string{procRoot, etcRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return &Tree{t: t, Root: root, FS: procfs.NewFS(procRoot, etcRoot)}
}

// WriteFile writes content to a path relative to the tree root.
func (tr *Tree) WriteFile(rel, content string) string {
	tr.t.Helper()
	path := filepath.Join(tr.Root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tr.t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tr.t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Proc writes a file directly under the proc root.
func (tr *Tree) Proc(name, content string) string {
	return tr.WriteFile(filepath.Join("proc", name), content)
}

// Etc writes a file directly under the etc root.
func (tr *Tree) Etc(name, content string) string {
	return tr.WriteFile(filepath.Join("etc", name), content)
}

// Process describes the pseudo-files of one fixture pid.
type Process struct {
	PID       int
	Comm      string
	UTime     int64
	STime     int64
	StartTime int64
	UID       string
	RSSKB     int64
	Cmdline   string
	// NoRSS omits the VmRSS line, as for kernel threads.
	NoRSS bool
}

// AddProcess writes stat, status and cmdline for p.
func (tr *Tree) AddProcess(p Process) {
	tr.t.Helper()
	dir := strconv.Itoa(p.PID)
	comm := p.Comm
	if comm == "" {
		comm = "proc" + dir
	}
	tr.Proc(filepath.Join(dir, procfs.StatFile), StatLine(p.PID, comm, p.UTime, p.STime, p.StartTime))

	var status strings.Builder
	fmt.Fprintf(&status, "Name:\t%s\nState:\tS (sleeping)\nPid:\t%d\n", comm, p.PID)
	fmt.Fprintf(&status, "Uid:\t%s\t%s\t%s\t%s\n", p.UID, p.UID, p.UID, p.UID)
	if !p.NoRSS {
		fmt.Fprintf(&status, "VmRSS:\t%8d kB\n", p.RSSKB)
	}
	status.WriteString("Threads:\t1\n")
	tr.Proc(filepath.Join(dir, procfs.StatusFile), status.String())
	tr.Proc(filepath.Join(dir, procfs.CmdlineFile), p.Cmdline)
}

// RemoveProcess deletes the pid directory, simulating an exit.
func (tr *Tree) RemoveProcess(pid int) {
	tr.t.Helper()
	if err := os.RemoveAll(tr.FS.Path(strconv.Itoa(pid))); err != nil {
		tr.t.Fatalf("remove pid %d: %v", pid, err)
	}
}

// StatLine renders a 52-field per-process stat record with the given
// counters at positions 14, 15 and 22.
func StatLine(pid int, comm string, utime, stime, starttime int64) string {
	fields := make([]string, 0, 52)
	fields = append(fields, strconv.Itoa(pid), "("+comm+")", "S")
	for i := 4; i <= 52; i++ {
		switch i {
		case procfs.StatUTime:
			fields = append(fields, strconv.FormatInt(utime, 10))
		case procfs.StatSTime:
			fields = append(fields, strconv.FormatInt(stime, 10))
		case procfs.StatStartTime:
			fields = append(fields, strconv.FormatInt(starttime, 10))
		default:
			fields = append(fields, "0")
		}
	}
	return strings.Join(fields, " ") + "\n"
}

// SystemStat renders a system stat file with the given cpu counters.
func SystemStat(cpu [10]uint64, processes, running int) string {
	var b strings.Builder
	b.WriteString("cpu ")
	for i, v := range cpu {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatUint(v, 10))
	}
	b.WriteString("\ncpu0 1 2 3 4 5 6 7 8 9 10\nintr 1234 0 0\nctxt 98765\nbtime 1700000000\n")
	fmt.Fprintf(&b, "processes %d\nprocs_running %d\nprocs_blocked 0\n", processes, running)
	return b.String()
}

// Meminfo renders a minimal meminfo file.
func Meminfo(totalKB, freeKB uint64) string {
	return fmt.Sprintf("MemTotal:       %d kB\nMemFree:        %d kB\nMemAvailable:   %d kB\nBuffers:          1024 kB\n",
		totalKB, freeKB, freeKB)
}
