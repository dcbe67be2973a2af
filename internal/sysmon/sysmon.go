// Package sysmon provides system-wide readers over the kernel accounting
// files: OS identity, kernel version, CPU jiffies, memory utilization,
// uptime and process counts.
package sysmon

import (
	"os"
	"strconv"
	"strings"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/procfs"
)

// Reader samples system-wide metrics. It is stateless; every method re-reads
// its source.
type Reader struct {
	fs procfs.FS
}

// NewReader creates a Reader over fs.
func NewReader(fs procfs.FS) *Reader {
	return &Reader{fs: fs}
}

// FS returns the source locations the reader was built with.
func (r *Reader) FS() procfs.FS { return r.fs }

// OperatingSystem returns the PRETTY_NAME of the OS release file.
func (r *Reader) OperatingSystem() (string, error) {
	path := r.fs.OSReleasePath
	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperrors.SourceUnavailableError{Path: path, Cause: err}
	}

	// Spaces inside quoted values become underscores so that the value
	// survives tokenising; they are restored on the captured value.
	unquote := strings.NewReplacer(" ", "_", "=", " ", `"`, " ")
	for _, line := range strings.Split(string(data), "\n") {
		tokens := strings.Fields(unquote.Replace(line))
		for i := 0; i+1 < len(tokens); i += 2 {
			if tokens[i] == "PRETTY_NAME" {
				return strings.ReplaceAll(tokens[i+1], "_", " "), nil
			}
		}
	}
	return "", apperrors.KeyNotFoundError{Path: path, Key: "PRETTY_NAME"}
}

// Kernel returns the third token of the kernel version banner.
func (r *Reader) Kernel() (string, error) {
	path := r.fs.Path(procfs.VersionFile)
	line, err := procfs.FirstLine(path)
	if err != nil {
		return "", err
	}
	tokens := strings.Fields(line)
	if len(tokens) < 3 {
		return "", apperrors.MalformedRecordError{Path: path, Want: 3, Got: len(tokens)}
	}
	return tokens[2], nil
}

// Pids lists the process ids currently present under the proc root. The
// result is a point-in-time snapshot in directory enumeration order.
func (r *Reader) Pids() ([]int, error) {
	entries, err := os.ReadDir(r.fs.ProcRoot)
	if err != nil {
		return nil, apperrors.SourceUnavailableError{Path: r.fs.ProcRoot, Cause: err}
	}
	pids := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || !allDigits(e.Name()) {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// MemoryUtilization returns 1 - MemFree/MemTotal, in [0,1].
func (r *Reader) MemoryUtilization() (float64, error) {
	path := r.fs.Path(procfs.MeminfoFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, apperrors.SourceUnavailableError{Path: path, Cause: err}
	}

	var total, free float64
	var seenTotal, seenFree bool
	tokens := strings.Fields(string(data))
	for i := 0; i+1 < len(tokens); i++ {
		switch tokens[i] {
		case "MemTotal:":
			total, err = strconv.ParseFloat(tokens[i+1], 64)
			seenTotal = err == nil
		case "MemFree:":
			free, err = strconv.ParseFloat(tokens[i+1], 64)
			seenFree = err == nil
		}
	}
	if !seenTotal || total <= 0 {
		return 0, apperrors.DegenerateError{Metric: "memory_utilization", Detail: "MemTotal missing or zero"}
	}
	if !seenFree {
		return 0, apperrors.KeyNotFoundError{Path: path, Key: "MemFree:"}
	}
	return clamp01(1 - free/total), nil
}

// UpTime returns whole seconds since boot.
func (r *Reader) UpTime() (int64, error) {
	path := r.fs.Path(procfs.UptimeFile)
	fields, err := procfs.ReadFields(path, 1)
	if err != nil {
		return 0, err
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, apperrors.MalformedRecordError{Path: path, Detail: "uptime: " + err.Error()}
	}
	return int64(secs), nil
}

// TotalProcesses returns the number of forks since boot.
func (r *Reader) TotalProcesses() (int, error) {
	return procfs.FindValue[int](r.fs.Path(procfs.StatFile), "processes")
}

// RunningProcesses returns the number of runnable processes.
func (r *Reader) RunningProcesses() (int, error) {
	return procfs.FindValue[int](r.fs.Path(procfs.StatFile), "procs_running")
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
