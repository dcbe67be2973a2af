package process

import (
	"errors"
	"os"
	"strconv"
	"syscall"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/procfs"
)

// UpTimeSource reports whole seconds since boot. *sysmon.Reader satisfies it.
type UpTimeSource interface {
	UpTime() (int64, error)
}

// Reader reads metrics of individual processes.
type Reader struct {
	fs    procfs.FS
	sys   UpTimeSource
	clock procfs.ClockTicks
}

// NewReader creates a Reader. A nil clock uses procfs.SystemClock.
func NewReader(fsys procfs.FS, sys UpTimeSource, clock procfs.ClockTicks) *Reader {
	if clock == nil {
		clock = procfs.SystemClock()
	}
	return &Reader{fs: fsys, sys: sys, clock: clock}
}

// Command returns the first line of the process command line, verbatim.
// Argument separators are left as NUL bytes.
func (r *Reader) Command(pid int) (string, error) {
	line, err := procfs.FirstLine(r.fs.PidPath(pid, procfs.CmdlineFile))
	if err != nil {
		return "", vanished(pid, err)
	}
	return line, nil
}

// RAMKB returns the resident set size in kB. Processes without a VmRSS
// line, such as kernel threads, report 0.
func (r *Reader) RAMKB(pid int) (int64, error) {
	kb, err := procfs.FindValue[int64](r.fs.PidPath(pid, procfs.StatusFile), "VmRSS:")
	if err != nil {
		var kn apperrors.KeyNotFoundError
		if errors.As(err, &kn) {
			return 0, nil
		}
		return 0, vanished(pid, err)
	}
	return kb, nil
}

// RAM returns the resident set size in MB (integer division of kB by 1024)
// as a decimal string.
func (r *Reader) RAM(pid int) (string, error) {
	kb, err := r.RAMKB(pid)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(kb/1024, 10), nil
}

// UID returns the real user id of the process.
func (r *Reader) UID(pid int) (string, error) {
	uid, err := procfs.FindValue[string](r.fs.PidPath(pid, procfs.StatusFile), "Uid:")
	if err != nil {
		return "", vanished(pid, err)
	}
	return uid, nil
}

// User returns the name of the process owner. An uid missing from dir
// yields "" and no error. When dir is nil the password database is read
// for this call alone.
func (r *Reader) User(pid int, dir *UserDirectory) (string, error) {
	uid, err := r.UID(pid)
	if err != nil {
		return "", err
	}
	if dir, err = r.directory(dir); err != nil {
		return "", err
	}
	name, _ := dir.Lookup(uid)
	return name, nil
}

// directory returns dir, or the password database read afresh when dir is
// nil.
func (r *Reader) directory(dir *UserDirectory) (*UserDirectory, error) {
	if dir != nil {
		return dir, nil
	}
	return LoadUserDirectory(r.fs.PasswdPath)
}

// UpTime returns the start time of the process in seconds since boot.
func (r *Reader) UpTime(pid int) (int64, error) {
	st, err := r.stat(pid)
	if err != nil {
		return 0, err
	}
	return st.start / r.hz(), nil
}

// Age returns the seconds the process has been running, never negative.
func (r *Reader) Age(pid int) (int64, error) {
	start, err := r.UpTime(pid)
	if err != nil {
		return 0, err
	}
	sysUp, err := r.sys.UpTime()
	if err != nil {
		return 0, err
	}
	return age(sysUp, start), nil
}

// CPUUtilization returns the share of one CPU the process has used over
// its lifetime, (utime+stime)/hz divided by the whole seconds elapsed since
// it started. Both uptime and start time are truncated to whole seconds, the
// same basis Age uses. A process that started within the current second
// reports 0.
func (r *Reader) CPUUtilization(pid int) (float64, error) {
	st, err := r.stat(pid)
	if err != nil {
		return 0, err
	}
	sysUp, err := r.sys.UpTime()
	if err != nil {
		return 0, err
	}
	return st.utilization(sysUp, r.hz()), nil
}

// statTimes are the stat counters the reader uses, in clock ticks.
type statTimes struct {
	utime, stime, start int64
}

func (s statTimes) utilization(sysUp, hz int64) float64 {
	elapsed := sysUp - s.start/hz
	if elapsed <= 0 {
		return 0
	}
	return float64(s.utime+s.stime) / float64(hz) / float64(elapsed)
}

func (r *Reader) stat(pid int) (statTimes, error) {
	path := r.fs.PidPath(pid, procfs.StatFile)
	fields, err := procfs.ReadStatFields(path, procfs.StatMinFields)
	if err != nil {
		return statTimes{}, vanished(pid, err)
	}
	var st statTimes
	for _, f := range []struct {
		pos int
		dst *int64
	}{
		{procfs.StatUTime, &st.utime},
		{procfs.StatSTime, &st.stime},
		{procfs.StatStartTime, &st.start},
	} {
		v, err := strconv.ParseInt(procfs.Field(fields, f.pos), 10, 64)
		if err != nil {
			return statTimes{}, apperrors.MalformedRecordError{
				Path:   path,
				Detail: "field " + strconv.Itoa(f.pos) + ": " + err.Error(),
			}
		}
		*f.dst = v
	}
	return st, nil
}

func (r *Reader) hz() int64 {
	if hz := r.clock.TicksPerSecond(); hz > 0 {
		return hz
	}
	return procfs.DefaultClockTicks
}

func age(sysUp, start int64) int64 {
	if d := sysUp - start; d > 0 {
		return d
	}
	return 0
}

// vanished maps a missing pseudo-file to ProcessVanishedError.
func vanished(pid int, err error) error {
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ESRCH) {
		return apperrors.ProcessVanishedError{PID: pid, Cause: err}
	}
	return err
}
