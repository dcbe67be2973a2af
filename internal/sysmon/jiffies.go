package sysmon

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/procfs"
)

// jiffieFields is the number of counters on the aggregate cpu line.
const jiffieFields = 10

// JiffieBreakdown holds the aggregate cpu counters in /proc/stat order.
type JiffieBreakdown struct {
	User      uint64
	Nice      uint64
	System    uint64
	Idle      uint64
	IOWait    uint64
	IRQ       uint64
	SoftIRQ   uint64
	Steal     uint64
	Guest     uint64
	GuestNice uint64
}

// Sum returns the total of all ten counters.
func (j JiffieBreakdown) Sum() uint64 {
	return j.User + j.Nice + j.System + j.Idle + j.IOWait +
		j.IRQ + j.SoftIRQ + j.Steal + j.Guest + j.GuestNice
}

// IdleTotal returns idle + iowait.
func (j JiffieBreakdown) IdleTotal() uint64 { return j.Idle + j.IOWait }

// ActiveTotal returns Sum - IdleTotal.
func (j JiffieBreakdown) ActiveTotal() uint64 { return j.Sum() - j.IdleTotal() }

// Active returns user+nice+system+irq+softirq+steal. Guest time is left out.
func (j JiffieBreakdown) Active() uint64 {
	return j.User + j.Nice + j.System + j.IRQ + j.SoftIRQ + j.Steal
}

// Total returns Active + IdleTotal, the eight-counter aggregate the
// dashboard's CPU figures are based on.
func (j JiffieBreakdown) Total() uint64 { return j.Active() + j.IdleTotal() }

// JiffieBreakdown reads the aggregate cpu line of the system stat file.
// Only the first ten counters after the label are used.
func (r *Reader) JiffieBreakdown() (JiffieBreakdown, error) {
	path := r.fs.Path(procfs.StatFile)
	f, err := os.Open(path)
	if err != nil {
		return JiffieBreakdown{}, apperrors.SourceUnavailableError{Path: path, Cause: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "cpu" {
			continue
		}
		if len(fields)-1 < jiffieFields {
			return JiffieBreakdown{}, apperrors.MalformedRecordError{Path: path, Want: jiffieFields, Got: len(fields) - 1}
		}
		var v [jiffieFields]uint64
		for i := range v {
			v[i], err = strconv.ParseUint(fields[i+1], 10, 64)
			if err != nil {
				return JiffieBreakdown{}, apperrors.MalformedRecordError{
					Path:   path,
					Detail: fmt.Sprintf("cpu counter %d: %v", i+1, err),
				}
			}
		}
		return JiffieBreakdown{
			User: v[0], Nice: v[1], System: v[2], Idle: v[3], IOWait: v[4],
			IRQ: v[5], SoftIRQ: v[6], Steal: v[7], Guest: v[8], GuestNice: v[9],
		}, nil
	}
	if err := scanner.Err(); err != nil {
		return JiffieBreakdown{}, apperrors.SourceUnavailableError{Path: path, Cause: err}
	}
	return JiffieBreakdown{}, apperrors.MalformedRecordError{Path: path, Detail: "no cpu line"}
}

// JiffiesTotal returns the sum of all ten cpu counters.
func (r *Reader) JiffiesTotal() (uint64, error) {
	j, err := r.JiffieBreakdown()
	return j.Sum(), err
}

// Jiffies returns the eight-counter aggregate (guest time excluded).
func (r *Reader) Jiffies() (uint64, error) {
	j, err := r.JiffieBreakdown()
	return j.Total(), err
}

// ActiveJiffies returns the non-idle counters, guest time excluded.
func (r *Reader) ActiveJiffies() (uint64, error) {
	j, err := r.JiffieBreakdown()
	return j.Active(), err
}

// IdleJiffies returns idle + iowait.
func (r *Reader) IdleJiffies() (uint64, error) {
	j, err := r.JiffieBreakdown()
	return j.IdleTotal(), err
}

// Utilization returns the aggregate CPU utilization since boot,
// ActiveJiffies / Jiffies.
func (r *Reader) Utilization() (float64, error) {
	j, err := r.JiffieBreakdown()
	if err != nil {
		return 0, err
	}
	return utilization(j.Active(), j.Total())
}

func utilization(active, total uint64) (float64, error) {
	if total == 0 {
		return 0, apperrors.DegenerateError{Metric: "cpu_utilization", Detail: "no jiffies elapsed"}
	}
	return clamp01(float64(active) / float64(total)), nil
}
