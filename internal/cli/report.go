package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/format"
	"github.com/agbru/procmon/internal/process"
	"github.com/agbru/procmon/internal/sysmon"
	"github.com/agbru/procmon/internal/ui"
)

// Placeholders printed in place of a metric. NotAvailable marks a source
// that could not be read or a value that could not be derived; Failed marks
// any other error.
const (
	NotAvailable = "N/A"
	Failed       = "ERR"
)

// CommandWidth truncates the command column of the process table.
const CommandWidth = 60

const (
	userWidth = 10
	tableRow  = "%7s  %-10s %7s %8s %10s  %s\n"
)

// SystemSection is the system-wide half of a report. Every metric keeps
// its own error so one unreadable source does not hide the others.
type SystemSection struct {
	OS        string
	OSErr     error
	Kernel    string
	KernelErr error
	CPU       float64
	CPUErr    error
	Memory    float64
	MemoryErr error
	UpTime    int64
	UpTimeErr error
	Processes int
	Running   int
	CountsErr error
}

// ReadSystemSection samples every system-wide metric once. CPU is the
// utilization since boot.
func ReadSystemSection(r *sysmon.Reader) SystemSection {
	var s SystemSection
	s.OS, s.OSErr = r.OperatingSystem()
	s.Kernel, s.KernelErr = r.Kernel()
	s.CPU, s.CPUErr = r.Utilization()
	s.Memory, s.MemoryErr = r.MemoryUtilization()
	s.UpTime, s.UpTimeErr = r.UpTime()
	s.Processes, s.CountsErr = r.TotalProcesses()
	if s.CountsErr == nil {
		s.Running, s.CountsErr = r.RunningProcesses()
	}
	return s
}

// Report is the full output of one --once invocation.
type Report struct {
	System     SystemSection
	Collection process.Collection
	SortBy     process.SortKey
	Top        int
}

// RenderReport writes rep to out using theme for colours.
func RenderReport(out io.Writer, rep Report, theme ui.Theme) error {
	sys := rep.System
	fmt.Fprintln(out, theme.Paint(theme.Bold+theme.Primary, "System"))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  OS:\t%s\n", orNA(sys.OS, sys.OSErr))
	fmt.Fprintf(tw, "  Kernel:\t%s\n", orNA(sys.Kernel, sys.KernelErr))
	fmt.Fprintf(tw, "  CPU:\t%s\n", usage(theme, sys.CPU, sys.CPUErr))
	fmt.Fprintf(tw, "  Memory:\t%s\n", usage(theme, sys.Memory, sys.MemoryErr))
	if sys.CountsErr != nil {
		fmt.Fprintf(tw, "  Processes:\t%s\n", placeholder(sys.CountsErr))
		fmt.Fprintf(tw, "  Running:\t%s\n", placeholder(sys.CountsErr))
	} else {
		fmt.Fprintf(tw, "  Processes:\t%d\n", sys.Processes)
		fmt.Fprintf(tw, "  Running:\t%d\n", sys.Running)
	}
	fmt.Fprintf(tw, "  Up Time:\t%s\n", FormatClock(sys.UpTime, sys.UpTimeErr))
	if err := tw.Flush(); err != nil {
		return err
	}

	col := rep.Collection
	fmt.Fprintln(out)
	fmt.Fprintln(out, theme.Paint(theme.Bold+theme.Primary,
		fmt.Sprintf("Processes (sorted by %s)", rep.SortBy)))

	fmt.Fprintf(out, tableRow, "PID", "USER", "CPU[%]", "RAM[MB]", "TIME+", "COMMAND")
	for _, p := range col.Top(rep.Top) {
		fmt.Fprintf(out, tableRow,
			strconv.Itoa(p.PID), FormatCommand(p.User, userWidth), fmt.Sprintf("%.1f", p.CPU*100),
			p.RAM(), FormatClock(p.Age, nil), FormatCommand(p.Command, CommandWidth))
	}

	fmt.Fprintln(out)
	summary := fmt.Sprintf("%d processes read in %s", len(col.Processes), format.FormatExecutionDuration(col.Duration))
	if col.Vanished > 0 || col.Failed > 0 {
		summary += fmt.Sprintf(", %d exited during sampling, %d unreadable", col.Vanished, col.Failed)
	}
	fmt.Fprintln(out, theme.Paint(theme.Secondary, summary))
	if col.UsersErr != nil {
		fmt.Fprintln(out, theme.Paint(theme.Warning, "user names unavailable: "+col.UsersErr.Error()))
	}
	return nil
}

// FormatClock renders seconds as HH:MM:SS. A set err yields its
// placeholder and a value that cannot be formatted yields N/A.
func FormatClock(seconds int64, err error) string {
	if err != nil {
		return placeholder(err)
	}
	s, err := format.FormatElapsed(seconds)
	if err != nil {
		return NotAvailable
	}
	return s
}

// FormatCommand makes a raw command line printable: NUL separators become
// spaces and the result is cut to width runes.
func FormatCommand(cmd string, width int) string {
	cmd = strings.TrimRight(strings.ReplaceAll(cmd, "\x00", " "), " ")
	r := []rune(cmd)
	if width > 1 && len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return cmd
}

// placeholder picks the text shown for a metric that failed with err.
func placeholder(err error) string {
	if apperrors.IsUnavailable(err) {
		return NotAvailable
	}
	return Failed
}

func orNA(v string, err error) string {
	if err != nil {
		return placeholder(err)
	}
	if v == "" {
		return NotAvailable
	}
	return v
}

func usage(theme ui.Theme, fraction float64, err error) string {
	if err != nil {
		return placeholder(err)
	}
	return theme.Paint(theme.Usage(fraction), format.FormatPercent(fraction))
}
