package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agbru/procmon/internal/cli"
	"github.com/agbru/procmon/internal/process"
)

// Column widths of the process table.
const (
	colWidthPID  = 7
	colWidthUser = 10
	colWidthCPU  = 6
	colWidthRAM  = 8
	colWidthTime = 10
	tableFixed   = colWidthPID + 2 + colWidthUser + 1 + colWidthCPU + 1 + colWidthRAM + 1 + colWidthTime + 2
)

// TableModel is the scrollable process table.
type TableModel struct {
	col     process.Collection
	rows    []process.Snapshot
	sortKey process.SortKey
	top     int
	offset  int
	width   int
	height  int
}

// NewTableModel creates a table sorted by key that shows at most top rows
// (0 for all).
func NewTableModel(key process.SortKey, top int) TableModel {
	return TableModel{sortKey: key, top: top}
}

// SetSize updates dimensions.
func (t *TableModel) SetSize(w, h int) {
	t.width = w
	t.height = h
	t.clampOffset()
}

// SetCollection replaces the rows with col, ordered by the current key.
func (t *TableModel) SetCollection(col process.Collection) {
	t.col = col
	t.apply()
}

func (t *TableModel) apply() {
	t.col.SortBy(t.sortKey)
	t.rows = t.col.Top(t.top)
	t.clampOffset()
}

// SortKey returns the active ordering.
func (t TableModel) SortKey() process.SortKey { return t.sortKey }

// CycleSort switches to the next sort key and reorders the current rows.
func (t *TableModel) CycleSort() {
	t.sortKey = t.sortKey.Next()
	t.offset = 0
	t.apply()
}

// Scroll moves the window by delta rows.
func (t *TableModel) Scroll(delta int) {
	t.offset += delta
	t.clampOffset()
}

// PageSize is the number of rows visible at once.
func (t TableModel) PageSize() int {
	// borders, title and column header
	return max(t.height-4, 1)
}

func (t *TableModel) clampOffset() {
	t.offset = min(t.offset, len(t.rows)-t.PageSize())
	t.offset = max(t.offset, 0)
}

// View renders the visible window of the table.
func (t TableModel) View() string {
	cmdWidth := max(t.width-4-tableFixed, 8)

	var b strings.Builder
	title := fmt.Sprintf("Processes (sorted by %s)", t.sortKey)
	if n := len(t.rows); n > 0 {
		end := min(t.offset+t.PageSize(), n)
		title += fmt.Sprintf("  %d-%d of %d", t.offset+1, end, n)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(tableHeaderStyle.Render(tableLine("PID", "USER", "CPU%", "RAM[MB]", "TIME+", "COMMAND")))

	end := min(t.offset+t.PageSize(), len(t.rows))
	for _, p := range t.rows[t.offset:end] {
		b.WriteString("\n")
		cpu := fmt.Sprintf("%.1f", p.CPU*100)
		line := tableLine(strconv.Itoa(p.PID), cli.FormatCommand(p.User, colWidthUser), cpu,
			p.RAM(), clockOrDash(p.Age, nil), cli.FormatCommand(p.Command, cmdWidth))
		if p.CPU >= 0.01 {
			b.WriteString(usageStyle(p.CPU).Render(line))
		} else {
			b.WriteString(tableRowStyle.Render(line))
		}
	}

	return panelStyle.
		Width(max(t.width-2, 0)).
		Height(max(t.height-2, 0)).
		Render(b.String())
}

func tableLine(pid, user, cpu, ram, age, cmd string) string {
	return fmt.Sprintf("%*s  %-*s %*s %*s %*s  %s",
		colWidthPID, pid, colWidthUser, user, colWidthCPU, cpu,
		colWidthRAM, ram, colWidthTime, age, cmd)
}
