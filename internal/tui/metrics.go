package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agbru/procmon/internal/format"
	"github.com/agbru/procmon/internal/sysmon"
)

// HistorySize is the number of samples kept for each sparkline.
const HistorySize = 120

var errNotSampled = errors.New("not sampled yet")

// SystemModel displays the system-wide gauges and their history.
type SystemModel struct {
	stats  sysmon.Stats
	cpu    *RingBuffer
	memory *RingBuffer
	width  int
	height int
}

// NewSystemModel creates an empty system panel.
func NewSystemModel() SystemModel {
	return SystemModel{
		stats: sysmon.Stats{
			CPUErr:    errNotSampled,
			MemoryErr: errNotSampled,
			UpTimeErr: errNotSampled,
			CountsErr: errNotSampled,
		},
		cpu:    NewRingBuffer(HistorySize),
		memory: NewRingBuffer(HistorySize),
	}
}

// SetSize updates dimensions.
func (m *SystemModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	_, spark := m.widths()
	m.cpu.Resize(max(spark, HistorySize))
	m.memory.Resize(max(spark, HistorySize))
}

// widths splits the panel between gauge bar and sparkline.
func (m SystemModel) widths() (bar, spark int) {
	inner := max(m.width-4, 20)
	bar = inner / 3
	// label, gaps and the percentage take the rest
	spark = max(inner-5-1-bar-1-6-2, 0)
	return bar, spark
}

// Update records a new sample. A sparkline only advances when its metric
// was read successfully.
func (m *SystemModel) Update(s sysmon.Stats) {
	m.stats = s
	if s.CPUErr == nil {
		m.cpu.Push(s.CPU)
	}
	if s.MemoryErr == nil {
		m.memory.Push(s.Memory)
	}
}

// Reset clears the history.
func (m *SystemModel) Reset() {
	m.cpu.Reset()
	m.memory.Reset()
}

// View renders the system panel.
func (m SystemModel) View() string {
	barWidth, sparkWidth := m.widths()

	var rows strings.Builder
	rows.WriteString(m.gauge("CPU", m.stats.CPU, m.stats.CPUErr, m.cpu, barWidth, sparkWidth))
	rows.WriteString("\n")
	rows.WriteString(m.gauge("Mem", m.stats.Memory, m.stats.MemoryErr, m.memory, barWidth, sparkWidth))
	rows.WriteString("\n")

	procs := placeholder(m.stats.CountsErr)
	running := procs
	if m.stats.CountsErr == nil {
		procs = fmt.Sprint(m.stats.Processes)
		running = fmt.Sprint(m.stats.Running)
	}
	rows.WriteString(fmt.Sprintf("%s %s   %s %s",
		metricLabelStyle.Render("Processes:"), metricValueStyle.Render(procs),
		metricLabelStyle.Render("Running:"), metricValueStyle.Render(running)))

	return panelStyle.
		Width(max(m.width-2, 0)).
		Render(rows.String())
}

func (m SystemModel) gauge(label string, v float64, err error, hist *RingBuffer, barWidth, sparkWidth int) string {
	name := metricLabelStyle.Render(fmt.Sprintf("%-5s", label))
	if err != nil {
		filled, empty := RenderBar(0, barWidth)
		return fmt.Sprintf("%s %s %6s  %s", name, barEmptyStyle.Render(filled+empty),
			placeholder(err), usageStyle(0).Render(RenderSparkline(hist.Slice(), sparkWidth)))
	}
	style := usageStyle(v)
	filled, empty := RenderBar(v, barWidth)
	return fmt.Sprintf("%s %s%s %6s  %s", name,
		style.Render(filled), barEmptyStyle.Render(empty),
		format.FormatPercent(v),
		style.Render(RenderSparkline(hist.Slice(), sparkWidth)))
}
