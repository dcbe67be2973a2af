package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/procmon/internal/format"
	"github.com/agbru/procmon/internal/metrics"
	"github.com/agbru/procmon/internal/process"
)

// FooterModel renders the key hints, refresh status and cycle summary.
type FooterModel struct {
	keys    []key.Binding
	paused  bool
	err     error
	cycle   process.Collection
	sampled bool
	self    metrics.MemorySnapshot
	width   int
}

// NewFooterModel creates a footer listing keys.
func NewFooterModel(keys []key.Binding) FooterModel {
	return FooterModel{keys: keys}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetPaused toggles the paused indicator.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetCycle records the outcome of the latest refresh.
func (f *FooterModel) SetCycle(col process.Collection, err error, self metrics.MemorySnapshot) {
	f.err = err
	if err == nil {
		f.cycle = col
		f.sampled = true
	}
	f.self = self
}

// View renders the footer.
func (f FooterModel) View() string {
	hints := make([]string, 0, len(f.keys))
	for _, k := range f.keys {
		h := k.Help()
		hints = append(hints, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	left := strings.Join(hints, "  ")

	var status string
	switch {
	case f.err != nil:
		status = statusErrorStyle.Render("ERROR " + f.err.Error())
	case f.paused:
		status = statusPausedStyle.Render("PAUSED")
	default:
		status = statusRunningStyle.Render("LIVE")
	}
	if f.sampled {
		summary := fmt.Sprintf("%d procs in %s", len(f.cycle.Processes), format.FormatExecutionDuration(f.cycle.Duration))
		if f.cycle.Vanished+f.cycle.Failed > 0 {
			summary += fmt.Sprintf(" (%d skipped)", f.cycle.Vanished+f.cycle.Failed)
		}
		status += footerDescStyle.Render("  " + summary)
	}
	if f.self.HeapAlloc > 0 {
		status += footerDescStyle.Render("  heap " + format.FormatKB(f.self.HeapAllocKB()))
	}

	gap := f.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		return " " + status
	}
	return " " + left + strings.Repeat(" ", gap) + status
}

// renderHelpOverlay centres the full key list over a w x h screen.
func renderHelpOverlay(km KeyMap, w, h int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("procmon - keys"))
	b.WriteString("\n\n")
	for _, k := range km.FullHelp() {
		help := k.Help()
		fmt.Fprintf(&b, "  %s  %s\n",
			footerKeyStyle.Width(8).Render(help.Key),
			footerDescStyle.Render(help.Desc))
	}
	b.WriteString("\n")
	b.WriteString(footerDescStyle.Render("Press ? to close"))

	overlay := overlayStyle.Width(min(44, max(w-4, 10))).Render(b.String())
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, overlay)
}
