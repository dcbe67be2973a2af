package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/procmon/internal/ui"
)

// Style variables for the TUI dashboard.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	separatorStyle     lipgloss.Style
	identityStyle      lipgloss.Style
	metricLabelStyle   lipgloss.Style
	metricValueStyle   lipgloss.Style
	barEmptyStyle      lipgloss.Style
	tableHeaderStyle   lipgloss.Style
	tableRowStyle      lipgloss.Style
	footerKeyStyle     lipgloss.Style
	footerDescStyle    lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusErrorStyle   lipgloss.Style
	overlayStyle       lipgloss.Style

	theme ui.TUITheme
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all TUI styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()
	theme = t

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	separatorStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	identityStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	metricLabelStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	metricValueStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	barEmptyStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	tableHeaderStyle = lipgloss.NewStyle().
		Foreground(t.Info).
		Bold(true)

	tableRowStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	footerKeyStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	footerDescStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	statusRunningStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	statusPausedStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	statusErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	overlayStyle = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Accent).
		Padding(1, 2).
		Align(lipgloss.Left)
}

// usageStyle colours a value by how close fraction is to saturation.
func usageStyle(fraction float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Usage(fraction))
}
