package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/procmon/internal/process"
)

// Options configures the dashboard.
type Options struct {
	Interval time.Duration
	SortBy   process.SortKey
	// Top limits the table to the first Top rows; 0 shows all.
	Top     int
	Version string
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// tableHeight returns the rows left for the process table.
func (l LayoutManager) tableHeight() int {
	return max(l.height-headerHeight-systemPanelHeight-footerHeight, minTableHeight)
}

// Layout constants for the TUI dashboard.
const (
	headerHeight      = 1
	footerHeight      = 1
	systemPanelHeight = 5 // three rows plus borders
	minTableHeight    = 5
)

// Model is the root bubbletea model for the TUI dashboard.
type Model struct {
	header HeaderModel
	system SystemModel
	table  TableModel
	footer FooterModel

	keymap KeyMap
	LayoutManager

	ctx      context.Context
	src      Source
	interval time.Duration
	paused   bool
	sampling bool
	help     bool
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, src Source, opts Options) Model {
	km := DefaultKeyMap()
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second
	}
	return Model{
		header:   NewHeaderModel(opts.Version),
		system:   NewSystemModel(),
		table:    NewTableModel(opts.SortBy, opts.Top),
		footer:   NewFooterModel(km.ShortHelp()),
		keymap:   km,
		ctx:      ctx,
		src:      src,
		interval: interval,
		sampling: true,
	}
}

// Init reads the host identity and takes the first sample immediately.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		identityCmd(m.ctx, m.src),
		sampleCmd(m.ctx, m.src),
		tickCmd(m.interval),
		watchContextCmd(m.ctx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case IdentityMsg:
		m.header.SetIdentity(msg)
		return m, nil

	case TickMsg:
		// A slow cycle is never overlapped by the next one.
		if m.paused || m.sampling {
			return m, tickCmd(m.interval)
		}
		m.sampling = true
		return m, tea.Batch(sampleCmd(m.ctx, m.src), tickCmd(m.interval))

	case SampleMsg:
		m.sampling = false
		if errors.Is(msg.Err, context.Canceled) {
			return m, nil
		}
		m.system.Update(msg.Stats)
		m.header.SetUpTime(msg.Stats.UpTime, msg.Stats.UpTimeErr)
		if msg.Err == nil {
			m.table.SetCollection(msg.Collection)
		}
		m.footer.SetCycle(msg.Collection, msg.Err, msg.Self)
		return m, nil

	case ContextCancelledMsg:
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help = !m.help
		return m, nil

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Sort):
		m.table.CycleSort()
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.system.Reset()
		m.src.Sampler.Reset()
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		m.table.Scroll(-1)
	case key.Matches(msg, m.keymap.Down):
		m.table.Scroll(1)
	case key.Matches(msg, m.keymap.PageUp):
		m.table.Scroll(-m.table.PageSize())
	case key.Matches(msg, m.keymap.PageDown):
		m.table.Scroll(m.table.PageSize())
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.help {
		return renderHelpOverlay(m.keymap, m.width, m.height)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.system.View(),
		m.table.View(),
		m.footer.View(),
	)
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.system.SetSize(m.width, systemPanelHeight)
	m.table.SetSize(m.width, m.tableHeight())
}

// Run is the public entry point for the TUI mode. It returns when the
// user quits or ctx is cancelled; in the latter case the context error
// is returned.
func Run(ctx context.Context, src Source, opts Options) error {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	p := tea.NewProgram(NewModel(ctx, src, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return ctx.Err()
}
