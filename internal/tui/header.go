package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/format"
)

// Placeholders shown in place of a metric. Unavailable covers metrics not
// sampled yet and sources that could not be read; Failed covers any other
// error.
const (
	Unavailable = "-"
	Failed      = "ERR"
)

// HeaderModel renders the top bar: title, host identity and uptime.
type HeaderModel struct {
	version   string
	identity  IdentityMsg
	upTime    int64
	upTimeErr error
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{version: version, upTimeErr: errNotSampled}
}

// SetIdentity stores the static host facts.
func (h *HeaderModel) SetIdentity(id IdentityMsg) {
	h.identity = id
}

// SetUpTime updates the uptime shown on the right.
func (h *HeaderModel) SetUpTime(seconds int64, err error) {
	h.upTime, h.upTimeErr = seconds, err
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "procmon"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}

	id := h.identity
	parts := []string{
		valueOrDash(id.OS, id.OSErr),
		valueOrDash(id.Kernel, id.KernelErr),
		valueOrDash(id.Host.Hostname, nil),
	}
	if id.Host.CPUs > 0 {
		parts = append(parts, fmt.Sprintf("%d cpus", id.Host.CPUs))
	}
	pipe := separatorStyle.Render(" | ")
	left := titleStyle.Render(titleText) + pipe + identityStyle.Render(strings.Join(parts, " · "))

	up := "up " + clockOrDash(h.upTime, h.upTimeErr)
	right := metricValueStyle.Render(up)

	innerWidth := max(h.width-2, 0)
	gap := max(innerWidth-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return headerStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func placeholder(err error) string {
	if errors.Is(err, errNotSampled) || apperrors.IsUnavailable(err) {
		return Unavailable
	}
	return Failed
}

func valueOrDash(v string, err error) string {
	if err != nil {
		return placeholder(err)
	}
	if v == "" {
		return Unavailable
	}
	return v
}

func clockOrDash(seconds int64, err error) string {
	if err != nil {
		return placeholder(err)
	}
	s, err := format.FormatElapsed(seconds)
	if err != nil {
		return Unavailable
	}
	return s
}
