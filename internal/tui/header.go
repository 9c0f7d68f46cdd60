package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"refreshlist/internal/gesture"
)

const lastUpdatedLayout = "2006-01-02 15:04:05"

// header is the pull-to-refresh header. It implements gesture.Presenter and
// only stores what it is told; View turns phase and offset into rows.
type header struct {
	phase       gesture.Phase
	offset      int
	lastUpdated time.Time
	spinner     spinner.Model
}

func newHeader() *header {
	h := &header{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Line),
			spinner.WithStyle(warnStyle),
		),
	}
	h.offset = -h.height()
	return h
}

// Render implements gesture.Presenter.
func (h *header) Render(phase gesture.Phase, offset int) {
	h.phase = phase
	h.offset = offset
}

// height is the natural height of the header, measured from its content.
func (h *header) height() int {
	return lipgloss.Height(strings.Join(h.content(0), "\n"))
}

// visible is the number of rows the header currently occupies.
func (h *header) visible() int {
	return max(h.height()+h.offset, 0)
}

func (h *header) content(width int) []string {
	var tip string
	switch h.phase {
	case gesture.PhaseReadyToRelease:
		tip = okStyle.Render("↑") + "  " + boldStyle.Render("Release to refresh")
	case gesture.PhaseRefreshing:
		tip = h.spinner.View() + "  " + boldStyle.Render("Refreshing…")
	default:
		tip = dimStyle.Render("↓") + "  " + boldStyle.Render("Pull down to refresh")
	}

	updated := "never"
	if !h.lastUpdated.IsZero() {
		updated = h.lastUpdated.Format(lastUpdatedLayout)
	}

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	return []string{
		center.Render(tip),
		center.Render(dimStyle.Render("Last updated: " + updated)),
		dimStyle.Render(strings.Repeat("─", max(width, 1))),
	}
}

// View renders the visible part of the header. A partly revealed header
// shows its bottom rows; offsets past the natural height add blank rows on top.
func (h *header) View(width int) string {
	n := h.visible()
	if n == 0 {
		return ""
	}
	lines := h.content(width)
	if n <= len(lines) {
		return strings.Join(lines[len(lines)-n:], "\n")
	}
	pad := make([]string, n-len(lines))
	return strings.Join(append(pad, lines...), "\n")
}
