package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"refreshlist/internal/model"
)

// rowHeight is the number of terminal lines one entry occupies.
const rowHeight = 2

// listView is a scrolling window over the entries. first is the index of
// the topmost visible entry.
type listView struct {
	entries []model.Entry
	first   int
}

// scrollTo moves the window so that first is the top row, clamped to the
// entries that exist given capacity visible rows. It reports whether the
// top row changed.
func (l *listView) scrollTo(first, capacity int) bool {
	last := max(len(l.entries)-max(capacity, 1), 0)
	first = min(max(first, 0), last)
	if first == l.first {
		return false
	}
	l.first = first
	return true
}

func (l *listView) scrollBy(delta, capacity int) bool {
	return l.scrollTo(l.first+delta, capacity)
}

// top returns the topmost visible entry, or nil for an empty list.
func (l *listView) top() *model.Entry {
	if l.first < 0 || l.first >= len(l.entries) {
		return nil
	}
	return &l.entries[l.first]
}

// View renders up to rows entries starting at first, two lines each.
func (l listView) View(width, rows int) string {
	if len(l.entries) == 0 {
		return dimStyle.PaddingLeft(2).Render("Nothing here yet. Pull down to refresh.")
	}

	end := min(l.first+max(rows, 0), len(l.entries))
	var b strings.Builder
	for i := l.first; i < end; i++ {
		if i > l.first {
			b.WriteString("\n")
		}
		b.WriteString(renderRow(l.entries[i], width))
	}
	return b.String()
}

func renderRow(e model.Entry, width int) string {
	name := truncate(e.Name, width-2)
	detail := e.Description
	if e.Info != "" {
		if detail != "" {
			detail += " · "
		}
		detail = truncate(detail, width-2-lipgloss.Width(e.Info))
		return rowNameStyle.Render(name) + "\n" +
			rowDetailStyle.Render(detail) + infoStyle.Render(e.Info)
	}
	return rowNameStyle.Render(name) + "\n" + rowDetailStyle.Render(truncate(detail, width-2))
}

// truncate shortens s to at most n terminal cells, marking the cut with an
// ellipsis. Wide runes count as two cells. A non-positive n leaves s
// unchanged.
func truncate(s string, n int) string {
	if n <= 0 || lipgloss.Width(s) <= n {
		return s
	}
	return ansi.Truncate(s, n, "…")
}
