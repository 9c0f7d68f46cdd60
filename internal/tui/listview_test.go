package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"refreshlist/internal/feed"
	"refreshlist/internal/model"
)

func TestListScrollClamps(t *testing.T) {
	l := listView{entries: feed.Seed(10)}

	tests := []struct {
		to      int
		want    int
		changed bool
	}{
		{3, 3, true},
		{3, 3, false},
		{-5, 0, true},
		{50, 6, true},
	}
	for _, tt := range tests {
		changed := l.scrollTo(tt.to, 4)
		if l.first != tt.want || changed != tt.changed {
			t.Errorf("scrollTo(%d) first = %d changed = %v, want %d %v",
				tt.to, l.first, changed, tt.want, tt.changed)
		}
	}

	if !l.scrollBy(-2, 4) || l.first != 4 {
		t.Errorf("scrollBy(-2) first = %d, want 4", l.first)
	}
}

func TestListScrollShortList(t *testing.T) {
	l := listView{entries: feed.Seed(2)}
	if l.scrollTo(1, 5) {
		t.Error("a list that fits should not scroll")
	}
	empty := listView{}
	if empty.scrollTo(1, 0) || empty.top() != nil {
		t.Error("empty list should not scroll or have a top entry")
	}
}

func TestListViewRows(t *testing.T) {
	l := listView{entries: []model.Entry{
		{Name: "alpha", Description: "first", Info: "1k"},
		{Name: "beta", Description: "second"},
		{Name: "gamma"},
	}}

	view := l.View(40, 2)
	if got := lipgloss.Height(view); got != 4 {
		t.Errorf("height = %d, want 4", got)
	}
	if !strings.Contains(view, "first · 1k") || strings.Contains(view, "gamma") {
		t.Errorf("view = %q", view)
	}

	l.first = 2
	if !strings.Contains(l.View(40, 5), "gamma") {
		t.Error("scrolled view should start at gamma")
	}

	if !strings.Contains(listView{}.View(40, 5), "Nothing here yet") {
		t.Error("empty list should show a placeholder")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"hello", 1, "…"},
		{"hello", 0, "hello"},
		{"héllo wörld", 6, "héllo…"},
		{"日本語のアプリ", 7, "日本語…"},
		{"日本語のアプリ", 14, "日本語のアプリ"},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
		if tt.n > 0 && lipgloss.Width(got) > tt.n {
			t.Errorf("truncate(%q, %d) is %d cells wide", tt.in, tt.n, lipgloss.Width(got))
		}
	}
}
