package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"refreshlist/internal/feed"
	"refreshlist/internal/gesture"
	"refreshlist/internal/model"
)

const listZoneID = "refreshlist-rows"

// — messages ————————————————————————————————————————————————————————————————

type refreshedMsg struct {
	entries []model.Entry
	err     error
	took    time.Duration
}

type openedMsg struct {
	err error
}

// — options —————————————————————————————————————————————————————————————————

// Options configures a Model.
type Options struct {
	Context context.Context // parent of every refresh; nil means Background
	Entries []model.Entry
	Source  feed.Source

	Threshold    int // rows past the header needed to arm release
	PinnedOffset int // rows of padding above the header while refreshing
	// RefreshTimeout bounds a refresh task. Zero waits for the source.
	RefreshTimeout time.Duration

	Logger *slog.Logger
}

// — model ———————————————————————————————————————————————————————————————————

// Model hosts a gesture.Machine over a scrolling list. The machine and the
// header are shared by pointer, so copies of Model made by bubbletea all
// drive the same gesture.
type Model struct {
	ctx     context.Context
	machine *gesture.Machine
	header  *header
	list    listView
	source  feed.Source
	timeout time.Duration
	logger  *slog.Logger

	zones  *zone.Manager
	inList func(tea.MouseMsg) bool

	// queued counts refresh requests raised by the machine that have not
	// been turned into a command yet.
	queued *int

	dragging  bool
	lastY     int
	scrollAcc int

	keys keyMap
	help help.Model

	width   int
	height  int
	err     error
	lastRun time.Duration
}

func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	source := opts.Source
	if source == nil {
		source = feed.NewGenerator(0, 1)
	}

	h := newHeader()
	machine := gesture.New(gesture.Config{
		HeaderHeight: h.height(),
		Threshold:    opts.Threshold,
		PinnedOffset: opts.PinnedOffset,
	}, logger)
	machine.SetPresenter(h)

	queued := new(int)
	machine.SetRefreshFunc(func() { *queued++ })

	m := Model{
		ctx:     ctx,
		machine: machine,
		header:  h,
		list:    listView{entries: opts.Entries},
		source:  source,
		timeout: opts.RefreshTimeout,
		logger:  logger,
		zones:   zone.New(),
		queued:  queued,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	zones := m.zones
	m.inList = func(msg tea.MouseMsg) bool {
		z := zones.Get(listZoneID)
		return z != nil && z.InBounds(msg)
	}
	machine.ScrollPositionChanged(m.list.first)
	return m
}

// Close releases the mouse zone tracker.
func (m Model) Close() {
	if m.zones != nil {
		m.zones.Close()
	}
}

// Phase reports the current gesture phase.
func (m Model) Phase() gesture.Phase { return m.machine.Phase() }

// Entries returns the entries currently in the list.
func (m Model) Entries() []model.Entry { return m.list.entries }

// — commands ————————————————————————————————————————————————————————————————

func fetchCmd(ctx context.Context, src feed.Source, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		start := time.Now()
		entries, err := src.Fetch(ctx)
		return refreshedMsg{entries: entries, err: err, took: time.Since(start)}
	}
}

func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
		return openedMsg{err: cmd.Run()}
	}
}

// drainRefresh turns a refresh raised by the machine into the fetch command
// and starts the header spinner.
func (m Model) drainRefresh() tea.Cmd {
	if *m.queued == 0 {
		return nil
	}
	*m.queued = 0
	m.logger.Info("refresh started")
	return tea.Batch(fetchCmd(m.ctx, m.source, m.timeout), m.header.spinner.Tick)
}

// — tea.Model ———————————————————————————————————————————————————————————————

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scrollTo(m.list.first)
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)

	case spinner.TickMsg:
		if !m.machine.Refreshing() {
			return m, nil
		}
		var cmd tea.Cmd
		m.header.spinner, cmd = m.header.spinner.Update(msg)
		return m, cmd

	case refreshedMsg:
		m.lastRun = msg.took
		if msg.err != nil {
			m.err = msg.err
			m.logger.Warn("refresh failed", "error", msg.err, "took", msg.took)
		} else {
			m.err = nil
			m.list.entries = feed.Prepend(m.list.entries, msg.entries)
			m.logger.Info("refresh finished", "added", len(msg.entries), "took", msg.took)
		}
		m.header.lastUpdated = time.Now()
		m.machine.CompleteRefresh()
		m.scrollTo(m.list.first)
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("open url: %w", msg.err)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp && msg.Action == tea.MouseActionPress:
		m.fling(-1)

	case msg.Button == tea.MouseButtonWheelDown && msg.Action == tea.MouseActionPress:
		m.fling(1)

	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if !m.inList(msg) {
			return m, nil
		}
		m.dragging = true
		m.lastY = msg.Y
		m.scrollAcc = 0
		m.machine.PointerDown(msg.Y)

	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.machine.ScrollModeChanged(gesture.ScrollDragging)
		m.machine.PointerMove(msg.Y)
		if p := m.machine.Phase(); p == gesture.PhaseIdle || p == gesture.PhaseRefreshing {
			m.touchScroll(msg.Y - m.lastY)
		}
		m.lastY = msg.Y

	case msg.Action == tea.MouseActionRelease && m.dragging:
		m.dragging = false
		m.machine.PointerUp()
		m.machine.ScrollModeChanged(gesture.ScrollIdle)
	}
	return m, m.drainRefresh()
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.scrollBy(-1)
	case key.Matches(msg, m.keys.Down):
		m.scrollBy(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollBy(-max(m.listRows(), 1))
	case key.Matches(msg, m.keys.PageDown):
		m.scrollBy(max(m.listRows(), 1))
	case key.Matches(msg, m.keys.Top):
		m.scrollTo(0)
	case key.Matches(msg, m.keys.Bottom):
		m.scrollTo(len(m.list.entries))
	case key.Matches(msg, m.keys.Open):
		if e := m.list.top(); e != nil && e.URL != "" {
			return m, openURLCmd(e.URL)
		}
	}
	return m, nil
}

// fling is a wheel scroll: the list scrolls without a finger on it.
func (m *Model) fling(delta int) {
	m.machine.ScrollModeChanged(gesture.ScrollFlinging)
	m.scrollBy(delta)
	m.machine.ScrollModeChanged(gesture.ScrollIdle)
}

// touchScroll scrolls the content with the pointer: moving up by a row's
// height reveals the next entry.
func (m *Model) touchScroll(dy int) {
	m.scrollAcc -= dy
	rows := m.scrollAcc / rowHeight
	if rows == 0 {
		return
	}
	m.scrollAcc -= rows * rowHeight
	m.scrollBy(rows)
}

func (m *Model) scrollTo(first int) {
	if m.list.scrollTo(first, m.listRows()) {
		m.machine.ScrollPositionChanged(m.list.first)
	}
}

func (m *Model) scrollBy(delta int) {
	if m.list.scrollBy(delta, m.listRows()) {
		m.machine.ScrollPositionChanged(m.list.first)
	}
}

// — layout helpers ——————————————————————————————————————————————————————————

// chrome is the number of lines outside the header and list: title, status,
// separator and help.
const chrome = 4

// listRows is the number of entries that fit below the visible header.
func (m Model) listRows() int {
	lines := m.height - chrome - m.header.visible()
	return max(lines/rowHeight, 0)
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	parts := []string{titleStyle.Render("Refreshlist")}
	if hv := m.header.View(m.width); hv != "" {
		parts = append(parts, hv)
	}

	rows := m.list.View(m.width, m.listRows())
	used := lipgloss.Height(strings.Join(parts, "\n")) + lipgloss.Height(rows)
	if gap := m.height - chrome + 1 - used; gap > 0 {
		rows += strings.Repeat("\n", gap)
	}
	// Full-width rows put the zone's end marker on the right edge, so the
	// zone covers every column of the list.
	rows = lipgloss.NewStyle().Width(m.width).Render(rows)
	parts = append(parts, m.zones.Mark(listZoneID, rows))
	parts = append(parts, m.renderStatus(), m.renderHelp())

	return m.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) renderStatus() string {
	var s string
	switch {
	case m.err != nil:
		s = errStyle.Render("Refresh failed: " + m.err.Error())
	case m.machine.Refreshing():
		s = warnStyle.Render("Refreshing…")
	default:
		s = dimStyle.Render(fmt.Sprintf("%d entries", len(m.list.entries)))
		if m.lastRun > 0 {
			s += dimStyle.Render(fmt.Sprintf(" · last refresh took %s", m.lastRun.Round(time.Millisecond)))
		}
	}
	return helpStyle.Render(s)
}

func (m Model) renderHelp() string {
	sep := dimStyle.Render(strings.Repeat("─", m.width))
	return sep + "\n" + helpStyle.Render(m.help.View(m.keys))
}
