// Package gesture interprets pointer and scroll events from a list into the
// phases of a pull-to-refresh gesture.
package gesture

import (
	"log/slog"
)

const (
	defaultThreshold    = 30
	defaultPinnedOffset = 50
)

// Config sizes the gesture. All values are in the host's coordinate unit.
type Config struct {
	HeaderHeight int // reveal height of the header at rest
	Threshold    int // extra drag past HeaderHeight needed to arm release
	PinnedOffset int // reveal offset held while refreshing
}

// DefaultConfig returns a Config for the given header height with the
// default threshold and pinned offset.
func DefaultConfig(headerHeight int) Config {
	return Config{
		HeaderHeight: headerHeight,
		Threshold:    defaultThreshold,
		PinnedOffset: defaultPinnedOffset,
	}
}

// ArmDistance is the drag distance that must be exceeded to arm release.
func (c Config) ArmDistance() int { return c.HeaderHeight + c.Threshold }

type session struct {
	originY  int
	eligible bool
}

// Machine is the pull-to-refresh state machine. It is not safe for
// concurrent use; the host must serialise calls, e.g. by driving it from a
// single event loop.
type Machine struct {
	cfg    Config
	logger *slog.Logger

	phase   Phase
	offset  int
	session session

	firstVisible int
	scrollMode   ScrollMode

	presenter Presenter
	onRefresh func()
}

// New returns a Machine in the idle phase with the header fully hidden.
func New(cfg Config, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{
		cfg:    cfg,
		logger: logger,
		phase:  PhaseIdle,
		offset: -cfg.HeaderHeight,
	}
}

func (m *Machine) Config() Config   { return m.cfg }
func (m *Machine) Phase() Phase     { return m.phase }
func (m *Machine) Offset() int      { return m.offset }
func (m *Machine) Eligible() bool   { return m.session.eligible }
func (m *Machine) Refreshing() bool { return m.phase == PhaseRefreshing }

// SetPresenter replaces the presenter. Passing nil stops notifications.
func (m *Machine) SetPresenter(p Presenter) { m.presenter = p }

// SetRefreshFunc replaces the refresh callback. The last registration wins.
func (m *Machine) SetRefreshFunc(fn func()) { m.onRefresh = fn }

// ScrollPositionChanged records the index of the topmost visible row.
func (m *Machine) ScrollPositionChanged(first int) { m.firstVisible = first }

// ScrollModeChanged records the list's scroll interaction mode.
func (m *Machine) ScrollModeChanged(mode ScrollMode) { m.scrollMode = mode }

// PointerDown opens a session when the first row is at the top of the list.
// A refresh in flight blocks new sessions.
func (m *Machine) PointerDown(y int) {
	if m.firstVisible != 0 || m.phase == PhaseRefreshing {
		return
	}
	m.session = session{originY: y, eligible: true}
}

// PointerMove advances the gesture for a pointer at y.
func (m *Machine) PointerMove(y int) {
	if !m.session.eligible {
		return
	}

	dist := y - m.session.originY
	offset := dist - m.cfg.HeaderHeight

	switch m.phase {
	case PhaseIdle, PhasePulling:
		// A single long move from idle may arm release directly.
		if m.phase == PhaseIdle && dist <= 0 {
			return
		}
		next := PhasePulling
		if dist > m.cfg.ArmDistance() && m.scrollMode == ScrollDragging {
			next = PhaseReadyToRelease
		}
		m.update(next, offset)
	case PhaseReadyToRelease:
		switch {
		case dist <= 0:
			m.session.eligible = false
			m.update(PhaseIdle, -m.cfg.HeaderHeight)
		case dist < m.cfg.ArmDistance():
			m.update(PhasePulling, offset)
		default:
			m.update(PhaseReadyToRelease, offset)
		}
	}
}

// PointerUp ends the session. Releasing an armed pull starts a refresh and
// invokes the refresh callback exactly once.
func (m *Machine) PointerUp() {
	m.session.eligible = false

	switch m.phase {
	case PhaseReadyToRelease:
		m.update(PhaseRefreshing, m.cfg.PinnedOffset)
		if m.onRefresh != nil {
			m.onRefresh()
		}
	case PhasePulling:
		m.update(PhaseIdle, -m.cfg.HeaderHeight)
	}
}

// CompleteRefresh returns a refreshing machine to idle. Outside the
// refreshing phase it does nothing, so repeated calls are harmless.
//
// The machine never leaves the refreshing phase on its own: the owner of the
// refresh task must call this once the task ends, whatever its outcome.
func (m *Machine) CompleteRefresh() {
	if m.phase != PhaseRefreshing {
		return
	}
	m.session = session{}
	m.update(PhaseIdle, -m.cfg.HeaderHeight)
}

func (m *Machine) update(phase Phase, offset int) {
	if phase == m.phase && offset == m.offset {
		return
	}
	if phase != m.phase {
		m.logger.Debug("gesture phase changed",
			"from", m.phase.String(),
			"to", phase.String(),
			"offset", offset,
		)
	}
	m.phase = phase
	m.offset = offset
	if m.presenter != nil {
		m.presenter.Render(phase, offset)
	}
}
