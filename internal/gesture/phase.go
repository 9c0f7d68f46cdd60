package gesture

// Phase is the interaction state of a pull-to-refresh gesture.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePulling
	PhaseReadyToRelease
	PhaseRefreshing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePulling:
		return "pulling"
	case PhaseReadyToRelease:
		return "ready"
	case PhaseRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// ScrollMode is the host list's scroll interaction state.
type ScrollMode int

const (
	ScrollIdle ScrollMode = iota
	ScrollDragging
	ScrollFlinging
)

func (s ScrollMode) String() string {
	switch s {
	case ScrollIdle:
		return "idle"
	case ScrollDragging:
		return "dragging"
	case ScrollFlinging:
		return "flinging"
	default:
		return "unknown"
	}
}

// Presenter renders the header for a phase and reveal offset. It is called
// on every change and may see the same values more than once.
type Presenter interface {
	Render(phase Phase, offset int)
}

// PresenterFunc adapts a plain function to a Presenter.
type PresenterFunc func(phase Phase, offset int)

func (f PresenterFunc) Render(phase Phase, offset int) { f(phase, offset) }
