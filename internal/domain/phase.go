package domain

// Phase is the position of the timer in its work/break cycle.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseWorking Phase = "working"
	PhaseOnBreak Phase = "on_break"
	PhasePaused  Phase = "paused"
)

// Label returns a human-readable label for the phase.
func (p Phase) Label() string {
	switch p {
	case PhaseIdle:
		return "Ready"
	case PhaseWorking:
		return "Working"
	case PhaseOnBreak:
		return "Break time"
	case PhasePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}
