package domain

import (
	"fmt"
	"time"
)

// Snapshot is a read-only view of the timer published to presenters.
type Snapshot struct {
	Phase      Phase
	PausedFrom Phase
	Running    bool
	Remaining  int
	Total      int
	Progress   float64
	Goal       string
	StartedAt  *time.Time
	Settings   TimerSettings
	Message    string
	Terminated bool
}

// SnapshotOf captures the current state of s.
func SnapshotOf(s Session) Snapshot {
	snap := Snapshot{
		Phase:      s.Phase,
		PausedFrom: s.PausedFrom,
		Running:    s.Running,
		Remaining:  s.Remaining,
		Total:      s.Total,
		Progress:   s.Progress(),
		Goal:       s.Goal,
		Settings:   s.Settings,
	}
	if s.StartedAt != nil {
		started := *s.StartedAt
		snap.StartedAt = &started
	}
	return snap
}

// ActivePhase returns the phase that is counting down, looking through a pause.
func (s Snapshot) ActivePhase() Phase {
	if s.Phase == PhasePaused {
		return s.PausedFrom
	}
	return s.Phase
}

// CanStart returns true if a toggle would begin a new work session.
func (s Snapshot) CanStart() bool {
	return s.Phase == PhaseIdle || (s.Phase == PhaseWorking && !s.Running)
}

// BreakOpen returns true if break content may be on screen.
func (s Snapshot) BreakOpen() bool {
	return s.ActivePhase() == PhaseOnBreak
}

// StatusLabel returns the text shown next to the countdown.
func (s Snapshot) StatusLabel() string {
	switch {
	case s.Phase == PhasePaused:
		return "Paused"
	case s.Phase == PhaseWorking && s.Running:
		return "Working..."
	case s.Phase == PhaseWorking:
		return "Break over - press start to resume"
	case s.Phase == PhaseOnBreak && s.Remaining == 0:
		return "Break time is up - end the break when ready"
	case s.Phase == PhaseOnBreak:
		return "Break time!"
	default:
		return "Ready"
	}
}

// FormatClock formats seconds as MM:SS. Minutes are not capped at 59.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
