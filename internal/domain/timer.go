package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultFocusGoal is journaled when a session starts without a goal.
const DefaultFocusGoal = "No goal set"

// Session is the in-memory state of the timer. It is owned by the timer
// engine and only changed through Apply.
type Session struct {
	ID         string
	Phase      Phase
	PausedFrom Phase
	Running    bool
	Remaining  int // seconds left in the active phase
	Total      int // seconds configured for the active phase
	StartedAt  *time.Time
	Goal       string
	Note       string
	Settings   TimerSettings
}

// NewSession returns an idle timer armed with the given settings.
func NewSession(settings TimerSettings) Session {
	return Session{
		Phase:     PhaseIdle,
		Remaining: settings.WorkSeconds(),
		Total:     settings.WorkSeconds(),
		Settings:  settings,
	}
}

// ActivePhase returns the phase that is counting down, looking through a pause.
func (s Session) ActivePhase() Phase {
	if s.Phase == PhasePaused {
		return s.PausedFrom
	}
	return s.Phase
}

// InProgress returns true if a work session has been started and not yet journaled.
func (s Session) InProgress() bool {
	return s.StartedAt != nil
}

// BreakOpen returns true if break content may be on screen.
func (s Session) BreakOpen() bool {
	return s.ActivePhase() == PhaseOnBreak
}

// CanStart returns true if a start event would begin a new work session.
func (s Session) CanStart() bool {
	return s.Phase == PhaseIdle || (s.Phase == PhaseWorking && !s.Running)
}

// Progress returns the completed fraction of the active phase, clamped to [0, 1].
func (s Session) Progress() float64 {
	if s.Total <= 0 {
		return 0
	}
	p := 1 - float64(s.Remaining)/float64(s.Total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Apply computes the state that follows ev and the effects the transition
// requests. It never fails: events that do not apply yield the unchanged
// state and a Rejected effect.
func Apply(s Session, ev Event) (Session, []Effect) {
	switch e := ev.(type) {
	case Start:
		return s.start(e.At, e.Goal, e.Note, e.SessionID, "start")
	case Tick:
		return s.tick()
	case Pause:
		return s.pause("pause")
	case Resume:
		return s.resume("resume")
	case Toggle:
		switch {
		case s.CanStart():
			return s.start(e.At, e.Goal, e.Note, e.SessionID, "toggle")
		case s.Phase == PhasePaused:
			return s.resume("toggle")
		default:
			return s.pause("toggle")
		}
	case EndBreak:
		return s.endBreak(e.At)
	case Reset:
		return s.reset()
	case Quit:
		return s.quit()
	case Configure:
		return s.configure(e.Settings)
	}
	return s, []Effect{reject(ev, "unknown event")}
}

func reject(ev Event, format string, args ...any) Rejected {
	return Rejected{
		Event: EventName(ev),
		Err:   fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...)),
	}
}

func rejectNamed(name, format string, args ...any) Rejected {
	return Rejected{
		Event: name,
		Err:   fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...)),
	}
}

func (s Session) start(at time.Time, goal, note, id, name string) (Session, []Effect) {
	if !s.CanStart() {
		return s, []Effect{rejectNamed(name, "cannot start while %s", s.Phase)}
	}
	goal = strings.TrimSpace(goal)
	if goal == "" {
		goal = DefaultFocusGoal
	}
	started := at
	s.ID = id
	s.Phase = PhaseWorking
	s.PausedFrom = ""
	s.Running = true
	s.Remaining = s.Settings.WorkSeconds()
	s.Total = s.Settings.WorkSeconds()
	s.StartedAt = &started
	s.Goal = goal
	s.Note = strings.TrimSpace(note)
	return s, nil
}

func (s Session) tick() (Session, []Effect) {
	if !s.Running {
		return s, nil
	}
	switch s.Phase {
	case PhaseWorking:
		if s.Remaining > 0 {
			s.Remaining--
		}
		if s.Remaining == 0 {
			return s.startBreak()
		}
	case PhaseOnBreak:
		// Break expiry only surfaces a zero countdown; ending the break is explicit.
		if s.Remaining > 0 {
			s.Remaining--
		}
	}
	return s, nil
}

func (s Session) startBreak() (Session, []Effect) {
	s.Phase = PhaseOnBreak
	s.Running = true
	s.Remaining = s.Settings.BreakSeconds()
	s.Total = s.Settings.BreakSeconds()

	var effects []Effect
	if s.Settings.SoundEnabled && s.Settings.MediaMode != MediaMusic {
		effects = append(effects, PlayChime{})
	}
	if s.Settings.ShowNotifications {
		effects = append(effects, Notify{Kind: NotifyBreakStarted, BreakMinutes: s.Settings.BreakMinutes})
	}
	effects = append(effects, PresentBreak{Mode: s.Settings.MediaMode})
	return s, effects
}

func (s Session) pause(name string) (Session, []Effect) {
	if !s.Running || (s.Phase != PhaseWorking && s.Phase != PhaseOnBreak) {
		return s, []Effect{rejectNamed(name, "nothing is running")}
	}
	s.PausedFrom = s.Phase
	s.Phase = PhasePaused
	s.Running = false
	return s, nil
}

func (s Session) resume(name string) (Session, []Effect) {
	if s.Phase != PhasePaused {
		return s, []Effect{rejectNamed(name, "timer is not paused")}
	}
	s.Phase = s.PausedFrom
	s.PausedFrom = ""
	s.Running = true
	return s, nil
}

func (s Session) endBreak(at time.Time) (Session, []Effect) {
	if s.ActivePhase() != PhaseOnBreak {
		return s, []Effect{rejectNamed("end_break", "no break in progress")}
	}

	effects := []Effect{StopPresentation{}}
	if s.StartedAt != nil {
		effects = append(effects, RecordFocus{Record: NewFocusRecord(s.Goal, *s.StartedAt, at, s.Note)})
	}
	if s.Settings.ShowNotifications {
		effects = append(effects, Notify{Kind: NotifyBreakEnded})
	}

	s.ID = ""
	s.Phase = PhaseWorking
	s.PausedFrom = ""
	s.Running = false
	s.Remaining = s.Settings.WorkSeconds()
	s.Total = s.Settings.WorkSeconds()
	s.StartedAt = nil
	s.Goal = ""
	s.Note = ""
	return s, effects
}

func (s Session) reset() (Session, []Effect) {
	var effects []Effect
	if s.BreakOpen() {
		effects = append(effects, StopPresentation{})
	}
	return NewSession(s.Settings), effects
}

func (s Session) quit() (Session, []Effect) {
	var effects []Effect
	if s.BreakOpen() {
		effects = append(effects, StopPresentation{})
	}
	s.Running = false
	return s, append(effects, Terminate{})
}

func (s Session) configure(settings TimerSettings) (Session, []Effect) {
	if err := settings.Validate(); err != nil {
		return s, []Effect{Rejected{Event: "configure", Err: err}}
	}
	var effects []Effect
	if s.BreakOpen() {
		effects = append(effects, StopPresentation{})
	}
	return NewSession(settings), append(effects, SettingsApplied{Settings: settings})
}
