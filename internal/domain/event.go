package domain

import "time"

// Event is an input to the timer state machine.
type Event interface {
	eventName() string
}

// Start begins a work session. At and SessionID are stamped by the engine
// when left empty.
type Start struct {
	At        time.Time
	Goal      string
	Note      string
	SessionID string
}

// Tick is one elapsed second of the active phase.
type Tick struct{}

// Pause interrupts the running phase.
type Pause struct{}

// Resume continues the interrupted phase.
type Resume struct{}

// Toggle starts, pauses or resumes depending on the current phase.
// It is what the tray and the start/pause key send.
type Toggle struct {
	At        time.Time
	Goal      string
	Note      string
	SessionID string
}

// EndBreak finishes the break and journals the session.
type EndBreak struct {
	At time.Time
}

// Reset discards the session and returns to idle.
type Reset struct{}

// Quit terminates the timer.
type Quit struct{}

// Configure replaces the timer settings and resets the timer.
type Configure struct {
	Settings TimerSettings
}

func (Start) eventName() string     { return "start" }
func (Tick) eventName() string      { return "tick" }
func (Pause) eventName() string     { return "pause" }
func (Resume) eventName() string    { return "resume" }
func (Toggle) eventName() string    { return "toggle" }
func (EndBreak) eventName() string  { return "end_break" }
func (Reset) eventName() string     { return "reset" }
func (Quit) eventName() string      { return "quit" }
func (Configure) eventName() string { return "configure" }

// EventName returns the wire name of an event.
func EventName(ev Event) string {
	if ev == nil {
		return ""
	}
	return ev.eventName()
}
