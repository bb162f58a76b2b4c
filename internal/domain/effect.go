package domain

// Effect is a side effect requested by a transition. Effects are carried out
// by the effect runner, never by the state machine itself.
type Effect interface {
	effectName() string
}

// NotifyKind selects the desktop notification to show.
type NotifyKind string

const (
	NotifyBreakStarted NotifyKind = "break_started"
	NotifyBreakEnded   NotifyKind = "break_ended"
)

// PlayChime plays the short notification sound.
type PlayChime struct{}

// Notify shows a desktop notification.
type Notify struct {
	Kind         NotifyKind
	BreakMinutes int
}

// PresentBreak opens the break content for the given media mode.
type PresentBreak struct {
	Mode MediaMode
}

// StopPresentation closes the break content and releases media handles.
type StopPresentation struct{}

// RecordFocus appends a focus record to the journal.
type RecordFocus struct {
	Record FocusRecord
}

// SettingsApplied reports that new timer settings are in effect.
type SettingsApplied struct {
	Settings TimerSettings
}

// Rejected reports an event that does not apply to the current state.
type Rejected struct {
	Event string
	Err   error
}

// Terminate ends the timer loop.
type Terminate struct{}

func (PlayChime) effectName() string        { return "play_chime" }
func (Notify) effectName() string           { return "notify" }
func (PresentBreak) effectName() string     { return "present_break" }
func (StopPresentation) effectName() string { return "stop_presentation" }
func (RecordFocus) effectName() string      { return "record_focus" }
func (SettingsApplied) effectName() string  { return "settings_applied" }
func (Rejected) effectName() string         { return "rejected" }
func (Terminate) effectName() string        { return "terminate" }

// EffectName returns the name of an effect.
func EffectName(e Effect) string {
	if e == nil {
		return ""
	}
	return e.effectName()
}
