// Package domain contains the core entities of breakr: the work/break timer
// state machine, focus records, and the settings the timer runs with.
// Nothing in this package performs I/O.
package domain

import "errors"

// Common domain errors.
var (
	ErrConfigLoad           = errors.New("config load failed")
	ErrConfigSave           = errors.New("config save failed")
	ErrInvalidSetting       = errors.New("invalid setting value")
	ErrMediaResourceMissing = errors.New("media resource missing")
	ErrMediaDecode          = errors.New("media decode failed")
	ErrJournalRead          = errors.New("focus journal read failed")
	ErrJournalWrite         = errors.New("focus journal write failed")
	ErrInvalidDate          = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTransition    = errors.New("invalid timer transition")
	ErrAlreadyRunning       = errors.New("breakr is already running")
	ErrEngineStopped        = errors.New("timer engine stopped")
)
