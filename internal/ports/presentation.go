package ports

import (
	"github.com/xvierd/breakr/internal/media"
)

// Notifier delivers desktop notifications.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// NotifyBreakStarted announces the start of a break of the given length.
	NotifyBreakStarted(breakMinutes int) error

	// NotifyBreakEnded announces the end of a break.
	NotifyBreakEnded() error
}

// AudioPlayer plays sound files. Only one source plays at a time.
// This is a driven port (implemented by adapters).
type AudioPlayer interface {
	// PlayOnce plays the file to its end, replacing any current sound.
	PlayOnce(path string) error

	// Loop plays the file repeatedly until Stop is called.
	Loop(path string) error

	// Stop silences the player and releases open files.
	Stop()
}

// BreakPresenter shows break content.
// This is a driven port (implemented by the presentation shell).
type BreakPresenter interface {
	// ShowBreak opens the break content described by sel.
	ShowBreak(sel media.Selection)

	// ShowFrame advances an animation or video clock.
	ShowFrame(frame media.Frame)

	// CloseBreak removes the break content.
	CloseBreak()
}

// PlaybackControl toggles break media playback independently of the countdown.
type PlaybackControl interface {
	// TogglePlayback flips play/pause and reports whether media is now playing.
	TogglePlayback() bool
}
