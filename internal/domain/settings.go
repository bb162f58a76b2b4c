package domain

import (
	"fmt"
	"strings"
)

// MediaMode is the configured kind of break-time content.
type MediaMode string

const (
	MediaGIF   MediaMode = "gif"
	MediaVideo MediaMode = "video"
	MediaMusic MediaMode = "music"
	MediaNone  MediaMode = "none"
)

// ValidMediaModes lists all supported media mode values.
var ValidMediaModes = []MediaMode{
	MediaGIF,
	MediaVideo,
	MediaMusic,
	MediaNone,
}

// ParseMediaMode checks if a string is a valid media mode.
// "image-sequence" is accepted as an alias for gif.
func ParseMediaMode(s string) (MediaMode, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "image-sequence" {
		return MediaGIF, nil
	}
	for _, valid := range ValidMediaModes {
		if MediaMode(v) == valid {
			return valid, nil
		}
	}
	return "", fmt.Errorf("%w: media_type %q must be one of gif, video, music, none", ErrInvalidSetting, s)
}

// Label returns a human-readable label.
func (m MediaMode) Label() string {
	switch m {
	case MediaGIF:
		return "Animation"
	case MediaVideo:
		return "Video"
	case MediaMusic:
		return "Music"
	case MediaNone:
		return "Text only"
	default:
		return "Unknown"
	}
}

// TimerSettings is the part of the configuration the state machine consults.
type TimerSettings struct {
	WorkMinutes       int
	BreakMinutes      int
	SoundEnabled      bool
	ShowNotifications bool
	MediaMode         MediaMode
}

// DefaultTimerSettings returns the settings used when nothing is configured.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		WorkMinutes:       40,
		BreakMinutes:      8,
		SoundEnabled:      true,
		ShowNotifications: true,
		MediaMode:         MediaGIF,
	}
}

// Validate rejects settings the timer cannot be armed with.
func (s TimerSettings) Validate() error {
	if s.WorkMinutes <= 0 {
		return fmt.Errorf("%w: work_time must be a positive number of minutes, got %d", ErrInvalidSetting, s.WorkMinutes)
	}
	if s.BreakMinutes <= 0 {
		return fmt.Errorf("%w: break_time must be a positive number of minutes, got %d", ErrInvalidSetting, s.BreakMinutes)
	}
	return nil
}

// WorkSeconds returns the full length of a work phase.
func (s TimerSettings) WorkSeconds() int {
	return s.WorkMinutes * 60
}

// BreakSeconds returns the full length of a break phase.
func (s TimerSettings) BreakSeconds() int {
	return s.BreakMinutes * 60
}
