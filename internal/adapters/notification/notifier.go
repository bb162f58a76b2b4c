// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/xvierd/breakr/internal/ports"
)

// Title is shown on every breakr notification.
const Title = "Break Reminder"

// notifyFunc delivers a notification; replaced in tests.
var notifyFunc = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Notifier handles desktop notifications.
type Notifier struct {
	appName string
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier.
func New() *Notifier {
	return &Notifier{appName: Title}
}

// Notify displays a desktop notification.
func (n *Notifier) Notify(title, message string) error {
	if err := notifyFunc(title, message); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// NotifyBreakStarted displays a notification when the work period ends.
func (n *Notifier) NotifyBreakStarted(breakMinutes int) error {
	return n.Notify(n.appName, BreakStartedMessage(breakMinutes))
}

// NotifyBreakEnded displays a notification when the break is over.
func (n *Notifier) NotifyBreakEnded() error {
	return n.Notify(n.appName, "Break is over. Back to work!")
}

// BreakStartedMessage is the text announcing a break.
func BreakStartedMessage(breakMinutes int) string {
	unit := "minutes"
	if breakMinutes == 1 {
		unit = "minute"
	}
	return fmt.Sprintf("Work time is over! Take a %d %s break.", breakMinutes, unit)
}
