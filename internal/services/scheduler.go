package services

import (
	"time"

	"github.com/xvierd/breakr/internal/ports"
)

// ClockScheduler arms ticks on the wall clock.
type ClockScheduler struct{}

// Schedule implements ports.TickScheduler.
func (ClockScheduler) Schedule(d time.Duration, fn func()) ports.TickHandle {
	return timerHandle{t: time.AfterFunc(d, fn)}
}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Cancel() bool {
	return h.t.Stop()
}
