package ports

import "time"

// TickHandle cancels one scheduled tick.
type TickHandle interface {
	// Cancel stops the tick and reports whether it had not yet fired.
	Cancel() bool
}

// TickScheduler arms single cancellable ticks.
type TickScheduler interface {
	// Schedule runs fn once after d.
	Schedule(d time.Duration, fn func()) TickHandle
}
