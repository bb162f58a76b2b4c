package ports

import (
	"context"

	"github.com/xvierd/breakr/internal/domain"
)

// Controller is the single timeline every driver posts timer events to.
// This is a driving port (implemented by the timer engine).
type Controller interface {
	// Post queues an event without waiting for it to be applied.
	Post(ev domain.Event)

	// Dispatch applies an event and returns the resulting snapshot.
	// A rejected event is reported as an error.
	Dispatch(ctx context.Context, ev domain.Event) (domain.Snapshot, error)

	// Snapshot returns the latest published state.
	Snapshot() domain.Snapshot

	// Subscribe registers fn to receive every published snapshot.
	Subscribe(fn func(domain.Snapshot))
}
