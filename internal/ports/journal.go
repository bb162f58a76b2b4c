// Package ports defines the interfaces (driven and driving ports)
// for breakr following hexagonal architecture principles.
// These interfaces define the contracts between the timer core and
// external infrastructure.
package ports

import (
	"context"

	"github.com/xvierd/breakr/internal/domain"
)

// Journal defines the interface for focus record persistence.
// This is a driven port (implemented by adapters).
type Journal interface {
	// Append stamps the record's write time and stores it under that day.
	Append(ctx context.Context, rec *domain.FocusRecord) error

	// RecordsForDate returns the records of a YYYY-MM-DD day in append order.
	// A day without records yields an empty slice.
	RecordsForDate(ctx context.Context, date string) ([]domain.FocusRecord, error)

	// Dates lists the days that have records, newest first.
	Dates(ctx context.Context) ([]string, error)

	// Close releases the underlying storage.
	Close() error
}
