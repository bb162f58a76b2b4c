package ports

import (
	"context"

	"github.com/xvierd/breakr/internal/domain"
)

// FocusHistory provides read access to the focus journal for the MCP tools.
type FocusHistory interface {
	// RecordsForDay returns the records of date whose goal matches filter.
	RecordsForDay(ctx context.Context, date, filter string) ([]domain.FocusRecord, error)
}

// MCPHandler defines the interface for the MCP server.
type MCPHandler interface {
	// Start begins serving MCP requests via stdio.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}
