package ports

import (
	"context"
)

// GitInfo is the repository context captured when a focus session starts.
type GitInfo struct {
	Repository string
	Branch     string
	Commit     string
	Modified   []string
}

// GitDetector defines the interface for git context detection.
// This is a driven port (implemented by adapters).
type GitDetector interface {
	// Detect reads the repository that contains workingDir.
	Detect(ctx context.Context, workingDir string) (*GitInfo, error)
}
