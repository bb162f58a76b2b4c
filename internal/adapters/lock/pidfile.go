// Package lock keeps a single interactive breakr running per data directory.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/xvierd/breakr/internal/domain"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// PIDFile is a lock file holding the pid of the running timer.
type PIDFile struct {
	path string
	held bool
}

// New creates a lock at path. Nothing is written until Acquire.
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Acquire writes the current pid. It fails with domain.ErrAlreadyRunning if
// the file names a live breakr process. A stale file is replaced.
func (l *PIDFile) Acquire() error {
	if pid, ok := l.owner(); ok {
		return fmt.Errorf("%w (pid %d)", domain.ErrAlreadyRunning, pid)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	if err := os.WriteFile(l.path, []byte(strconv.Itoa(getpidFunc())), 0o644); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	l.held = true
	return nil
}

// owner returns the pid of another live breakr holding the lock.
func (l *PIDFile) owner() (int, bool) {
	content, err := os.ReadFile(l.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || pid <= 0 || pid == getpidFunc() {
		return 0, false
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return 0, false
	}
	if !strings.HasPrefix(process.Executable(), "breakr") {
		return 0, false
	}
	return pid, true
}

// Release removes the pid file if this process wrote it.
func (l *PIDFile) Release() error {
	if !l.held {
		return nil
	}
	l.held = false
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove pid file: %w", err)
	}
	return nil
}
