package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HomeEnv overrides the data directory.
const HomeEnv = "BREAKR_HOME"

// AssetFolders are created under the data directory on first run.
var AssetFolders = []string{
	filepath.Join("assets", "animations"),
	filepath.Join("assets", "sounds"),
	filepath.Join("assets", "images"),
	filepath.Join("assets", "videos"),
}

// Paths locates the files breakr keeps in its data directory.
type Paths struct {
	Home string
}

// ResolvePaths picks the data directory: the explicit home, then
// $BREAKR_HOME, then ~/.breakr.
func ResolvePaths(home string) (Paths, error) {
	if home == "" {
		home = os.Getenv(HomeEnv)
	}
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, fmt.Errorf("failed to get home directory: %w", err)
		}
		home = filepath.Join(userHome, ".breakr")
	}
	home, err := expandHome(home)
	if err != nil {
		return Paths{}, err
	}
	abs, err := filepath.Abs(home)
	if err != nil {
		return Paths{}, fmt.Errorf("failed to resolve %s: %w", home, err)
	}
	return Paths{Home: abs}, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(userHome, strings.TrimPrefix(path, "~")), nil
}

// ConfigFile returns the path to config.json.
func (p Paths) ConfigFile() string {
	return filepath.Join(p.Home, "config.json")
}

// JournalDir returns the directory of the per-day focus journals.
func (p Paths) JournalDir() string {
	return filepath.Join(p.Home, "focus_records")
}

// DBFile returns the path to the sqlite journal.
func (p Paths) DBFile() string {
	return filepath.Join(p.JournalDir(), "focus.db")
}

// LogDir returns the directory of the rotating log.
func (p Paths) LogDir() string {
	return filepath.Join(p.Home, "logs")
}

// PIDFile returns the single instance lock file.
func (p Paths) PIDFile() string {
	return filepath.Join(p.Home, "breakr.pid")
}

// Resolve makes a configured path absolute relative to the data directory.
func (p Paths) Resolve(path string) string {
	if path == "" {
		return ""
	}
	if expanded, err := expandHome(path); err == nil {
		path = expanded
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Home, path)
}

// EnsureFolders creates the data directory layout.
func (p Paths) EnsureFolders() error {
	dirs := []string{p.Home, p.JournalDir(), p.LogDir()}
	for _, f := range AssetFolders {
		dirs = append(dirs, filepath.Join(p.Home, f))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}
