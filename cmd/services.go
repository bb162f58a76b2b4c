package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/xvierd/breakr/internal/adapters/git"
	"github.com/xvierd/breakr/internal/adapters/notification"
	"github.com/xvierd/breakr/internal/adapters/storage"
	"github.com/xvierd/breakr/internal/config"
	"github.com/xvierd/breakr/internal/logger"
	"github.com/xvierd/breakr/internal/ports"
	"github.com/xvierd/breakr/internal/services"
)

// Journal backends accepted by --journal.
const (
	journalJSON   = "json"
	journalSQLite = "sqlite"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	paths    config.Paths
	store    *config.Store
	config   *config.Config
	journal  ports.Journal
	history  *services.HistoryService
	git      ports.GitDetector
	notifier *notification.Notifier
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices(cmd *cobra.Command) error {
	paths, err := config.ResolvePaths(homeDir)
	if err != nil {
		return err
	}
	app.paths = paths

	var console io.Writer
	if debugMode && !isTimerCommand(cmd) {
		console = cmd.ErrOrStderr()
	}
	if err := logger.Init(logger.Config{Debug: debugMode, LogDir: paths.LogDir(), Console: console}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// A broken config is not fatal: Load falls back to defaults.
	app.store = config.NewStore(paths.ConfigFile())
	app.config, err = app.store.Load()
	if err != nil {
		logger.Warn("config loaded with defaults", "path", paths.ConfigFile(), "error", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	app.journal, err = openJournal(paths, journalKind)
	if err != nil {
		return err
	}
	app.history = services.NewHistoryService(app.journal)
	app.git = git.NewDetector()
	app.notifier = notification.New()

	logger.Debug("services initialized", "home", paths.Home, "journal", journalKind)
	return nil
}

// openJournal opens the focus journal backend named by kind.
func openJournal(paths config.Paths, kind string) (ports.Journal, error) {
	switch kind {
	case "", journalJSON:
		return storage.NewFileJournal(paths.JournalDir()), nil
	case journalSQLite:
		if err := os.MkdirAll(paths.JournalDir(), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
		j, err := storage.NewSQLiteJournal(paths.DBFile())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		return j, nil
	default:
		return nil, fmt.Errorf("unknown journal %q, expected %s or %s", kind, journalJSON, journalSQLite)
	}
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var errs []error
	if app.journal != nil {
		errs = append(errs, app.journal.Close())
		app.journal = nil
	}
	errs = append(errs, logger.Close())
	return errors.Join(errs...)
}

// timerAnnotation marks commands that draw the timer screen.
const timerAnnotation = "breakr/timer"

// timerScreen is set as the Annotations of commands that draw the timer.
func timerScreen() map[string]string {
	return map[string]string{timerAnnotation: "true"}
}

// isTimerCommand reports whether cmd draws the timer screen, which must
// not receive log lines.
func isTimerCommand(cmd *cobra.Command) bool {
	_, ok := cmd.Annotations[timerAnnotation]
	return ok
}

// runnerOptions returns the effect settings for cfg.
func runnerOptions(cfg *config.Config) services.RunnerOptions {
	return services.RunnerOptions{
		SoundFile: cfg.SoundPath(app.paths),
		Media:     cfg.MediaOptions(app.paths),
	}
}

// ensureConfigFile writes the current config when no file exists yet.
// It reports whether a file was written.
func ensureConfigFile() (bool, error) {
	if _, err := os.Stat(app.store.Path()); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to check config file: %w", err)
	}
	if err := app.store.Save(app.config); err != nil {
		return false, err
	}
	return true, nil
}

// commandContext returns the command context, or Background outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
