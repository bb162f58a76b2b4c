package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xvierd/breakr/internal/adapters/audio"
	"github.com/xvierd/breakr/internal/adapters/git"
	"github.com/xvierd/breakr/internal/adapters/lock"
	"github.com/xvierd/breakr/internal/adapters/tray"
	"github.com/xvierd/breakr/internal/adapters/tui"
	"github.com/xvierd/breakr/internal/config"
	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/logger"
	"github.com/xvierd/breakr/internal/services"
)

var (
	runGoal        string
	runNote        string
	runGitNotes    bool
	runTray        bool
	runNoAutoStart bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the work/break timer",
	Long: `Run the work/break timer.

The timer counts down the work period, then opens the break panel. The
break lasts until you end it with "e". With --tray the timer can also be
controlled from the system tray, and esc hides the screen while the
timer keeps going.

Without a terminal the timer runs headless until interrupted.`,
	Args:        cobra.NoArgs,
	Annotations: timerScreen(),
	RunE:        runTimer,
}

// addRunFlags registers the timer flags on c. Both the root command and
// run accept them.
func addRunFlags(c *cobra.Command) {
	c.Flags().StringVarP(&runGoal, "goal", "g", "", "Focus goal for the first session")
	c.Flags().StringVarP(&runNote, "note", "n", "", "Note saved with each focus record")
	c.Flags().BoolVar(&runGitNotes, "git-notes", false, "Add the current git branch and commit to the note")
	c.Flags().BoolVar(&runTray, "tray", false, "Show a system tray icon")
	c.Flags().BoolVar(&runNoAutoStart, "no-auto-start", false, "Wait for start even if auto_start is set")
}

func runTimer(cmd *cobra.Command, args []string) error {
	if err := app.paths.EnsureFolders(); err != nil {
		return err
	}
	if _, err := ensureConfigFile(); err != nil {
		logger.Warn("could not write default config", "error", err)
	}

	pid := lock.New(app.paths.PIDFile())
	if err := pid.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := pid.Release(); err != nil {
			logger.Warn("failed to release lock", "error", err)
		}
	}()

	ctx, cancel := setupSignalHandler(commandContext(cmd))
	defer cancel()

	note := runNote
	if runGitNotes {
		note = joinNote(note, gitNote(ctx))
	}

	engine, runner := newTimer(app.config)
	defer runner.Close()

	interactive := tui.IsInteractive()
	if !interactive {
		reportProgress(cmd.OutOrStdout(), engine, runner)
	}
	go func() {
		if err := engine.Run(ctx); err != nil {
			logger.Error("timer engine stopped", "error", err)
		}
	}()

	watchConfig(engine, runner)

	var shell *tui.Shell
	if interactive {
		shell = tui.NewShell(engine, runner, runner.Current, tui.Options{
			Theme:   tui.DefaultTheme(),
			Keys:    tui.DefaultKeyMap(),
			CanHide: runTray && app.config.MinimizeToTray,
			Goal:    runGoal,
			Note:    note,
		})
		runner.SetPresenter(shell)
	}

	if runTray {
		onShow := func() {}
		if shell != nil {
			onShow = shell.Show
		}
		tr := tray.New(engine, onShow, filepath.Join(app.paths.Home, "assets", "images", "icon.png"))
		tr.Start(ctx)
		defer tr.Stop()
	}

	if app.config.AutoStart && !runNoAutoStart {
		engine.Post(domain.Toggle{Goal: runGoal, Note: note})
	}

	var runErr error
	if shell != nil {
		runErr = shell.Run(ctx)
	} else {
		runErr = runHeadless(ctx, cmd.OutOrStdout(), engine)
	}

	engine.Post(domain.Quit{})
	<-engine.Done()
	logger.Info("breakr stopped")
	return runErr
}

// newTimer builds the engine and its effect runner from cfg. The runner has
// no presenter yet.
func newTimer(cfg *config.Config) (*services.TimerEngine, *services.EffectRunner) {
	settings, err := cfg.TimerSettings()
	if err != nil {
		logger.Warn("invalid timer settings, using defaults", "error", err)
		settings = domain.DefaultTimerSettings()
	}

	runner := services.NewEffectRunner(app.notifier, audio.NewPlayer(), nil, app.journal, runnerOptions(cfg))
	runner.OnSettingsApplied(func(s domain.TimerSettings) {
		logger.Info("timer settings applied", "work", s.WorkMinutes, "break", s.BreakMinutes, "media", s.MediaMode)
	})

	return services.NewTimerEngine(settings, runner), runner
}

// watchConfig applies edits to config.json while the timer runs. Changed
// timer settings reset the timer, matching what saving settings does.
func watchConfig(engine *services.TimerEngine, runner *services.EffectRunner) {
	app.store.Watch(func(cfg *config.Config, err error) {
		if err != nil {
			logger.Warn("config reloaded with defaults", "error", err)
		}
		runner.SetOptions(runnerOptions(cfg))

		settings, err := cfg.TimerSettings()
		if err != nil {
			logger.Warn("ignoring invalid timer settings", "error", err)
			return
		}
		if settings == engine.Snapshot().Settings {
			return
		}
		logger.Info("config changed, resetting timer")
		engine.Post(domain.Configure{Settings: settings})
	})
}

// runHeadless waits until the engine stops or ctx is done.
func runHeadless(ctx context.Context, out io.Writer, engine *services.TimerEngine) error {
	fmt.Fprintln(out, "breakr is running without a terminal UI. Press Ctrl+C to quit.")
	if debugMode {
		if err := logger.Init(logger.Config{Debug: true, LogDir: app.paths.LogDir(), Console: os.Stderr}); err != nil {
			return err
		}
	}

	select {
	case <-ctx.Done():
	case <-engine.Done():
	}
	return nil
}

// reportProgress writes phase changes and saved records to out. It must be
// called before the engine runs.
func reportProgress(out io.Writer, engine *services.TimerEngine, runner *services.EffectRunner) {
	engine.Subscribe(phaseReporter(out))
	runner.OnRecord(func(rec domain.FocusRecord, err error) {
		if err != nil {
			fmt.Fprintf(out, "Could not save focus record: %v\n", err)
			return
		}
		fmt.Fprintf(out, "Saved focus record: %s (%d min)\n", rec.FocusGoal, rec.DurationMinutes)
	})
}

// phaseReporter returns a subscriber that writes a line whenever the phase
// changes.
func phaseReporter(out io.Writer) func(domain.Snapshot) {
	last := domain.Phase("")
	return func(snap domain.Snapshot) {
		if snap.Terminated || snap.Phase == last {
			return
		}
		last = snap.Phase
		fmt.Fprintf(out, "%s  %s\n", snap.StatusLabel(), domain.FormatClock(snap.Remaining))
	}
}

// gitNote describes the repository around the working directory.
func gitNote(ctx context.Context) string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	info, err := app.git.Detect(ctx, wd)
	if err != nil {
		logger.Debug("no git context", "dir", wd, "error", err)
		return ""
	}
	return git.Note(info)
}

func joinNote(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "; ")
}
