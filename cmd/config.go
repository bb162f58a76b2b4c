package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/xvierd/breakr/internal/config"
	"github.com/xvierd/breakr/internal/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	Long: `View and change the settings in config.json.

A running timer picks up saved changes; changed durations or media reset it.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printConfig(cmd.OutOrStdout(), app.config)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change one setting",
	Long: `Change one setting and save config.json.

Values starting with "-" need a "--" first, otherwise they read as flags:
  breakr config set -- animation_speed -5

Keys: ` + strings.Join(config.Keys, ", "),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.ParseSetting(app.config, key, value); err != nil {
			return err
		}
		if err := app.store.Save(app.config); err != nil {
			return err
		}
		saved, _ := app.config.Get(key)
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, saved)
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit settings in a form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := newSettingsForm(app.config)
		if err := values.form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled, nothing saved.")
				return nil
			}
			return fmt.Errorf("failed to run settings form: %w", err)
		}

		if err := values.apply(app.config); err != nil {
			return err
		}
		if err := app.store.Save(app.config); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", app.store.Path())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the location of config.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), app.store.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configPathCmd)
}

// printConfig writes every setting in file order, or a JSON object with
// --json.
func printConfig(out io.Writer, cfg *config.Config) error {
	if jsonOutput {
		jsonData, err := json.MarshalIndent(cfg.Values(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(out, string(jsonData))
		return nil
	}

	for _, key := range config.Keys {
		v, err := cfg.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-20s %s\n", key, v)
	}
	return nil
}

// settingsForm holds the text the form edits. Values are parsed with
// config.ParseSetting so the form and "config set" accept the same input.
type settingsForm struct {
	form *huh.Form

	workTime        string
	breakTime       string
	mediaType       string
	animationFolder string
	animationSpeed  string
	videoFile       string
	musicFile       string
	soundEnabled    bool
	soundFile       string
	showNotify      bool
	autoStart       bool
	minimizeToTray  bool
}

func newSettingsForm(cfg *config.Config) *settingsForm {
	f := &settingsForm{
		workTime:        strconv.Itoa(cfg.WorkTime),
		breakTime:       strconv.Itoa(cfg.BreakTime),
		mediaType:       cfg.MediaType,
		animationFolder: cfg.AnimationFolder,
		animationSpeed:  strconv.Itoa(cfg.AnimationSpeed),
		videoFile:       cfg.VideoFile,
		musicFile:       cfg.MusicFile,
		soundEnabled:    cfg.SoundEnabled,
		soundFile:       cfg.SoundFile,
		showNotify:      cfg.ShowNotifications,
		autoStart:       cfg.AutoStart,
		minimizeToTray:  cfg.MinimizeToTray,
	}

	mediaOptions := make([]huh.Option[string], 0, len(domain.ValidMediaModes))
	for _, m := range domain.ValidMediaModes {
		mediaOptions = append(mediaOptions, huh.NewOption(m.Label(), string(m)))
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Work time (min)").
				Value(&f.workTime).
				Validate(validateSetting(config.KeyWorkTime)),
			huh.NewInput().
				Title("Break time (min)").
				Value(&f.breakTime).
				Validate(validateSetting(config.KeyBreakTime)),
			huh.NewConfirm().
				Title("Start working on launch").
				Value(&f.autoStart),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Break media").
				Options(mediaOptions...).
				Value(&f.mediaType),
			huh.NewInput().
				Title("Animation folder").
				Description("Relative paths are inside the data directory").
				Value(&f.animationFolder),
			huh.NewInput().
				Title("Animation speed (ms per frame)").
				Value(&f.animationSpeed).
				Validate(validateSetting(config.KeyAnimationSpeed)),
			huh.NewInput().
				Title("Video file").
				Value(&f.videoFile),
			huh.NewInput().
				Title("Music file").
				Value(&f.musicFile),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Play a sound when the break starts").
				Value(&f.soundEnabled),
			huh.NewInput().
				Title("Sound file").
				Value(&f.soundFile),
			huh.NewConfirm().
				Title("Desktop notifications").
				Value(&f.showNotify),
			huh.NewConfirm().
				Title("Hide to tray on esc").
				Value(&f.minimizeToTray),
		),
	).WithTheme(huh.ThemeCharm())

	return f
}

// validateSetting checks text against a scratch copy of the config.
func validateSetting(key string) func(string) error {
	return func(text string) error {
		scratch := *config.DefaultConfig()
		return config.ParseSetting(&scratch, key, text)
	}
}

// apply stores the form values in cfg. cfg is only changed when every
// value parses.
func (f *settingsForm) apply(cfg *config.Config) error {
	next := *cfg
	fields := []struct {
		key  string
		text string
	}{
		{config.KeyWorkTime, f.workTime},
		{config.KeyBreakTime, f.breakTime},
		{config.KeyMediaType, f.mediaType},
		{config.KeyAnimationFolder, f.animationFolder},
		{config.KeyAnimationSpeed, f.animationSpeed},
		{config.KeyVideoFile, f.videoFile},
		{config.KeyMusicFile, f.musicFile},
		{config.KeySoundEnabled, strconv.FormatBool(f.soundEnabled)},
		{config.KeySoundFile, f.soundFile},
		{config.KeyShowNotifications, strconv.FormatBool(f.showNotify)},
		{config.KeyAutoStart, strconv.FormatBool(f.autoStart)},
		{config.KeyMinimizeToTray, strconv.FormatBool(f.minimizeToTray)},
	}
	for _, field := range fields {
		if err := config.ParseSetting(&next, field.key, field.text); err != nil {
			return err
		}
	}
	*cfg = next
	return nil
}
