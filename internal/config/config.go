// Package config provides configuration management for breakr.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/media"
)

// Setting keys as they appear in config.json.
const (
	KeyWorkTime          = "work_time"
	KeyBreakTime         = "break_time"
	KeyAnimationFolder   = "animation_folder"
	KeyAnimationSpeed    = "animation_speed"
	KeySoundEnabled      = "sound_enabled"
	KeySoundFile         = "sound_file"
	KeyAutoStart         = "auto_start"
	KeyMinimizeToTray    = "minimize_to_tray"
	KeyShowNotifications = "show_notifications"
	KeyMediaType         = "media_type"
	KeyVideoFile         = "video_file"
	KeyMusicFile         = "music_file"
)

// Keys lists every known setting in file order.
var Keys = []string{
	KeyWorkTime,
	KeyBreakTime,
	KeyAnimationFolder,
	KeyAnimationSpeed,
	KeySoundEnabled,
	KeySoundFile,
	KeyAutoStart,
	KeyMinimizeToTray,
	KeyShowNotifications,
	KeyMediaType,
	KeyVideoFile,
	KeyMusicFile,
}

// Config holds all configuration for breakr.
type Config struct {
	WorkTime          int    `mapstructure:"work_time"`
	BreakTime         int    `mapstructure:"break_time"`
	AnimationFolder   string `mapstructure:"animation_folder"`
	AnimationSpeed    int    `mapstructure:"animation_speed"`
	SoundEnabled      bool   `mapstructure:"sound_enabled"`
	SoundFile         string `mapstructure:"sound_file"`
	AutoStart         bool   `mapstructure:"auto_start"`
	MinimizeToTray    bool   `mapstructure:"minimize_to_tray"`
	ShowNotifications bool   `mapstructure:"show_notifications"`
	MediaType         string `mapstructure:"media_type"`
	VideoFile         string `mapstructure:"video_file"`
	MusicFile         string `mapstructure:"music_file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		WorkTime:          40,
		BreakTime:         8,
		AnimationFolder:   "assets/animations",
		AnimationSpeed:    100,
		SoundEnabled:      true,
		SoundFile:         "assets/sounds/test.mp3",
		AutoStart:         true,
		MinimizeToTray:    true,
		ShowNotifications: true,
		MediaType:         string(domain.MediaGIF),
		VideoFile:         "assets/videos/sample.mp4",
		MusicFile:         "assets/sounds/test.mp3",
	}
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	for _, key := range Keys {
		v.SetDefault(key, def.value(key))
	}
}

// value returns the typed value of key.
func (c *Config) value(key string) any {
	switch key {
	case KeyWorkTime:
		return c.WorkTime
	case KeyBreakTime:
		return c.BreakTime
	case KeyAnimationFolder:
		return c.AnimationFolder
	case KeyAnimationSpeed:
		return c.AnimationSpeed
	case KeySoundEnabled:
		return c.SoundEnabled
	case KeySoundFile:
		return c.SoundFile
	case KeyAutoStart:
		return c.AutoStart
	case KeyMinimizeToTray:
		return c.MinimizeToTray
	case KeyShowNotifications:
		return c.ShowNotifications
	case KeyMediaType:
		return c.MediaType
	case KeyVideoFile:
		return c.VideoFile
	case KeyMusicFile:
		return c.MusicFile
	}
	return nil
}

// Get returns the text form of a setting.
func (c *Config) Get(key string) (string, error) {
	v := c.value(key)
	if v == nil {
		return "", fmt.Errorf("%w: unknown key %q", domain.ErrInvalidSetting, key)
	}
	return cast.ToString(v), nil
}

// Values returns every setting keyed by its config.json name.
func (c *Config) Values() map[string]any {
	values := make(map[string]any, len(Keys))
	for _, key := range Keys {
		values[key] = c.value(key)
	}
	return values
}

// ParseSetting converts text to the type of key and stores it in cfg.
// On error cfg is left untouched.
func ParseSetting(cfg *Config, key, text string) error {
	text = strings.TrimSpace(text)
	switch key {
	case KeyWorkTime, KeyBreakTime, KeyAnimationSpeed:
		n, err := parsePositive(text)
		if err != nil {
			return fmt.Errorf("%w: %s must be a positive whole number, got %q", domain.ErrInvalidSetting, key, text)
		}
		switch key {
		case KeyWorkTime:
			cfg.WorkTime = n
		case KeyBreakTime:
			cfg.BreakTime = n
		default:
			cfg.AnimationSpeed = n
		}
	case KeySoundEnabled, KeyAutoStart, KeyMinimizeToTray, KeyShowNotifications:
		b, err := cast.ToBoolE(strings.ToLower(text))
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false, got %q", domain.ErrInvalidSetting, key, text)
		}
		switch key {
		case KeySoundEnabled:
			cfg.SoundEnabled = b
		case KeyAutoStart:
			cfg.AutoStart = b
		case KeyMinimizeToTray:
			cfg.MinimizeToTray = b
		default:
			cfg.ShowNotifications = b
		}
	case KeyMediaType:
		mode, err := domain.ParseMediaMode(text)
		if err != nil {
			return err
		}
		cfg.MediaType = string(mode)
	case KeyAnimationFolder:
		cfg.AnimationFolder = text
	case KeySoundFile:
		cfg.SoundFile = text
	case KeyVideoFile:
		cfg.VideoFile = text
	case KeyMusicFile:
		cfg.MusicFile = text
	default:
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidSetting, key)
	}
	return nil
}

// parsePositive reads a decimal integer above zero. "08" is eight; floats
// and digit separators are rejected rather than truncated.
func parsePositive(text string) (int, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}

// TimerSettings converts the config to the settings the timer runs with.
func (c *Config) TimerSettings() (domain.TimerSettings, error) {
	mode, err := domain.ParseMediaMode(c.MediaType)
	if err != nil {
		return domain.TimerSettings{}, err
	}
	s := domain.TimerSettings{
		WorkMinutes:       c.WorkTime,
		BreakMinutes:      c.BreakTime,
		SoundEnabled:      c.SoundEnabled,
		ShowNotifications: c.ShowNotifications,
		MediaMode:         mode,
	}
	if err := s.Validate(); err != nil {
		return domain.TimerSettings{}, err
	}
	return s, nil
}

// MediaOptions returns the break media settings with paths resolved
// against the data directory.
func (c *Config) MediaOptions(p Paths) media.Options {
	mode, err := domain.ParseMediaMode(c.MediaType)
	if err != nil {
		mode = domain.MediaGIF
	}
	speed := c.AnimationSpeed
	if speed <= 0 {
		speed = DefaultConfig().AnimationSpeed
	}
	return media.Options{
		Mode:            mode,
		AnimationFolder: p.Resolve(c.AnimationFolder),
		VideoFile:       p.Resolve(c.VideoFile),
		MusicFile:       p.Resolve(c.MusicFile),
		FrameInterval:   time.Duration(speed) * time.Millisecond,
	}
}

// SoundPath returns the chime file resolved against the data directory.
func (c *Config) SoundPath(p Paths) string {
	return p.Resolve(c.SoundFile)
}

// Store reads and writes config.json. Keys the program does not know are
// kept with their original spelling and written back on Save.
type Store struct {
	path    string
	watcher *viper.Viper

	mu  sync.Mutex
	raw map[string]json.RawMessage
}

// NewStore creates a store for the config file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the config file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the config file. A missing file yields defaults and no error.
// A corrupt file or invalid values yield defaults for what could not be
// read, together with an error wrapping domain.ErrConfigLoad.
func (s *Store) Load() (*Config, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.setRaw(nil)
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("%w: failed to read %s: %w", domain.ErrConfigLoad, s.path, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return DefaultConfig(), fmt.Errorf("%w: failed to parse %s: %w", domain.ErrConfigLoad, s.path, err)
	}
	s.setRaw(doc)

	v := viper.New()
	v.SetConfigType("json")
	setDefaults(v)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return DefaultConfig(), fmt.Errorf("%w: failed to read config: %w", domain.ErrConfigLoad, err)
	}

	return decode(v)
}

// decode reads every known key from v. A value that cannot be used keeps
// its default and is reported; the other keys are still read.
func decode(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	var errs []error
	for _, key := range Keys {
		text, err := cast.ToStringE(v.Get(key))
		if err == nil {
			err = ParseSetting(cfg, key, text)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	if len(errs) == 0 {
		return cfg, nil
	}
	return cfg, fmt.Errorf("%w: invalid values replaced by defaults: %w", domain.ErrConfigLoad, errors.Join(errs...))
}

func (s *Store) setRaw(doc map[string]json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = doc
}

// Save overwrites the config file with cfg plus any unknown keys read by
// the last Load. The file is replaced atomically.
func (s *Store) Save(cfg *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := make(map[string]json.RawMessage, len(s.raw)+len(Keys))
	for k, v := range s.raw {
		doc[k] = v
	}
	for _, key := range Keys {
		b, err := json.Marshal(cfg.value(key))
		if err != nil {
			return fmt.Errorf("%w: failed to encode %s: %w", domain.ErrConfigSave, key, err)
		}
		doc[key] = b
	}

	data, err := encodeOrdered(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfigSave, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: failed to create config directory: %w", domain.ErrConfigSave, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", domain.ErrConfigSave, tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: failed to replace %s: %w", domain.ErrConfigSave, s.path, err)
	}

	s.raw = doc
	return nil
}

// encodeOrdered writes known keys first in file order, then unknown keys
// sorted, indented by four spaces.
func encodeOrdered(doc map[string]json.RawMessage) ([]byte, error) {
	known := make(map[string]bool, len(Keys))
	order := make([]string, 0, len(doc))
	for _, k := range Keys {
		known[k] = true
		if _, ok := doc[k]; ok {
			order = append(order, k)
		}
	}
	var extra []string
	for k := range doc {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, k := range order {
		if i > 0 {
			compact.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		compact.Write(name)
		compact.WriteByte(':')
		compact.Write(doc[k])
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "    "); err != nil {
		return nil, fmt.Errorf("failed to format config: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Watch calls fn with the reloaded config every time the file changes.
func (s *Store) Watch(fn func(*Config, error)) {
	s.mu.Lock()
	if s.watcher == nil {
		s.watcher = viper.New()
		s.watcher.SetConfigFile(s.path)
		s.watcher.SetConfigType("json")
	}
	w := s.watcher
	s.mu.Unlock()

	w.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(s.Load())
	})
	w.WatchConfig()
}
