package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/breakr/internal/domain"
)

func writeConfig(t *testing.T, dir, body string) *Store {
	t.Helper()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return NewStore(path)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "config.json"))

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadBackfillsMissingKeyAndKeepsUnknown(t *testing.T) {
	dir := t.TempDir()
	store := writeConfig(t, dir, `{
    "work_time": 25,
    "break_time": 5,
    "media_type": "music",
    "Theme_Color": "dark",
    "window": {"x": 10, "y": 20}
}`)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.True(t, cfg.AutoStart)
	assert.Equal(t, 25, cfg.WorkTime)
	assert.Equal(t, 5, cfg.BreakTime)
	assert.Equal(t, "music", cfg.MediaType)
	assert.Equal(t, DefaultConfig().SoundFile, cfg.SoundFile)

	require.NoError(t, ParseSetting(cfg, KeyBreakTime, "6"))
	require.NoError(t, store.Save(cfg))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n    \"work_time\": 25,"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "dark", doc["Theme_Color"])
	assert.Equal(t, map[string]any{"x": float64(10), "y": float64(20)}, doc["window"])
	assert.Equal(t, float64(6), doc["break_time"])
	assert.Equal(t, true, doc["auto_start"])
	assert.Len(t, doc, len(Keys)+2)
}

func TestLoadCorruptFile(t *testing.T) {
	store := writeConfig(t, t.TempDir(), `{"work_time": 25,`)

	cfg, err := store.Load()
	assert.ErrorIs(t, err, domain.ErrConfigLoad)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadInvalidValues(t *testing.T) {
	t.Run("non numeric duration", func(t *testing.T) {
		store := writeConfig(t, t.TempDir(), `{"work_time": "forty"}`)
		cfg, err := store.Load()
		assert.ErrorIs(t, err, domain.ErrConfigLoad)
		assert.Equal(t, 40, cfg.WorkTime)
	})

	t.Run("non positive duration", func(t *testing.T) {
		store := writeConfig(t, t.TempDir(), `{"work_time": 30, "break_time": 0}`)
		cfg, err := store.Load()
		assert.ErrorIs(t, err, domain.ErrConfigLoad)
		assert.Equal(t, 30, cfg.WorkTime)
		assert.Equal(t, 8, cfg.BreakTime)
	})

	t.Run("unknown media type", func(t *testing.T) {
		store := writeConfig(t, t.TempDir(), `{"media_type": "slideshow"}`)
		cfg, err := store.Load()
		assert.ErrorIs(t, err, domain.ErrConfigLoad)
		assert.Equal(t, "gif", cfg.MediaType)
	})

	t.Run("fractional duration", func(t *testing.T) {
		store := writeConfig(t, t.TempDir(), `{"work_time": 2.7, "break_time": 3}`)
		cfg, err := store.Load()
		assert.ErrorIs(t, err, domain.ErrConfigLoad)
		assert.Equal(t, 40, cfg.WorkTime)
		assert.Equal(t, 3, cfg.BreakTime)
	})

	t.Run("image sequence alias", func(t *testing.T) {
		store := writeConfig(t, t.TempDir(), `{"media_type": "image-sequence"}`)
		cfg, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "gif", cfg.MediaType)
	})
}

func TestLoadKeepsValidKeysNextToBadOnes(t *testing.T) {
	store := writeConfig(t, t.TempDir(), `{
    "work_time": "abc",
    "break_time": 3,
    "media_type": "music",
    "sound_enabled": "sometimes",
    "music_file": "assets/sounds/rain.mp3"
}`)

	cfg, err := store.Load()
	require.ErrorIs(t, err, domain.ErrConfigLoad)
	assert.Contains(t, err.Error(), KeyWorkTime)
	assert.Contains(t, err.Error(), KeySoundEnabled)

	assert.Equal(t, 40, cfg.WorkTime)
	assert.True(t, cfg.SoundEnabled)
	assert.Equal(t, 3, cfg.BreakTime)
	assert.Equal(t, "music", cfg.MediaType)
	assert.Equal(t, "assets/sounds/rain.mp3", cfg.MusicFile)
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	store := NewStore(path)

	require.NoError(t, store.Save(DefaultConfig()))

	loaded, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}

func TestSaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := NewStore(filepath.Join(blocker, "config.json")).Save(DefaultConfig())
	assert.ErrorIs(t, err, domain.ErrConfigSave)
}

func TestParseSetting(t *testing.T) {
	tests := []struct {
		key     string
		text    string
		wantErr bool
		check   func(*Config) bool
	}{
		{KeyWorkTime, "25", false, func(c *Config) bool { return c.WorkTime == 25 }},
		{KeyWorkTime, " 08 ", false, func(c *Config) bool { return c.WorkTime == 8 }},
		{KeyWorkTime, "abc", true, nil},
		{KeyWorkTime, "0", true, nil},
		{KeyBreakTime, "-3", true, nil},
		{KeyBreakTime, "2.5", true, nil},
		{KeyBreakTime, "7.9", true, nil},
		{KeyWorkTime, "1_0", true, nil},
		{KeyWorkTime, "1e2", true, nil},
		{KeyAnimationSpeed, "50", false, func(c *Config) bool { return c.AnimationSpeed == 50 }},
		{KeySoundEnabled, "false", false, func(c *Config) bool { return !c.SoundEnabled }},
		{KeyAutoStart, "TRUE", false, func(c *Config) bool { return c.AutoStart }},
		{KeyMinimizeToTray, "maybe", true, nil},
		{KeyMediaType, "Video", false, func(c *Config) bool { return c.MediaType == "video" }},
		{KeyMediaType, "image-sequence", false, func(c *Config) bool { return c.MediaType == "gif" }},
		{KeyMediaType, "slides", true, nil},
		{KeyMusicFile, "/tmp/a.mp3", false, func(c *Config) bool { return c.MusicFile == "/tmp/a.mp3" }},
		{"colour", "red", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.text, func(t *testing.T) {
			cfg := DefaultConfig()
			err := ParseSetting(cfg, tt.key, tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidSetting)
				assert.Equal(t, DefaultConfig(), cfg)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.check(cfg))
		})
	}
}

func TestTimerSettingsAndMediaOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MediaType = "music"
	cfg.MusicFile = "/abs/song.mp3"

	settings, err := cfg.TimerSettings()
	require.NoError(t, err)
	assert.Equal(t, 40*60, settings.WorkSeconds())
	assert.Equal(t, domain.MediaMusic, settings.MediaMode)

	paths := Paths{Home: "/data"}
	opts := cfg.MediaOptions(paths)
	assert.Equal(t, filepath.Join("/data", "assets", "animations"), opts.AnimationFolder)
	assert.Equal(t, "/abs/song.mp3", opts.MusicFile)
	assert.Equal(t, 100*time.Millisecond, opts.FrameInterval)
	assert.Equal(t, filepath.Join("/data", "assets", "sounds", "test.mp3"), cfg.SoundPath(paths))

	cfg.BreakTime = 0
	_, err = cfg.TimerSettings()
	assert.ErrorIs(t, err, domain.ErrInvalidSetting)
}

func TestGet(t *testing.T) {
	cfg := DefaultConfig()
	v, err := cfg.Get(KeyWorkTime)
	require.NoError(t, err)
	assert.Equal(t, "40", v)

	v, err = cfg.Get(KeySoundEnabled)
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	_, err = cfg.Get("nope")
	assert.ErrorIs(t, err, domain.ErrInvalidSetting)
}

func TestValues(t *testing.T) {
	values := DefaultConfig().Values()
	assert.Len(t, values, len(Keys))
	assert.Equal(t, 8, values[KeyBreakTime])
	assert.Equal(t, "gif", values[KeyMediaType])
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	store := writeConfig(t, dir, `{"work_time": 25}`)
	_, err := store.Load()
	require.NoError(t, err)

	changes := make(chan *Config, 4)
	store.Watch(func(cfg *Config, err error) {
		if err == nil {
			changes <- cfg
		}
	})

	cfg := DefaultConfig()
	cfg.WorkTime = 15
	require.NoError(t, store.Save(cfg))

	select {
	case got := <-changes:
		assert.Equal(t, 15, got.WorkTime)
	case <-time.After(5 * time.Second):
		t.Fatal("no config change observed")
	}
}

func TestPaths(t *testing.T) {
	home := t.TempDir()
	paths, err := ResolvePaths(home)
	require.NoError(t, err)

	require.NoError(t, paths.EnsureFolders())
	for _, dir := range append([]string{paths.JournalDir(), paths.LogDir()}, AssetFolders...) {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(home, dir)
		}
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	assert.Equal(t, filepath.Join(home, "config.json"), paths.ConfigFile())
	assert.Equal(t, "/x/y", paths.Resolve("/x/y"))
	assert.Equal(t, "", paths.Resolve(""))

	t.Setenv(HomeEnv, filepath.Join(home, "env"))
	fromEnv, err := ResolvePaths("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "env"), fromEnv.Home)
}
