// Package media decides what a break shows and plays. It resolves files but
// never decodes them for display; rendering belongs to the presentation shell.
package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xvierd/breakr/internal/domain"
)

// Placeholder is the text shown when there is no visual content.
const Placeholder = "Break time!\n\nStand up, stretch, and rest your eyes.\n\nThe remaining time is shown on the timer."

// DefaultFrameInterval is used when no animation speed is configured.
const DefaultFrameInterval = 100 * time.Millisecond

var (
	animatedExts = map[string]bool{".gif": true}
	staticExts   = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}
)

// Visual is the kind of content shown on the break screen.
type Visual string

const (
	VisualAnimation Visual = "animation"
	VisualImage     Visual = "image"
	VisualVideo     Visual = "video"
	VisualText      Visual = "text"
)

// Options are the media settings a selection is made from.
type Options struct {
	Mode            domain.MediaMode
	AnimationFolder string
	VideoFile       string
	MusicFile       string
	FrameInterval   time.Duration
}

// Selection describes the break content. It carries paths, never media data.
type Selection struct {
	Mode          domain.MediaMode
	Visual        Visual
	Path          string
	Text          string
	AudioLoop     string
	FrameInterval time.Duration
	// Fallback explains why the visual degraded to text, empty otherwise.
	Fallback string
	// Err wraps domain.ErrMediaResourceMissing or domain.ErrMediaDecode when
	// the selection fell back. It is informational, never fatal.
	Err error
}

// HasAudio returns true if the selection loops an audio track.
func (s Selection) HasAudio() bool {
	return s.AudioLoop != ""
}

// WithFallback degrades the selection to the text placeholder. Audio is kept.
func (s Selection) WithFallback(reason string, err error) Selection {
	s.Visual = VisualText
	s.Path = ""
	s.Text = Placeholder
	s.Fallback = reason
	s.Err = err
	return s
}

// Selector applies the break media policy.
type Selector struct {
	readDir func(dir string) ([]fs.DirEntry, error)
	stat    func(path string) (fs.FileInfo, error)
}

// NewSelector creates a selector backed by the real filesystem.
func NewSelector() *Selector {
	return &Selector{
		readDir: readDirUnsorted,
		stat:    os.Stat,
	}
}

// readDirUnsorted lists a directory in the order the OS enumerates it.
func readDirUnsorted(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return f.ReadDir(-1)
}

// Select decides what the break shows for opts.
func (s *Selector) Select(opts Options) Selection {
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	base := Selection{
		Mode:          opts.Mode,
		Visual:        VisualText,
		Text:          Placeholder,
		FrameInterval: interval,
	}

	switch opts.Mode {
	case domain.MediaGIF:
		return s.selectImage(base, opts.AnimationFolder)
	case domain.MediaVideo:
		if !s.isFile(opts.VideoFile) {
			return base.WithFallback(
				fmt.Sprintf("video file not found: %s", opts.VideoFile),
				fmt.Errorf("%w: video %s", domain.ErrMediaResourceMissing, opts.VideoFile),
			)
		}
		base.Visual = VisualVideo
		base.Text = ""
		base.Path = opts.VideoFile
		base.AudioLoop = opts.VideoFile
		return base
	case domain.MediaMusic:
		if !s.isFile(opts.MusicFile) {
			return base.WithFallback(
				fmt.Sprintf("music file not found: %s", opts.MusicFile),
				fmt.Errorf("%w: music %s", domain.ErrMediaResourceMissing, opts.MusicFile),
			)
		}
		base.AudioLoop = opts.MusicFile
		return base
	default:
		return base
	}
}

func (s *Selector) selectImage(base Selection, folder string) Selection {
	entries, err := s.readDir(folder)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return base.WithFallback(
				fmt.Sprintf("animation folder not found: %s", folder),
				fmt.Errorf("%w: folder %s", domain.ErrMediaResourceMissing, folder),
			)
		}
		return base.WithFallback(
			fmt.Sprintf("animation folder unreadable: %s", folder),
			fmt.Errorf("%w: %w", domain.ErrMediaResourceMissing, err),
		)
	}

	var firstStatic string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if animatedExts[ext] {
			base.Visual = VisualAnimation
			base.Text = ""
			base.Path = filepath.Join(folder, entry.Name())
			return base
		}
		if staticExts[ext] && firstStatic == "" {
			firstStatic = filepath.Join(folder, entry.Name())
		}
	}

	if firstStatic != "" {
		base.Visual = VisualImage
		base.Text = ""
		base.Path = firstStatic
		return base
	}
	return base.WithFallback(
		fmt.Sprintf("no images in %s", folder),
		fmt.Errorf("%w: no images in %s", domain.ErrMediaResourceMissing, folder),
	)
}

func (s *Selector) isFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := s.stat(path)
	return err == nil && !info.IsDir()
}
