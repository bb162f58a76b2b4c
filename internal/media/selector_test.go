package media

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/breakr/internal/domain"
)

type fakeEntry struct {
	name string
	dir  bool
}

func (e fakeEntry) Name() string               { return e.name }
func (e fakeEntry) IsDir() bool                { return e.dir }
func (e fakeEntry) Type() fs.FileMode          { return 0 }
func (e fakeEntry) Info() (fs.FileInfo, error) { return nil, fs.ErrInvalid }

func selectorWithEntries(entries ...fakeEntry) *Selector {
	s := NewSelector()
	s.readDir = func(string) ([]fs.DirEntry, error) {
		out := make([]fs.DirEntry, len(entries))
		for i, e := range entries {
			out[i] = e
		}
		return out, nil
	}
	return s
}

func TestSelectImagePrefersFirstAnimationInDirectoryOrder(t *testing.T) {
	s := selectorWithEntries(
		fakeEntry{name: "still.png"},
		fakeEntry{name: "b.gif"},
		fakeEntry{name: "a.gif"},
	)

	sel := s.Select(Options{Mode: domain.MediaGIF, AnimationFolder: "anims"})

	assert.Equal(t, VisualAnimation, sel.Visual)
	assert.Equal(t, filepath.Join("anims", "b.gif"), sel.Path)
	assert.Empty(t, sel.Fallback)
	assert.NoError(t, sel.Err)
	assert.False(t, sel.HasAudio())
}

func TestSelectImageFallsBackToFirstStatic(t *testing.T) {
	s := selectorWithEntries(
		fakeEntry{name: "notes.txt"},
		fakeEntry{name: "sub.gif", dir: true},
		fakeEntry{name: "PHOTO.JPG"},
		fakeEntry{name: "other.png"},
	)

	sel := s.Select(Options{Mode: domain.MediaGIF, AnimationFolder: "anims"})

	assert.Equal(t, VisualImage, sel.Visual)
	assert.Equal(t, filepath.Join("anims", "PHOTO.JPG"), sel.Path)
}

func TestSelectImageWithoutImagesUsesPlaceholder(t *testing.T) {
	s := selectorWithEntries(fakeEntry{name: "readme.md"})

	sel := s.Select(Options{Mode: domain.MediaGIF, AnimationFolder: "anims"})

	assert.Equal(t, VisualText, sel.Visual)
	assert.Equal(t, Placeholder, sel.Text)
	assert.NotEmpty(t, sel.Fallback)
	assert.ErrorIs(t, sel.Err, domain.ErrMediaResourceMissing)
}

func TestSelectImageMissingFolder(t *testing.T) {
	sel := NewSelector().Select(Options{
		Mode:            domain.MediaGIF,
		AnimationFolder: filepath.Join(t.TempDir(), "missing"),
	})

	assert.Equal(t, VisualText, sel.Visual)
	assert.ErrorIs(t, sel.Err, domain.ErrMediaResourceMissing)
	assert.Contains(t, sel.Fallback, "not found")
}

func TestSelectImageRealFolder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "only.gif"), []byte("x"), 0o644))

	sel := NewSelector().Select(Options{Mode: domain.MediaGIF, AnimationFolder: dir})

	assert.Equal(t, VisualAnimation, sel.Visual)
	assert.Equal(t, filepath.Join(dir, "only.gif"), sel.Path)
	assert.Equal(t, DefaultFrameInterval, sel.FrameInterval)
}

func TestSelectVideo(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(video, []byte("x"), 0o644))

	t.Run("present", func(t *testing.T) {
		sel := NewSelector().Select(Options{Mode: domain.MediaVideo, VideoFile: video})
		assert.Equal(t, VisualVideo, sel.Visual)
		assert.Equal(t, video, sel.Path)
		assert.Equal(t, video, sel.AudioLoop)
	})

	t.Run("missing", func(t *testing.T) {
		sel := NewSelector().Select(Options{Mode: domain.MediaVideo, VideoFile: filepath.Join(dir, "nope.mp4")})
		assert.Equal(t, VisualText, sel.Visual)
		assert.False(t, sel.HasAudio())
		assert.ErrorIs(t, sel.Err, domain.ErrMediaResourceMissing)
	})

	t.Run("directory is not a video", func(t *testing.T) {
		sel := NewSelector().Select(Options{Mode: domain.MediaVideo, VideoFile: dir})
		assert.Equal(t, VisualText, sel.Visual)
	})
}

func TestSelectMusic(t *testing.T) {
	dir := t.TempDir()
	song := filepath.Join(dir, "calm.mp3")
	require.NoError(t, os.WriteFile(song, []byte("x"), 0o644))

	sel := NewSelector().Select(Options{Mode: domain.MediaMusic, MusicFile: song})
	assert.Equal(t, VisualText, sel.Visual)
	assert.Equal(t, Placeholder, sel.Text)
	assert.Equal(t, song, sel.AudioLoop)
	assert.Empty(t, sel.Fallback)

	missing := NewSelector().Select(Options{Mode: domain.MediaMusic, MusicFile: filepath.Join(dir, "gone.mp3")})
	assert.Equal(t, VisualText, missing.Visual)
	assert.False(t, missing.HasAudio())
	assert.ErrorIs(t, missing.Err, domain.ErrMediaResourceMissing)
}

func TestSelectNone(t *testing.T) {
	sel := NewSelector().Select(Options{Mode: domain.MediaNone, FrameInterval: 40 * time.Millisecond})

	assert.Equal(t, VisualText, sel.Visual)
	assert.Equal(t, Placeholder, sel.Text)
	assert.False(t, sel.HasAudio())
	assert.Empty(t, sel.Fallback)
	assert.Equal(t, 40*time.Millisecond, sel.FrameInterval)
}
