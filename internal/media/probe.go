package media

import (
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/xvierd/breakr/internal/domain"
)

// Animation is the frame layout of an animated image.
type Animation struct {
	Frames int
	Delays []time.Duration
}

// ProbeAnimation decodes a GIF far enough to count its frames.
func ProbeAnimation(path string) (Animation, error) {
	f, err := os.Open(path)
	if err != nil {
		return Animation{}, fmt.Errorf("%w: %w", domain.ErrMediaResourceMissing, err)
	}
	defer func() { _ = f.Close() }()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return Animation{}, fmt.Errorf("%w: %s: %w", domain.ErrMediaDecode, path, err)
	}
	if len(g.Image) == 0 {
		return Animation{}, fmt.Errorf("%w: %s has no frames", domain.ErrMediaDecode, path)
	}

	anim := Animation{Frames: len(g.Image), Delays: make([]time.Duration, len(g.Delay))}
	for i, d := range g.Delay {
		anim.Delays[i] = time.Duration(d) * 10 * time.Millisecond
	}
	return anim, nil
}

// ProbeImage checks that a still image decodes.
func ProbeImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMediaResourceMissing, err)
	}
	defer func() { _ = f.Close() }()

	if _, _, err := image.DecodeConfig(f); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrMediaDecode, path, err)
	}
	return nil
}

// Prepare checks that the selected visual decodes and falls back to the
// text placeholder when it does not. It returns the frame count of an
// animation, zero otherwise.
func Prepare(sel Selection) (Selection, int) {
	switch sel.Visual {
	case VisualAnimation:
		anim, err := ProbeAnimation(sel.Path)
		if err != nil {
			return sel.WithFallback(fmt.Sprintf("cannot play %s", sel.Path), err), 0
		}
		return sel, anim.Frames
	case VisualImage:
		if err := ProbeImage(sel.Path); err != nil {
			return sel.WithFallback(fmt.Sprintf("cannot show %s", sel.Path), err), 0
		}
	}
	return sel, 0
}
