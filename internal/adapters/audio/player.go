// Package audio plays the break chime and break music through the system
// speaker.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"

	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/ports"
)

// SampleRate is the rate the speaker is opened with; files are resampled to it.
const SampleRate beep.SampleRate = 44100

// initSpeaker opens the output device; replaced in tests.
var initSpeaker = func(rate beep.SampleRate) error {
	return speaker.Init(rate, rate.N(time.Second/10))
}

// Player plays one sound at a time. Starting a sound replaces the current one.
type Player struct {
	mu      sync.Mutex
	once    sync.Once
	initErr error
	current beep.StreamSeekCloser
}

// Ensure Player implements ports.AudioPlayer.
var _ ports.AudioPlayer = (*Player)(nil)

// NewPlayer creates a player. The speaker is opened on first use.
func NewPlayer() *Player {
	return &Player{}
}

// PlayOnce implements ports.AudioPlayer.
func (p *Player) PlayOnce(path string) error {
	return p.play(path, false)
}

// Loop implements ports.AudioPlayer.
func (p *Player) Loop(path string) error {
	return p.play(path, true)
}

func (p *Player) play(path string, loop bool) error {
	stream, format, err := Decode(path)
	if err != nil {
		return err
	}

	p.once.Do(func() { p.initErr = initSpeaker(SampleRate) })
	if p.initErr != nil {
		_ = stream.Close()
		return fmt.Errorf("failed to open speaker: %w", p.initErr)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.current = stream

	var source beep.Streamer = stream
	if loop {
		source = beep.Loop(-1, stream)
	}
	if format.SampleRate != SampleRate {
		source = beep.Resample(4, format.SampleRate, SampleRate, source)
	}
	speaker.Play(source)
	return nil
}

// Stop implements ports.AudioPlayer.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.current == nil {
		return
	}
	speaker.Clear()
	_ = p.current.Close()
	p.current = nil
}

// Decode opens an mp3, wav or ogg vorbis file.
func Decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, beep.Format{}, fmt.Errorf("%w: %s", domain.ErrMediaResourceMissing, path)
		}
		return nil, beep.Format{}, fmt.Errorf("%w: %w", domain.ErrMediaResourceMissing, err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	default:
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: unsupported audio format %q", domain.ErrMediaDecode, ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %s: %w", domain.ErrMediaDecode, path, err)
	}
	return stream, format, nil
}
