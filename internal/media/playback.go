package media

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// VideoClockInterval is the period of the playback clock for video breaks.
const VideoClockInterval = time.Second

// Frame is one step of break media playback.
type Frame struct {
	// Index is the animation frame, or elapsed seconds for video.
	Index int
	// Count is the number of animation frames, zero for video.
	Count   int
	Playing bool
}

// Playback is the periodic frame producer of a break. It is gated by a
// play/pause flag that never touches the break countdown.
type Playback struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	playing atomic.Bool
}

// NewPlayback creates an idle playback producer.
func NewPlayback() *Playback {
	return &Playback{}
}

// Start begins emitting frames every interval until Stop or ctx is done.
// count is the animation length; zero makes Index a running clock.
// Any previous run is stopped first.
func (p *Playback) Start(ctx context.Context, interval time.Duration, count int, emit func(Frame)) {
	p.Stop()
	if interval <= 0 {
		interval = DefaultFrameInterval
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.playing.Store(true)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		index := 0
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				if !p.playing.Load() {
					continue
				}
				index++
				if count > 0 {
					index %= count
				}
				emit(Frame{Index: index, Count: count, Playing: true})
			}
		}
	}()
}

// TogglePlayback flips play/pause and reports whether media is now playing.
func (p *Playback) TogglePlayback() bool {
	for {
		old := p.playing.Load()
		if p.playing.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Playing reports whether frames are being produced.
func (p *Playback) Playing() bool {
	return p.playing.Load()
}

// Stop ends the producer and waits for it to exit.
func (p *Playback) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		p.wg.Wait()
	}
	p.playing.Store(false)
}
