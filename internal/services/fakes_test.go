package services

import (
	"context"
	"sync"
	"time"

	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/media"
	"github.com/xvierd/breakr/internal/ports"
)

type fakeTick struct {
	fn        func()
	cancelled bool
	fired     bool
}

func (t *fakeTick) Cancel() bool {
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	return true
}

type fakeScheduler struct {
	mu    sync.Mutex
	ticks []*fakeTick
}

func (s *fakeScheduler) Schedule(_ time.Duration, fn func()) ports.TickHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTick{fn: fn}
	s.ticks = append(s.ticks, t)
	return t
}

func (s *fakeScheduler) live() []*fakeTick {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeTick
	for _, t := range s.ticks {
		if !t.cancelled && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

type recordingHandler struct {
	mu      sync.Mutex
	effects []domain.Effect
}

func (h *recordingHandler) Handle(_ context.Context, eff domain.Effect) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.effects = append(h.effects, eff)
}

func (h *recordingHandler) names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.effects))
	for i, e := range h.effects {
		out[i] = domain.EffectName(e)
	}
	return out
}

func (h *recordingHandler) records() []domain.FocusRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []domain.FocusRecord
	for _, e := range h.effects {
		if r, ok := e.(domain.RecordFocus); ok {
			out = append(out, r.Record)
		}
	}
	return out
}

type memoryJournal struct {
	mu      sync.Mutex
	days    map[string][]domain.FocusRecord
	now     func() time.Time
	failErr error
}

func newMemoryJournal() *memoryJournal {
	return &memoryJournal{days: map[string][]domain.FocusRecord{}, now: time.Now}
}

func (j *memoryJournal) Append(_ context.Context, rec *domain.FocusRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failErr != nil {
		return j.failErr
	}
	now := j.now()
	rec.RecordTime = domain.NewTimestamp(now)
	key := domain.DateKey(now)
	j.days[key] = append(j.days[key], *rec)
	return nil
}

func (j *memoryJournal) RecordsForDate(_ context.Context, date string) ([]domain.FocusRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]domain.FocusRecord{}, j.days[date]...), nil
}

func (j *memoryJournal) Dates(_ context.Context) ([]string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []string
	for d := range j.days {
		out = append(out, d)
	}
	return out, nil
}

func (j *memoryJournal) Close() error { return nil }

type fakeNotifier struct {
	mu      sync.Mutex
	started []int
	ended   int
	err     error
}

func (n *fakeNotifier) NotifyBreakStarted(minutes int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.started = append(n.started, minutes)
	return n.err
}

func (n *fakeNotifier) NotifyBreakEnded() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ended++
	return n.err
}

type fakeAudio struct {
	mu      sync.Mutex
	once    []string
	loops   []string
	stops   int
	loopErr error
}

func (a *fakeAudio) PlayOnce(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.once = append(a.once, path)
	return nil
}

func (a *fakeAudio) Loop(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loops = append(a.loops, path)
	return a.loopErr
}

func (a *fakeAudio) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stops++
}

type fakePresenter struct {
	mu     sync.Mutex
	shown  []media.Selection
	frames int
	closed int
}

func (p *fakePresenter) ShowBreak(sel media.Selection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = append(p.shown, sel)
}

func (p *fakePresenter) ShowFrame(media.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames++
}

func (p *fakePresenter) CloseBreak() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed++
}

func (p *fakePresenter) frameCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}
