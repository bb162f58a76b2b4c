package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/logger"
	"github.com/xvierd/breakr/internal/ports"
)

// TickInterval is the length of one countdown step.
const TickInterval = time.Second

// EffectHandler carries out the effects of a transition.
type EffectHandler interface {
	Handle(ctx context.Context, eff domain.Effect)
}

type envelope struct {
	ev    domain.Event
	tick  bool
	gen   uint64
	reply chan result
}

type result struct {
	snap domain.Snapshot
	err  error
}

// TimerEngine owns the timer session. Every input (keys, tray, MCP, config
// reloads, ticks) is an event on one channel, applied in arrival order by a
// single goroutine. At most one tick is outstanding; ticks armed before the
// last pause, reset or reconfigure carry an old generation and are dropped.
type TimerEngine struct {
	events    chan envelope
	done      chan struct{}
	scheduler ports.TickScheduler
	effects   EffectHandler
	interval  time.Duration
	now       func() time.Time
	newID     func() string

	// owned by the loop goroutine
	session    domain.Session
	generation uint64
	pending    ports.TickHandle
	terminated bool

	mu          sync.RWMutex
	snapshot    domain.Snapshot
	subscribers []func(domain.Snapshot)
	stopOnce    sync.Once
}

// EngineOption customizes a TimerEngine.
type EngineOption func(*TimerEngine)

// WithScheduler replaces the wall clock tick scheduler.
func WithScheduler(s ports.TickScheduler) EngineOption {
	return func(e *TimerEngine) { e.scheduler = s }
}

// WithClock replaces time.Now for stamping sessions.
func WithClock(now func() time.Time) EngineOption {
	return func(e *TimerEngine) { e.now = now }
}

// WithTickInterval changes the countdown step.
func WithTickInterval(d time.Duration) EngineOption {
	return func(e *TimerEngine) { e.interval = d }
}

// NewTimerEngine creates an idle engine with the given settings.
func NewTimerEngine(settings domain.TimerSettings, effects EffectHandler, opts ...EngineOption) *TimerEngine {
	e := &TimerEngine{
		events:    make(chan envelope, 64),
		done:      make(chan struct{}),
		scheduler: ClockScheduler{},
		effects:   effects,
		interval:  TickInterval,
		now:       time.Now,
		newID:     domain.NewSessionID,
		session:   domain.NewSession(settings),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.snapshot = domain.SnapshotOf(e.session)
	return e
}

// Run applies events until a Quit event or ctx is done. It must be called once.
func (e *TimerEngine) Run(ctx context.Context) error {
	defer e.stop()
	e.publish(e.snapshotWith(""))

	for {
		select {
		case <-ctx.Done():
			e.step(context.WithoutCancel(ctx), envelope{ev: domain.Quit{}})
			return nil
		case env := <-e.events:
			res := e.step(ctx, env)
			if env.reply != nil {
				env.reply <- res
			}
			if e.terminated {
				e.drain()
				return nil
			}
		}
	}
}

// drain fails callers still waiting on a reply after termination.
func (e *TimerEngine) drain() {
	for {
		select {
		case env := <-e.events:
			if env.reply != nil {
				env.reply <- result{snap: e.Snapshot(), err: domain.ErrEngineStopped}
			}
		default:
			return
		}
	}
}

func (e *TimerEngine) stop() {
	e.stopOnce.Do(func() {
		e.cancelTick()
		close(e.done)
	})
}

// Done is closed when the engine has stopped.
func (e *TimerEngine) Done() <-chan struct{} {
	return e.done
}

// Post implements ports.Controller.
func (e *TimerEngine) Post(ev domain.Event) {
	select {
	case e.events <- envelope{ev: ev}:
	case <-e.done:
	}
}

// Dispatch implements ports.Controller.
func (e *TimerEngine) Dispatch(ctx context.Context, ev domain.Event) (domain.Snapshot, error) {
	reply := make(chan result, 1)
	select {
	case e.events <- envelope{ev: ev, reply: reply}:
	case <-e.done:
		return e.Snapshot(), domain.ErrEngineStopped
	case <-ctx.Done():
		return e.Snapshot(), ctx.Err()
	}

	select {
	case res := <-reply:
		return res.snap, res.err
	case <-e.done:
		// The loop may have replied just before stopping.
		select {
		case res := <-reply:
			return res.snap, res.err
		default:
			return e.Snapshot(), domain.ErrEngineStopped
		}
	case <-ctx.Done():
		return e.Snapshot(), ctx.Err()
	}
}

// Snapshot implements ports.Controller.
func (e *TimerEngine) Snapshot() domain.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

// Subscribe implements ports.Controller. Subscribers run on the engine
// goroutine and must not block or call Dispatch.
func (e *TimerEngine) Subscribe(fn func(domain.Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers = append(e.subscribers, fn)
}

// step applies one event, runs its effects and re-arms the tick.
func (e *TimerEngine) step(ctx context.Context, env envelope) result {
	if e.terminated {
		return result{snap: e.Snapshot(), err: domain.ErrEngineStopped}
	}
	if env.tick {
		if env.gen != e.generation {
			logger.Debug("dropping stale tick", "gen", env.gen, "current", e.generation)
			return result{snap: e.Snapshot()}
		}
		e.pending = nil
	}

	ev := e.stamp(env.ev)
	next, effects := domain.Apply(e.session, ev)
	e.session = next

	var rejection error
	for _, eff := range effects {
		switch eff := eff.(type) {
		case domain.Rejected:
			rejection = eff.Err
			logger.Debug("event rejected", "event", eff.Event, "err", eff.Err)
		case domain.Terminate:
			e.terminated = true
		default:
			if e.effects != nil {
				e.effects.Handle(ctx, eff)
			}
		}
	}

	if e.terminated {
		e.cancelTick()
	} else {
		e.rearm()
	}

	msg := ""
	if rejection != nil {
		msg = rejection.Error()
	}
	snap := e.snapshotWith(msg)
	e.publish(snap)
	return result{snap: snap, err: rejection}
}

// stamp fills the time and id of session starting events.
func (e *TimerEngine) stamp(ev domain.Event) domain.Event {
	switch v := ev.(type) {
	case domain.Start:
		if v.At.IsZero() {
			v.At = e.now()
		}
		if v.SessionID == "" {
			v.SessionID = e.newID()
		}
		return v
	case domain.Toggle:
		if v.At.IsZero() {
			v.At = e.now()
		}
		if v.SessionID == "" {
			v.SessionID = e.newID()
		}
		return v
	case domain.EndBreak:
		if v.At.IsZero() {
			v.At = e.now()
		}
		return v
	}
	return ev
}

func (e *TimerEngine) wantsTick() bool {
	s := e.session
	if !s.Running {
		return false
	}
	// An expired break waits for an explicit end.
	return !(s.Phase == domain.PhaseOnBreak && s.Remaining == 0)
}

func (e *TimerEngine) rearm() {
	if !e.wantsTick() {
		e.cancelTick()
		return
	}
	if e.pending != nil {
		return
	}
	gen := e.generation
	e.pending = e.scheduler.Schedule(e.interval, func() {
		select {
		case e.events <- envelope{ev: domain.Tick{}, tick: true, gen: gen}:
		case <-e.done:
		}
	})
}

func (e *TimerEngine) cancelTick() {
	if e.pending != nil {
		e.pending.Cancel()
		e.pending = nil
	}
	e.generation++
}

func (e *TimerEngine) snapshotWith(msg string) domain.Snapshot {
	snap := domain.SnapshotOf(e.session)
	snap.Message = msg
	snap.Terminated = e.terminated
	return snap
}

func (e *TimerEngine) publish(snap domain.Snapshot) {
	e.mu.Lock()
	e.snapshot = snap
	subs := slices.Clone(e.subscribers)
	e.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
