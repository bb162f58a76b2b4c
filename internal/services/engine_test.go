package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/breakr/internal/domain"
)

func testSettings() domain.TimerSettings {
	return domain.TimerSettings{
		WorkMinutes:       1,
		BreakMinutes:      1,
		SoundEnabled:      true,
		ShowNotifications: true,
		MediaMode:         domain.MediaGIF,
	}
}

type engineFixture struct {
	engine  *TimerEngine
	sched   *fakeScheduler
	handler *recordingHandler
	clock   time.Time
}

func newEngineFixture(settings domain.TimerSettings) *engineFixture {
	f := &engineFixture{
		sched:   &fakeScheduler{},
		handler: &recordingHandler{},
		clock:   time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local),
	}
	f.engine = NewTimerEngine(settings, f.handler,
		WithScheduler(f.sched),
		WithClock(func() time.Time { return f.clock }),
	)
	return f
}

// send applies ev synchronously, as the loop would.
func (f *engineFixture) send(ev domain.Event) result {
	return f.engine.step(context.Background(), envelope{ev: ev})
}

// pump applies every queued envelope.
func (f *engineFixture) pump() {
	for {
		select {
		case env := <-f.engine.events:
			f.engine.step(context.Background(), env)
		default:
			return
		}
	}
}

// advance fires the outstanding tick n times, one simulated second each.
func (f *engineFixture) advance(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		live := f.sched.live()
		require.Len(t, live, 1, "expected exactly one outstanding tick at step %d", i)
		live[0].fired = true
		f.clock = f.clock.Add(time.Second)
		live[0].fn()
		f.pump()
	}
}

func TestEngineWorkExpiryEntersBreakOnce(t *testing.T) {
	f := newEngineFixture(testSettings())

	res := f.send(domain.Start{Goal: "write report"})
	require.NoError(t, res.err)
	assert.Equal(t, domain.PhaseWorking, res.snap.Phase)
	assert.Len(t, f.sched.live(), 1)

	f.advance(t, 59)
	assert.Equal(t, domain.PhaseWorking, f.engine.Snapshot().Phase)
	assert.Equal(t, 1, f.engine.Snapshot().Remaining)

	f.advance(t, 1)
	snap := f.engine.Snapshot()
	assert.Equal(t, domain.PhaseOnBreak, snap.Phase)
	assert.Equal(t, 60, snap.Remaining)
	assert.Equal(t, []string{"play_chime", "notify", "present_break"}, f.handler.names())
}

func TestEngineExpiredBreakStopsTicking(t *testing.T) {
	f := newEngineFixture(testSettings())
	f.send(domain.Start{})
	f.advance(t, 60)
	f.advance(t, 60)

	snap := f.engine.Snapshot()
	assert.Equal(t, domain.PhaseOnBreak, snap.Phase)
	assert.Equal(t, 0, snap.Remaining)
	assert.Empty(t, f.sched.live())
	assert.Equal(t, "Break time is up - end the break when ready", snap.StatusLabel())
}

func TestEnginePauseDropsStaleTick(t *testing.T) {
	f := newEngineFixture(testSettings())
	f.send(domain.Start{})
	f.advance(t, 10)

	stale := f.sched.live()
	require.Len(t, stale, 1)

	res := f.send(domain.Pause{})
	require.NoError(t, res.err)
	assert.True(t, stale[0].cancelled)
	assert.Empty(t, f.sched.live())

	// A tick that lost the race with the pause still arrives.
	stale[0].fn()
	f.pump()
	assert.Equal(t, 50, f.engine.Snapshot().Remaining)
	assert.Equal(t, domain.PhasePaused, f.engine.Snapshot().Phase)

	res = f.send(domain.Resume{})
	require.NoError(t, res.err)
	assert.Len(t, f.sched.live(), 1)
	f.advance(t, 1)
	assert.Equal(t, 49, f.engine.Snapshot().Remaining)
}

func TestEngineResetDuringBreakWritesNoRecord(t *testing.T) {
	f := newEngineFixture(testSettings())
	f.send(domain.Start{})
	f.advance(t, 60)

	f.send(domain.Reset{})
	snap := f.engine.Snapshot()
	assert.Equal(t, domain.PhaseIdle, snap.Phase)
	assert.Equal(t, 60, snap.Remaining)
	assert.Empty(t, f.handler.records())
	assert.Contains(t, f.handler.names(), "stop_presentation")
	assert.Empty(t, f.sched.live())
}

func TestEngineFullSessionRecordsFocus(t *testing.T) {
	f := newEngineFixture(testSettings())
	f.send(domain.Start{Goal: "  "})
	started := f.clock

	f.advance(t, 60)
	f.advance(t, 15)

	res := f.send(domain.EndBreak{})
	require.NoError(t, res.err)

	records := f.handler.records()
	require.Len(t, records, 1)
	assert.Equal(t, domain.DefaultFocusGoal, records[0].FocusGoal)
	assert.True(t, records[0].StartTime.Equal(started))
	assert.Equal(t, 1, records[0].DurationMinutes)
	assert.Nil(t, records[0].Notes)

	assert.Equal(t, domain.PhaseWorking, res.snap.Phase)
	assert.False(t, res.snap.Running)
	assert.Equal(t, 60, res.snap.Remaining)
	assert.Empty(t, f.sched.live())
}

func TestEngineRejectsInvalidEvent(t *testing.T) {
	f := newEngineFixture(testSettings())

	res := f.send(domain.Pause{})
	assert.ErrorIs(t, res.err, domain.ErrInvalidTransition)
	assert.NotEmpty(t, res.snap.Message)
	assert.Equal(t, domain.PhaseIdle, res.snap.Phase)

	res = f.send(domain.EndBreak{})
	assert.ErrorIs(t, res.err, domain.ErrInvalidTransition)
}

func TestEngineConfigureResetsTimer(t *testing.T) {
	f := newEngineFixture(testSettings())
	f.send(domain.Start{})
	f.advance(t, 5)

	bad := testSettings()
	bad.WorkMinutes = 0
	res := f.send(domain.Configure{Settings: bad})
	assert.ErrorIs(t, res.err, domain.ErrInvalidSetting)
	assert.Equal(t, 55, res.snap.Remaining)
	assert.Len(t, f.sched.live(), 1)

	good := testSettings()
	good.WorkMinutes = 25
	res = f.send(domain.Configure{Settings: good})
	require.NoError(t, res.err)
	assert.Equal(t, domain.PhaseIdle, res.snap.Phase)
	assert.Equal(t, 25*60, res.snap.Remaining)
	assert.Empty(t, f.sched.live())
	assert.Contains(t, f.handler.names(), "settings_applied")
}

func TestEngineToggleCycle(t *testing.T) {
	f := newEngineFixture(testSettings())

	assert.Equal(t, domain.PhaseWorking, f.send(domain.Toggle{}).snap.Phase)
	assert.Equal(t, domain.PhasePaused, f.send(domain.Toggle{}).snap.Phase)
	assert.Equal(t, domain.PhaseWorking, f.send(domain.Toggle{}).snap.Phase)
	assert.Len(t, f.sched.live(), 1)
}

func TestEngineRunDispatchAndQuit(t *testing.T) {
	sched := &fakeScheduler{}
	handler := &recordingHandler{}
	engine := NewTimerEngine(testSettings(), handler, WithScheduler(sched))

	var mu sync.Mutex
	var seen []domain.Snapshot
	engine.Subscribe(func(s domain.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- engine.Run(ctx) }()

	snap, err := engine.Dispatch(ctx, domain.Start{Goal: "focus"})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseWorking, snap.Phase)
	assert.Equal(t, "focus", snap.Goal)

	_, err = engine.Dispatch(ctx, domain.Resume{})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	snap, err = engine.Dispatch(ctx, domain.Quit{})
	require.NoError(t, err)
	assert.True(t, snap.Terminated)

	require.NoError(t, <-errCh)
	<-engine.Done()

	_, err = engine.Dispatch(ctx, domain.Start{})
	assert.ErrorIs(t, err, domain.ErrEngineStopped)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	assert.True(t, seen[len(seen)-1].Terminated)
}

func TestEngineRunStopsOnContextCancel(t *testing.T) {
	handler := &recordingHandler{}
	engine := NewTimerEngine(testSettings(), handler, WithScheduler(&fakeScheduler{}))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- engine.Run(ctx) }()

	_, err := engine.Dispatch(ctx, domain.Start{})
	require.NoError(t, err)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
	assert.True(t, engine.Snapshot().Terminated)
}

func TestEngineRealClockTicks(t *testing.T) {
	engine := NewTimerEngine(testSettings(), &recordingHandler{}, WithTickInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = engine.Run(ctx) }()

	_, err := engine.Dispatch(ctx, domain.Start{})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return engine.Snapshot().Remaining <= 55
	}, 2*time.Second, 5*time.Millisecond)
}

func TestEngineSubscribeDuringPublish(t *testing.T) {
	f := newEngineFixture(testSettings())

	var first, late []domain.Phase
	f.engine.Subscribe(func(s domain.Snapshot) {
		first = append(first, s.Phase)
		if len(first) == 1 {
			f.engine.Subscribe(func(s domain.Snapshot) { late = append(late, s.Phase) })
		}
	})

	f.send(domain.Start{})
	assert.Empty(t, late, "a subscriber added mid-publish waits for the next snapshot")

	f.send(domain.Pause{})
	assert.Equal(t, []domain.Phase{domain.PhaseWorking, domain.PhasePaused}, first)
	assert.Equal(t, []domain.Phase{domain.PhasePaused}, late)
}
