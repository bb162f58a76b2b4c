package services

import (
	"context"
	"os"
	"sync"

	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/logger"
	"github.com/xvierd/breakr/internal/media"
	"github.com/xvierd/breakr/internal/ports"
)

// RunnerOptions are the file-level settings effects are carried out with.
type RunnerOptions struct {
	SoundFile string
	Media     media.Options
}

// EffectRunner carries out timer effects against the adapters. Failures are
// logged and never reach the state machine.
type EffectRunner struct {
	notifier  ports.Notifier
	audio     ports.AudioPlayer
	presenter ports.BreakPresenter
	journal   ports.Journal
	selector  *media.Selector
	playback  *media.Playback

	mu        sync.Mutex
	opts      RunnerOptions
	current   *media.Selection
	onApplied func(domain.TimerSettings)
	onRecord  func(domain.FocusRecord, error)
}

// NewEffectRunner creates a runner. Any adapter may be nil.
func NewEffectRunner(notifier ports.Notifier, audio ports.AudioPlayer, presenter ports.BreakPresenter, journal ports.Journal, opts RunnerOptions) *EffectRunner {
	return &EffectRunner{
		notifier:  notifier,
		audio:     audio,
		presenter: presenter,
		journal:   journal,
		selector:  media.NewSelector(),
		playback:  media.NewPlayback(),
		opts:      opts,
	}
}

// SetOptions replaces the file settings used for later effects.
func (r *EffectRunner) SetOptions(opts RunnerOptions) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts = opts
}

// SetPresenter attaches the presentation shell.
func (r *EffectRunner) SetPresenter(p ports.BreakPresenter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presenter = p
}

// OnSettingsApplied registers a callback for SettingsApplied effects.
func (r *EffectRunner) OnSettingsApplied(fn func(domain.TimerSettings)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onApplied = fn
}

// OnRecord registers a callback invoked after each journal append.
func (r *EffectRunner) OnRecord(fn func(domain.FocusRecord, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRecord = fn
}

// Current returns the break content on screen, if any.
func (r *EffectRunner) Current() (media.Selection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return media.Selection{}, false
	}
	return *r.current, true
}

// TogglePlayback implements ports.PlaybackControl. The break countdown is
// not affected.
func (r *EffectRunner) TogglePlayback() bool {
	if _, ok := r.Current(); !ok {
		return false
	}
	return r.playback.TogglePlayback()
}

// Handle implements EffectHandler.
func (r *EffectRunner) Handle(ctx context.Context, eff domain.Effect) {
	switch e := eff.(type) {
	case domain.PlayChime:
		r.playChime()
	case domain.Notify:
		r.notify(e)
	case domain.PresentBreak:
		r.presentBreak(ctx, e.Mode)
	case domain.StopPresentation:
		r.stopPresentation()
	case domain.RecordFocus:
		r.record(ctx, e.Record)
	case domain.SettingsApplied:
		r.mu.Lock()
		fn := r.onApplied
		r.mu.Unlock()
		if fn != nil {
			fn(e.Settings)
		}
	default:
		logger.Debug("unhandled effect", "effect", domain.EffectName(eff))
	}
}

func (r *EffectRunner) options() RunnerOptions {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

func (r *EffectRunner) playChime() {
	if r.audio == nil {
		return
	}
	path := r.options().SoundFile
	if _, err := os.Stat(path); err != nil {
		logger.Warn("sound file not found", "path", path)
		return
	}
	if err := r.audio.PlayOnce(path); err != nil {
		logger.Warn("failed to play sound", "path", path, "err", err)
	}
}

func (r *EffectRunner) notify(n domain.Notify) {
	if r.notifier == nil {
		return
	}
	var err error
	switch n.Kind {
	case domain.NotifyBreakStarted:
		err = r.notifier.NotifyBreakStarted(n.BreakMinutes)
	case domain.NotifyBreakEnded:
		err = r.notifier.NotifyBreakEnded()
	}
	if err != nil {
		logger.Warn("failed to send notification", "kind", n.Kind, "err", err)
	}
}

func (r *EffectRunner) presentBreak(ctx context.Context, mode domain.MediaMode) {
	opts := r.options().Media
	opts.Mode = mode

	sel, frames := media.Prepare(r.selector.Select(opts))
	if sel.Err != nil {
		logger.Warn("break media unavailable", "mode", mode, "reason", sel.Fallback, "err", sel.Err)
	}

	r.mu.Lock()
	r.current = &sel
	presenter := r.presenter
	r.mu.Unlock()

	if presenter != nil {
		presenter.ShowBreak(sel)
		switch sel.Visual {
		case media.VisualAnimation:
			r.playback.Start(ctx, sel.FrameInterval, frames, presenter.ShowFrame)
		case media.VisualVideo:
			r.playback.Start(ctx, media.VideoClockInterval, 0, presenter.ShowFrame)
		}
	}

	if sel.HasAudio() && r.audio != nil {
		if err := r.audio.Loop(sel.AudioLoop); err != nil {
			logger.Warn("failed to loop break audio", "path", sel.AudioLoop, "err", err)
		}
	}
}

func (r *EffectRunner) stopPresentation() {
	r.playback.Stop()
	if r.audio != nil {
		r.audio.Stop()
	}

	r.mu.Lock()
	r.current = nil
	presenter := r.presenter
	r.mu.Unlock()

	if presenter != nil {
		presenter.CloseBreak()
	}
}

func (r *EffectRunner) record(ctx context.Context, rec domain.FocusRecord) {
	var err error
	if r.journal != nil {
		err = r.journal.Append(ctx, &rec)
		if err != nil {
			logger.Error("failed to save focus record", "goal", rec.FocusGoal, "err", err)
		} else {
			logger.Info("focus record saved", "goal", rec.FocusGoal, "minutes", rec.DurationMinutes)
		}
	}

	r.mu.Lock()
	fn := r.onRecord
	r.mu.Unlock()
	if fn != nil {
		fn(rec, err)
	}
}

// Close stops any running break media.
func (r *EffectRunner) Close() {
	r.stopPresentation()
}
