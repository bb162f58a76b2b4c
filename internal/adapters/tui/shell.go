package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/logger"
	"github.com/xvierd/breakr/internal/media"
	"github.com/xvierd/breakr/internal/ports"
)

// refreshMsg resynchronizes a freshly opened screen with the engine.
type refreshMsg struct {
	snap    domain.Snapshot
	sel     media.Selection
	breakOn bool
}

// Shell runs the timer screen and forwards engine output to it. The screen
// may be hidden and shown again while the engine keeps running.
type Shell struct {
	controller ports.Controller
	playback   ports.PlaybackControl
	current    func() (media.Selection, bool)
	opts       Options
	progOpts   []tea.ProgramOption

	program    atomic.Pointer[tea.Program]
	show       chan struct{}
	terminated chan struct{}
	termOnce   sync.Once

	mu   sync.Mutex
	goal string
}

// NewShell creates a shell over controller. current reports the break
// content on screen so a re-opened screen can show it.
func NewShell(controller ports.Controller, playback ports.PlaybackControl, current func() (media.Selection, bool), opts Options, progOpts ...tea.ProgramOption) *Shell {
	if current == nil {
		current = func() (media.Selection, bool) { return media.Selection{}, false }
	}
	if progOpts == nil {
		progOpts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	s := &Shell{
		controller: controller,
		playback:   playback,
		current:    current,
		opts:       opts,
		progOpts:   progOpts,
		show:       make(chan struct{}, 1),
		terminated: make(chan struct{}),
		goal:       opts.Goal,
	}
	controller.Subscribe(s.onSnapshot)
	return s
}

// Ensure Shell implements ports.BreakPresenter.
var _ ports.BreakPresenter = (*Shell)(nil)

func (s *Shell) onSnapshot(snap domain.Snapshot) {
	if snap.Terminated {
		s.termOnce.Do(func() { close(s.terminated) })
	}
	s.send(snapshotMsg(snap))
}

// send delivers msg to the open screen. It is a no-op while hidden.
func (s *Shell) send(msg tea.Msg) {
	if p := s.program.Load(); p != nil {
		p.Send(msg)
	}
}

// ShowBreak implements ports.BreakPresenter.
func (s *Shell) ShowBreak(sel media.Selection) {
	s.send(breakMsg{sel: sel})
}

// ShowFrame implements ports.BreakPresenter.
func (s *Shell) ShowFrame(frame media.Frame) {
	s.send(frameMsg(frame))
}

// CloseBreak implements ports.BreakPresenter.
func (s *Shell) CloseBreak() {
	s.send(closeBreakMsg{})
}

// Show re-opens a hidden screen. It never blocks.
func (s *Shell) Show() {
	select {
	case s.show <- struct{}{}:
	default:
	}
}

// Stop closes the open screen.
func (s *Shell) Stop() {
	if p := s.program.Load(); p != nil {
		p.Quit()
	}
}

// Run shows the timer screen until the user quits, the engine terminates or
// ctx is done. While the screen is hidden Run waits for Show.
func (s *Shell) Run(ctx context.Context) error {
	for {
		final, err := s.runOnce(ctx)
		if err != nil {
			return err
		}
		if final.Quitting() {
			s.controller.Post(domain.Quit{})
			return nil
		}
		if !final.Hidden() {
			return nil
		}

		logger.Info("timer screen hidden")
		select {
		case <-s.show:
			logger.Info("timer screen shown")
		case <-s.terminated:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *Shell) runOnce(ctx context.Context) (Model, error) {
	s.mu.Lock()
	opts := s.opts
	opts.Goal = s.goal
	s.mu.Unlock()

	m := NewModel(s.controller, s.playback, opts)
	if sel, ok := s.current(); ok {
		m = m.withBreak(sel)
	}

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, s.progOpts...)...)
	s.program.Store(p)
	defer s.program.Store(nil)

	// Anything published between NewModel and Store was not delivered.
	go func() {
		sel, ok := s.current()
		p.Send(refreshMsg{snap: s.controller.Snapshot(), sel: sel, breakOn: ok})
	}()

	result, err := p.Run()
	final, ok := result.(Model)
	if !ok {
		final = m
	}

	s.mu.Lock()
	s.goal = final.Goal()
	s.mu.Unlock()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return final, fmt.Errorf("failed to run TUI: %w", err)
	}
	return final, nil
}

// IsInteractive returns true if stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(os.Stdin.Fd()) && term.IsTerminal(os.Stdout.Fd())
}

// terminalWidth returns the current terminal width, defaulting to 80.
func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return 80
	}
	return w
}
