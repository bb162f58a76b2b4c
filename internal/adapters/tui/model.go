// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/media"
	"github.com/xvierd/breakr/internal/ports"
)

// snapshotMsg carries a state published by the timer engine.
type snapshotMsg domain.Snapshot

// breakMsg opens the break panel.
type breakMsg struct {
	sel media.Selection
}

// frameMsg advances the break animation or video clock.
type frameMsg media.Frame

// closeBreakMsg removes the break panel.
type closeBreakMsg struct{}

// playbackMsg reports the media play state after a toggle.
type playbackMsg bool

// Options configure the timer screen.
type Options struct {
	Theme Theme
	Keys  KeyMap
	// CanHide lets esc hide the screen while the tray keeps the timer alive.
	CanHide bool
	Goal    string
	Note    string
}

type breakState struct {
	sel     media.Selection
	frame   media.Frame
	playing bool
}

// Model is the timer screen. It never changes timer state itself: every
// action is posted to the controller from a command.
type Model struct {
	controller ports.Controller
	playback   ports.PlaybackControl
	opts       Options

	snap     domain.Snapshot
	brk      *breakState
	progress progress.Model
	help     help.Model

	goal        string
	goalInput   textinput.Model
	editingGoal bool

	hint     string
	width    int
	height   int
	hidden   bool
	quitting bool
}

// NewModel creates a timer screen showing the controller's current state.
func NewModel(controller ports.Controller, playback ports.PlaybackControl, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "What will you focus on?"
	ti.CharLimit = 120
	ti.Width = 40

	return Model{
		controller: controller,
		playback:   playback,
		opts:       opts,
		snap:       controller.Snapshot(),
		progress:   progress.New(progress.WithGradient(opts.Theme.WorkGradientStart, opts.Theme.WorkGradientEnd)),
		help:       help.New(),
		goal:       opts.Goal,
		goalInput:  ti,
	}
}

// withBreak returns m showing sel, used when a screen opens mid-break.
func (m Model) withBreak(sel media.Selection) Model {
	m.brk = newBreakState(sel)
	return m
}

func newBreakState(sel media.Selection) *breakState {
	return &breakState{
		sel:     sel,
		playing: sel.Visual == media.VisualAnimation || sel.Visual == media.VisualVideo,
	}
}

func sameContent(a, b media.Selection) bool {
	return a.Visual == b.Visual && a.Path == b.Path && a.AudioLoop == b.AudioLoop
}

// Hidden returns true if the screen was closed to the tray.
func (m Model) Hidden() bool { return m.hidden }

// Quitting returns true if the user asked to quit breakr.
func (m Model) Quitting() bool { return m.quitting }

// Goal returns the focus goal entered for the next session.
func (m Model) Goal() string { return m.goal }

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return nil
}

// post queues ev on the controller without blocking the update loop.
func (m Model) post(ev domain.Event) tea.Cmd {
	c := m.controller
	return func() tea.Msg {
		c.Post(ev)
		return nil
	}
}

func (m Model) togglePlayback() tea.Cmd {
	pc := m.playback
	return func() tea.Msg {
		return playbackMsg(pc.TogglePlayback())
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(msg.Width-4, 10)
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		m.snap = domain.Snapshot(msg)
		if m.snap.Message != "" {
			m.hint = m.snap.Message
		}
		if !m.snap.BreakOpen() {
			m.brk = nil
		}
		if m.snap.Terminated {
			return m, tea.Quit
		}
		return m, nil

	case refreshMsg:
		m.snap = msg.snap
		switch {
		case !msg.breakOn:
			m.brk = nil
		case m.brk == nil || !sameContent(m.brk.sel, msg.sel):
			m.brk = newBreakState(msg.sel)
		}
		if m.snap.Terminated {
			return m, tea.Quit
		}
		return m, nil

	case breakMsg:
		m.brk = newBreakState(msg.sel)
		m.hint = ""
		return m, nil

	case frameMsg:
		if m.brk != nil {
			m.brk.frame = media.Frame(msg)
			m.brk.playing = msg.Playing
		}
		return m, nil

	case closeBreakMsg:
		m.brk = nil
		return m, nil

	case playbackMsg:
		if m.brk != nil {
			m.brk.playing = bool(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.editingGoal {
			return m.updateGoalInput(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.opts.Keys
	m.hint = ""

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, keys.Toggle):
		return m, m.post(domain.Toggle{Goal: m.goal, Note: m.opts.Note})

	case key.Matches(msg, keys.EndBreak):
		if !m.snap.BreakOpen() {
			m.hint = "There is no break to end"
			return m, nil
		}
		return m, m.post(domain.EndBreak{})

	case key.Matches(msg, keys.Reset):
		return m, m.post(domain.Reset{})

	case key.Matches(msg, keys.Goal):
		if !m.snap.CanStart() {
			m.hint = "Set the focus goal before starting a session"
			return m, nil
		}
		m.editingGoal = true
		m.goalInput.SetValue(m.goal)
		m.goalInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Playback):
		if m.brk == nil || m.playback == nil ||
			(m.brk.sel.Visual != media.VisualAnimation && m.brk.sel.Visual != media.VisualVideo) {
			m.hint = "Nothing is playing"
			return m, nil
		}
		return m, m.togglePlayback()

	case key.Matches(msg, keys.Hide):
		if m.snap.BreakOpen() {
			m.hint = "The break stays open until you end it with [e]"
			return m, nil
		}
		if !m.opts.CanHide {
			m.hint = "Press q to quit"
			return m, nil
		}
		m.hidden = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) updateGoalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.goal = strings.TrimSpace(m.goalInput.Value())
		m.editingGoal = false
		m.goalInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.editingGoal = false
		m.goalInput.Blur()
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.goalInput, cmd = m.goalInput.Update(msg)
	return m, cmd
}

// timerColor returns the color for the countdown.
func (m Model) timerColor() lipgloss.Color {
	switch m.snap.Phase {
	case domain.PhasePaused:
		return lipgloss.Color(m.opts.Theme.ColorPaused)
	case domain.PhaseOnBreak:
		return lipgloss.Color(m.opts.Theme.ColorBreak)
	case domain.PhaseWorking:
		return lipgloss.Color(m.opts.Theme.ColorWork)
	default:
		return lipgloss.Color(m.opts.Theme.ColorIdle)
	}
}

func (m Model) progressBar() progress.Model {
	theme := m.opts.Theme
	var pbar progress.Model
	switch {
	case m.snap.Phase == domain.PhasePaused:
		pbar = progress.New(progress.WithGradient(theme.PausedGradientStart, theme.PausedGradientEnd))
	case m.snap.BreakOpen():
		pbar = progress.New(progress.WithGradient(theme.BreakGradientStart, theme.BreakGradientEnd))
	default:
		pbar = progress.New(progress.WithGradient(theme.WorkGradientStart, theme.WorkGradientEnd))
	}
	pbar.Width = m.progress.Width
	return pbar
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	theme := m.opts.Theme
	helpStyle := theme.style(theme.ColorHelp)
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorTitle)).MarginBottom(1)
	sections = append(sections, titleStyle.Render("breakr"))

	goal := m.snap.Goal
	if goal == "" {
		goal = m.goal
	}
	if goal != "" {
		sections = append(sections, lipgloss.NewStyle().Italic(true).Faint(true).Render("Goal: "+goal))
	}

	if m.brk != nil {
		sections = append(sections, "", m.viewBreak())
	}

	sections = append(sections, "")
	sections = append(sections, renderBigTime(domain.FormatClock(m.snap.Remaining), m.timerColor(), m.width))
	sections = append(sections, "")
	sections = append(sections, theme.style(theme.ColorPaused).Render(m.snap.StatusLabel()))

	if m.snap.Phase == domain.PhasePaused {
		pauseBadge := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(theme.ColorPaused)).
			Padding(0, 1).
			Render("PAUSED")
		sections = append(sections, "", pauseBadge)
	}

	sections = append(sections, "", m.progressBar().ViewAs(m.snap.Progress))

	if m.editingGoal {
		sections = append(sections, "", helpStyle.Render("Focus goal: ")+m.goalInput.View())
		sections = append(sections, helpStyle.Render("enter save · esc cancel"))
	}

	if m.hint != "" {
		sections = append(sections, "", theme.style(theme.ColorError).Render(m.hint))
	}

	sections = append(sections, "", m.help.View(m.opts.Keys))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// minutesLabel formats a break length for the header.
func minutesLabel(n int) string {
	if n == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", n)
}
