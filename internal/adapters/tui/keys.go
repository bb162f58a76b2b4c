package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the timer screen bindings.
type KeyMap struct {
	Toggle   key.Binding
	EndBreak key.Binding
	Reset    key.Binding
	Goal     key.Binding
	Playback key.Binding
	Hide     key.Binding
	Quit     key.Binding
	Help     key.Binding
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.EndBreak, k.Reset, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.EndBreak, k.Reset, k.Goal},
		{k.Playback, k.Hide, k.Quit, k.Help},
	}
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("s", " ", "space"),
			key.WithHelp("s/space", "start/pause"),
		),
		EndBreak: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "end break"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Goal: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "focus goal"),
		),
		Playback: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "play/pause media"),
		),
		Hide: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "hide to tray"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}
