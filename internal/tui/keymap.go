package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the mixer.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Mute    key.Binding
	VolUp   key.Binding
	VolDown key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings for the mixer.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "route on/off"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute/unmute"),
		),
		VolUp: key.NewBinding(
			key.WithKeys("right", "l", "+"),
			key.WithHelp("→/+", "volume up"),
		),
		VolDown: key.NewBinding(
			key.WithKeys("left", "h", "-"),
			key.WithHelp("←/-", "volume down"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh devices"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the short help bindings for the mixer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Mute, k.VolUp, k.VolDown, k.Quit}
}

// FullHelp returns the full help bindings for the mixer.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Mute},
		{k.VolUp, k.VolDown, k.Refresh, k.Quit},
	}
}
