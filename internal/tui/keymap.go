package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the editor in normal mode.
type KeyMap struct {
	// General
	Help key.Binding
	Quit key.Binding
	Save key.Binding

	// Navigation
	Up         key.Binding
	Down       key.Binding
	GotoTop    key.Binding
	GotoBottom key.Binding
	Filter     key.Binding

	// Editing
	Capture     key.Binding
	Unbind      key.Binding
	ToggleCtrl  key.Binding
	ToggleAlt   key.Binding
	ToggleShift key.Binding
	Defaults    key.Binding
}

// DefaultKeyMap returns the editor's default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Save: key.NewBinding(
			key.WithKeys("w", "ctrl+s"),
			key.WithHelp("w", "save"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		GotoBottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Capture: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "set key"),
		),
		Unbind: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "unbind"),
		),
		ToggleCtrl: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "ctrl"),
		),
		ToggleAlt: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "alt"),
		),
		ToggleShift: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "shift"),
		),
		Defaults: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "defaults"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Capture, k.Save, k.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.GotoTop, k.GotoBottom, k.Filter},
		{k.Capture, k.Unbind, k.ToggleCtrl, k.ToggleAlt, k.ToggleShift},
		{k.Defaults, k.Save, k.Help, k.Quit},
	}
}
