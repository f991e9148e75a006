// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// ComposeKeyMap defines the keybindings for compose mode.
type ComposeKeyMap struct {
	// Drafts
	Save       key.Binding
	OpenLatest key.Binding
	NewDraft   key.Binding

	// Completion popup
	PopupUp   key.Binding
	PopupDown key.Binding
	Accept    key.Binding

	// General
	Quit key.Binding
}

// DefaultComposeKeyMap returns the default keybindings for compose mode.
func DefaultComposeKeyMap() ComposeKeyMap {
	return ComposeKeyMap{
		// Drafts
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save draft"),
		),
		OpenLatest: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open latest draft"),
		),
		NewDraft: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new draft"),
		),

		// Completion popup
		PopupUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous match"),
		),
		PopupDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next match"),
		),
		Accept: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "accept match"),
		),

		// General
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k ComposeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.OpenLatest, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k ComposeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Save, k.OpenLatest, k.NewDraft},  // Drafts
		{k.PopupUp, k.PopupDown, k.Accept},  // Completion
		{k.Quit},                            // General
	}
}

// PlaygroundKeyMap defines the keybindings for the component playground.
type PlaygroundKeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Focus key.Binding

	// Actions
	Reset key.Binding

	// General
	Quit key.Binding
}

// DefaultPlaygroundKeyMap returns the keybindings for the playground.
func DefaultPlaygroundKeyMap() PlaygroundKeyMap {
	return PlaygroundKeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "previous demo"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next demo"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch panes"),
		),

		// Actions
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset demo"),
		),

		// General
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// AppKeyMap defines keybindings handled at the application root, regardless
// of the active mode.
type AppKeyMap struct {
	ToggleLogs key.Binding
}

// DefaultAppKeyMap returns the default application-level keybindings.
func DefaultAppKeyMap() AppKeyMap {
	return AppKeyMap{
		ToggleLogs: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "toggle log overlay"),
		),
	}
}
