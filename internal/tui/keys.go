package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Create key.Binding
	Run    key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Create: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "create"),
		),
		Run: key.NewBinding(
			key.WithKeys("r", " "),
			key.WithHelp("r/space", "run"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Create, k.Run, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
