package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit         key.Binding
	Reset        key.Binding
	Clear        key.Binding
	Backspace    key.Binding
	PrevDuration key.Binding
	NextDuration key.Binding
	Restart      key.Binding
	Explain      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
		Reset: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "reset"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear input"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
		),
		PrevDuration: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←/→", "duration"),
		),
		NextDuration: key.NewBinding(
			key.WithKeys("right"),
		),
		Restart: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "new test"),
		),
		Explain: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "how is this calculated"),
		),
	}
}
