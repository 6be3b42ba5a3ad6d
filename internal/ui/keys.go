package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Run   key.Binding
	Stop  key.Binding
	Focus key.Binding
	Jump  key.Binding
	Up    key.Binding
	Down  key.Binding
	Save  key.Binding
	Quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Run:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "run")),
		Stop:  key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "stop")),
		Focus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "errors")),
		Jump:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go to")),
		Up:    key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "prev")),
		Down:  key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
		Save:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// setBusy enables run or stop depending on whether a script is running.
func (k *keyMap) setBusy(busy bool) {
	k.Run.SetEnabled(!busy)
	k.Stop.SetEnabled(busy)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Stop, k.Focus, k.Save, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Run, k.Stop, k.Save, k.Quit},
		{k.Focus, k.Up, k.Down, k.Jump},
	}
}
