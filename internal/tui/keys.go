package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Open   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Reload key.Binding
	Help   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k", "ctrl+p"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "ctrl+n"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand")),
		Open:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open resource")),
		Next:   key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next page")),
		Prev:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "previous page")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}
