package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	flip    key.Binding
	yes     key.Binding
	no      key.Binding
	prev    key.Binding
	list    key.Binding
	shuffle key.Binding
	back    key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		flip:    key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "flip")),
		yes:     key.NewBinding(key.WithKeys("y", "right", "l"), key.WithHelp("y/→", "got it")),
		no:      key.NewBinding(key.WithKeys("n", "down", "j"), key.WithHelp("n/↓", "again")),
		prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		list:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "all cards")),
		shuffle: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "review missed")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.flip, k.yes, k.no, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.flip, k.yes, k.no, k.prev},
		{k.list, k.shuffle, k.back},
		{k.restart, k.quit},
	}
}
