package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	Select    key.Binding
	Parent    key.Binding
	Focus     key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Interrupt key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/select")),
	Select:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	Parent:    key.NewBinding(key.WithKeys("backspace", "h", "left"), key.WithHelp("⌫/h", "parent")),
	Focus:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "range")),
	Confirm:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "confirm")),
	Cancel:    key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc/q", "cancel")),
	Interrupt: key.NewBinding(key.WithKeys("ctrl+c")),
}
