package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// Letter bindings are only consulted outside the login form, where letters belong to the inputs.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	next     key.Binding
	submit   key.Binding
	start    key.Binding
	copy     key.Binding
	copyBase key.Binding
	curl     key.Binding
	open     key.Binding
	abort    key.Binding
	mission  key.Binding
	quit     key.Binding
	exit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		next:     key.NewBinding(key.WithKeys("tab", "shift+tab", "up", "down"), key.WithHelp("tab", "next field")),
		submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "unlock gateway")),
		start:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start your escape")),
		copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy url")),
		copyBase: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "copy base url")),
		curl:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy curl")),
		open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open gateway")),
		abort:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "abort mission")),
		mission:  key.NewBinding(key.WithKeys("enter", "n"), key.WithHelp("enter", "next mission")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		exit:     key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.start},
		{k.copy, k.copyBase, k.curl, k.open},
		{k.abort, k.mission, k.quit},
	}
}
