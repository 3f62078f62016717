package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit     key.Binding
	Back     key.Binding
	Help     key.Binding
	Login    key.Binding
	Register key.Binding
	Logout   key.Binding
}

var Keys = KeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Login:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "login")),
	Register: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "register")),
	Logout:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "logout")),
}

// helpBindings is the order the help overlay lists bindings in.
func (k KeyMap) helpBindings() []key.Binding {
	return []key.Binding{k.Login, k.Register, k.Logout, k.Back, k.Help, k.Quit}
}
