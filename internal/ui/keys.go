package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit       key.Binding
	Back       key.Binding
	Home       key.Binding
	Courses    key.Binding
	Dashboard  key.Binding
	Tutor      key.Binding
	Login      key.Binding
	Register   key.Binding
	Logout     key.Binding
	ToggleAuth key.Binding
	Interrupt  key.Binding
}

var Keys = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Home:       key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "home")),
	Courses:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "courses")),
	Dashboard:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dashboard")),
	Tutor:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tutor")),
	Login:      key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "login")),
	Register:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "register")),
	Logout:     key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "logout")),
	ToggleAuth: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "switch login/register")),
	Interrupt:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}
