package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMatches reports whether the key message triggers the binding.
func keyMatches(msg tea.KeyMsg, binding key.Binding) bool {
	return key.Matches(msg, binding)
}

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	Confirm    key.Binding
	Tab        key.Binding

	// Navigation
	Up   key.Binding
	Down key.Binding

	// Deck list
	NewDeck    key.Binding
	RenameDeck key.Binding
	DeleteDeck key.Binding
	Practice   key.Binding
	Logout     key.Binding

	// Deck detail
	NewCard     key.Binding
	EditCard    key.Binding
	DeleteCard  key.Binding
	ToggleDraft key.Binding
	Translate   key.Binding

	// Practice
	Flip     key.Binding
	Remember key.Binding
	Forget   key.Binding

	// Login
	SwitchMode key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next field"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "Up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "Down"),
		),

		NewDeck: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New deck"),
		),
		RenameDeck: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Rename deck"),
		),
		DeleteDeck: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete deck"),
		),
		Practice: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Practice"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "Log out"),
		),

		NewCard: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New card"),
		),
		EditCard: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit card"),
		),
		DeleteCard: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete card"),
		),
		ToggleDraft: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Toggle draft"),
		),
		Translate: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "Suggest translation"),
		),

		Flip: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Flip card"),
		),
		Remember: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "Remembered"),
		),
		Forget: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "Forgot"),
		),

		SwitchMode: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Login/register"),
		),
	}
}
