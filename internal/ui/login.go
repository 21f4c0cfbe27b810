package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loginMode int

const (
	modeLogin loginMode = iota
	modeRegister
)

type loginModel struct {
	mode       loginMode
	username   textinput.Model
	password   textinput.Model
	focusIndex int
	fieldError string
	busy       bool
}

func newLoginModel() loginModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return loginModel{
		username: username,
		password: password,
	}
}

func (m *Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.login.busy = false
		if !msg.ok {
			return m, nil
		}
		m.screen = screenDecks
		return m, tea.Batch(m.fetchDecksCmd(), m.fetchLanguagesCmd())

	case tea.KeyMsg:
		if m.login.busy {
			return m, nil
		}
		switch {
		case keyMatches(msg, m.keys.SwitchMode):
			if m.login.mode == modeLogin {
				m.login.mode = modeRegister
			} else {
				m.login.mode = modeLogin
			}
			return m, nil

		case keyMatches(msg, m.keys.Tab):
			m.login.focusIndex = (m.login.focusIndex + 1) % 2
			if m.login.focusIndex == 0 {
				m.login.password.Blur()
				return m, m.login.username.Focus()
			}
			m.login.username.Blur()
			return m, m.login.password.Focus()

		case keyMatches(msg, m.keys.Confirm):
			username := strings.TrimSpace(m.login.username.Value())
			password := m.login.password.Value()
			// Client-side validation happens before any network call.
			if username == "" || password == "" {
				m.login.fieldError = "username and password are required"
				return m, nil
			}
			m.login.fieldError = ""
			m.login.busy = true
			return m, m.submitLoginCmd(m.login.mode, username, password)
		}
	}

	var cmd tea.Cmd
	if m.login.focusIndex == 0 {
		m.login.username, cmd = m.login.username.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) submitLoginCmd(mode loginMode, username, password string) tea.Cmd {
	ctx, session := m.opts.Context, m.opts.Session
	return func() tea.Msg {
		if mode == modeRegister {
			return loginResultMsg{ok: session.Register(ctx, username, password)}
		}
		return loginResultMsg{ok: session.Login(ctx, username, password)}
	}
}

func (m *Model) viewLogin() string {
	title := "Log in"
	if m.login.mode == modeRegister {
		title = "Register"
	}

	lines := []string{
		m.styles.Accent.Render(title),
		"",
		m.login.username.View(),
		m.login.password.View(),
	}
	if m.login.fieldError != "" {
		lines = append(lines, "", m.styles.Danger.Render(m.login.fieldError))
	}
	if m.login.busy {
		lines = append(lines, "", m.styles.Muted.Render("…"))
	}
	return m.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
