package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flickcards/flick/internal/practice"
)

type practiceModel struct {
	session  *practice.Session
	total    int
	revealed bool

	remembered int
	forgot     int
	done       bool
}

func newPracticeModel(session *practice.Session, total int) practiceModel {
	return practiceModel{
		session: session,
		total:   total,
	}
}

func (m *Model) updatePractice(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionFinishedMsg:
		m.prac.done = true
		return m, nil

	case advancedMsg:
		m.prac.revealed = false
		return m, nil

	case tea.KeyMsg:
		p := &m.prac
		if p.done {
			if keyMatches(msg, m.keys.Escape) || keyMatches(msg, m.keys.Confirm) {
				m.screen = screenDecks
			}
			return m, nil
		}
		switch {
		case keyMatches(msg, m.keys.Escape):
			// Abandoning mid-session: drop the rest of the queue.
			m.opts.Practice.Reset()
			m.screen = screenDecks
		case keyMatches(msg, m.keys.Flip):
			p.revealed = !p.revealed
		case keyMatches(msg, m.keys.Remember):
			p.remembered++
			return m, m.advanceCmd(true)
		case keyMatches(msg, m.keys.Forget):
			p.forgot++
			return m, m.advanceCmd(false)
		}
	}
	return m, nil
}

func (m *Model) advanceCmd(remembered bool) tea.Cmd {
	ctx, session := m.opts.Context, m.prac.session
	return func() tea.Msg {
		session.Advance(ctx, remembered)
		return advancedMsg{}
	}
}

func (m *Model) viewPractice() string {
	p := m.prac

	if p.done {
		summary := fmt.Sprintf("Session finished!\n\nremembered %d · forgot %d", p.remembered, p.forgot)
		return m.styles.Panel.Render(m.styles.Success.Render(summary))
	}

	card := p.session.Current()
	if card == nil {
		return m.styles.Muted.Render("…")
	}

	face := card.FrontText
	if p.revealed {
		face = card.BackText
	}

	progress := fmt.Sprintf("%d/%d", p.total-p.session.Remaining(), p.total)
	side := "front"
	if p.revealed {
		side = "back"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Muted.Render(progress+"  "+side),
		"",
		m.styles.CardFace.Render(face),
	)
}
