package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flickcards/flick/internal/api"
	"github.com/flickcards/flick/internal/notify"
)

type deckDetailModel struct {
	deck   api.Deck
	cursor int

	formOpen    bool
	editingID   int64 // zero means the form creates a new card
	front       textinput.Model
	back        textinput.Model
	draft       bool
	formFocus   int // 0 = front, 1 = back
	fieldError  string
	translating bool
}

func newDeckDetailModel(deck api.Deck) deckDetailModel {
	front := textinput.New()
	front.Placeholder = "front text"
	front.CharLimit = 500

	back := textinput.New()
	back.Placeholder = "back text"
	back.CharLimit = 500

	return deckDetailModel{
		deck:  deck,
		front: front,
		back:  back,
	}
}

func (m *Model) updateDeckDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case cardsChangedMsg:
		if n := len(msg); m.detail.cursor >= n && n > 0 {
			m.detail.cursor = n - 1
		}
		return m, nil

	case deckRefreshedMsg:
		// Ignore failed lookups and refreshes for a deck we already left.
		if msg.deck != nil && msg.deck.ID == m.detail.deck.ID {
			m.detail.deck = *msg.deck
		}
		return m, nil

	case translationMsg:
		m.detail.translating = false
		if !m.detail.formOpen {
			return m, nil
		}
		if msg.match == nil {
			return m, m.showToast(notify.LevelError, "No translation found")
		}
		m.detail.back.SetValue(msg.match.Translation)
		return m, nil

	case tea.KeyMsg:
		if m.detail.formOpen {
			return m.updateCardForm(msg)
		}
		return m.handleDeckDetailKey(msg)
	}
	return m, nil
}

func (m *Model) handleDeckDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cards := m.opts.Cards.List()
	switch {
	case keyMatches(msg, m.keys.Escape):
		m.opts.Cards.Reset()
		m.screen = screenDecks
	case keyMatches(msg, m.keys.Up):
		if m.detail.cursor > 0 {
			m.detail.cursor--
		}
	case keyMatches(msg, m.keys.Down):
		if m.detail.cursor < len(cards)-1 {
			m.detail.cursor++
		}
	case keyMatches(msg, m.keys.NewCard):
		m.openCardForm(nil)
	case keyMatches(msg, m.keys.EditCard):
		if card, ok := m.selectedCard(cards); ok {
			m.openCardForm(&card)
		}
	case keyMatches(msg, m.keys.DeleteCard):
		if card, ok := m.selectedCard(cards); ok {
			return m, m.deleteCardCmd(card.ID)
		}
	}
	return m, nil
}

func (m *Model) selectedCard(cards []api.Card) (api.Card, bool) {
	if len(cards) == 0 || m.detail.cursor >= len(cards) {
		return api.Card{}, false
	}
	return cards[m.detail.cursor], true
}

func (m *Model) openCardForm(card *api.Card) {
	f := &m.detail
	f.formOpen = true
	f.formFocus = 0
	f.fieldError = ""
	f.front.SetValue("")
	f.back.SetValue("")
	f.draft = false
	f.editingID = 0
	if card != nil {
		f.editingID = card.ID
		f.front.SetValue(card.FrontText)
		f.back.SetValue(card.BackText)
		f.draft = card.Draft
	}
	f.front.Focus()
	f.back.Blur()
}

func (m *Model) updateCardForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.detail
	switch {
	case keyMatches(msg, m.keys.Escape):
		f.formOpen = false
		return m, nil

	case keyMatches(msg, m.keys.Tab):
		f.formFocus = (f.formFocus + 1) % 2
		if f.formFocus == 0 {
			f.back.Blur()
			return m, f.front.Focus()
		}
		f.front.Blur()
		return m, f.back.Focus()

	case keyMatches(msg, m.keys.ToggleDraft):
		f.draft = !f.draft
		return m, nil

	case keyMatches(msg, m.keys.Translate):
		word := strings.TrimSpace(f.front.Value())
		if word == "" {
			f.fieldError = "enter front text to translate"
			return m, nil
		}
		f.fieldError = ""
		f.translating = true
		return m, m.translateCmd(word, f.deck.Language)

	case keyMatches(msg, m.keys.Confirm):
		front := strings.TrimSpace(f.front.Value())
		back := strings.TrimSpace(f.back.Value())
		if front == "" {
			f.fieldError = "front text is required"
			return m, nil
		}
		if back == "" && !f.draft {
			f.fieldError = "back text is required (or mark the card draft)"
			return m, nil
		}
		fields := api.CardFields{FrontText: front, BackText: back, Draft: f.draft}
		editing := f.editingID
		f.formOpen = false
		if editing != 0 {
			return m, m.updateCardCmd(f.deck.ID, editing, fields)
		}
		return m, m.createCardCmd(f.deck.ID, fields)
	}

	var cmd tea.Cmd
	if f.formFocus == 0 {
		f.front, cmd = f.front.Update(msg)
	} else {
		f.back, cmd = f.back.Update(msg)
	}
	return m, cmd
}

func (m *Model) createCardCmd(deckID int64, fields api.CardFields) tea.Cmd {
	ctx, cards := m.opts.Context, m.opts.Cards
	return func() tea.Msg {
		cards.Create(ctx, deckID, fields)
		return nil
	}
}

func (m *Model) updateCardCmd(deckID, cardID int64, fields api.CardFields) tea.Cmd {
	ctx, cards := m.opts.Context, m.opts.Cards
	return func() tea.Msg {
		cards.Update(ctx, deckID, cardID, fields)
		return nil
	}
}

func (m *Model) deleteCardCmd(cardID int64) tea.Cmd {
	ctx, cards := m.opts.Context, m.opts.Cards
	return func() tea.Msg {
		cards.Delete(ctx, cardID)
		return nil
	}
}

func (m *Model) translateCmd(word, targetISO string) tea.Cmd {
	ctx, languages := m.opts.Context, m.opts.Languages
	return func() tea.Msg {
		return translationMsg{match: languages.Translate(ctx, word, targetISO)}
	}
}

func (m *Model) viewDeckDetail() string {
	cards := m.opts.Cards.List()
	title := fmt.Sprintf("%s  %s", m.detail.deck.Name,
		m.styles.Muted.Render(m.opts.Languages.DisplayName(m.detail.deck.Language)))

	var lines []string
	lines = append(lines, m.styles.Accent.Render(title), "")
	if len(cards) == 0 {
		lines = append(lines, m.styles.Muted.Render("No cards yet. Press n to add one."))
	}
	for i, card := range cards {
		row := fmt.Sprintf("%s — %s", card.FrontText, card.BackText)
		if card.Draft {
			row += "  " + m.styles.Muted.Render("[draft]")
		}
		if i == m.detail.cursor {
			row = m.styles.Selected.Render("> " + row)
		} else {
			row = "  " + row
		}
		lines = append(lines, row)
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if m.detail.formOpen {
		return lipgloss.JoinVertical(lipgloss.Left, body, "", m.viewCardForm())
	}
	return body
}

func (m *Model) viewCardForm() string {
	f := m.detail
	title := "New card"
	if f.editingID != 0 {
		title = "Edit card"
	}

	draft := "draft: no"
	if f.draft {
		draft = "draft: yes"
	}

	lines := []string{
		m.styles.Accent.Render(title),
		"",
		f.front.View(),
		f.back.View(),
		m.styles.Muted.Render(draft + "  (ctrl+d toggles)"),
	}
	if f.translating {
		lines = append(lines, m.styles.Muted.Render("translating…"))
	}
	if f.fieldError != "" {
		lines = append(lines, "", m.styles.Danger.Render(f.fieldError))
	}
	return m.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
