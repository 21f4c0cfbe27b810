package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flickcards/flick/internal/api"
	"github.com/flickcards/flick/internal/notify"
)

type deckListModel struct {
	cursor     int
	lastDeckID int64

	formOpen   bool
	editingID  int64 // zero means the form creates a new deck
	name       textinput.Model
	langInput  textinput.Model
	langCursor int
	formFocus  int // 0 = name, 1 = language
	fieldError string
}

func newDeckListModel(lastDeckID int64) deckListModel {
	name := textinput.New()
	name.Placeholder = "deck name"
	name.CharLimit = 120

	langInput := textinput.New()
	langInput.Placeholder = "language code (e.g. es)"
	langInput.CharLimit = 8

	return deckListModel{
		lastDeckID: lastDeckID,
		name:       name,
		langInput:  langInput,
	}
}

func (m *Model) updateDeckList(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case decksChangedMsg:
		if n := len(msg); m.deckList.cursor >= n && n > 0 {
			m.deckList.cursor = n - 1
		}
		return m, nil

	case practiceStartedMsg:
		if !msg.ok {
			return m, nil
		}
		due := m.opts.Practice.List()
		if len(due) == 0 {
			return m, m.showToast(notify.LevelError, "No cards due for review")
		}
		m.prac = newPracticeModel(m.newSession(due), len(due))
		m.screen = screenPractice
		return m, nil

	case tea.KeyMsg:
		if m.deckList.formOpen {
			return m.updateDeckForm(msg)
		}
		return m.handleDeckListKey(msg)
	}
	return m, nil
}

func (m *Model) handleDeckListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	decks := m.opts.Decks.List()
	switch {
	case keyMatches(msg, m.keys.Up):
		if m.deckList.cursor > 0 {
			m.deckList.cursor--
		}
	case keyMatches(msg, m.keys.Down):
		if m.deckList.cursor < len(decks)-1 {
			m.deckList.cursor++
		}
	case keyMatches(msg, m.keys.Confirm):
		if deck, ok := m.selectedDeck(decks); ok {
			m.deckList.lastDeckID = deck.ID
			m.detail = newDeckDetailModel(deck)
			m.screen = screenDeckDetail
			m.opts.Cards.Reset()
			return m, tea.Batch(m.fetchCardsCmd(deck.ID), m.refreshDeckCmd(deck.ID))
		}
	case keyMatches(msg, m.keys.NewDeck):
		m.openDeckForm(nil)
	case keyMatches(msg, m.keys.RenameDeck):
		if deck, ok := m.selectedDeck(decks); ok {
			m.openDeckForm(&deck)
		}
	case keyMatches(msg, m.keys.DeleteDeck):
		if deck, ok := m.selectedDeck(decks); ok {
			return m, m.deleteDeckCmd(deck.ID)
		}
	case keyMatches(msg, m.keys.Practice):
		if deck, ok := m.selectedDeck(decks); ok {
			m.deckList.lastDeckID = deck.ID
			return m, m.startPracticeCmd(deck.ID)
		}
	}
	return m, nil
}

func (m *Model) selectedDeck(decks []api.Deck) (api.Deck, bool) {
	if len(decks) == 0 || m.deckList.cursor >= len(decks) {
		return api.Deck{}, false
	}
	return decks[m.deckList.cursor], true
}

func (m *Model) openDeckForm(deck *api.Deck) {
	f := &m.deckList
	f.formOpen = true
	f.formFocus = 0
	f.fieldError = ""
	f.langCursor = 0
	f.name.SetValue("")
	f.langInput.SetValue("")
	f.editingID = 0
	if deck != nil {
		f.editingID = deck.ID
		f.name.SetValue(deck.Name)
		f.langInput.SetValue(deck.Language)
		// A code the fetched list does not carry keeps its current value
		// until the user moves the picker.
		f.langCursor = -1
		for i, lang := range m.languages {
			if lang.ISOCode == deck.Language {
				f.langCursor = i
				break
			}
		}
	}
	f.name.Focus()
	f.langInput.Blur()
}

func (m *Model) updateDeckForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.deckList
	switch {
	case keyMatches(msg, m.keys.Escape):
		f.formOpen = false
		return m, nil

	case keyMatches(msg, m.keys.Tab):
		f.formFocus = (f.formFocus + 1) % 2
		if f.formFocus == 0 {
			f.langInput.Blur()
			return m, f.name.Focus()
		}
		f.name.Blur()
		if len(m.languages) == 0 {
			return m, f.langInput.Focus()
		}
		return m, nil

	case keyMatches(msg, m.keys.Up):
		if f.formFocus == 1 && len(m.languages) > 0 {
			if f.langCursor > 0 {
				f.langCursor--
			}
			return m, nil
		}

	case keyMatches(msg, m.keys.Down):
		if f.formFocus == 1 && len(m.languages) > 0 {
			if f.langCursor < len(m.languages)-1 {
				f.langCursor++
			}
			return m, nil
		}

	case keyMatches(msg, m.keys.Confirm):
		fields, ok := m.deckFormFields()
		if !ok {
			return m, nil
		}
		editing := f.editingID
		f.formOpen = false
		if editing != 0 {
			return m, m.updateDeckCmd(editing, fields)
		}
		return m, m.createDeckCmd(fields)
	}

	var cmd tea.Cmd
	if f.formFocus == 0 {
		f.name, cmd = f.name.Update(msg)
	} else if len(m.languages) == 0 {
		f.langInput, cmd = f.langInput.Update(msg)
	}
	return m, cmd
}

// deckFormFields resolves the form into writable deck fields. The picker
// wins only when it points at a list entry; a negative cursor keeps the
// deck's existing code.
func (m *Model) deckFormFields() (api.DeckFields, bool) {
	f := &m.deckList
	name := strings.TrimSpace(f.name.Value())
	if name == "" {
		f.fieldError = "deck name is required"
		return api.DeckFields{}, false
	}
	lang := strings.TrimSpace(f.langInput.Value())
	if len(m.languages) > 0 && f.langCursor >= 0 {
		lang = m.languages[f.langCursor].ISOCode
	}
	return api.DeckFields{Name: name, Language: lang}, true
}

func (m *Model) createDeckCmd(fields api.DeckFields) tea.Cmd {
	ctx, decks := m.opts.Context, m.opts.Decks
	return func() tea.Msg {
		decks.Create(ctx, fields)
		return nil
	}
}

func (m *Model) updateDeckCmd(id int64, fields api.DeckFields) tea.Cmd {
	ctx, decks := m.opts.Context, m.opts.Decks
	return func() tea.Msg {
		decks.Update(ctx, id, fields)
		return nil
	}
}

// refreshDeckCmd re-reads the opened deck from the server so the detail
// header reflects edits made elsewhere, not just the cached list entry.
func (m *Model) refreshDeckCmd(id int64) tea.Cmd {
	ctx, decks := m.opts.Context, m.opts.Decks
	return func() tea.Msg {
		return deckRefreshedMsg{deck: decks.FetchByID(ctx, id)}
	}
}

func (m *Model) deleteDeckCmd(id int64) tea.Cmd {
	ctx, decks := m.opts.Context, m.opts.Decks
	return func() tea.Msg {
		decks.Delete(ctx, id)
		return nil
	}
}

// showToast sets the toast directly; stores cannot be the source for
// messages originating in the UI itself.
func (m *Model) showToast(level notify.Level, message string) tea.Cmd {
	toast := notify.Toast{Level: level, Message: message}
	m.toast = &toast
	return tea.Tick(toastLifetime, func(time.Time) tea.Msg { return toastExpiredMsg{} })
}

func (m *Model) viewDeckList() string {
	decks := m.opts.Decks.List()

	var lines []string
	lines = append(lines, m.styles.Accent.Render("Decks"), "")
	if len(decks) == 0 {
		lines = append(lines, m.styles.Muted.Render("No decks yet. Press n to create one."))
	}
	for i, deck := range decks {
		label := fmt.Sprintf("%s  %s", deck.Name, m.styles.Muted.Render(m.opts.Languages.DisplayName(deck.Language)))
		if i == m.deckList.cursor {
			label = m.styles.Selected.Render("> " + deck.Name + "  " + m.opts.Languages.DisplayName(deck.Language))
		} else {
			label = "  " + label
		}
		lines = append(lines, label)
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if m.deckList.formOpen {
		return lipgloss.JoinVertical(lipgloss.Left, body, "", m.viewDeckForm())
	}
	return body
}

func (m *Model) viewDeckForm() string {
	f := m.deckList
	title := "New deck"
	if f.editingID != 0 {
		title = "Rename deck"
	}

	var langLine string
	switch {
	case len(m.languages) > 0 && f.langCursor >= 0:
		lang := m.languages[f.langCursor]
		marker := "  "
		if f.formFocus == 1 {
			marker = "> "
		}
		langLine = marker + fmt.Sprintf("%s (%s)", lang.Name, lang.ISOCode)
	case len(m.languages) > 0:
		marker := "  "
		if f.formFocus == 1 {
			marker = "> "
		}
		langLine = marker + f.langInput.Value()
	default:
		langLine = f.langInput.View()
	}

	lines := []string{
		m.styles.Accent.Render(title),
		"",
		f.name.View(),
		langLine,
	}
	if f.fieldError != "" {
		lines = append(lines, "", m.styles.Danger.Render(f.fieldError))
	}
	return m.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
