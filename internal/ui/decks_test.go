package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flickcards/flick/internal/api"
)

func newFormModel() *Model {
	return &Model{
		keys: defaultKeyMap(),
		languages: []api.Language{
			{ID: 1, Name: "Spanish", ISOCode: "es", Sorting: 10},
			{ID: 2, Name: "German", ISOCode: "de", Sorting: 20},
		},
		deckList: newDeckListModel(0),
	}
}

func TestDeckForm_NewDeckUsesPicker(t *testing.T) {
	m := newFormModel()
	m.openDeckForm(nil)
	m.deckList.name.SetValue("Vocabulary")

	fields, ok := m.deckFormFields()
	require.True(t, ok)
	assert.Equal(t, "es", fields.Language)
}

func TestDeckForm_EditMatchesListedLanguage(t *testing.T) {
	m := newFormModel()
	m.openDeckForm(&api.Deck{ID: 4, Name: "Deutsch", Language: "de"})

	assert.Equal(t, 1, m.deckList.langCursor)
	fields, ok := m.deckFormFields()
	require.True(t, ok)
	assert.Equal(t, "de", fields.Language)
}

func TestDeckForm_EditKeepsUnlistedLanguage(t *testing.T) {
	m := newFormModel()
	m.openDeckForm(&api.Deck{ID: 4, Name: "Klingon", Language: "tlh"})

	// The picker must not silently substitute its first entry for a code
	// the list does not carry.
	fields, ok := m.deckFormFields()
	require.True(t, ok)
	assert.Equal(t, "tlh", fields.Language)

	// Moving the picker is an explicit choice and wins from then on.
	m.deckList.formFocus = 1
	_, _ = m.updateDeckForm(tea.KeyMsg{Type: tea.KeyDown})
	fields, ok = m.deckFormFields()
	require.True(t, ok)
	assert.Equal(t, "es", fields.Language)
}

func TestDeckForm_EmptyNameRejected(t *testing.T) {
	m := newFormModel()
	m.openDeckForm(nil)

	_, ok := m.deckFormFields()
	assert.False(t, ok)
	assert.Equal(t, "deck name is required", m.deckList.fieldError)
}
