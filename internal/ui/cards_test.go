package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flickcards/flick/internal/api"
)

func TestDeckDetail_RefreshAppliesServerCopy(t *testing.T) {
	m := &Model{
		keys:   defaultKeyMap(),
		detail: newDeckDetailModel(api.Deck{ID: 4, Name: "Spanish", Language: "es"}),
	}

	_, _ = m.updateDeckDetail(deckRefreshedMsg{deck: &api.Deck{ID: 4, Name: "Español", Language: "es"}})
	assert.Equal(t, "Español", m.detail.deck.Name)

	// Failed lookups keep the cached copy.
	_, _ = m.updateDeckDetail(deckRefreshedMsg{deck: nil})
	assert.Equal(t, "Español", m.detail.deck.Name)

	// A refresh for a deck we already navigated away from is dropped.
	_, _ = m.updateDeckDetail(deckRefreshedMsg{deck: &api.Deck{ID: 9, Name: "Other", Language: "fr"}})
	assert.Equal(t, "Español", m.detail.deck.Name)
}
