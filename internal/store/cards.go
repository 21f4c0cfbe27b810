package store

import (
	"context"
	"sync"

	"github.com/flickcards/flick/internal/api"
	"github.com/flickcards/flick/internal/localdata"
	"github.com/flickcards/flick/internal/notify"
	"github.com/flickcards/flick/internal/watch"
)

const cardsKey = "cards"

// CardStore caches the cards of the currently opened deck.
type CardStore struct {
	mu    sync.Mutex
	cards []api.Card

	subs     watch.List[[]api.Card]
	session  TokenSession
	data     *localdata.Adapter
	notifier *notify.Notifier
}

// NewCardStore builds a card store, seeded from the persisted record.
func NewCardStore(session TokenSession, data *localdata.Adapter, notifier *notify.Notifier) *CardStore {
	s := &CardStore{
		session:  session,
		data:     data,
		notifier: notifier,
	}
	var cached []api.Card
	if data.Load(cardsKey, &cached) {
		s.cards = cached
	}
	return s
}

// List returns a snapshot of the cached cards.
func (s *CardStore) List() []api.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCards(s.cards)
}

// Reset empties the cache, typically when navigating away from a deck.
func (s *CardStore) Reset() {
	s.mu.Lock()
	s.cards = nil
	s.mu.Unlock()
}

// FetchAll replaces the cache with the given deck's cards. On failure the
// cache keeps its previous contents.
func (s *CardStore) FetchAll(ctx context.Context, deckID int64) bool {
	items, err := s.session.Client().ListCards(ctx, deckID)
	if err != nil {
		s.notifier.Error(err.Error())
		return false
	}
	s.mu.Lock()
	s.cards = items
	s.mu.Unlock()
	s.persist()
	s.notifyAll()
	return true
}

// Create posts a new card under deckID and appends the server's copy to
// the cache. Returns nil on failure.
func (s *CardStore) Create(ctx context.Context, deckID int64, fields api.CardFields) *api.Card {
	card, err := s.session.Client().CreateCard(ctx, deckID, fields)
	if err != nil {
		s.notifier.Error(err.Error())
		return nil
	}
	s.mu.Lock()
	s.cards = append(s.cards, *card)
	s.mu.Unlock()
	s.persist()
	s.notifyAll()
	s.notifier.Success("Card created successfully!")
	return card
}

// Update replaces a card's fields on the server and in the cache. A card
// the cache does not hold leaves it untouched.
func (s *CardStore) Update(ctx context.Context, deckID, cardID int64, fields api.CardFields) *api.Card {
	card, err := s.session.Client().UpdateCard(ctx, deckID, cardID, fields)
	if err != nil {
		s.notifier.Error(err.Error())
		return nil
	}
	s.mu.Lock()
	for i := range s.cards {
		if s.cards[i].ID == cardID {
			s.cards[i] = *card
			break
		}
	}
	s.mu.Unlock()
	s.persist()
	s.notifyAll()
	s.notifier.Success("Card updated successfully!")
	return card
}

// Delete removes a card on the server and drops it from the cache. An id
// the cache does not hold is a no-op locally.
func (s *CardStore) Delete(ctx context.Context, cardID int64) bool {
	if err := s.session.Client().DeleteCard(ctx, cardID); err != nil {
		s.notifier.Error(err.Error())
		return false
	}
	s.mu.Lock()
	for i := range s.cards {
		if s.cards[i].ID == cardID {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.persist()
	s.notifyAll()
	s.notifier.Success("Card deleted successfully!")
	return true
}

// Subscribe registers fn to run after every successful fetch or mutation,
// with a snapshot of the full card list.
func (s *CardStore) Subscribe(fn func([]api.Card)) int {
	return s.subs.Subscribe(fn)
}

// Unsubscribe removes a subscription by id.
func (s *CardStore) Unsubscribe(id int) {
	s.subs.Unsubscribe(id)
}

func (s *CardStore) notifyAll() {
	s.subs.Notify(s.List())
}

func (s *CardStore) persist() {
	s.mu.Lock()
	snapshot := cloneCards(s.cards)
	s.mu.Unlock()
	_ = s.data.Store(cardsKey, snapshot)
}

func cloneCards(items []api.Card) []api.Card {
	if len(items) == 0 {
		return nil
	}
	dup := make([]api.Card, len(items))
	copy(dup, items)
	return dup
}
