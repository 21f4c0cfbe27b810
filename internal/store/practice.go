package store

import (
	"context"
	"sync"

	"github.com/flickcards/flick/internal/api"
	"github.com/flickcards/flick/internal/notify"
	"github.com/flickcards/flick/internal/watch"
)

// PracticeStore caches the cards currently due for review. The server is
// the source of truth for due/not-due classification: reporting an outcome
// never mutates the local queue.
type PracticeStore struct {
	mu    sync.Mutex
	cards []api.Card

	subs     watch.List[[]api.Card]
	session  TokenSession
	notifier *notify.Notifier
}

// NewPracticeStore builds an empty practice queue. The queue is ephemeral
// and never persisted.
func NewPracticeStore(session TokenSession, notifier *notify.Notifier) *PracticeStore {
	return &PracticeStore{
		session:  session,
		notifier: notifier,
	}
}

// List returns a snapshot of the due queue.
func (s *PracticeStore) List() []api.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCards(s.cards)
}

// FetchDue loads the deck's due cards into the queue. Drafts never enter a
// practice session. On failure the queue keeps its previous contents.
func (s *PracticeStore) FetchDue(ctx context.Context, deckID int64) bool {
	items, err := s.session.Client().ListDueCards(ctx, deckID)
	if err != nil {
		s.notifier.Error(err.Error())
		return false
	}
	due := items[:0:0]
	for _, card := range items {
		if !card.Draft {
			due = append(due, card)
		}
	}
	s.mu.Lock()
	s.cards = due
	s.mu.Unlock()
	s.notifyAll()
	return true
}

// SetCardState reports a review outcome for one card. The local queue is
// left alone; the server reschedules the card.
func (s *PracticeStore) SetCardState(ctx context.Context, cardID int64, remembered bool) bool {
	if err := s.session.Client().SetCardState(ctx, cardID, remembered); err != nil {
		s.notifier.Error(err.Error())
		return false
	}
	return true
}

// Reset empties the queue and notifies subscribers.
func (s *PracticeStore) Reset() {
	s.mu.Lock()
	s.cards = nil
	s.mu.Unlock()
	s.notifyAll()
}

// Subscribe registers fn to run after every queue change.
func (s *PracticeStore) Subscribe(fn func([]api.Card)) int {
	return s.subs.Subscribe(fn)
}

// Unsubscribe removes a subscription by id.
func (s *PracticeStore) Unsubscribe(id int) {
	s.subs.Unsubscribe(id)
}

func (s *PracticeStore) notifyAll() {
	s.subs.Notify(s.List())
}
