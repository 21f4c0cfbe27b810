package store

import (
	"context"
	"sync"

	"github.com/flickcards/flick/internal/api"
	"github.com/flickcards/flick/internal/localdata"
	"github.com/flickcards/flick/internal/notify"
	"github.com/flickcards/flick/internal/watch"
)

const decksKey = "decks"

// DeckStore caches the user's decks.
type DeckStore struct {
	mu    sync.Mutex
	decks []api.Deck

	subs     watch.List[[]api.Deck]
	session  TokenSession
	data     *localdata.Adapter
	notifier *notify.Notifier
}

// TokenSession is the slice of the auth manager the stores need: an API
// client wired with bearer-token handling.
type TokenSession interface {
	Client() *api.Client
}

// NewDeckStore builds a deck store, seeded from the persisted record so a
// restarted app shows data before its first fetch completes.
func NewDeckStore(session TokenSession, data *localdata.Adapter, notifier *notify.Notifier) *DeckStore {
	s := &DeckStore{
		session:  session,
		data:     data,
		notifier: notifier,
	}
	var cached []api.Deck
	if data.Load(decksKey, &cached) {
		s.decks = cached
	}
	return s
}

// List returns a snapshot of the cached decks. It never touches the
// network.
func (s *DeckStore) List() []api.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDecks(s.decks)
}

// Get returns the cached deck with the given id.
func (s *DeckStore) Get(id int64) (api.Deck, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, deck := range s.decks {
		if deck.ID == id {
			return deck, true
		}
	}
	return api.Deck{}, false
}

// FetchAll replaces the cache with the server's deck list. On failure the
// cache keeps its previous contents.
func (s *DeckStore) FetchAll(ctx context.Context) bool {
	items, err := s.session.Client().ListDecks(ctx)
	if err != nil {
		s.notifier.Error(err.Error())
		return false
	}
	s.mu.Lock()
	s.decks = items
	s.mu.Unlock()
	s.persist()
	s.notifyAll()
	return true
}

// FetchByID reads a single deck straight from the server without touching
// the cache. Failures return nil without a toast; callers fall back to the
// cached copy.
func (s *DeckStore) FetchByID(ctx context.Context, id int64) *api.Deck {
	deck, err := s.session.Client().GetDeck(ctx, id)
	if err != nil {
		return nil
	}
	return deck
}

// Create posts a new deck and appends the server's copy, id included, to
// the cache. Returns nil on failure.
func (s *DeckStore) Create(ctx context.Context, fields api.DeckFields) *api.Deck {
	deck, err := s.session.Client().CreateDeck(ctx, fields)
	if err != nil {
		s.notifier.Error(err.Error())
		return nil
	}
	s.mu.Lock()
	s.decks = append(s.decks, *deck)
	s.mu.Unlock()
	s.persist()
	s.notifyAll()
	s.notifier.Success("Deck created successfully!")
	return deck
}

// Update replaces a deck's fields on the server and in the cache. An id
// the cache does not hold leaves it untouched.
func (s *DeckStore) Update(ctx context.Context, id int64, fields api.DeckFields) *api.Deck {
	deck, err := s.session.Client().UpdateDeck(ctx, id, fields)
	if err != nil {
		s.notifier.Error(err.Error())
		return nil
	}
	s.mu.Lock()
	for i := range s.decks {
		if s.decks[i].ID == id {
			s.decks[i] = *deck
			break
		}
	}
	s.mu.Unlock()
	s.persist()
	s.notifyAll()
	s.notifier.Success("Deck updated successfully!")
	return deck
}

// Delete removes a deck on the server and drops it from the cache. An id
// the cache does not hold is a no-op locally.
func (s *DeckStore) Delete(ctx context.Context, id int64) bool {
	if err := s.session.Client().DeleteDeck(ctx, id); err != nil {
		s.notifier.Error(err.Error())
		return false
	}
	s.mu.Lock()
	for i := range s.decks {
		if s.decks[i].ID == id {
			s.decks = append(s.decks[:i], s.decks[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.persist()
	s.notifyAll()
	s.notifier.Success("Deck deleted successfully!")
	return true
}

// Subscribe registers fn to run after every successful fetch or mutation,
// with a snapshot of the full deck list.
func (s *DeckStore) Subscribe(fn func([]api.Deck)) int {
	return s.subs.Subscribe(fn)
}

// Unsubscribe removes a subscription by id.
func (s *DeckStore) Unsubscribe(id int) {
	s.subs.Unsubscribe(id)
}

func (s *DeckStore) notifyAll() {
	s.subs.Notify(s.List())
}

func (s *DeckStore) persist() {
	s.mu.Lock()
	snapshot := cloneDecks(s.decks)
	s.mu.Unlock()
	_ = s.data.Store(decksKey, snapshot)
}

func cloneDecks(items []api.Deck) []api.Deck {
	if len(items) == 0 {
		return nil
	}
	dup := make([]api.Deck, len(items))
	copy(dup, items)
	return dup
}
