// Package practice runs one review session over a deck's due cards.
package practice

import (
	"context"
	"sync"

	"github.com/flickcards/flick/internal/api"
)

// Queue is the part of the practice store a session drives.
type Queue interface {
	SetCardState(ctx context.Context, cardID int64, remembered bool) bool
	Reset()
}

// Session walks a fixed sequence of due cards. Each Advance reports the
// outcome for the current card and moves to the next; after the last card
// the queue is reset and the finished callback fires exactly once. A
// Session is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	remaining []api.Card
	current   *api.Card
	finished  bool

	queue    Queue
	onFinish func()
}

// New starts a session over cards. An empty slice yields a session that is
// already finished; the callback does not fire for a session that never
// showed a card.
func New(queue Queue, cards []api.Card, onFinish func()) *Session {
	s := &Session{
		queue:    queue,
		onFinish: onFinish,
	}
	if len(cards) == 0 {
		s.finished = true
		return s
	}
	dup := make([]api.Card, len(cards))
	copy(dup, cards)
	s.current = &dup[0]
	s.remaining = dup[1:]
	return s
}

// Current returns the card being reviewed, or nil once finished.
func (s *Session) Current() *api.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Remaining reports how many cards follow the current one.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.remaining)
}

// Finished reports whether the session has reached its terminal state.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Advance reports the outcome for the current card and steps to the next
// one. Advancing a finished session is a no-op. The lock is held across
// the outcome call so overlapping advances report each card exactly once,
// in order.
func (s *Session) Advance(ctx context.Context, remembered bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished || s.current == nil {
		return
	}
	s.queue.SetCardState(ctx, s.current.ID, remembered)

	if len(s.remaining) > 0 {
		s.current = &s.remaining[0]
		s.remaining = s.remaining[1:]
		return
	}

	s.current = nil
	s.finished = true
	s.queue.Reset()
	if s.onFinish != nil {
		s.onFinish()
	}
}
