// Package watch provides a typed observer list. Subscribers are invoked
// synchronously, in registration order, each time a value is published.
package watch

import "sync"

type entry[T any] struct {
	id int
	fn func(T)
}

// List fans a value out to registered callbacks.
//
// The zero value is ready to use.
type List[T any] struct {
	mu   sync.Mutex
	next int
	subs []entry[T]
}

// Subscribe registers fn and returns an id for Unsubscribe.
func (l *List[T]) Subscribe(fn func(T)) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.subs = append(l.subs, entry[T]{id: l.next, fn: fn})
	return l.next
}

// Unsubscribe removes the callback registered under id. Unknown ids are
// ignored.
func (l *List[T]) Unsubscribe(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, sub := range l.subs {
		if sub.id == id {
			l.subs = append(l.subs[:i], l.subs[i+1:]...)
			return
		}
	}
}

// Notify invokes every subscriber with value, in registration order.
// Callbacks run outside the list's lock so they may subscribe or
// unsubscribe without deadlocking.
func (l *List[T]) Notify(value T) {
	l.mu.Lock()
	snapshot := make([]entry[T], len(l.subs))
	copy(snapshot, l.subs)
	l.mu.Unlock()

	for _, sub := range snapshot {
		sub.fn(value)
	}
}

// Len reports the number of registered subscribers.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}
