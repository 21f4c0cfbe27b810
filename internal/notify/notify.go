// Package notify carries transient user-facing notifications ("toasts")
// from stores to whatever renders them.
package notify

import (
	"github.com/flickcards/flick/internal/watch"
)

// Level classifies a toast.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// Toast is one transient message for the user.
type Toast struct {
	Level   Level
	Message string
}

// Notifier fans toasts out to subscribers (typically the UI status line).
type Notifier struct {
	subs watch.List[Toast]
}

// New returns an empty Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Success emits a success toast.
func (n *Notifier) Success(message string) {
	if n == nil {
		return
	}
	n.subs.Notify(Toast{Level: LevelSuccess, Message: message})
}

// Error emits an error toast. The message is the server's detail text when
// one exists, otherwise the transport error.
func (n *Notifier) Error(message string) {
	if n == nil {
		return
	}
	n.subs.Notify(Toast{Level: LevelError, Message: message})
}

// Subscribe registers fn for every subsequent toast.
func (n *Notifier) Subscribe(fn func(Toast)) int {
	return n.subs.Subscribe(fn)
}

// Unsubscribe removes a subscription by id.
func (n *Notifier) Unsubscribe(id int) {
	n.subs.Unsubscribe(id)
}
