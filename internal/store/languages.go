package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/time/rate"

	"github.com/flickcards/flick/internal/api"
	"github.com/flickcards/flick/internal/notify"
	"github.com/flickcards/flick/internal/watch"
)

// LanguageStore caches the static language reference list and performs
// on-demand word translation. Translations are never cached.
type LanguageStore struct {
	mu        sync.Mutex
	languages []api.Language
	fetched   bool

	subs     watch.List[[]api.Language]
	session  TokenSession
	notifier *notify.Notifier
	limiter  *rate.Limiter
}

// NewLanguageStore builds an empty language store. Translate lookups are
// throttled so a keystroke-driven caller cannot flood the endpoint.
func NewLanguageStore(session TokenSession, notifier *notify.Notifier) *LanguageStore {
	return &LanguageStore{
		session:  session,
		notifier: notifier,
		limiter:  rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

// List returns a snapshot of the language list, ordered by the server's
// sorting field.
func (s *LanguageStore) List() []api.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.languages) == 0 {
		return nil
	}
	dup := make([]api.Language, len(s.languages))
	copy(dup, s.languages)
	return dup
}

// FetchAll loads the language list once. Later calls are no-ops; the list
// is static reference data.
func (s *LanguageStore) FetchAll(ctx context.Context) bool {
	s.mu.Lock()
	done := s.fetched
	s.mu.Unlock()
	if done {
		return true
	}

	items, err := s.session.Client().ListLanguages(ctx)
	if err != nil {
		s.notifier.Error(err.Error())
		return false
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Sorting < items[j].Sorting
	})
	s.mu.Lock()
	s.languages = items
	s.fetched = true
	s.mu.Unlock()
	s.notifyAll()
	return true
}

// Translate looks word up in the target language and returns the first
// match. Nothing is cached or mutated.
func (s *LanguageStore) Translate(ctx context.Context, word, targetISO string) *api.Translation {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil
	}
	matches, err := s.session.Client().Translate(ctx, word, targetISO)
	if err != nil {
		s.notifier.Error(err.Error())
		return nil
	}
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

// DisplayName renders an English display name for an ISO code, falling
// back to the cached list and finally to the code itself.
func (s *LanguageStore) DisplayName(isoCode string) string {
	if tag, err := language.Parse(isoCode); err == nil {
		if name := display.English.Tags().Name(tag); name != "" {
			return name
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lang := range s.languages {
		if lang.ISOCode == isoCode {
			return lang.Name
		}
	}
	return isoCode
}

// Subscribe registers fn to run when the language list loads.
func (s *LanguageStore) Subscribe(fn func([]api.Language)) int {
	return s.subs.Subscribe(fn)
}

// Unsubscribe removes a subscription by id.
func (s *LanguageStore) Unsubscribe(id int) {
	s.subs.Unsubscribe(id)
}

func (s *LanguageStore) notifyAll() {
	s.subs.Notify(s.List())
}
