package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type stubTokens struct {
	mu        sync.Mutex
	token     string
	next      string
	refreshes int
	fail      bool
}

func (s *stubTokens) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *stubTokens) RefreshAccess(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshes++
	if s.fail {
		return fmt.Errorf("refresh rejected")
	}
	s.token = s.next
	return nil
}

func TestAuthenticated_RefreshesAndReplaysOnce(t *testing.T) {
	t.Parallel()

	var gotTokens []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		gotTokens = append(gotTokens, token)
		if token != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "token expired"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(deckListResponse{Items: []Deck{{ID: 1, Name: "ok"}}})
	}))
	t.Cleanup(server.Close)

	base, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	tokens := &stubTokens{token: "stale", next: "fresh"}
	c := base.Authenticated(tokens)

	decks, err := c.ListDecks(context.Background())
	if err != nil {
		t.Fatalf("ListDecks returned error: %v, want transparent recovery", err)
	}
	if len(decks) != 1 || decks[0].Name != "ok" {
		t.Fatalf("ListDecks = %#v, want replayed response", decks)
	}
	if tokens.refreshes != 1 {
		t.Fatalf("refreshes = %d, want 1", tokens.refreshes)
	}
	if len(gotTokens) != 2 || gotTokens[0] != "Bearer stale" || gotTokens[1] != "Bearer fresh" {
		t.Fatalf("authorization sequence = %v, want stale then fresh", gotTokens)
	}
}

func TestAuthenticated_RefreshFailureReturnsOriginal401(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "token expired"}`))
	}))
	t.Cleanup(server.Close)

	base, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	tokens := &stubTokens{token: "stale", fail: true}
	c := base.Authenticated(tokens)

	_, err = c.ListDecks(context.Background())
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error = %T (%v), want *Error", err, err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Detail != "token expired" {
		t.Fatalf("error = %#v, want original 401 body", apiErr)
	}
	if tokens.refreshes != 1 {
		t.Fatalf("refreshes = %d, want 1", tokens.refreshes)
	}
}

func TestAuthenticated_NoSecondRetryLoop(t *testing.T) {
	t.Parallel()

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "still no"}`))
	}))
	t.Cleanup(server.Close)

	base, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	tokens := &stubTokens{token: "a", next: "b"}
	c := base.Authenticated(tokens)

	_, err = c.ListDecks(context.Background())
	if err == nil {
		t.Fatal("ListDecks returned nil error, want 401")
	}
	if requests != 2 {
		t.Fatalf("requests = %d, want exactly one replay", requests)
	}
	if tokens.refreshes != 1 {
		t.Fatalf("refreshes = %d, want 1", tokens.refreshes)
	}
}

func TestAuthenticated_ReplaysRequestBody(t *testing.T) {
	t.Parallel()

	var bodies []DeckFields
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var fields DeckFields
		_ = json.NewDecoder(r.Body).Decode(&fields)
		bodies = append(bodies, fields)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Deck{ID: 3, Name: fields.Name, Language: fields.Language})
	}))
	t.Cleanup(server.Close)

	base, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	tokens := &stubTokens{token: "stale", next: "fresh"}
	c := base.Authenticated(tokens)

	deck, err := c.CreateDeck(context.Background(), DeckFields{Name: "Spanish", Language: "es"})
	if err != nil {
		t.Fatalf("CreateDeck returned error: %v", err)
	}
	if deck.ID != 3 || deck.Name != "Spanish" {
		t.Fatalf("CreateDeck = %#v, want replayed create", deck)
	}
	if len(bodies) != 2 || bodies[1].Name != "Spanish" || bodies[1].Language != "es" {
		t.Fatalf("bodies = %#v, want body resent on replay", bodies)
	}
}
