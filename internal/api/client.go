package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Error is a server-rejected request carrying the structured detail message
// from the response body.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if strings.TrimSpace(e.Detail) != "" {
		return e.Detail
	}
	return fmt.Sprintf("api returned status %d", e.Status)
}

// Client talks to the flashcard HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent = "flick/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client from the configured base URL, e.g.
// "http://localhost:8000/api".
func NewClient(baseURL string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Register creates a new account and returns the issued token pair.
func (c *Client) Register(ctx context.Context, username, password string) (*TokenPair, error) {
	var pair TokenPair
	err := c.do(ctx, http.MethodPost, c.baseURL.JoinPath("user", "register"), credentials{username, password}, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	var pair TokenPair
	err := c.do(ctx, http.MethodPost, c.baseURL.JoinPath("token", "pair"), credentials{username, password}, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// RefreshToken mints a new access token from the refresh token.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (string, error) {
	body := struct {
		Refresh string `json:"refresh"`
	}{refresh}
	var payload struct {
		Access string `json:"access"`
	}
	if err := c.do(ctx, http.MethodPost, c.baseURL.JoinPath("token", "refresh"), body, &payload); err != nil {
		return "", err
	}
	return payload.Access, nil
}

// ListDecks retrieves all decks owned by the current user.
func (c *Client) ListDecks(ctx context.Context) ([]Deck, error) {
	var payload deckListResponse
	if err := c.do(ctx, http.MethodGet, c.baseURL.JoinPath("decks"), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// GetDeck retrieves a single deck by id.
func (c *Client) GetDeck(ctx context.Context, id int64) (*Deck, error) {
	var deck Deck
	if err := c.do(ctx, http.MethodGet, c.deckURL(id), nil, &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

// CreateDeck creates a deck and returns it with its server-assigned id.
func (c *Client) CreateDeck(ctx context.Context, fields DeckFields) (*Deck, error) {
	var deck Deck
	if err := c.do(ctx, http.MethodPost, c.baseURL.JoinPath("decks"), fields, &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

// UpdateDeck replaces the writable fields of a deck.
func (c *Client) UpdateDeck(ctx context.Context, id int64, fields DeckFields) (*Deck, error) {
	var deck Deck
	if err := c.do(ctx, http.MethodPut, c.deckURL(id), fields, &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

// DeleteDeck removes a deck and everything in it.
func (c *Client) DeleteDeck(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.deckURL(id), nil, nil)
}

// ListCards retrieves every card in a deck, drafts included.
func (c *Client) ListCards(ctx context.Context, deckID int64) ([]Card, error) {
	var payload cardListResponse
	if err := c.do(ctx, http.MethodGet, c.deckURL(deckID, "cards"), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// CreateCard adds a card to a deck and returns it with its server-assigned id.
func (c *Client) CreateCard(ctx context.Context, deckID int64, fields CardFields) (*Card, error) {
	var card Card
	if err := c.do(ctx, http.MethodPost, c.deckURL(deckID, "cards"), fields, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// UpdateCard replaces the writable fields of a card.
func (c *Client) UpdateCard(ctx context.Context, deckID, cardID int64, fields CardFields) (*Card, error) {
	var card Card
	if err := c.do(ctx, http.MethodPut, c.deckURL(deckID, "cards", strconv.FormatInt(cardID, 10)), fields, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// DeleteCard removes a card by id.
func (c *Client) DeleteCard(ctx context.Context, cardID int64) error {
	return c.do(ctx, http.MethodDelete, c.cardURL(cardID), nil, nil)
}

// ListDueCards retrieves the cards currently due for review in a deck.
func (c *Client) ListDueCards(ctx context.Context, deckID int64) ([]Card, error) {
	var payload cardListResponse
	if err := c.do(ctx, http.MethodGet, c.deckURL(deckID, "due-cards"), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// SetCardState reports a review outcome for a card. The server reschedules
// the card; the local queue is not touched.
func (c *Client) SetCardState(ctx context.Context, cardID int64, remembered bool) error {
	body := struct {
		Remembered bool `json:"remembered"`
	}{remembered}
	return c.do(ctx, http.MethodPatch, c.cardURL(cardID, "set-state"), body, nil)
}

// ListLanguages retrieves the static language reference list.
func (c *Client) ListLanguages(ctx context.Context) ([]Language, error) {
	var payload languageListResponse
	if err := c.do(ctx, http.MethodGet, c.baseURL.JoinPath("languages"), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// Translate looks up dictionary matches for word in the target language.
func (c *Client) Translate(ctx context.Context, word, targetLang string) ([]Translation, error) {
	u := c.baseURL.JoinPath("translate", word)
	u.RawQuery = url.Values{"target_lang": {targetLang}}.Encode()
	var matches []Translation
	if err := c.do(ctx, http.MethodGet, u, nil, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

func (c *Client) deckURL(id int64, extra ...string) *url.URL {
	segments := append([]string{"decks", strconv.FormatInt(id, 10)}, extra...)
	return c.baseURL.JoinPath(segments...)
}

func (c *Client) cardURL(id int64, extra ...string) *url.URL {
	segments := append([]string{"cards", strconv.FormatInt(id, 10)}, extra...)
	return c.baseURL.JoinPath(segments...)
}

func (c *Client) do(ctx context.Context, method string, reqURL *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	var payload *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(encoded)
	} else {
		payload = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into an *Error, preferring the
// structured {"detail": ...} body when the server sent one.
func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Detail = body.Detail
	}
	return apiErr
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("api base url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", raw, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
