// Package auth owns the current user identity and the refresh/access token
// pair, and hands out the authenticated API client the entity stores use.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/flickcards/flick/internal/api"
	"github.com/flickcards/flick/internal/localdata"
	"github.com/flickcards/flick/internal/notify"
	"github.com/flickcards/flick/internal/watch"
)

// User identifies the signed-in account.
type User struct {
	Username string `json:"username"`
}

const (
	userKey         = "user"
	refreshTokenKey = "refreshToken"
)

// Manager is the auth session: at most one User at a time, and no usable
// access token without one. Identity changes are persisted and fanned out
// to subscribers.
type Manager struct {
	mu           sync.Mutex
	user         *User
	refreshToken string
	accessToken  string

	subs     watch.List[*User]
	data     *localdata.Adapter
	client   *api.Client
	authed   *api.Client
	notifier *notify.Notifier
}

// NewManager builds a Manager around the anonymous API client. A previously
// persisted user and refresh token are restored so the app can attempt a
// silent session refresh at boot.
func NewManager(client *api.Client, data *localdata.Adapter, notifier *notify.Notifier) *Manager {
	m := &Manager{
		data:     data,
		client:   client,
		notifier: notifier,
	}
	m.authed = client.Authenticated(m)

	var stored User
	if data.Load(userKey, &stored) {
		m.user = &stored
	}
	var token string
	if data.Load(refreshTokenKey, &token) {
		m.refreshToken = token
	}
	return m
}

// Client returns the authenticated API client. Requests made through it
// carry the current access token and survive one mid-flight token expiry.
func (m *Manager) Client() *api.Client {
	return m.authed
}

// User returns the signed-in user, or nil when anonymous.
func (m *Manager) User() *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Authenticated reports whether a session exists.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil && m.refreshToken != ""
}

// Register creates an account and signs it in. Failures surface as an error
// toast; the session stays anonymous.
func (m *Manager) Register(ctx context.Context, username, password string) bool {
	pair, err := m.client.Register(ctx, username, password)
	if err != nil {
		m.notifier.Error(err.Error())
		return false
	}
	m.establish(username, pair)
	m.notifier.Success("Successful registration!")
	return true
}

// Login signs in with existing credentials. Same contract as Register.
func (m *Manager) Login(ctx context.Context, username, password string) bool {
	pair, err := m.client.Login(ctx, username, password)
	if err != nil {
		m.notifier.Error(err.Error())
		return false
	}
	m.establish(username, pair)
	m.notifier.Success("Successful login!")
	return true
}

// Logout drops the tokens and the user. It cannot fail.
func (m *Manager) Logout() {
	m.setRefreshToken("")
	m.setAccessToken("")
	m.setUser(nil)
	m.notifier.Success("Logged out")
}

// RefreshAccess swaps the access token using the stored refresh token. Any
// failure demotes the session to anonymous; this is the only path that does
// so silently.
func (m *Manager) RefreshAccess(ctx context.Context) error {
	m.mu.Lock()
	refresh := m.refreshToken
	m.mu.Unlock()

	access, err := m.client.RefreshToken(ctx, refresh)
	if err != nil {
		m.setRefreshToken("")
		m.setAccessToken("")
		m.setUser(nil)
		m.notifier.Error("Session expired!")
		return err
	}
	m.setAccessToken(access)
	return nil
}

// AccessToken returns the current access token, empty when anonymous.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessToken
}

// NeedsRefresh reports whether the session holds a refresh token but its
// access token is absent, unreadable, or expiring within d. The expiry is
// read from the token's exp claim without verifying the signature; only the
// server can verify, the client just schedules ahead of the deadline.
func (m *Manager) NeedsRefresh(d time.Duration) bool {
	m.mu.Lock()
	refresh, access := m.refreshToken, m.accessToken
	m.mu.Unlock()

	if refresh == "" {
		return false
	}
	if access == "" {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return time.Until(exp.Time) < d
}

// Subscribe registers fn for identity changes. It is invoked synchronously
// with the new user, or nil on logout and refresh failure.
func (m *Manager) Subscribe(fn func(*User)) int {
	return m.subs.Subscribe(fn)
}

// Unsubscribe removes an identity subscription.
func (m *Manager) Unsubscribe(id int) {
	m.subs.Unsubscribe(id)
}

func (m *Manager) establish(username string, pair *api.TokenPair) {
	m.setRefreshToken(pair.Refresh)
	m.setAccessToken(pair.Access)
	m.setUser(&User{Username: username})
}

func (m *Manager) setUser(user *User) {
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	if user == nil {
		m.data.Delete(userKey)
	} else {
		_ = m.data.Store(userKey, user)
	}
	m.subs.Notify(user)
}

func (m *Manager) setRefreshToken(token string) {
	m.mu.Lock()
	m.refreshToken = token
	m.mu.Unlock()

	if token == "" {
		m.data.Delete(refreshTokenKey)
	} else {
		_ = m.data.Store(refreshTokenKey, token)
	}
}

func (m *Manager) setAccessToken(token string) {
	m.mu.Lock()
	m.accessToken = token
	m.mu.Unlock()
}
