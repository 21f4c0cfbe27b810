package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flickcards/flick/internal/api"
	"github.com/flickcards/flick/internal/localdata"
	"github.com/flickcards/flick/internal/notify"
)

type authFixture struct {
	manager    *Manager
	data       *localdata.Adapter
	toasts     *[]notify.Toast
	refreshOK  *bool
	loginFails *bool
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	refreshOK := true
	loginFails := false

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/user/register", "/token/pair":
			if loginFails {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail": "bad credentials"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(api.TokenPair{Access: "access-1", Refresh: "refresh-1"})
		case "/token/refresh":
			if !refreshOK {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail": "refresh expired"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"access": "access-2"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL)
	require.NoError(t, err)

	data := localdata.New(t.TempDir())
	notifier := notify.New()
	var toasts []notify.Toast
	notifier.Subscribe(func(toast notify.Toast) { toasts = append(toasts, toast) })

	return authFixture{
		manager:    NewManager(client, data, notifier),
		data:       data,
		toasts:     &toasts,
		refreshOK:  &refreshOK,
		loginFails: &loginFails,
	}
}

func TestLogin_EstablishesSession(t *testing.T) {
	f := newAuthFixture(t)

	var notified []*User
	f.manager.Subscribe(func(u *User) { notified = append(notified, u) })

	ok := f.manager.Login(context.Background(), "alice", "hunter2")
	require.True(t, ok)

	require.NotNil(t, f.manager.User())
	assert.Equal(t, "alice", f.manager.User().Username)
	assert.Equal(t, "access-1", f.manager.AccessToken())
	assert.True(t, f.manager.Authenticated())

	// Identity and refresh token are persisted for the next boot.
	var storedUser User
	require.True(t, f.data.Load("user", &storedUser))
	assert.Equal(t, "alice", storedUser.Username)
	var storedRefresh string
	require.True(t, f.data.Load("refreshToken", &storedRefresh))
	assert.Equal(t, "refresh-1", storedRefresh)

	require.Len(t, notified, 1)
	assert.Equal(t, "alice", notified[0].Username)

	require.NotEmpty(t, *f.toasts)
	assert.Equal(t, notify.LevelSuccess, (*f.toasts)[0].Level)
}

func TestLogin_FailureStaysAnonymous(t *testing.T) {
	f := newAuthFixture(t)
	*f.loginFails = true

	ok := f.manager.Login(context.Background(), "alice", "wrong")
	assert.False(t, ok)
	assert.Nil(t, f.manager.User())
	assert.False(t, f.manager.Authenticated())

	require.NotEmpty(t, *f.toasts)
	last := (*f.toasts)[len(*f.toasts)-1]
	assert.Equal(t, notify.LevelError, last.Level)
	assert.Equal(t, "bad credentials", last.Message)
}

func TestRegister_EstablishesSession(t *testing.T) {
	f := newAuthFixture(t)

	ok := f.manager.Register(context.Background(), "bob", "hunter2")
	require.True(t, ok)
	require.NotNil(t, f.manager.User())
	assert.Equal(t, "bob", f.manager.User().Username)
}

func TestRefresh_SwapsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	require.True(t, f.manager.Login(context.Background(), "alice", "hunter2"))

	require.NoError(t, f.manager.RefreshAccess(context.Background()))
	assert.Equal(t, "access-2", f.manager.AccessToken())
	assert.Equal(t, "alice", f.manager.User().Username)
}

func TestRefresh_FailureClearsSession(t *testing.T) {
	f := newAuthFixture(t)
	require.True(t, f.manager.Login(context.Background(), "alice", "hunter2"))

	var notified []*User
	f.manager.Subscribe(func(u *User) { notified = append(notified, u) })

	*f.refreshOK = false
	err := f.manager.RefreshAccess(context.Background())
	require.Error(t, err)

	assert.Nil(t, f.manager.User())
	assert.Empty(t, f.manager.AccessToken())
	assert.False(t, f.manager.Authenticated())

	// Durable records are gone; the next boot starts anonymous.
	var storedUser User
	assert.False(t, f.data.Load("user", &storedUser))
	var storedRefresh string
	assert.False(t, f.data.Load("refreshToken", &storedRefresh))

	// Subscribers hear about the demotion exactly once.
	require.Len(t, notified, 1)
	assert.Nil(t, notified[0])

	last := (*f.toasts)[len(*f.toasts)-1]
	assert.Equal(t, notify.LevelError, last.Level)
	assert.Equal(t, "Session expired!", last.Message)
}

func TestLogout_ClearsEverything(t *testing.T) {
	f := newAuthFixture(t)
	require.True(t, f.manager.Login(context.Background(), "alice", "hunter2"))

	f.manager.Logout()
	assert.Nil(t, f.manager.User())
	assert.Empty(t, f.manager.AccessToken())
	assert.False(t, f.manager.Authenticated())
}

func TestUnsubscribe_StopsNotifications(t *testing.T) {
	f := newAuthFixture(t)

	var count int
	id := f.manager.Subscribe(func(*User) { count++ })
	require.True(t, f.manager.Login(context.Background(), "alice", "hunter2"))
	assert.Equal(t, 1, count)

	f.manager.Unsubscribe(id)
	f.manager.Logout()
	assert.Equal(t, 1, count)
}

func TestNeedsRefresh(t *testing.T) {
	f := newAuthFixture(t)

	// Anonymous sessions never need refreshing.
	assert.False(t, f.manager.NeedsRefresh(time.Minute))

	require.True(t, f.manager.Login(context.Background(), "alice", "hunter2"))

	// "access-1" is not a JWT, so its expiry is unreadable.
	assert.True(t, f.manager.NeedsRefresh(time.Minute))

	f.manager.setAccessToken(signedToken(t, time.Now().Add(time.Hour)))
	assert.False(t, f.manager.NeedsRefresh(time.Minute))

	f.manager.setAccessToken(signedToken(t, time.Now().Add(10*time.Second)))
	assert.True(t, f.manager.NeedsRefresh(time.Minute))
}

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}
