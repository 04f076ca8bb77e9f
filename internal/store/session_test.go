package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planterm/planterm/internal/api"
	"github.com/planterm/planterm/internal/storage"
)

const loginOK = `{
	"access_token": "tok123",
	"token_type": "bearer",
	"expires_in": 3600,
	"user": {"id": 1, "username": "alice", "email": "alice@example.com"}
}`

func newSessionFixture(t *testing.T, handler http.HandlerFunc) (*SessionStore, *storage.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	st, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	client := api.NewClient(srv.URL, api.WithTokenSource(st.Token))
	return NewSessionStore(client, st, nil), st
}

func TestLoginPersistsSession(t *testing.T) {
	session, st := newSessionFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(loginOK))
	})

	res := session.Login(context.Background(), "alice", "hunter2")
	require.True(t, res.OK, res.Message)
	assert.True(t, session.LoggedIn())
	require.NotNil(t, session.User())
	assert.Equal(t, "alice", session.User().Username)

	// Both slots are mirrored synchronously.
	user, token, err := st.LoadSession()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "tok123", token)
}

func TestLoginIdentifierDetection(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		wantField  string
	}{
		{name: "email goes to email field", identifier: "alice@example.com", wantField: "email"},
		{name: "plain name goes to username field", identifier: "alice", wantField: "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]string
			session, _ := newSessionFixture(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewDecoder(r.Body).Decode(&body)
				w.Write([]byte(loginOK))
			})

			res := session.Login(context.Background(), tt.identifier, "hunter2")
			require.True(t, res.OK)
			assert.Equal(t, tt.identifier, body[tt.wantField])

			other := "email"
			if tt.wantField == "email" {
				other = "username"
			}
			assert.Empty(t, body[other])
		})
	}
}

func TestLoginFailure(t *testing.T) {
	session, st := newSessionFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	res := session.Login(context.Background(), "alice", "wrong")
	assert.False(t, res.OK)
	assert.Equal(t, api.MsgSessionExpired, res.Message)
	assert.False(t, session.LoggedIn())

	_, token, err := st.LoadSession()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestRegisterHasNoAuthSideEffect(t *testing.T) {
	session, _ := newSessionFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"created","user":{"id":2,"username":"bob"}}`))
	})

	res := session.Register(context.Background(), "bob", "bob@example.com", "hunter2")
	assert.True(t, res.OK)
	assert.False(t, session.LoggedIn())
	assert.Nil(t, session.User())
}

func TestCheckAuthRestoresSavedSession(t *testing.T) {
	session, st := newSessionFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(loginOK))
	})

	res := session.Login(context.Background(), "alice", "hunter2")
	require.True(t, res.OK)

	// A fresh store over the same storage picks the session back up.
	restored := NewSessionStore(nil, st, nil)
	restored.CheckAuth()
	assert.True(t, restored.LoggedIn())
	require.NotNil(t, restored.User())
	assert.Equal(t, "alice", restored.User().Username)
}

func TestCheckAuthCorruptedUserClearsSession(t *testing.T) {
	session, st := newSessionFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	require.NoError(t, st.Set(storage.KeyToken, "tok123"))
	require.NoError(t, st.Set(storage.KeyUser, "{not json"))

	session.CheckAuth()
	assert.False(t, session.LoggedIn())

	// The corrupted slots are gone too.
	token, err := st.Get(storage.KeyToken)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestCheckAuthMissingSlotsStaysAnonymous(t *testing.T) {
	session, st := newSessionFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	// Token without user is not a session.
	require.NoError(t, st.Set(storage.KeyToken, "tok123"))
	session.CheckAuth()
	assert.False(t, session.LoggedIn())
}

func TestLogoutClearsLocallyEvenWhenServerFails(t *testing.T) {
	calls := 0
	session, st := newSessionFixture(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path == "/auth/logout" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(loginOK))
	})

	res := session.Login(context.Background(), "alice", "hunter2")
	require.True(t, res.OK)

	session.Logout(context.Background())
	assert.False(t, session.LoggedIn())
	assert.Nil(t, session.User())
	assert.GreaterOrEqual(t, calls, 2)

	_, token, err := st.LoadSession()
	require.NoError(t, err)
	assert.Empty(t, token)
}
