package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planterm/planterm/internal/model"
)

func TestLogin(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody model.LoginRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{
			"access_token": "tok123",
			"token_type": "bearer",
			"expires_in": 3600,
			"user": {"id": 1, "username": "alice"}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.Login(context.Background(), model.LoginRequest{Username: "alice", Password: "hunter2"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/auth/login", gotPath)
	assert.Equal(t, "alice", gotBody.Username)
	assert.Equal(t, "hunter2", gotBody.Password)
	assert.Equal(t, "tok123", resp.AccessToken)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestLoginRequestOmitsEmptyEmail(t *testing.T) {
	raw, err := json.Marshal(model.LoginRequest{Username: "alice", Password: "x"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "email")
}

func TestRegister(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"created","user":{"id":2,"username":"bob"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.Register(context.Background(), model.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "/auth/register", gotPath)
	assert.Equal(t, "bob", resp.User.Username)
}

func TestLogoutEndpoint(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/auth/logout", gotPath)
}
