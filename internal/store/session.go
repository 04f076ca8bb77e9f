// Package store holds the client-side state stores: the session (user +
// token, mirrored to durable storage) and the task collections mirrored
// from the server.
package store

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/planterm/planterm/internal/api"
	"github.com/planterm/planterm/internal/model"
	"github.com/planterm/planterm/internal/storage"
)

// Fallback messages when the API error carries no usable text.
const (
	msgLoginFailed    = "Login failed, please try again"
	msgRegisterFailed = "Registration failed, please try again"
)

// Result is the outcome of a login or register attempt. These never
// return an error; failure carries a best-effort message instead.
type Result struct {
	OK      bool
	Message string
}

// SessionStore holds the current user and token and keeps both durable
// storage slots in sync with every change.
type SessionStore struct {
	mu      sync.Mutex
	client  *api.Client
	storage *storage.Store
	logger  *zap.Logger

	user    *model.User
	token   string
	loading bool
}

// NewSessionStore creates a session store over the API client and
// durable storage.
func NewSessionStore(client *api.Client, st *storage.Store, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{client: client, storage: st, logger: logger}
}

// LoggedIn reports whether a session token is held.
func (s *SessionStore) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// User returns the current user, nil when anonymous.
func (s *SessionStore) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Loading reports whether a login or register call is in flight.
func (s *SessionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Login authenticates with a username or email. On success the session
// is stored in memory and mirrored to both storage slots synchronously.
func (s *SessionStore) Login(ctx context.Context, identifier, password string) Result {
	s.setLoading(true)
	defer s.setLoading(false)

	req := model.LoginRequest{Password: password}
	if strings.Contains(identifier, "@") {
		req.Email = identifier
	} else {
		req.Username = identifier
	}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		s.logger.Warn("login failed", zap.Error(err))
		return Result{Message: api.ErrorMessage(err, msgLoginFailed)}
	}

	s.setAuth(&resp.User, resp.AccessToken)
	return Result{OK: true}
}

// Register creates an account. Success has no auth side effect; the
// caller must still log in.
func (s *SessionStore) Register(ctx context.Context, username, email, password string) Result {
	s.setLoading(true)
	defer s.setLoading(false)

	_, err := s.client.Register(ctx, model.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		s.logger.Warn("registration failed", zap.Error(err))
		return Result{Message: api.ErrorMessage(err, msgRegisterFailed)}
	}
	return Result{OK: true}
}

// Logout notifies the server best-effort, then clears the session
// locally regardless of the server's answer.
func (s *SessionStore) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		s.logger.Debug("server logout failed, clearing locally", zap.Error(err))
	}
	s.ClearAuth()
}

// CheckAuth rehydrates the session from durable storage at startup. A
// stored user that fails to parse invalidates the whole session.
func (s *SessionStore) CheckAuth() {
	user, token, err := s.storage.LoadSession()
	if err != nil {
		s.logger.Debug("stored session invalid, clearing", zap.Error(err))
		s.ClearAuth()
		return
	}
	if token == "" || user == nil {
		s.ClearAuth()
		return
	}
	s.setAuth(user, token)
}

// ClearAuth clears the in-memory session and removes both storage slots.
func (s *SessionStore) ClearAuth() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if err := s.storage.ClearSession(); err != nil {
		s.logger.Warn("failed to clear stored session", zap.Error(err))
	}
}

// setAuth stores the session in memory and mirrors it to storage.
func (s *SessionStore) setAuth(user *model.User, token string) {
	s.mu.Lock()
	s.user = user
	s.token = token
	s.mu.Unlock()

	if err := s.storage.SaveSession(user, token); err != nil {
		s.logger.Warn("failed to persist session", zap.Error(err))
	}
}

func (s *SessionStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
