package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects notifications in call order.
type recorder struct {
	messages []string
}

func (r *recorder) Notify(message string) {
	r.messages = append(r.messages, message)
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id":1,"username":"alice","email":"a@b.c"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithTokenSource(func() string { return "tok123" }))
	user, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Equal(t, "alice", user.Username)
}

func TestClientOmitsAuthHeaderWhenAnonymous(t *testing.T) {
	var gotAuth string
	var hasHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasHeader = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithTokenSource(func() string { return "" }))
	_, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.False(t, hasHeader, "Authorization header should be absent, got %q", gotAuth)
}

func TestClientUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg":"Token has expired"}`))
	}))
	defer srv.Close()

	rec := &recorder{}
	handlerCalled := 0
	c := NewClient(srv.URL,
		WithNotifier(rec),
		WithUnauthorizedHandler(func() { handlerCalled++ }),
	)

	_, err := c.CurrentUser(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, MsgSessionExpired, apiErr.Message)
	assert.Equal(t, 1, handlerCalled)
	assert.Equal(t, []string{MsgSessionExpired}, rec.messages)
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{
			name:     "forbidden",
			status:   http.StatusForbidden,
			body:     `{"message":"ignored"}`,
			expected: MsgForbidden,
		},
		{
			name:     "not found",
			status:   http.StatusNotFound,
			body:     `{}`,
			expected: MsgNotFound,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"error":"boom"}`,
			expected: MsgServerError,
		},
		{
			name:     "other status uses message field",
			status:   http.StatusUnprocessableEntity,
			body:     `{"message":"Title is required"}`,
			expected: "Title is required",
		},
		{
			name:     "other status uses msg field",
			status:   http.StatusBadRequest,
			body:     `{"msg":"Bad date"}`,
			expected: "Bad date",
		},
		{
			name:     "other status uses error field",
			status:   http.StatusConflict,
			body:     `{"error":"Username already exists"}`,
			expected: "Username already exists",
		},
		{
			name:     "other status with empty body",
			status:   http.StatusBadRequest,
			body:     ``,
			expected: MsgRequestFailed,
		},
		{
			name:     "message field wins over the rest",
			status:   http.StatusBadRequest,
			body:     `{"message":"first","msg":"second","error":"third"}`,
			expected: "first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			rec := &recorder{}
			c := NewClient(srv.URL, WithNotifier(rec))

			_, err := c.CurrentUser(context.Background())
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.expected, apiErr.Message)
			assert.Equal(t, []string{tt.expected}, rec.messages)
		})
	}
}

func TestClientNetworkFailure(t *testing.T) {
	// Closed server: connection refused, no response at all.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	rec := &recorder{}
	c := NewClient(srv.URL, WithNotifier(rec))

	_, err := c.CurrentUser(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, MsgNetworkUnreachable, apiErr.Message)
	assert.Equal(t, []string{MsgNetworkUnreachable}, rec.messages)
}

func TestClientUnauthorizedWithoutHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.CurrentUser(context.Background())
	require.Error(t, err)
}

func TestClientEmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	// Logout decodes nothing; an empty 200 body must not error.
	require.NoError(t, c.Logout(context.Background()))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "nope", ErrorMessage(&Error{Status: 400, Message: "nope"}, "fb"))
	assert.Equal(t, "fb", ErrorMessage(assert.AnError, "fb"))
	assert.Equal(t, "fb", ErrorMessage(nil, "fb"))
}
