// Package api is the typed client SDK for the planner backend. A single
// Client carries the base URL, timeout, bearer-token injection and the
// global error-to-notification mapping; the per-resource wrappers in
// auth.go, tasks.go and scheduler.go marshal requests through it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// User-facing notification texts, one per failure class.
const (
	MsgSessionExpired     = "Session expired, please log in again"
	MsgForbidden          = "You do not have permission to access this resource"
	MsgNotFound           = "The requested resource was not found"
	MsgServerError        = "Server error, please try again later"
	MsgRequestFailed      = "Request failed"
	MsgNetworkUnreachable = "Network unreachable, please check your connection"
)

// Notifier receives one user-visible message per failing call.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(message string) { f(message) }

// Error is the classified outcome of a failed call. Status is the HTTP
// status code, or 0 when no response was received at all.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Client talks to the planner backend. All coupling to ambient state is
// injected: the token source reads durable storage, the notifier is the
// toast channel, and the unauthorized handler owns session invalidation.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokenSource    func() string
	notifier       Notifier
	onUnauthorized func()
	logger         *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the fixed request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource sets the bearer-token provider consulted on every request.
func WithTokenSource(src func() string) Option {
	return func(c *Client) { c.tokenSource = src }
}

// WithNotifier sets the notification sink for failing calls.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithUnauthorizedHandler sets the callback invoked once per 401 response.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody is the error payload shape the backend returns. Different
// routes use different field names; first non-empty wins.
type errorBody struct {
	Message string `json:"message"`
	Msg     string `json:"msg"`
	Err     string `json:"error"`
}

func (b errorBody) text() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.Msg != "":
		return b.Msg
	case b.Err != "":
		return b.Err
	}
	return MsgRequestFailed
}

// do performs one request and decodes the JSON response body into out
// (when non-nil). Failures are classified, notified once, and returned
// as *Error for the caller to handle.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("method", method), zap.String("url", u), zap.Error(err))
		c.notify(MsgNetworkUnreachable)
		return &Error{Message: MsgNetworkUnreachable}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.fail(method, u, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// fail classifies a non-2xx response, fires the notification side
// effect once, and returns the typed error.
func (c *Client) fail(method, u string, resp *http.Response) error {
	var body errorBody
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &body)

	var message string
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		message = MsgSessionExpired
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	case http.StatusForbidden:
		message = MsgForbidden
	case http.StatusNotFound:
		message = MsgNotFound
	case http.StatusInternalServerError:
		message = MsgServerError
	default:
		message = body.text()
	}

	c.logger.Warn("request rejected",
		zap.String("method", method),
		zap.String("url", u),
		zap.Int("status", resp.StatusCode),
		zap.String("message", message),
	)
	c.notify(message)
	return &Error{Status: resp.StatusCode, Message: message}
}

func (c *Client) notify(message string) {
	if c.notifier != nil {
		c.notifier.Notify(message)
	}
}

// ErrorMessage extracts the classified message from err, or falls back.
func ErrorMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
