package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/", NameHome},
		{"/login", NameLogin},
		{"/register", NameRegister},
		{"/tasks", NameTasks},
		{"/calendar", NameCalendar},
		{"/ai-schedule", NameAISchedule},
		{"/nope", NameNotFound},
		{"/tasks/extra", NameNotFound},
		{"/login?redirect=%2Ftasks", NameLogin},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, Match(tt.path).Name)
		})
	}
}

func TestResolveAnonymous(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		expectedPath   string
		expectedRoute  string
		wantRedirected bool
	}{
		{
			name:           "protected route bounces to login with redirect",
			target:         "/tasks",
			expectedPath:   "/login?redirect=%2Ftasks",
			expectedRoute:  NameLogin,
			wantRedirected: true,
		},
		{
			name:           "home is protected too",
			target:         "/",
			expectedPath:   "/login?redirect=%2F",
			expectedRoute:  NameLogin,
			wantRedirected: true,
		},
		{
			name:          "login allowed",
			target:        "/login",
			expectedPath:  "/login",
			expectedRoute: NameLogin,
		},
		{
			name:          "register allowed",
			target:        "/register",
			expectedPath:  "/register",
			expectedRoute: NameRegister,
		},
		{
			name:          "unknown path allowed",
			target:        "/nope",
			expectedPath:  "/nope",
			expectedRoute: NameNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.target, false)
			assert.Equal(t, tt.expectedPath, res.Path)
			assert.Equal(t, tt.expectedRoute, res.Route.Name)
			assert.Equal(t, tt.wantRedirected, res.Redirected)
		})
	}
}

func TestResolveAuthenticated(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		expectedPath   string
		expectedRoute  string
		wantRedirected bool
	}{
		{
			name:          "protected route allowed",
			target:        "/calendar",
			expectedPath:  "/calendar",
			expectedRoute: NameCalendar,
		},
		{
			name:           "login bounces home",
			target:         "/login",
			expectedPath:   "/",
			expectedRoute:  NameHome,
			wantRedirected: true,
		},
		{
			name:           "register bounces home",
			target:         "/register",
			expectedPath:   "/",
			expectedRoute:  NameHome,
			wantRedirected: true,
		},
		{
			name:          "unknown path allowed",
			target:        "/nope",
			expectedPath:  "/nope",
			expectedRoute: NameNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.target, true)
			assert.Equal(t, tt.expectedPath, res.Path)
			assert.Equal(t, tt.expectedRoute, res.Route.Name)
			assert.Equal(t, tt.wantRedirected, res.Redirected)
		})
	}
}

// A redirected login path round-trips back to the original target.
func TestRedirectTargetRoundTrip(t *testing.T) {
	for _, target := range []string{"/", "/tasks", "/calendar", "/ai-schedule"} {
		res := Resolve(target, false)
		assert.True(t, res.Redirected)
		assert.Equal(t, target, RedirectTarget(res.Path))
	}
}

func TestRedirectTargetAbsent(t *testing.T) {
	assert.Empty(t, RedirectTarget("/login"))
	assert.Empty(t, RedirectTarget("/login?other=x"))
}
