// Package views implements the screens behind each route.
package views

import (
	"go.uber.org/zap"

	"github.com/planterm/planterm/internal/api"
	"github.com/planterm/planterm/internal/store"
)

// Context carries the app-level dependencies every view needs.
type Context struct {
	Session *store.SessionStore
	Tasks   *store.TaskStore
	Client  *api.Client
	Logger  *zap.Logger
}

// Navigate signals the app to resolve and switch to another route.
type Navigate struct {
	Path string
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
