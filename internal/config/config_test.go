package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api", cfg.Server.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Data.Dir)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  base_url: https://planner.example.com/api
  timeout: 30s
log:
  level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://planner.example.com/api", cfg.Server.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  base_url: https://from-file.example.com
`), 0644))

	t.Setenv("PLANTERM_SERVER_BASE_URL", "https://from-env.example.com")
	t.Setenv("PLANTERM_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://from-env.example.com", cfg.Server.BaseURL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvKeyMapping(t *testing.T) {
	tests := []struct {
		env      string
		expected string
	}{
		{"PLANTERM_SERVER_BASE_URL", "server.base_url"},
		{"PLANTERM_SERVER_TIMEOUT", "server.timeout"},
		{"PLANTERM_DATA_DIR", "data.dir"},
		{"PLANTERM_LOG_FILE", "log.file"},
		{"PLANTERM_LOG_LEVEL", "log.level"},
		{"PLANTERM_UNKNOWN", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, envKey(tt.env), tt.env)
	}
}
