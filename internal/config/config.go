// Package config provides configuration loading for planterm.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config keeps runtime settings for the client.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Data   DataConfig   `koanf:"data"`
	Log    LogConfig    `koanf:"log"`
}

// ServerConfig points the client at the planner backend.
type ServerConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// DataConfig locates durable client-side state.
type DataConfig struct {
	Dir string `koanf:"dir"`
}

// LogConfig controls the file logger. The TUI owns the terminal, so
// logs never go to stdout.
type LogConfig struct {
	File  string `koanf:"file"`
	Level string `koanf:"level"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "planterm", "config.yaml"), nil
}

// Load reads configuration from a YAML file, then overrides with
// PLANTERM_* environment variables.
//
// Precedence (highest to lowest):
//  1. Environment variables (PLANTERM_SERVER_BASE_URL, PLANTERM_LOG_LEVEL, ...)
//  2. YAML config file (~/.config/planterm/config.yaml)
//  3. Built-in defaults
//
// A missing config file is not an error; an unreadable or malformed one is.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	if raw, err := os.ReadFile(configPath); err == nil {
		if err := k.Load(rawbytes.Provider(raw), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := k.Load(env.Provider("PLANTERM_", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// envKey maps PLANTERM_* environment variables to config keys. The
// mapping is explicit because key names themselves contain underscores.
func envKey(s string) string {
	switch s {
	case "PLANTERM_SERVER_BASE_URL":
		return "server.base_url"
	case "PLANTERM_SERVER_TIMEOUT":
		return "server.timeout"
	case "PLANTERM_DATA_DIR":
		return "data.dir"
	case "PLANTERM_LOG_FILE":
		return "log.file"
	case "PLANTERM_LOG_LEVEL":
		return "log.level"
	}
	return ""
}
