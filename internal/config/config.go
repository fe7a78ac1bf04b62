// Package config loads rcpilot's own application configuration: where the
// sync-engine daemon listens, where local state lives, and how the UI
// behaves. The options edited inside the settings panel are not configured
// here; those come from the daemon's catalog at runtime.
package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Remote RemoteConfig `mapstructure:"remote"`
	State  StateConfig  `mapstructure:"state"`
	Search SearchConfig `mapstructure:"search"`
	API    APIConfig    `mapstructure:"api"`
}

// LogConfig controls logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // auto, text, json
}

// RemoteConfig locates the rc daemon.
type RemoteConfig struct {
	URL      string        `mapstructure:"url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// StateConfig locates local state files.
type StateConfig struct {
	Dir string `mapstructure:"dir"`
}

// SearchConfig tunes the settings-panel search.
type SearchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"`
	WindowSize int `mapstructure:"window_size"`
}

// APIConfig controls the optional HTTP remote-control surface.
type APIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// Debounce returns the search debounce as a duration.
func (c SearchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}
