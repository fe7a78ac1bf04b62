package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Defaults(t *testing.T) {
	cfg, err := loadFromDir(t, "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "auto", cfg.Log.Format)
	assert.Equal(t, "http://localhost:5572", cfg.Remote.URL)
	assert.Equal(t, 30*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, ".rcpilot", cfg.State.Dir)
	assert.Equal(t, 250, cfg.Search.DebounceMS)
	assert.Equal(t, 250*time.Millisecond, cfg.Search.Debounce())
	assert.Equal(t, 20, cfg.Search.WindowSize)
	assert.False(t, cfg.API.Enabled)
}

// loadFromDir loads config with an optional config file body in a temp dir.
func loadFromDir(t *testing.T, body string) (*Config, error) {
	t.Helper()
	dir := t.TempDir()
	if body != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
		return NewLoader().WithConfigFile(filepath.Join(dir, "config.yaml")).Load()
	}
	// point at an empty dir so no stray config.yaml is picked up
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	return NewLoader().Load()
}

func TestLoader_ConfigFile(t *testing.T) {
	cfg, err := loadFromDir(t, `
log:
  level: debug
remote:
  url: http://nas.local:5572
  username: admin
  password: hunter2
search:
  debounce_ms: 100
`)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "http://nas.local:5572", cfg.Remote.URL)
	assert.Equal(t, "admin", cfg.Remote.Username)
	assert.Equal(t, 100, cfg.Search.DebounceMS)
	// unset keys keep their defaults
	assert.Equal(t, "auto", cfg.Log.Format)
	assert.Equal(t, 20, cfg.Search.WindowSize)
}

func TestLoader_InvalidConfigRejected(t *testing.T) {
	_, err := loadFromDir(t, `
log:
  level: verbose
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestLoader_EnvOverride(t *testing.T) {
	t.Setenv("RCPILOT_LOG_LEVEL", "error")
	t.Setenv("RCPILOT_REMOTE_URL", "http://envhost:5572")

	cfg, err := loadFromDir(t, "")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "http://envhost:5572", cfg.Remote.URL)
}

func TestWriteStarter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteStarter(path))

	// the starter file round-trips through the loader unchanged
	cfg, err := NewLoader().WithConfigFile(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "http://localhost:5572", cfg.Remote.URL)

	// refuses to overwrite
	err = WriteStarter(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
