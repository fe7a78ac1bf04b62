package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_DefaultState(t *testing.T) {
	m := NewManager(t.TempDir())
	require.NoError(t, m.Load())

	state := m.Get()
	assert.Equal(t, CurrentVersion, state.Version)
	assert.Empty(t, state.Service)
	assert.Empty(t, state.Query)
}

func TestManager_UpdateAndReload(t *testing.T) {
	dir := t.TempDir()

	m := NewManager(dir)
	require.NoError(t, m.Update("s3", "Performance", "chunk"))

	reloaded := NewManager(dir)
	require.NoError(t, reloaded.Load())

	state := reloaded.Get()
	assert.Equal(t, "s3", state.Service)
	assert.Equal(t, "Performance", state.Category)
	assert.Equal(t, "chunk", state.Query)
	assert.False(t, state.UpdatedAt.IsZero())
}

func TestManager_CorruptFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ui-state.json"), []byte("{broken"), 0o600))

	m := NewManager(dir)
	require.NoError(t, m.Load(), "corrupt state must not fail startup")
	assert.Empty(t, m.Get().Service)
}

func TestManager_VersionMismatchFallsBack(t *testing.T) {
	dir := t.TempDir()
	body := `{"version": 99, "service": "s3"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ui-state.json"), []byte(body), 0o600))

	m := NewManager(dir)
	require.NoError(t, m.Load())
	assert.Empty(t, m.Get().Service, "unknown versions are discarded")
}
