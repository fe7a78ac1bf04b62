package rc

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcpilot/rcpilot/internal/catalog"
	"github.com/rcpilot/rcpilot/internal/store"
)

func newTestPersister(t *testing.T, daemon *fakeDaemon) (*Persister, *store.Overrides) {
	t.Helper()
	overrides, err := store.Open(filepath.Join(t.TempDir(), "overrides.json"))
	require.NoError(t, err)

	p := NewPersister(newTestClient(t, daemon), overrides)
	p.SetDefaults(catalog.Grouped{
		"vfs": {
			"Cache": {
				{Name: "cache_mode", FieldName: "CacheMode", Default: "off"},
				{Name: "cache_max_size", FieldName: "CacheMaxSize", Default: float64(-1)},
			},
		},
	})
	return p, overrides
}

func TestPersister_SaveOption(t *testing.T) {
	daemon := newFakeDaemon()
	p, overrides := newTestPersister(t, daemon)

	require.NoError(t, p.SaveOption(context.Background(), "vfs", "CacheMode", "full"))

	// pushed to the daemon
	calls := daemon.calls("options/set")
	require.Len(t, calls, 1)
	var params map[string]map[string]any
	require.NoError(t, json.Unmarshal(calls[0], &params))
	assert.Equal(t, "full", params["vfs"]["CacheMode"])

	// and stored locally
	v, ok := overrides.Get("vfs", "CacheMode")
	require.True(t, ok)
	assert.Equal(t, "full", v)
}

func TestPersister_SaveOption_DaemonFailureSkipsStore(t *testing.T) {
	daemon := newFakeDaemon()
	daemon.status["options/set"] = http.StatusInternalServerError
	p, overrides := newTestPersister(t, daemon)

	err := p.SaveOption(context.Background(), "vfs", "CacheMode", "full")
	require.Error(t, err)

	_, ok := overrides.Get("vfs", "CacheMode")
	assert.False(t, ok, "a failed push stores nothing")
}

func TestPersister_RemoveOption(t *testing.T) {
	daemon := newFakeDaemon()
	p, overrides := newTestPersister(t, daemon)

	require.NoError(t, p.SaveOption(context.Background(), "vfs", "CacheMode", "full"))
	require.NoError(t, p.RemoveOption(context.Background(), "vfs", "CacheMode"))

	// the second push restores the catalog default
	calls := daemon.calls("options/set")
	require.Len(t, calls, 2)
	var params map[string]map[string]any
	require.NoError(t, json.Unmarshal(calls[1], &params))
	assert.Equal(t, "off", params["vfs"]["CacheMode"])

	_, ok := overrides.Get("vfs", "CacheMode")
	assert.False(t, ok)
}

func TestPersister_RemoveOption_UnknownField(t *testing.T) {
	daemon := newFakeDaemon()
	p, _ := newTestPersister(t, daemon)

	err := p.RemoveOption(context.Background(), "vfs", "NoSuchField")
	require.Error(t, err)
	assert.Empty(t, daemon.calls("options/set"), "nothing is pushed without a known default")
}

func TestPersister_ResetOptions(t *testing.T) {
	daemon := newFakeDaemon()
	p, overrides := newTestPersister(t, daemon)

	require.NoError(t, p.SaveOption(context.Background(), "vfs", "CacheMode", "full"))
	require.NoError(t, p.SaveOption(context.Background(), "vfs", "CacheMaxSize", "10Gi"))

	require.NoError(t, p.ResetOptions(context.Background()))

	assert.Empty(t, overrides.All())

	// the reset push restores both defaults in one call
	calls := daemon.calls("options/set")
	require.Len(t, calls, 3)
	var params map[string]map[string]any
	require.NoError(t, json.Unmarshal(calls[2], &params))
	assert.Equal(t, "off", params["vfs"]["CacheMode"])
	assert.Equal(t, float64(-1), params["vfs"]["CacheMaxSize"])
}

func TestPersister_ResetOptions_PushFailureKeepsStore(t *testing.T) {
	daemon := newFakeDaemon()
	p, overrides := newTestPersister(t, daemon)
	require.NoError(t, p.SaveOption(context.Background(), "vfs", "CacheMode", "full"))

	daemon.status["options/set"] = http.StatusInternalServerError
	err := p.ResetOptions(context.Background())
	require.Error(t, err)

	_, ok := overrides.Get("vfs", "CacheMode")
	assert.True(t, ok, "overrides stay intact for a retry")
}

func TestPersister_Replay(t *testing.T) {
	daemon := newFakeDaemon()
	p, _ := newTestPersister(t, daemon)
	require.NoError(t, p.SaveOption(context.Background(), "vfs", "CacheMode", "full"))

	require.NoError(t, p.Replay(context.Background()))

	calls := daemon.calls("options/set")
	require.Len(t, calls, 2)
	var params map[string]map[string]any
	require.NoError(t, json.Unmarshal(calls[1], &params))
	assert.Equal(t, "full", params["vfs"]["CacheMode"])
}
