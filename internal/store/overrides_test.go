package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverrides_SetGetDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	o, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, o.Set("vfs", "CacheMode", "full"))
	require.NoError(t, o.Set("s3", "ChunkSize", "32Mi"))

	v, ok := o.Get("vfs", "CacheMode")
	require.True(t, ok)
	assert.Equal(t, "full", v)

	require.NoError(t, o.Delete("vfs", "CacheMode"))
	_, ok = o.Get("vfs", "CacheMode")
	assert.False(t, ok)

	// deleting an absent entry is a no-op
	require.NoError(t, o.Delete("vfs", "CacheMode"))
	require.NoError(t, o.Delete("nope", "Nothing"))
}

func TestOverrides_PersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")

	o, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, o.Set("vfs", "CacheMode", "full"))
	require.NoError(t, o.Set("vfs", "CacheMaxSize", "10Gi"))

	reopened, err := Open(path)
	require.NoError(t, err)

	v, ok := reopened.Get("vfs", "CacheMode")
	require.True(t, ok)
	assert.Equal(t, "full", v)
	assert.Len(t, reopened.All()["vfs"], 2)
}

func TestOverrides_OpenMissingFile(t *testing.T) {
	o, err := Open(filepath.Join(t.TempDir(), "sub", "overrides.json"))
	require.NoError(t, err)
	assert.Empty(t, o.All())
}

func TestOverrides_OpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestOverrides_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	o, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, o.Set("vfs", "CacheMode", "full"))
	require.NoError(t, o.Clear())
	assert.Empty(t, o.All())

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, reopened.All())
}

func TestOverrides_AllReturnsCopy(t *testing.T) {
	o, err := Open(filepath.Join(t.TempDir(), "overrides.json"))
	require.NoError(t, err)
	require.NoError(t, o.Set("vfs", "CacheMode", "full"))

	all := o.All()
	all["vfs"]["CacheMode"] = "tampered"

	v, _ := o.Get("vfs", "CacheMode")
	assert.Equal(t, "full", v, "mutating the snapshot does not touch the store")
}

func TestOverrides_EmptyServicePruned(t *testing.T) {
	o, err := Open(filepath.Join(t.TempDir(), "overrides.json"))
	require.NoError(t, err)

	require.NoError(t, o.Set("vfs", "CacheMode", "full"))
	require.NoError(t, o.Delete("vfs", "CacheMode"))

	assert.NotContains(t, o.All(), "vfs", "services with no overrides left disappear")
}
