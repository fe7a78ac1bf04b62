package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.Record(ctx, ActionSave, "vfs", "CacheMode", "off", "full")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.Occurred.IsZero())

	_, err = store.Record(ctx, ActionRemove, "vfs", "CacheMode", "full", "")
	require.NoError(t, err)

	entries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// newest first
	assert.Equal(t, ActionRemove, entries[0].Action)
	assert.Equal(t, ActionSave, entries[1].Action)
	assert.Equal(t, "vfs", entries[1].Service)
	assert.Equal(t, "CacheMode", entries[1].Field)
	assert.Equal(t, "off", entries[1].Previous)
	assert.Equal(t, "full", entries[1].Value)
}

func TestStore_RecentLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Record(ctx, ActionSave, "s3", "ChunkSize", "", "32Mi")
		require.NoError(t, err)
	}

	entries, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// non-positive limits fall back to the default
	entries, err = store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestStore_Empty(t *testing.T) {
	store := openTestStore(t)
	entries, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.Record(context.Background(), ActionReset, "", "", "", "")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionReset, entries[0].Action)
	assert.WithinDuration(t, time.Now().UTC(), entries[0].Occurred, time.Minute)
}
