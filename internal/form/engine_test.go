package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcpilot/rcpilot/internal/catalog"
	"github.com/rcpilot/rcpilot/internal/events"
	"github.com/rcpilot/rcpilot/internal/notify"
)

type fakePersister struct {
	mu      sync.Mutex
	saves   []savedCall
	removes []savedCall
	resets  int
	err     error
	block   chan struct{} // when set, SaveOption waits until closed
}

type savedCall struct {
	service string
	field   string
	value   any
}

func (p *fakePersister) SaveOption(_ context.Context, service, field string, value any) error {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.saves = append(p.saves, savedCall{service, field, value})
	return nil
}

func (p *fakePersister) RemoveOption(_ context.Context, service, field string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.removes = append(p.removes, savedCall{service: service, field: field})
	return nil
}

func (p *fakePersister) ResetOptions(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.resets++
	return nil
}

func (p *fakePersister) saveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saves)
}

func testCatalog() catalog.Grouped {
	return catalog.Grouped{
		"s3": {
			"Performance": {
				{Name: "chunk_size", FieldName: "ChunkSize", Type: catalog.TypeSizeSuffix, ValueStr: "16Mi", DefaultStr: "16Mi"},
				{Name: "upload_cutoff", FieldName: "UploadCutoff", Type: catalog.TypeSizeSuffix, ValueStr: "200Mi", DefaultStr: "200Mi"},
			},
			"General": {
				{Name: "env_auth", FieldName: "EnvAuth", Type: catalog.TypeBool, ValueStr: "false", DefaultStr: "false"},
			},
		},
	}
}

func newTestEngine(t *testing.T, p Persister) (*Engine, *events.Bus) {
	t.Helper()
	bus := events.New(16)
	t.Cleanup(bus.Close)
	engine := NewEngine(p, notify.NewBusNotifier(bus), bus)
	engine.Rebuild(testCatalog())
	return engine, bus
}

func TestEngine_Rebuild(t *testing.T) {
	engine, _ := newTestEngine(t, &fakePersister{})

	key := catalog.Key("s3", "Performance", "chunk_size")
	ctl, ok := engine.Control(key)
	require.True(t, ok)
	assert.Equal(t, "16Mi", ctl.Value().Raw())

	service, ok := engine.ServiceOf(key)
	require.True(t, ok)
	assert.Equal(t, "s3", service)

	field, ok := engine.FieldOf(key)
	require.True(t, ok)
	assert.Equal(t, "ChunkSize", field)

	controls := engine.Controls("s3", "Performance")
	assert.Len(t, controls, 2)
}

func TestEngine_RebuildKeepsDirtyEdits(t *testing.T) {
	engine, _ := newTestEngine(t, &fakePersister{})
	key := catalog.Key("s3", "Performance", "chunk_size")

	ctl, _ := engine.Control(key)
	ctl.Set("32Mi")

	engine.Rebuild(testCatalog())

	reloaded, ok := engine.Control(key)
	require.True(t, ok)
	assert.Equal(t, "32Mi", reloaded.Value().Raw(), "uncommitted edits survive a reload")
	assert.True(t, reloaded.Dirty())

	// pristine controls take the fresh descriptor value
	other, _ := engine.Control(catalog.Key("s3", "Performance", "upload_cutoff"))
	assert.Equal(t, "200Mi", other.Value().Raw())
}

func TestEngine_RebuildDropsStaleKeys(t *testing.T) {
	engine, _ := newTestEngine(t, &fakePersister{})

	smaller := catalog.Grouped{
		"s3": {
			"General": {
				{Name: "env_auth", FieldName: "EnvAuth", Type: catalog.TypeBool, ValueStr: "false"},
			},
		},
	}
	engine.Rebuild(smaller)

	_, ok := engine.Control(catalog.Key("s3", "Performance", "chunk_size"))
	assert.False(t, ok, "removed options leave no stale control behind")
	_, ok = engine.ServiceOf(catalog.Key("s3", "Performance", "chunk_size"))
	assert.False(t, ok)
}

func TestEngine_Save(t *testing.T) {
	persister := &fakePersister{}
	engine, _ := newTestEngine(t, persister)
	key := catalog.Key("s3", "Performance", "chunk_size")

	ctl, _ := engine.Control(key)
	ctl.Set("32Mi")

	require.NoError(t, engine.Save(context.Background(), key))

	require.Len(t, persister.saves, 1)
	assert.Equal(t, savedCall{"s3", "ChunkSize", "32Mi"}, persister.saves[0])
	assert.False(t, ctl.Dirty(), "control turns pristine after a successful save")
	assert.False(t, ctl.Disabled())
	assert.False(t, engine.Pending(key))
}

func TestEngine_SavePristineIsNoop(t *testing.T) {
	persister := &fakePersister{}
	engine, _ := newTestEngine(t, persister)
	key := catalog.Key("s3", "Performance", "chunk_size")

	require.NoError(t, engine.Save(context.Background(), key))
	assert.Empty(t, persister.saves, "pristine controls are not persisted")
	assert.Empty(t, persister.removes)
}

func TestEngine_SaveUnknownKey(t *testing.T) {
	engine, _ := newTestEngine(t, &fakePersister{})
	err := engine.Save(context.Background(), "nope---nope---nope")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestEngine_SaveInvalidValue(t *testing.T) {
	persister := &fakePersister{}
	engine, _ := newTestEngine(t, persister)
	key := catalog.Key("s3", "Performance", "chunk_size")

	ctl, _ := engine.Control(key)
	ctl.Set("16MB")

	err := engine.Save(context.Background(), key)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Empty(t, persister.saves)
	assert.True(t, ctl.Dirty(), "rejected edits stay in place")
}

func TestEngine_SaveDefaultTakesRemovePath(t *testing.T) {
	persister := &fakePersister{}
	engine, bus := newTestEngine(t, persister)
	key := catalog.Key("s3", "Performance", "chunk_size")
	removed := bus.Subscribe(events.TypeOptionRemoved)

	ctl, _ := engine.Control(key)
	ctl.Set("32Mi")
	require.NoError(t, engine.Save(context.Background(), key))

	// back to the default: the override is deleted, not rewritten
	ctl.Set("16Mi")
	require.NoError(t, engine.Save(context.Background(), key))

	require.Len(t, persister.removes, 1)
	assert.Equal(t, "ChunkSize", persister.removes[0].field)
	assert.Len(t, persister.saves, 1, "no redundant save of the default")

	select {
	case ev := <-removed:
		assert.Equal(t, events.TypeOptionRemoved, ev.EventType())
	case <-time.After(time.Second):
		t.Fatal("expected an option removed event")
	}
}

func TestEngine_SaveFailureKeepsEdits(t *testing.T) {
	persister := &fakePersister{err: errors.New("daemon unreachable")}
	engine, bus := newTestEngine(t, persister)
	key := catalog.Key("s3", "Performance", "chunk_size")
	failed := bus.Subscribe(events.TypeOptionSaveFailed)

	ctl, _ := engine.Control(key)
	ctl.Set("32Mi")

	err := engine.Save(context.Background(), key)
	require.Error(t, err)
	assert.True(t, ctl.Dirty(), "failed saves keep the user's edits")
	assert.Equal(t, "32Mi", ctl.Value().Raw())
	assert.False(t, ctl.Disabled(), "control is re-enabled after failure")
	assert.False(t, engine.Pending(key))

	select {
	case ev := <-failed:
		assert.Equal(t, events.TypeOptionSaveFailed, ev.EventType())
	case <-time.After(time.Second):
		t.Fatal("expected a save failed event")
	}
}

func TestEngine_ConcurrentSaveDropped(t *testing.T) {
	persister := &fakePersister{block: make(chan struct{})}
	engine, _ := newTestEngine(t, persister)
	key := catalog.Key("s3", "Performance", "chunk_size")

	ctl, _ := engine.Control(key)
	ctl.Set("32Mi")

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- engine.Save(context.Background(), key)
	}()

	// wait until the first save holds the pending slot
	require.Eventually(t, func() bool {
		return engine.Pending(key)
	}, time.Second, time.Millisecond)
	assert.True(t, ctl.Disabled(), "control is locked while the save is in flight")

	// the duplicate is dropped, not queued
	err := engine.Save(context.Background(), key)
	assert.ErrorIs(t, err, ErrSaveInFlight)

	close(persister.block)
	require.NoError(t, <-firstDone)

	assert.Equal(t, 1, persister.saveCount(), "exactly one persistence call")
	assert.False(t, engine.Pending(key))
}

func TestEngine_SetValue(t *testing.T) {
	engine, _ := newTestEngine(t, &fakePersister{})
	key := catalog.Key("s3", "Performance", "chunk_size")

	require.NoError(t, engine.SetValue(key, "32Mi"))
	ctl, _ := engine.Control(key)
	assert.Equal(t, "32Mi", ctl.Value().Raw())
	assert.True(t, ctl.Dirty())

	err := engine.SetValue("s3---Performance---no_such_option", "1")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestEngine_SetValueRejectedWhileSaveInFlight(t *testing.T) {
	persister := &fakePersister{block: make(chan struct{})}
	engine, _ := newTestEngine(t, persister)
	key := catalog.Key("s3", "Performance", "chunk_size")

	require.NoError(t, engine.SetValue(key, "32Mi"))

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- engine.Save(context.Background(), key)
	}()

	require.Eventually(t, func() bool {
		return engine.Pending(key)
	}, time.Second, time.Millisecond)

	// an edit arriving mid-save is rejected, not clobbered later
	err := engine.SetValue(key, "64Mi")
	assert.ErrorIs(t, err, ErrSaveInFlight)

	close(persister.block)
	require.NoError(t, <-firstDone)

	ctl, _ := engine.Control(key)
	assert.Equal(t, "32Mi", ctl.Value().Raw(), "the committed value stands")
	assert.False(t, ctl.Dirty())
	require.Len(t, persister.saves, 1)
	assert.Equal(t, "32Mi", persister.saves[0].value)
}

func TestEngine_SaveListNormalizes(t *testing.T) {
	grouped := catalog.Grouped{
		"s3": {
			"General": {
				{Name: "upload_headers", FieldName: "UploadHeaders", Type: catalog.TypeStringArray, ValueStr: ""},
			},
		},
	}
	persister := &fakePersister{}
	bus := events.New(16)
	t.Cleanup(bus.Close)
	engine := NewEngine(persister, notify.NewBusNotifier(bus), bus)
	engine.Rebuild(grouped)

	key := catalog.Key("s3", "General", "upload_headers")
	ctl, _ := engine.Control(key)
	ctl.SetList([]string{"X-One: 1", "", "  ", "X-Two: 2"})

	require.NoError(t, engine.Save(context.Background(), key))
	require.Len(t, persister.saves, 1)
	assert.Equal(t, []string{"X-One: 1", "X-Two: 2"}, persister.saves[0].value)
}

func TestEngine_ResetAll(t *testing.T) {
	persister := &fakePersister{}
	engine, bus := newTestEngine(t, persister)
	done := bus.Subscribe(events.TypeResetDone)

	require.NoError(t, engine.ResetAll(context.Background(), notify.AutoConfirmer{}))
	assert.Equal(t, 1, persister.resets)

	select {
	case ev := <-done:
		assert.Equal(t, events.TypeResetDone, ev.EventType())
	case <-time.After(time.Second):
		t.Fatal("expected a reset done event")
	}
}

type decliningConfirmer struct{}

func (decliningConfirmer) Confirm(context.Context, string, string) (bool, error) {
	return false, nil
}

func TestEngine_ResetAllDeclined(t *testing.T) {
	persister := &fakePersister{}
	engine, _ := newTestEngine(t, persister)

	require.NoError(t, engine.ResetAll(context.Background(), decliningConfirmer{}))
	assert.Equal(t, 0, persister.resets, "declined reset touches nothing")
}
