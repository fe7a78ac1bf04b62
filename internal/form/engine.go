package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rcpilot/rcpilot/internal/catalog"
	"github.com/rcpilot/rcpilot/internal/events"
	"github.com/rcpilot/rcpilot/internal/notify"
)

// Persister writes committed option values back to the sync engine.
type Persister interface {
	// SaveOption persists one override. Value is bool, []string or string.
	SaveOption(ctx context.Context, service, field string, value any) error
	// RemoveOption deletes one override so the engine falls back to its
	// built-in default.
	RemoveOption(ctx context.Context, service, field string) error
	// ResetOptions deletes every override and reloads the engine config.
	ResetOptions(ctx context.Context) error
}

var (
	// ErrUnknownKey is returned for keys with no bound control.
	ErrUnknownKey = errors.New("no control bound to key")
	// ErrInvalid is returned when a save is blocked by a validation issue.
	ErrInvalid = errors.New("value fails validation")
	// ErrSaveInFlight is returned when a save for the key is already
	// pending; the request is dropped, not queued.
	ErrSaveInFlight = errors.New("save already in flight")
)

// Engine owns the controls synthesized from a catalog plus the derived
// lookup indexes and the pending-set guarding concurrent saves.
type Engine struct {
	mu        sync.Mutex
	catalog   catalog.Grouped
	controls  map[string]*Control
	serviceOf map[string]string // composite key -> owning service
	fieldOf   map[string]string // composite key -> backend save key
	pending   map[string]struct{}

	persister Persister
	notifier  notify.Notifier
	bus       *events.Bus
	logger    *slog.Logger
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a form engine. Controls appear once a catalog is loaded
// via Rebuild.
func NewEngine(persister Persister, notifier notify.Notifier, bus *events.Bus, opts ...EngineOption) *Engine {
	e := &Engine{
		controls:  make(map[string]*Control),
		serviceOf: make(map[string]string),
		fieldOf:   make(map[string]string),
		pending:   make(map[string]struct{}),
		persister: persister,
		notifier:  notifier,
		bus:       bus,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rebuild synthesizes controls for a freshly loaded catalog. Controls whose
// key survives the reload and that carry uncommitted edits keep those edits;
// everything else takes the new descriptor value. The derived indexes are
// rebuilt from scratch and swapped in whole, never patched, so renamed or
// removed options cannot leave stale entries behind.
func (e *Engine) Rebuild(grouped catalog.Grouped) {
	e.mu.Lock()
	defer e.mu.Unlock()

	controls := make(map[string]*Control, grouped.Len())
	serviceOf := make(map[string]string, grouped.Len())
	fieldOf := make(map[string]string, grouped.Len())

	for service, categories := range grouped {
		for category, descriptors := range categories {
			for _, d := range descriptors {
				key := catalog.Key(service, category, d.Name)
				ctl := newControl(key, d)
				if prev, ok := e.controls[key]; ok && prev.Dirty() {
					ctl.value = prev.value
				}
				controls[key] = ctl
				serviceOf[key] = service
				fieldOf[key] = d.SaveKey()
			}
		}
	}

	e.catalog = grouped
	e.controls = controls
	e.serviceOf = serviceOf
	e.fieldOf = fieldOf

	e.bus.Publish(events.NewCatalogLoaded(len(grouped), grouped.Len()))
}

// Catalog returns the catalog the controls were synthesized from.
func (e *Engine) Catalog() catalog.Grouped {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog
}

// Control returns the control bound to a composite key.
func (e *Engine) Control(key string) (*Control, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctl, ok := e.controls[key]
	return ctl, ok
}

// Controls returns the controls of one service and category in catalog
// order.
func (e *Engine) Controls(service, category string) []*Control {
	e.mu.Lock()
	defer e.mu.Unlock()

	descriptors := e.catalog[service][category]
	out := make([]*Control, 0, len(descriptors))
	for _, d := range descriptors {
		if ctl, ok := e.controls[catalog.Key(service, category, d.Name)]; ok {
			out = append(out, ctl)
		}
	}
	return out
}

// ServiceOf returns the owning service for a composite key.
func (e *Engine) ServiceOf(key string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.serviceOf[key]
	return s, ok
}

// FieldOf returns the backend save key for a composite key.
func (e *Engine) FieldOf(key string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f, ok := e.fieldOf[key]
	return f, ok
}

// SetValue replaces a control's value from raw text under the engine lock.
// Callers that mutate controls from their own goroutines (the HTTP surface,
// CLI commands) must use this instead of Control.Set so edits cannot race a
// concurrent Save. An edit for a key with a save in flight is rejected with
// ErrSaveInFlight rather than silently clobbered when the save completes.
func (e *Engine) SetValue(key, raw string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctl, ok := e.controls[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if _, inFlight := e.pending[key]; inFlight {
		return ErrSaveInFlight
	}
	ctl.Set(raw)
	return nil
}

// Save commits the control's value through the persistence collaborator.
//
// The save is guarded three ways: the value must pass validation, no save
// for the same key may be in flight, and the control must actually be dirty.
// A pristine control is a no-op and an in-flight duplicate is dropped.
//
// A normalized value equal to the descriptor's default takes the remove
// path, deleting the stored override instead of writing it redundantly.
// On failure the user's edits stay in place; on either outcome the key
// leaves the pending-set and the control is re-enabled, turning pristine
// only after success.
func (e *Engine) Save(ctx context.Context, key string) error {
	e.mu.Lock()
	ctl, ok := e.controls[key]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if _, inFlight := e.pending[key]; inFlight {
		e.mu.Unlock()
		return ErrSaveInFlight
	}
	if !ctl.Dirty() {
		e.mu.Unlock()
		return nil
	}
	if issue := ctl.Issue(); issue != nil {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalid, issue.Message)
	}

	service := e.serviceOf[key]
	field := e.fieldOf[key]
	snapshot := ctl.value
	value := snapshot.normalized()
	previous := ctl.initial.Raw()
	removing := ctl.Descriptor.IsDefault(value.Raw())

	e.pending[key] = struct{}{}
	ctl.disabled = true
	e.mu.Unlock()

	var err error
	if removing {
		err = e.persister.RemoveOption(ctx, service, field)
	} else {
		err = e.persister.SaveOption(ctx, service, field, value.Payload())
	}

	e.mu.Lock()
	delete(e.pending, key)
	ctl.disabled = false
	// Write back only if the control still holds the snapshot we saved;
	// an edit that slipped in mid-flight must not be clobbered.
	if err == nil && ctl.value.equal(snapshot) {
		ctl.value = value
		ctl.markPristine()
	}
	e.mu.Unlock()

	if err != nil {
		e.logger.Error("option save failed", "key", key, "error", err)
		e.notifier.Error(fmt.Sprintf("Could not save %s: %v", ctl.Descriptor.Name, err))
		e.bus.Publish(events.NewOptionSaveFailed(key, err.Error()))
		return err
	}

	if removing {
		e.logger.Debug("option reset to default", "key", key)
		e.bus.Publish(events.NewOptionRemoved(service, field, key, previous))
	} else {
		e.logger.Debug("option saved", "key", key)
		e.bus.Publish(events.NewOptionSaved(service, field, key, value.Raw(), previous))
	}
	e.notifier.Success(fmt.Sprintf("Saved %s", ctl.Descriptor.Name))
	return nil
}

// Pending reports whether a save for the key is in flight.
func (e *Engine) Pending(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.pending[key]
	return ok
}

// ResetAll deletes every stored override after the user confirms. The
// caller reloads the catalog and calls Rebuild afterwards.
func (e *Engine) ResetAll(ctx context.Context, confirmer notify.Confirmer) error {
	ok, err := confirmer.Confirm(ctx, "Reset configuration",
		"Delete all stored overrides and restore engine defaults?")
	if err != nil {
		return fmt.Errorf("confirming reset: %w", err)
	}
	if !ok {
		return nil
	}

	if err := e.persister.ResetOptions(ctx); err != nil {
		e.logger.Error("reset failed", "error", err)
		e.notifier.Error(fmt.Sprintf("Could not reset configuration: %v", err))
		return err
	}

	e.bus.Publish(events.NewResetDone())
	e.notifier.Success("Configuration reset to defaults")
	return nil
}
