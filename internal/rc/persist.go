package rc

import (
	"context"
	"fmt"
	"sync"

	"github.com/rcpilot/rcpilot/internal/catalog"
	"github.com/rcpilot/rcpilot/internal/store"
)

// Persister implements the persistence side of the settings engine: every
// committed value is written to the local override store and pushed into
// the running daemon in the same call. Removing an override additionally
// restores the engine's built-in default, read from the last loaded
// catalog, so the daemon never keeps serving a deleted value.
type Persister struct {
	client *Client
	store  *store.Overrides

	mu       sync.RWMutex
	defaults map[string]map[string]any // service -> field -> default value
}

// NewPersister creates a persister over a daemon client and override store.
func NewPersister(client *Client, overrides *store.Overrides) *Persister {
	return &Persister{
		client:   client,
		store:    overrides,
		defaults: make(map[string]map[string]any),
	}
}

// SetDefaults rebuilds the default-value index from a loaded catalog. Like
// the engine's lookup maps it is replaced whole on every reload, never
// patched.
func (p *Persister) SetDefaults(grouped catalog.Grouped) {
	defaults := make(map[string]map[string]any, len(grouped))
	for service, categories := range grouped {
		fields := make(map[string]any)
		for _, descriptors := range categories {
			for _, d := range descriptors {
				fields[d.SaveKey()] = d.Default
			}
		}
		defaults[service] = fields
	}

	p.mu.Lock()
	p.defaults = defaults
	p.mu.Unlock()
}

// SaveOption stores one override and pushes it to the daemon.
func (p *Persister) SaveOption(ctx context.Context, service, field string, value any) error {
	if err := p.client.SetOptions(ctx, service, map[string]any{field: value}); err != nil {
		return err
	}
	return p.store.Set(service, field, value)
}

// RemoveOption deletes one override and restores the engine default.
func (p *Persister) RemoveOption(ctx context.Context, service, field string) error {
	def, ok := p.defaultFor(service, field)
	if !ok {
		return fmt.Errorf("no known default for %s.%s", service, field)
	}
	if err := p.client.SetOptions(ctx, service, map[string]any{field: def}); err != nil {
		return err
	}
	return p.store.Delete(service, field)
}

// ResetOptions deletes every override, restoring defaults in the daemon
// first so a push failure leaves the store intact for a retry.
func (p *Persister) ResetOptions(ctx context.Context) error {
	for service, fields := range p.store.All() {
		restore := make(map[string]any, len(fields))
		for field := range fields {
			if def, ok := p.defaultFor(service, field); ok {
				restore[field] = def
			}
		}
		if len(restore) == 0 {
			continue
		}
		if err := p.client.SetOptions(ctx, service, restore); err != nil {
			return fmt.Errorf("restoring defaults for %s: %w", service, err)
		}
	}
	return p.store.Clear()
}

// Replay pushes every stored override into a freshly connected daemon.
func (p *Persister) Replay(ctx context.Context) error {
	for service, fields := range p.store.All() {
		if len(fields) == 0 {
			continue
		}
		if err := p.client.SetOptions(ctx, service, fields); err != nil {
			return fmt.Errorf("replaying overrides for %s: %w", service, err)
		}
	}
	return nil
}

func (p *Persister) defaultFor(service, field string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	def, ok := p.defaults[service][field]
	return def, ok
}
