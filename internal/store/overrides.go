// Package store persists the user's option overrides locally so they can be
// replayed into the engine on the next connect.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/renameio/v2"

	"github.com/rcpilot/rcpilot/internal/fsutil"
)

// Overrides is a JSON-file-backed map of service -> field -> value. All
// writes go through an atomic rename so a crash cannot leave a torn file.
type Overrides struct {
	mu     sync.Mutex
	path   string
	values map[string]map[string]any
}

// Open loads the override store at path, creating an empty one when the
// file does not exist yet.
func Open(path string) (*Overrides, error) {
	o := &Overrides{
		path:   path,
		values: make(map[string]map[string]any),
	}

	data, err := fsutil.ReadFileScoped(path)
	if os.IsNotExist(err) {
		return o, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading overrides: %w", err)
	}
	if err := json.Unmarshal(data, &o.values); err != nil {
		return nil, fmt.Errorf("parsing overrides %s: %w", path, err)
	}
	return o, nil
}

// Path returns the backing file path.
func (o *Overrides) Path() string { return o.path }

// Set stores one override and flushes to disk.
func (o *Overrides) Set(service, field string, value any) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.values[service] == nil {
		o.values[service] = make(map[string]any)
	}
	o.values[service][field] = value
	return o.flushLocked()
}

// Delete removes one override and flushes to disk. Deleting an absent
// entry is a no-op.
func (o *Overrides) Delete(service, field string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	fields, ok := o.values[service]
	if !ok {
		return nil
	}
	if _, ok := fields[field]; !ok {
		return nil
	}
	delete(fields, field)
	if len(fields) == 0 {
		delete(o.values, service)
	}
	return o.flushLocked()
}

// Get returns one stored override.
func (o *Overrides) Get(service, field string) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	v, ok := o.values[service][field]
	return v, ok
}

// All returns a deep-enough copy of every stored override.
func (o *Overrides) All() map[string]map[string]any {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make(map[string]map[string]any, len(o.values))
	for service, fields := range o.values {
		copied := make(map[string]any, len(fields))
		for field, v := range fields {
			copied[field] = v
		}
		out[service] = copied
	}
	return out
}

// Clear drops every override and flushes to disk.
func (o *Overrides) Clear() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.values = make(map[string]map[string]any)
	return o.flushLocked()
}

func (o *Overrides) flushLocked() error {
	data, err := json.MarshalIndent(o.values, "", "  ")
	if err != nil {
		return err
	}
	if err := fsutil.EnsureParent(o.path); err != nil {
		return err
	}
	if err := renameio.WriteFile(o.path, data, 0o600); err != nil {
		return fmt.Errorf("writing overrides: %w", err)
	}
	return nil
}
