package history

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rcpilot/rcpilot/internal/catalog"
	"github.com/rcpilot/rcpilot/internal/events"
)

// redacted replaces sensitive values in the log.
const redacted = "[REDACTED]"

// SensitiveChecker reports whether a composite key belongs to a sensitive
// or password option.
type SensitiveChecker func(key string) bool

// Recorder consumes option lifecycle events from the bus and appends them
// to the store.
type Recorder struct {
	store  *Store
	logger *slog.Logger

	mu        sync.RWMutex
	sensitive SensitiveChecker
}

// NewRecorder creates a recorder. The checker may be nil before the first
// catalog load; install one with SetSensitive as soon as the catalog is
// available, or sensitive values are recorded unredacted.
func NewRecorder(store *Store, sensitive SensitiveChecker, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, sensitive: sensitive, logger: logger}
}

// SetSensitive swaps the sensitivity checker. Called on every catalog
// (re)load so redaction tracks the live descriptor set.
func (r *Recorder) SetSensitive(sensitive SensitiveChecker) {
	r.mu.Lock()
	r.sensitive = sensitive
	r.mu.Unlock()
}

// Run consumes events until the channel closes or the context is done.
// Intended to run on its own goroutine.
func (r *Recorder) Run(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			r.handle(ctx, ev)
		}
	}
}

func (r *Recorder) handle(ctx context.Context, ev events.Event) {
	var err error
	switch e := ev.(type) {
	case events.OptionSavedEvent:
		prev, val := e.Previous, e.Value
		if r.isSensitive(e.Key) {
			prev, val = redacted, redacted
		}
		_, err = r.store.Record(ctx, ActionSave, e.Service, e.Field, prev, val)
	case events.OptionRemovedEvent:
		prev := e.Previous
		if r.isSensitive(e.Key) {
			prev = redacted
		}
		_, err = r.store.Record(ctx, ActionRemove, e.Service, e.Field, prev, "")
	case events.ResetDoneEvent:
		_, err = r.store.Record(ctx, ActionReset, "", "", "", "")
	}
	if err != nil {
		r.logger.Warn("recording change failed", "error", err)
	}
}

func (r *Recorder) isSensitive(key string) bool {
	r.mu.RLock()
	sensitive := r.sensitive
	r.mu.RUnlock()
	return sensitive != nil && sensitive(key)
}

// DescriptorSensitivity builds a checker from a loaded catalog.
func DescriptorSensitivity(grouped catalog.Grouped) SensitiveChecker {
	sensitive := make(map[string]bool)
	for service, categories := range grouped {
		for category, descriptors := range categories {
			for _, d := range descriptors {
				if d.Sensitive || d.IsPassword {
					sensitive[catalog.Key(service, category, d.Name)] = true
				}
			}
		}
	}
	return func(key string) bool { return sensitive[key] }
}
