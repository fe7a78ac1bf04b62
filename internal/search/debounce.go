package search

import (
	"sync"
	"time"
)

// DefaultDebounce is the pause after the last keystroke before a search
// pass runs.
const DefaultDebounce = 250 * time.Millisecond

// Debouncer coalesces bursts of triggers into a single callback once the
// input goes quiet. A superseded trigger is simply dropped; there is no
// cancellation beyond resetting the timer, since every run recomputes the
// derived state in full.
type Debouncer struct {
	mu    sync.Mutex
	d     time.Duration
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(d time.Duration) *Debouncer {
	if d <= 0 {
		d = DefaultDebounce
	}
	return &Debouncer{d: d}
}

// Trigger schedules fn after the quiet period, replacing any pending run.
func (db *Debouncer) Trigger(fn func()) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.timer != nil {
		db.timer.Stop()
	}
	db.timer = time.AfterFunc(db.d, fn)
}

// Stop cancels any pending run.
func (db *Debouncer) Stop() {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.timer != nil {
		db.timer.Stop()
		db.timer = nil
	}
}
