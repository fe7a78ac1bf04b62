// Package state persists the settings panel's navigation state between
// sessions: the page the user last had open and the search text they typed.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/renameio/v2"

	"github.com/rcpilot/rcpilot/internal/fsutil"
)

// CurrentVersion is the schema version for the persisted state.
const CurrentVersion = 1

// UIState is the persisted navigation state.
type UIState struct {
	Version   int       `json:"version"`
	Service   string    `json:"service,omitempty"`
	Category  string    `json:"category,omitempty"`
	Query     string    `json:"query,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultUIState returns the state for a first run: the home page, no query.
func DefaultUIState() *UIState {
	return &UIState{Version: CurrentVersion, UpdatedAt: time.Now()}
}

// Manager handles UI state persistence.
type Manager struct {
	mu    sync.RWMutex
	path  string
	state *UIState
}

// NewManager creates a manager storing state under baseDir.
func NewManager(baseDir string) *Manager {
	return &Manager{
		path:  filepath.Join(baseDir, "ui-state.json"),
		state: DefaultUIState(),
	}
}

// Load reads the state from disk. A missing or unparseable file falls back
// to defaults rather than failing startup.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := fsutil.ReadFileScoped(m.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var state UIState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil
	}
	if state.Version != CurrentVersion {
		return nil
	}

	m.state = &state
	return nil
}

// Get returns a copy of the current state.
func (m *Manager) Get() UIState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.state
}

// Update replaces the navigation fields and writes the file atomically.
func (m *Manager) Update(service, category, query string) error {
	m.mu.Lock()
	m.state = &UIState{
		Version:   CurrentVersion,
		Service:   service,
		Category:  category,
		Query:     query,
		UpdatedAt: time.Now(),
	}
	state := *m.state
	m.mu.Unlock()

	return m.write(state)
}

func (m *Manager) write(state UIState) error {
	if err := fsutil.EnsureParent(m.path); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("writing ui state: %w", err)
	}
	return nil
}
