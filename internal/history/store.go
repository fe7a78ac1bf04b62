// Package history keeps a local audit log of configuration changes in
// SQLite so the user can see what was changed, when, and from what value.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rcpilot/rcpilot/internal/fsutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS changes (
	id         TEXT PRIMARY KEY,
	occurred   TIMESTAMP NOT NULL,
	action     TEXT NOT NULL,
	service    TEXT NOT NULL,
	field      TEXT NOT NULL,
	previous   TEXT NOT NULL,
	value      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_changes_occurred ON changes(occurred DESC);
`

// Action is the kind of recorded change.
type Action string

const (
	ActionSave   Action = "save"
	ActionRemove Action = "remove"
	ActionReset  Action = "reset"
)

// Entry is one recorded configuration change.
type Entry struct {
	ID       string    `json:"id"`
	Occurred time.Time `json:"occurred"`
	Action   Action    `json:"action"`
	Service  string    `json:"service"`
	Field    string    `json:"field"`
	Previous string    `json:"previous"`
	Value    string    `json:"value"`
}

// Store is the SQLite-backed change log.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the change log at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := fsutil.EnsureParent(dbPath); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one change. Sensitive values are expected to be redacted
// by the caller before they reach the log.
func (s *Store) Record(ctx context.Context, action Action, service, field, previous, value string) (Entry, error) {
	e := Entry{
		ID:       uuid.NewString(),
		Occurred: time.Now().UTC(),
		Action:   action,
		Service:  service,
		Field:    field,
		Previous: previous,
		Value:    value,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO changes (id, occurred, action, service, field, previous, value)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Occurred, string(e.Action), e.Service, e.Field, e.Previous, e.Value)
	if err != nil {
		return Entry{}, fmt.Errorf("recording change: %w", err)
	}
	return e, nil
}

// Recent returns the newest n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, occurred, action, service, field, previous, value
		 FROM changes ORDER BY occurred DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var action string
		if err := rows.Scan(&e.ID, &e.Occurred, &action, &e.Service, &e.Field, &e.Previous, &e.Value); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Action = Action(action)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
