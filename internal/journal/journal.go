// Package journal persists fixture outcomes and teardown results to SQLite so
// a run can be inspected after the process exits.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agbru/fixturerun/internal/coordinator"
)

const createOutcomesTable = `
CREATE TABLE IF NOT EXISTS outcomes (
    id              TEXT PRIMARY KEY,
    fixture_type    TEXT NOT NULL,
    params          TEXT NOT NULL,
    status          TEXT NOT NULL,
    error           TEXT,
    started_at      DATETIME NOT NULL,
    finished_at     DATETIME NOT NULL,
    teardown_status TEXT NOT NULL DEFAULT 'pending',
    teardown_error  TEXT
)`

// Status values stored in the status and teardown_status columns.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// ErrNotFound is returned when an outcome is not in the journal.
var ErrNotFound = errors.New("outcome not found")

var _ coordinator.Recorder = (*SQLite)(nil)

// Entry is one journaled outcome.
type Entry struct {
	ID             string
	FixtureType    string
	Params         []string
	Status         string
	Error          string
	StartedAt      time.Time
	FinishedAt     time.Time
	TeardownStatus string
	TeardownError  string
}

// SQLite is a coordinator.Recorder backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// Open opens the database at path and creates the schema.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(createOutcomesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create outcomes table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// RecordSetup inserts one row for a finished setup.
func (s *SQLite) RecordSetup(ctx context.Context, o *coordinator.Outcome) error {
	params, err := json.Marshal(paramsOrEmpty(o.Identity.Params))
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO outcomes (
			id, fixture_type, params, status, error, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Identity.Type, string(params), statusOf(o.Err), errorText(o.Err),
		o.StartedAt.UTC(), o.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// RecordTeardown stores the teardown result of a journaled outcome.
func (s *SQLite) RecordTeardown(ctx context.Context, o *coordinator.Outcome, teardownErr error) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE outcomes SET teardown_status = ?, teardown_error = ? WHERE id = ?",
		statusOf(teardownErr), errorText(teardownErr), o.ID,
	)
	if err != nil {
		return fmt.Errorf("update teardown: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns the entry with the given outcome ID.
func (s *SQLite) Get(ctx context.Context, id string) (*Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx,
		`SELECT id, fixture_type, params, status, error, started_at, finished_at,
			teardown_status, teardown_error
		FROM outcomes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get outcome: %w", err)
	}
	return e, nil
}

// List returns every entry ordered by start time.
func (s *SQLite) List(ctx context.Context) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, fixture_type, params, status, error, started_at, finished_at,
			teardown_status, teardown_error
		FROM outcomes ORDER BY started_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e                 Entry
		params            string
		setupErr, downErr sql.NullString
	)
	if err := row.Scan(
		&e.ID, &e.FixtureType, &params, &e.Status, &setupErr,
		&e.StartedAt, &e.FinishedAt, &e.TeardownStatus, &downErr,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(params), &e.Params); err != nil {
		return nil, fmt.Errorf("decode params: %w", err)
	}
	e.Error = setupErr.String
	e.TeardownError = downErr.String
	return &e, nil
}

func statusOf(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}

func errorText(err error) sql.NullString {
	if err == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: err.Error(), Valid: true}
}

func paramsOrEmpty(params []string) []string {
	if params == nil {
		return []string{}
	}
	return params
}
