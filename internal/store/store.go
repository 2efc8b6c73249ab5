// Package store journals scan runs and their matches in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// ErrUnknownRun is returned for a run id that was never started.
var ErrUnknownRun = errors.New("store: unknown run")

// Store is a match journal backed by one SQLite file.
type Store struct {
	db *sql.DB
}

// Run is one scan of an event source with one pattern.
type Run struct {
	ID         string
	Pattern    string
	Target     string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is open
	Events     int
}

// Match is one Matched report of a run.
type Match struct {
	Seq      int
	Shortest int
	Longest  int
	Horizon  int
}

// NewRunID returns a time-ordered run identifier.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Open creates or opens the journal at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to journal: %w", err)
	}
	// a single connection serializes writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		db.Close()
		return nil, fmt.Errorf("set user_version: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the journal.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// StartRun records a new run. An empty ID is replaced by NewRunID; the id
// used is returned.
func (s *Store) StartRun(ctx context.Context, r Run) (string, error) {
	if r.ID == "" {
		r.ID = NewRunID()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, pattern, target, source, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, r.ID, r.Pattern, r.Target, r.Source, formatTime(r.StartedAt))
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}
	return r.ID, nil
}

// RecordMatch adds a match to a run. Recording the same seq twice keeps the
// first record.
func (s *Store) RecordMatch(ctx context.Context, runID string, m Match) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (run_id, seq, shortest, longest, horizon)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`, runID, m.Seq, m.Shortest, m.Longest, m.Horizon)
	if err != nil {
		return fmt.Errorf("record match: %w", err)
	}
	return nil
}

// FinishRun closes a run with the number of events it consumed.
func (s *Store) FinishRun(ctx context.Context, runID string, events int, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, events = ? WHERE id = ?
	`, formatTime(at), events, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrUnknownRun)
	}
	return nil
}

// Runs returns every run, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pattern, target, source, started_at, finished_at, events
		FROM runs ORDER BY started_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var started string
		var finished sql.NullString
		if err := rows.Scan(&r.ID, &r.Pattern, &r.Target, &r.Source, &started, &finished, &r.Events); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("run %s: started_at: %w", r.ID, err)
		}
		if finished.Valid {
			if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished.String); err != nil {
				return nil, fmt.Errorf("run %s: finished_at: %w", r.ID, err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Matches returns the matches of a run in stream order.
func (s *Store) Matches(ctx context.Context, runID string) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, shortest, longest, horizon
		FROM matches WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Seq, &m.Shortest, &m.Longest, &m.Horizon); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
