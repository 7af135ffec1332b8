// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists rename decisions in a SQLite journal so a
// batch can be audited and individual renames undone.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/paperdf/paperdf/pkg/types"
)

const dbFile = "history.db"

// Store manages the rename history database.
type Store struct {
	db *sql.DB
}

// Entry is one journal row.
type Entry struct {
	ID       int64
	At       time.Time
	Decision types.Decision
	Undone   bool
}

// Open opens or creates the history database under cfg.Dir (default
// ~/.local/share/paperdf) and creates the schema if needed.
func Open(cfg types.HistoryConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "share", "paperdf")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS decisions (
		id     INTEGER PRIMARY KEY AUTOINCREMENT,
		at     TEXT NOT NULL,
		action TEXT NOT NULL,
		source TEXT NOT NULL,
		target TEXT,
		reason TEXT,
		error  TEXT,
		undone INTEGER NOT NULL DEFAULT 0
	)`)
	return err
}

// Record appends one decision to the journal.
func (s *Store) Record(ctx context.Context, d types.Decision) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions (at, action, source, target, reason, error) VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), string(d.Action), d.Source, d.Target, string(d.Reason), d.Err)
	if err != nil {
		return fmt.Errorf("recording decision: %w", err)
	}
	return nil
}

// List returns the newest entries first, at most limit (default 50).
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at, action, source, target, reason, error, undone
		 FROM decisions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing decisions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the entry with the given id.
func (s *Store) Get(ctx context.Context, id int64) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, at, action, source, target, reason, error, undone
		 FROM decisions WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("no history entry %d", id)
	}
	return e, err
}

// Undo reverses a recorded rename: the target is moved back to the
// source path. It refuses when the entry is not a rename, was already
// undone, the renamed file is gone, or the original name is taken
// again.
func (s *Store) Undo(ctx context.Context, id int64) (Entry, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return Entry{}, err
	}

	if e.Decision.Action != types.ActionRenamed {
		return Entry{}, fmt.Errorf("entry %d is %s, only renames can be undone", id, e.Decision.Action)
	}
	if e.Undone {
		return Entry{}, fmt.Errorf("entry %d was already undone", id)
	}
	if _, err := os.Stat(e.Decision.Target); err != nil {
		return Entry{}, fmt.Errorf("renamed file %s is gone: %w", e.Decision.Target, err)
	}
	if _, err := os.Stat(e.Decision.Source); err == nil {
		return Entry{}, fmt.Errorf("original path %s is occupied", e.Decision.Source)
	}

	if err := os.Rename(e.Decision.Target, e.Decision.Source); err != nil {
		return Entry{}, fmt.Errorf("moving back: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE decisions SET undone = 1 WHERE id = ?`, id); err != nil {
		return Entry{}, fmt.Errorf("marking entry undone: %w", err)
	}
	e.Undone = true
	return e, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var at, action, reason string
	if err := row.Scan(&e.ID, &at, &action, &e.Decision.Source, &e.Decision.Target, &reason, &e.Decision.Err, &e.Undone); err != nil {
		return Entry{}, err
	}
	e.Decision.Action = types.Action(action)
	e.Decision.Reason = types.SkipReason(reason)
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", at, err)
	}
	e.At = t
	return e, nil
}
