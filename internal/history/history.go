// Package history records playback lifecycle events in a per-user
// SQLite database (modernc.org/sqlite, CGO-free). Failures here are
// never fatal to playback; callers log and continue.
package history

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Event is one recorded lifecycle transition of the player daemon.
type Event struct {
	ID         int64
	PID        int
	Selection  string
	Category   string
	StartedAt  time.Time
	StoppedAt  sql.NullTime
	StopReason sql.NullString
}

// Store persists Events. Use ":memory:" as the path for tests.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path and
// ensures the schema.
func Open(path string) (*Store, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, errors.New("history: empty sqlite path")
	}
	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	// busy timeout covers the small window where a starting daemon and a
	// stopping CLI both touch the database
	_, _ = db.Exec("PRAGMA busy_timeout=3000;")
	s := &Store{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS playback(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pid INTEGER NOT NULL,
			selection TEXT NOT NULL,
			category TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			stopped_at TIMESTAMP NULL,
			stop_reason TEXT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_playback_pid ON playback(pid);`,
		`CREATE INDEX IF NOT EXISTS idx_playback_started ON playback(started_at);`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// RecordStart inserts a new playback row and returns its id.
func (s *Store) RecordStart(ctx context.Context, pid int, selection, category string, startedAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO playback(pid, selection, category, started_at)
		VALUES(?, ?, ?, ?);`,
		pid, selection, category, startedAt.UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordStop closes the most recent open row for pid. reason is free
// text like "stopped", "signal" or "finished".
func (s *Store) RecordStop(ctx context.Context, pid int, stoppedAt time.Time, reason string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE playback
		SET stopped_at=?, stop_reason=?
		WHERE id=(SELECT id FROM playback WHERE pid=? AND stopped_at IS NULL ORDER BY id DESC LIMIT 1);`,
		stoppedAt.UTC(), reason, pid)
	return err
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pid, selection, category, started_at, stopped_at, stop_reason
		FROM playback ORDER BY id DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.PID, &e.Selection, &e.Category, &e.StartedAt, &e.StoppedAt, &e.StopReason); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
