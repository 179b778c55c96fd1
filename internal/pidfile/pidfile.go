// Package pidfile persists the record of the running player daemon.
// The file is the single source of truth: nothing is cached in memory,
// every operation re-reads from disk.
package pidfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Read when no record exists. A corrupt file
// degrades to ErrNotFound as well; callers treat both the same way.
var ErrNotFound = errors.New("pidfile: no record")

// Record describes the daemon the supervisor believes is running.
// StartedUnix is the process start time in Unix seconds and serves as an
// identity signature: a pid that exists but was started at a different
// time belongs to an unrelated process, so the record is stale.
// StartedUnix of 0 means the start time could not be determined at write
// time; such records fall back to existence-only liveness checks.
type Record struct {
	PID         int    `json:"pid"`
	LogPath     string `json:"log_path"`
	StartedUnix int64  `json:"started_unix,omitempty"`
}

// Store reads and writes Records at a fixed path.
type Store struct {
	path string
}

func New(path string) *Store { return &Store{path: path} }

// Path returns the PID file location. The advisory lock binds to it.
func (s *Store) Path() string { return s.path }

// Write serializes rec atomically: write to a temp file in the same
// directory, then rename over the destination, so a concurrent reader
// never observes a half-written record.
func (s *Store) Write(rec Record) error {
	if rec.PID <= 0 {
		return fmt.Errorf("pidfile: refusing to write non-positive pid %d", rec.PID)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("pidfile: create dir: %w", err)
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("pidfile: encode: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".pid-*")
	if err != nil {
		return fmt.Errorf("pidfile: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(b, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("pidfile: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("pidfile: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("pidfile: rename: %w", err)
	}
	return nil
}

// Read returns the current record. A missing file yields ErrNotFound.
// A file that exists but cannot be parsed also yields ErrNotFound; the
// corruption is logged so the degraded path stays observable.
func (s *Store) Read() (Record, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("pidfile: read: %w", err)
	}
	// The advisory lock opens the file with O_CREATE, so a zero-length
	// file is a lock artifact, not corruption. No warning for it.
	if len(bytes.TrimSpace(b)) == 0 {
		return Record{}, ErrNotFound
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		slog.Warn("pidfile corrupt, treating as absent", "path", s.path, "error", err)
		return Record{}, ErrNotFound
	}
	if rec.PID <= 0 {
		slog.Warn("pidfile has non-positive pid, treating as absent", "path", s.path, "pid", rec.PID)
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Remove deletes the record. Best-effort: a file that is already gone is
// not an error, and other failures are logged rather than propagated.
func (s *Store) Remove() {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("pidfile remove failed", "path", s.path, "error", err)
	}
}
