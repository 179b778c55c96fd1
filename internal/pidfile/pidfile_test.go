package pidfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteThenRead(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "bgm_player.pid"))
	in := Record{PID: 4242, LogPath: filepath.Join(dir, "bgm_player.log"), StartedUnix: 1700000000}
	if err := s.Write(in); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out, err := s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if out != in {
		t.Fatalf("roundtrip mismatch: got %+v want %+v", out, in)
	}
}

func TestReadMissingIsNotFound(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.pid"))
	if _, err := s.Read(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadEmptyFileIsNotFound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bgm_player.pid")
	// The advisory lock creates the file empty when it never existed;
	// an empty file must read as absent, not as corruption.
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("seed empty file: %v", err)
	}
	s := New(path)
	if _, err := s.Read(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty file should read as ErrNotFound, got %v", err)
	}
}

func TestReadCorruptDegradesToNotFound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bgm_player.pid")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	s := New(path)
	if _, err := s.Read(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("corrupt file should read as ErrNotFound, got %v", err)
	}
}

func TestReadNonPositivePIDDegradesToNotFound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bgm_player.pid")
	if err := os.WriteFile(path, []byte(`{"pid":0,"log_path":"x"}`), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := New(path)
	if _, err := s.Read(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("zero pid should read as ErrNotFound, got %v", err)
	}
}

func TestWriteRejectsNonPositivePID(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "p.pid"))
	if err := s.Write(Record{PID: 0}); err == nil {
		t.Fatalf("expected error for pid 0")
	}
	if err := s.Write(Record{PID: -3}); err == nil {
		t.Fatalf("expected error for negative pid")
	}
}

func TestWriteOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.pid")
	s := New(path)
	if err := s.Write(Record{PID: 1111, LogPath: "a.log"}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := s.Write(Record{PID: 2222, LogPath: "b.log"}); err != nil {
		t.Fatalf("second write: %v", err)
	}
	out, err := s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if out.PID != 2222 || out.LogPath != "b.log" {
		t.Fatalf("overwrite not visible: %+v", out)
	}
	// No temp leftovers in the directory.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".pid-") {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}

func TestWrittenFileIsValidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.pid")
	s := New(path)
	if err := s.Write(Record{PID: 77, LogPath: "l.log", StartedUnix: 12345}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("pid file is not JSON: %v (%q)", err, string(b))
	}
	if _, ok := m["pid"]; !ok {
		t.Fatalf("pid key missing: %q", string(b))
	}
}

func TestRemoveIsBestEffort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.pid")
	s := New(path)
	// Removing an absent file must not panic or log an error path we care about.
	s.Remove()
	if err := s.Write(Record{PID: 9}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	s.Remove()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file should be gone, stat err=%v", err)
	}
	// Second remove after deletion is a no-op.
	s.Remove()
}
