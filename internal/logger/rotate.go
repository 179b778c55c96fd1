package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// Line thresholds for the player log: once it passes MaxLines, only the
// most recent KeepLines survive.
const (
	DefaultMaxLines  = 1000
	DefaultKeepLines = 500
)

// TrimToRecent truncates the log at path to its most recent keepLines
// lines once it exceeds maxLines. The rewrite goes through a temp file
// and rename so a concurrent reader never sees a partial log. A missing
// file is a no-op.
func TrimToRecent(path string, maxLines, keepLines int) error {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	if keepLines <= 0 || keepLines > maxLines {
		keepLines = DefaultKeepLines
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("logger: open for rotation: %w", err)
	}

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	scanErr := sc.Err()
	_ = f.Close()
	if scanErr != nil {
		return fmt.Errorf("logger: scan for rotation: %w", scanErr)
	}
	if len(lines) <= maxLines {
		return nil
	}

	recent := lines[len(lines)-keepLines:]
	tmp, err := os.CreateTemp(filepath.Dir(path), ".log-*")
	if err != nil {
		return fmt.Errorf("logger: temp file: %w", err)
	}
	tmpName := tmp.Name()
	w := bufio.NewWriter(tmp)
	fmt.Fprintf(w, "[log rotated: kept last %d lines]\n", len(recent))
	for _, ln := range recent {
		fmt.Fprintln(w, ln)
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("logger: write rotated log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("logger: close rotated log: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("logger: replace log: %w", err)
	}
	return nil
}
