// Package config resolves the per-user configuration directory and
// loads the BGM library and selection state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDirName = "ai-bgm"

// Dir returns the per-user configuration directory, creating it if
// needed. os.UserConfigDir resolves to ~/.config on POSIX and the
// roaming AppData root on Windows, matching the PID file contract.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve user config dir: %w", err)
	}
	dir := filepath.Join(base, appDirName)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("config: create %s: %w", dir, err)
	}
	return dir, nil
}

// PIDFilePath is the well-known location of the daemon record.
func PIDFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bgm_player.pid"), nil
}

// LogFilePath is the player daemon's append-only log.
func LogFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bgm_player.log"), nil
}

// HistoryDBPath is the sqlite playback history database.
func HistoryDBPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// SelectionPath holds the persisted selection and enabled flag.
func SelectionPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "selection.json"), nil
}

// AssetsPath is the root of the sound library: one subdirectory per
// selection. AIBGM_ASSETS overrides the default <configdir>/sounds.
func AssetsPath() (string, error) {
	if p := os.Getenv("AIBGM_ASSETS"); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sounds"), nil
}
