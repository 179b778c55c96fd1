package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSelection is used when no selection has been saved yet.
const DefaultSelection = "default"

// Selection is the persisted user state: which BGM set is active and
// whether playback is enabled at all.
type Selection struct {
	Selected string `json:"selected"`
	Enabled  *bool  `json:"enabled,omitempty"`
}

// IsEnabled treats an absent flag as enabled, matching the original
// opt-out behavior.
func (s Selection) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// LoadSelection reads the selection file. A missing file yields the
// default selection with playback enabled.
func LoadSelection(path string) (Selection, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Selection{Selected: DefaultSelection}, nil
		}
		return Selection{}, fmt.Errorf("config: read selection: %w", err)
	}
	var sel Selection
	if err := json.Unmarshal(b, &sel); err != nil {
		return Selection{}, fmt.Errorf("config: parse selection: %w", err)
	}
	if sel.Selected == "" {
		sel.Selected = DefaultSelection
	}
	return sel, nil
}

// SaveSelection persists sel atomically.
func SaveSelection(path string, sel Selection) error {
	b, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("config: encode selection: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".selection-*")
	if err != nil {
		return fmt.Errorf("config: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(b, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("config: write selection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("config: close selection: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("config: replace selection: %w", err)
	}
	return nil
}

// SetEnabled updates only the enabled flag, preserving the selection.
func SetEnabled(path string, enabled bool) error {
	sel, err := LoadSelection(path)
	if err != nil {
		return err
	}
	sel.Enabled = &enabled
	return SaveSelection(path, sel)
}
