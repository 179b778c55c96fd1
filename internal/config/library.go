package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Music categories a selection can provide.
const (
	CategoryWork         = "work"
	CategoryEnd          = "end"
	CategoryNotification = "notification"
)

// ValidCategory reports whether name is a known music category.
func ValidCategory(name string) bool {
	switch name {
	case CategoryWork, CategoryEnd, CategoryNotification:
		return true
	}
	return false
}

// TrackSet maps a category to its candidate files, relative to the
// selection's directory under the assets root.
type TrackSet map[string][]string

// Library maps a selection name to its track set.
type Library map[string]TrackSet

// Names returns the selection names in sorted order.
func (l Library) Names() []string {
	names := make([]string, 0, len(l))
	for n := range l {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadLibrary reads config.json from the config directory and merges
// config_ext.json over it when present: a selection defined in the ext
// file replaces the built-in definition of the same name wholesale.
// Selection names double as directory names under the assets root, so
// their case must survive loading.
func LoadLibrary(dir string) (Library, error) {
	lib, err := readLibraryFile(filepath.Join(dir, "config.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config: missing config.json in %s: %w", dir, err)
		}
		return nil, err
	}
	ext, err := readLibraryFile(filepath.Join(dir, "config_ext.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return lib, nil
		}
		return nil, err
	}
	for name, tracks := range ext {
		lib[name] = tracks
	}
	return lib, nil
}

func readLibraryFile(path string) (Library, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var lib Library
	if err := json.Unmarshal(b, &lib); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return lib, nil
}
