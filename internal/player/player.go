// Package player runs the playback side of the daemon: it picks a track
// for the active selection and drives an external audio backend, looping
// according to the requested count. Audio decoding stays in the backend
// binary; this package only manages the child process.
package player

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/aibgm/aibgm/internal/config"
)

// ErrNoTracks means the selection has no files for the category. The
// daemon exits quietly in that case; silence is not an error the user
// has to act on.
var ErrNoTracks = errors.New("player: no tracks configured")

// CommandFactory builds the backend invocation for one playback of the
// file at path. Tests substitute a factory that runs a stub command.
type CommandFactory func(ctx context.Context, path string) (*exec.Cmd, error)

// PickTrack chooses a random candidate from the selection's category and
// resolves it against the assets root.
func PickTrack(lib config.Library, assets, selection, category string, rng *rand.Rand) (string, error) {
	tracks, ok := lib[selection]
	if !ok {
		return "", fmt.Errorf("player: selection %q not found", selection)
	}
	files := tracks[category]
	if len(files) == 0 {
		return "", ErrNoTracks
	}
	chosen := files[rng.Intn(len(files))]
	full := filepath.Join(assets, selection, chosen)
	if _, err := os.Stat(full); err != nil {
		return "", fmt.Errorf("player: track %s: %w", full, err)
	}
	return full, nil
}

// Run plays path count times through factory. count semantics follow
// the CLI contract: -1 loops until ctx is canceled, 0 skips playback,
// N plays N times. Cancellation mid-playback kills the backend and
// returns ctx.Err().
func Run(ctx context.Context, path string, count int, factory CommandFactory) error {
	if count == 0 {
		return nil
	}
	for i := 0; count < 0 || i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		cmd, err := factory(ctx, path)
		if err != nil {
			return err
		}
		if err := cmd.Run(); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("player: backend failed: %w", err)
		}
	}
	return nil
}
