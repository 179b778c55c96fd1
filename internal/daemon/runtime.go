package daemon

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/aibgm/aibgm/internal/config"
	"github.com/aibgm/aibgm/internal/history"
	"github.com/aibgm/aibgm/internal/logger"
	"github.com/aibgm/aibgm/internal/pidfile"
	"github.com/aibgm/aibgm/internal/player"
)

// RunPlayer is the body of the detached daemon process: it plays count
// tracks of the given category and exits. The supervisor wrote our PID
// record before we got here; we remove it on the way out if it is still
// ours.
func RunPlayer(category string, count int) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	logPath, err := config.LogFilePath()
	if err != nil {
		return err
	}
	if err := logger.TrimToRecent(logPath, logger.DefaultMaxLines, logger.DefaultKeepLines); err != nil {
		slog.Warn("log trim failed", "path", logPath, "error", err)
	}
	settings, err := config.LoadSettings(dir)
	if err != nil {
		slog.Warn("settings unreadable, using defaults", "error", err)
		settings = config.Settings{}
	}
	logCfg := settings.Log
	logCfg.Path = logPath
	w := logCfg.Writer()
	defer func() { _ = w.Close() }()
	logger.Setup(w, slog.LevelInfo)

	pidPath, err := config.PIDFilePath()
	if err != nil {
		return err
	}
	store := pidfile.New(pidPath)
	self := os.Getpid()

	selPath, err := config.SelectionPath()
	if err != nil {
		return err
	}
	sel, err := config.LoadSelection(selPath)
	if err != nil {
		return err
	}
	if !sel.IsEnabled() {
		slog.Info("playback disabled, exiting", "selection", sel.Selected)
		removeOwnRecord(store, self)
		return nil
	}
	lib, err := config.LoadLibrary(dir)
	if err != nil {
		removeOwnRecord(store, self)
		return err
	}
	assets, err := config.AssetsPath()
	if err != nil {
		removeOwnRecord(store, self)
		return err
	}

	var hist *history.Store
	if dbPath, err := config.HistoryDBPath(); err == nil {
		if hist, err = history.Open(dbPath); err != nil {
			slog.Warn("history store unavailable", "error", err)
			hist = nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	var cleanupOnce sync.Once
	cleanup := func(reason string) {
		cleanupOnce.Do(func() {
			cancel()
			if hist != nil {
				if err := hist.RecordStop(context.Background(), self, time.Now(), reason); err != nil {
					slog.Warn("history stop record failed", "error", err)
				}
				_ = hist.Close()
			}
			removeOwnRecord(store, self)
		})
	}

	InstallShutdownHandler(func() {
		slog.Info("termination signal received, stopping playback")
		cleanup("signal")
		_ = w.Close()
		os.Exit(0)
	})

	track, err := player.PickTrack(lib, assets, sel.Selected, category, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		if errors.Is(err, player.ErrNoTracks) {
			slog.Info("no playable tracks", "selection", sel.Selected, "category", category)
			cleanup("no_tracks")
			return nil
		}
		cleanup("error")
		return err
	}

	if hist != nil {
		if _, err := hist.RecordStart(ctx, self, sel.Selected, category, time.Now()); err != nil {
			slog.Warn("history start record failed", "error", err)
		}
	}
	slog.Info("playback starting", "track", track, "category", category, "count", count)

	err = player.Run(ctx, track, count, player.NewBackendCommand)
	switch {
	case err == nil:
		slog.Info("playback finished", "track", track)
		cleanup("finished")
	case errors.Is(err, context.Canceled):
		cleanup("signal")
		err = nil
	default:
		slog.Error("playback failed", "track", track, "error", err)
		cleanup("error")
	}
	return err
}

// removeOwnRecord deletes the PID record only when it still names this
// process, so a newer daemon's record is never clobbered.
func removeOwnRecord(store *pidfile.Store, self int) {
	rec, err := store.Read()
	if err != nil || rec.PID != self {
		return
	}
	store.Remove()
}
