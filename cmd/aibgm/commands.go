package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aibgm/aibgm"
	"github.com/aibgm/aibgm/internal/config"
	"github.com/aibgm/aibgm/internal/history"
)

const defaultStopTimeout = 5 * time.Second

// command groups the method-style handlers the subcommands bind to.
type command struct{}

// Play starts the detached player. Both Started and AlreadyRunning exit
// zero; only a failed spawn is an error.
func (command) Play(w io.Writer, category string, count int) error {
	selPath, err := config.SelectionPath()
	if err != nil {
		return err
	}
	sel, err := config.LoadSelection(selPath)
	if err != nil {
		return err
	}
	if !sel.IsEnabled() {
		_, _ = fmt.Fprintln(w, "playback is disabled; run 'aibgm enable' first")
		return nil
	}
	player, err := aibgm.New(category, count)
	if err != nil {
		return err
	}
	res, err := player.Start()
	switch res {
	case aibgm.Started:
		_, _ = fmt.Fprintln(w, "playback started")
		return nil
	case aibgm.AlreadyRunning:
		_, _ = fmt.Fprintln(w, "already playing")
		return nil
	default:
		return fmt.Errorf("start playback: %w", err)
	}
}

// RunDaemon is the hidden re-exec path running inside the detached child.
func (command) RunDaemon(category string, count int) error {
	return aibgm.RunDaemon(category, count)
}

func (command) Stop(w io.Writer, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultStopTimeout
	}
	player, err := aibgm.New(config.CategoryWork, 1)
	if err != nil {
		return err
	}
	res, err := player.Stop(timeout)
	switch res {
	case aibgm.Stopped:
		_, _ = fmt.Fprintln(w, "playback stopped")
		return nil
	case aibgm.NotRunning:
		_, _ = fmt.Fprintln(w, "nothing is playing")
		return nil
	default:
		return fmt.Errorf("stop playback: %w", err)
	}
}

func (command) Status(w io.Writer, historyN int) error {
	player, err := aibgm.New(config.CategoryWork, 1)
	if err != nil {
		return err
	}
	rec, running, err := player.Status()
	if err != nil {
		return err
	}
	selPath, err := config.SelectionPath()
	if err != nil {
		return err
	}
	sel, err := config.LoadSelection(selPath)
	if err != nil {
		return err
	}

	if running {
		_, _ = fmt.Fprintf(w, "playing (pid %d, log %s)\n", rec.PID, rec.LogPath)
	} else {
		_, _ = fmt.Fprintln(w, "not playing")
	}
	_, _ = fmt.Fprintf(w, "selection: %s (enabled: %v)\n", sel.Selected, sel.IsEnabled())

	if historyN > 0 {
		return printHistory(w, historyN)
	}
	return nil
}

func printHistory(w io.Writer, n int) error {
	dbPath, err := config.HistoryDBPath()
	if err != nil {
		return err
	}
	store, err := history.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = store.Close() }()

	events, err := store.Recent(context.Background(), n)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		_, _ = fmt.Fprintln(w, "no playback history")
		return nil
	}
	for _, e := range events {
		end := "running"
		if e.StoppedAt.Valid {
			end = e.StoppedAt.Time.Format(time.RFC3339)
			if e.StopReason.Valid {
				end += " (" + e.StopReason.String + ")"
			}
		}
		_, _ = fmt.Fprintf(w, "%s  %s/%s  %s .. %s\n",
			e.StartedAt.Format(time.RFC3339), e.Selection, e.Category, e.StartedAt.Format("15:04:05"), end)
	}
	return nil
}

// Toggle stops a running player, or starts endless work music when
// nothing is playing.
func (c command) Toggle(w io.Writer, timeout time.Duration) error {
	player, err := aibgm.New(config.CategoryWork, -1)
	if err != nil {
		return err
	}
	_, running, err := player.Status()
	if err != nil {
		return err
	}
	if running {
		return c.Stop(w, timeout)
	}
	return c.Play(w, config.CategoryWork, -1)
}

// SetEnabled persists the flag only; a running player keeps playing
// until stopped, like the original tool.
func (command) SetEnabled(w io.Writer, enabled bool) error {
	selPath, err := config.SelectionPath()
	if err != nil {
		return err
	}
	if err := config.SetEnabled(selPath, enabled); err != nil {
		return err
	}
	if enabled {
		_, _ = fmt.Fprintln(w, "bgm: enabled")
	} else {
		_, _ = fmt.Fprintln(w, "bgm: disabled")
	}
	return nil
}

func (command) Select(w io.Writer, name string) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	lib, err := config.LoadLibrary(dir)
	if err != nil {
		return err
	}
	if _, ok := lib[name]; !ok {
		return fmt.Errorf("unknown selection %q (available: %v)", name, lib.Names())
	}
	selPath, err := config.SelectionPath()
	if err != nil {
		return err
	}
	sel, err := config.LoadSelection(selPath)
	if err != nil {
		return err
	}
	sel.Selected = name
	if err := config.SaveSelection(selPath, sel); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "selection set to %s\n", name)
	return nil
}
