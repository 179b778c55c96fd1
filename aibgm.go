// Package aibgm manages a single detached background-music player
// process. The PID record on disk is the only shared state; starting is
// idempotent while a player runs, stopping is idempotent while none does.
package aibgm

import (
	"fmt"
	"os"
	"time"

	"github.com/aibgm/aibgm/internal/config"
	"github.com/aibgm/aibgm/internal/daemon"
	"github.com/aibgm/aibgm/internal/pidfile"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Record = pidfile.Record

type StartResult = daemon.StartResult

type StopResult = daemon.StopResult

const (
	Started        = daemon.Started
	AlreadyRunning = daemon.AlreadyRunning
	SpawnFailed    = daemon.SpawnFailed
)

const (
	Stopped    = daemon.Stopped
	NotRunning = daemon.NotRunning
	StopFailed = daemon.StopFailed
)

// Player is a thin facade over internal/daemon.Supervisor bound to the
// per-user config directory.
type Player struct{ inner *daemon.Supervisor }

// New builds a Player whose start command re-executes this binary as a
// detached playback daemon for the given category and track count.
func New(category string, count int) (*Player, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	pidPath, err := config.PIDFilePath()
	if err != nil {
		return nil, err
	}
	logPath, err := config.LogFilePath()
	if err != nil {
		return nil, err
	}
	spec := daemon.Spec{
		Command: []string{exe, "play", category, fmt.Sprintf("--count=%d", count), "--daemon"},
		PIDFile: pidPath,
		LogPath: logPath,
	}
	return &Player{inner: daemon.New(spec)}, nil
}

func (p *Player) Start() (StartResult, error) { return p.inner.Start() }

func (p *Player) Stop(timeout time.Duration) (StopResult, error) { return p.inner.Stop(timeout) }

func (p *Player) Status() (Record, bool, error) { return p.inner.Status() }

// RunDaemon is the entry point for the detached child process.
func RunDaemon(category string, count int) error {
	return daemon.RunPlayer(category, count)
}
