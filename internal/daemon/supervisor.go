// Package daemon orchestrates the lifecycle of the detached player
// process: spawn and record on start, probe and terminate on stop, with
// an advisory lock serializing concurrent invocations.
package daemon

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/aibgm/aibgm/internal/lockfile"
	"github.com/aibgm/aibgm/internal/pidfile"
	"github.com/aibgm/aibgm/internal/proc"
)

// DefaultLockTimeout bounds how long start/stop waits on a concurrent
// invocation before giving up.
const DefaultLockTimeout = 2 * time.Second

// StartResult is the outcome of Supervisor.Start.
type StartResult int

const (
	Started StartResult = iota
	// AlreadyRunning covers both a live daemon and a concurrent
	// invocation holding the lock. Idempotent, not an error.
	AlreadyRunning
	SpawnFailed
)

func (r StartResult) String() string {
	switch r {
	case Started:
		return "started"
	case AlreadyRunning:
		return "already_running"
	case SpawnFailed:
		return "spawn_failed"
	}
	return "unknown"
}

// StopResult is the outcome of Supervisor.Stop.
type StopResult int

const (
	Stopped StopResult = iota
	// NotRunning covers a missing record and a stale one. Idempotent.
	NotRunning
	// StopFailed retains the PID record as a retry marker.
	StopFailed
)

func (r StopResult) String() string {
	switch r {
	case Stopped:
		return "stopped"
	case NotRunning:
		return "not_running"
	case StopFailed:
		return "stop_failed"
	}
	return "unknown"
}

// Spec describes the daemon to supervise.
type Spec struct {
	// Command is the argv of the detached player process.
	Command []string
	// PIDFile is the well-known record path; the advisory lock binds to it.
	PIDFile string
	// LogPath receives the spawned process's stdout and stderr.
	LogPath string
	// LockTimeout defaults to DefaultLockTimeout when zero.
	LockTimeout time.Duration
}

// Supervisor drives start and stop. It keeps no in-memory state between
// operations; the PID file on disk is the only source of truth.
type Supervisor struct {
	spec  Spec
	store *pidfile.Store
}

func New(spec Spec) *Supervisor {
	if spec.LockTimeout <= 0 {
		spec.LockTimeout = DefaultLockTimeout
	}
	return &Supervisor{spec: spec, store: pidfile.New(spec.PIDFile)}
}

// Store exposes the PID file store, mainly for the status path.
func (s *Supervisor) Store() *pidfile.Store { return s.store }

// Start spawns the detached player unless one is already running.
func (s *Supervisor) Start() (StartResult, error) {
	// Fast path before taking the lock.
	if rec, err := s.store.Read(); err == nil {
		if s.isOurs(rec) {
			return AlreadyRunning, nil
		}
		slog.Debug("discarding stale pid record", "pid", rec.PID)
		s.store.Remove()
	}

	lock, err := lockfile.Acquire(s.spec.PIDFile, s.spec.LockTimeout)
	switch {
	case err == nil:
		defer lock.Release()
	case err == lockfile.ErrBusy:
		// Another start/stop is deciding; treat like a running daemon.
		return AlreadyRunning, nil
	case err == lockfile.ErrUnsupported:
		// Degraded mode: existence + probe is all we have.
	default:
		return SpawnFailed, err
	}

	// Re-check under the lock: the fast path raced with whoever held it.
	if rec, err := s.store.Read(); err == nil {
		if s.isOurs(rec) {
			return AlreadyRunning, nil
		}
		s.store.Remove()
	}

	pid, err := s.spawn()
	if err != nil {
		s.removeLockArtifact()
		return SpawnFailed, fmt.Errorf("daemon: spawn: %w", err)
	}
	rec := pidfile.Record{
		PID:         pid,
		LogPath:     s.spec.LogPath,
		StartedUnix: proc.StartTimeUnix(pid),
	}
	if err := s.store.Write(rec); err != nil {
		// Without a record the daemon would be unmanageable; take it
		// back down rather than leak it.
		_ = proc.Terminate(pid, true, time.Second)
		s.removeLockArtifact()
		return SpawnFailed, fmt.Errorf("daemon: record spawned pid: %w", err)
	}
	return Started, nil
}

// Stop terminates the running daemon. A timeout or permission failure
// keeps the PID record so a later stop or manual inspection can retry.
func (s *Supervisor) Stop(timeout time.Duration) (StopResult, error) {
	lock, err := lockfile.Acquire(s.spec.PIDFile, s.spec.LockTimeout)
	switch {
	case err == nil:
		defer lock.Release()
	case err == lockfile.ErrBusy:
		return StopFailed, fmt.Errorf("daemon: another operation in progress")
	case err == lockfile.ErrUnsupported:
		// Degraded mode; concurrent stops may race, the terminator
		// tolerates an already-gone process.
	default:
		return StopFailed, err
	}

	rec, err := s.store.Read()
	if err != nil {
		// Nothing was ever started; leave no trace of this invocation.
		s.removeLockArtifact()
		return NotRunning, nil
	}
	if !s.isOurs(rec) {
		s.store.Remove()
		return NotRunning, nil
	}

	switch res := proc.Terminate(rec.PID, true, timeout); res {
	case proc.Terminated:
		s.store.Remove()
		return Stopped, nil
	case proc.PermissionDenied:
		return StopFailed, fmt.Errorf("daemon: not permitted to terminate pid %d", rec.PID)
	default:
		return StopFailed, fmt.Errorf("daemon: pid %d still alive after %s", rec.PID, timeout)
	}
}

// Status reports the current record and whether it refers to a live
// daemon. A stale record is removed on the way, like the original tool.
func (s *Supervisor) Status() (pidfile.Record, bool, error) {
	rec, err := s.store.Read()
	if err != nil {
		if err == pidfile.ErrNotFound {
			return pidfile.Record{}, false, nil
		}
		return pidfile.Record{}, false, err
	}
	if !s.isOurs(rec) {
		s.store.Remove()
		return pidfile.Record{}, false, nil
	}
	return rec, true, nil
}

// isOurs reports whether rec refers to a live process that is still the
// daemon we spawned. When the record carries a start-time signature, a
// mismatch means the pid was reused by an unrelated process and the
// record is stale.
func (s *Supervisor) isOurs(rec pidfile.Record) bool {
	if !proc.Alive(rec.PID) {
		return false
	}
	if rec.StartedUnix == 0 {
		return true
	}
	now := proc.StartTimeUnix(rec.PID)
	if now == 0 {
		return true
	}
	delta := now - rec.StartedUnix
	return delta >= -1 && delta <= 1
}

// removeLockArtifact deletes the PID file when it is the zero-length
// file the advisory lock's O_CREATE open left behind. Called only under
// the lock, or on paths where no daemon exists to race with.
func (s *Supervisor) removeLockArtifact() {
	fi, err := os.Stat(s.spec.PIDFile)
	if err != nil || fi.Size() > 0 {
		return
	}
	s.store.Remove()
}

// spawn launches the player detached, with stdout/stderr appended to
// the log file. The child must outlive this short-lived CLI process.
func (s *Supervisor) spawn() (int, error) {
	if len(s.spec.Command) == 0 {
		return 0, fmt.Errorf("empty command")
	}
	// #nosec G204 -- argv is assembled from our own executable path
	cmd := exec.Command(s.spec.Command[0], s.spec.Command[1:]...)
	configureSysAttrs(cmd)
	cmd.Stdin = nil
	if s.spec.LogPath != "" {
		logF, err := os.OpenFile(s.spec.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return 0, fmt.Errorf("open log file: %w", err)
		}
		defer func() { _ = logF.Close() }()
		cmd.Stdout = logF
		cmd.Stderr = logF
	}
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	// Reap in the background so the child never lingers as a zombie
	// while this process is still around. Once we exit, the detached
	// child reparents to init.
	go func() { _ = cmd.Wait() }()
	return cmd.Process.Pid, nil
}
