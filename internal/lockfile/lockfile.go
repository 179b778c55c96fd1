// Package lockfile provides cooperative mutual exclusion for start/stop
// operations. The lock is taken on the PID file itself rather than a
// companion file, so there is no lock artifact to orphan.
package lockfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aibgm/aibgm/internal/platform"
	"github.com/gofrs/flock"
)

var (
	// ErrBusy means another invocation holds the lock.
	ErrBusy = errors.New("lockfile: busy")
	// ErrUnsupported means this platform has no advisory-lock primitive.
	// Callers proceed without mutual exclusion and rely on the liveness
	// probe alone; two concurrent stops may then both attempt
	// termination, which must be tolerated.
	ErrUnsupported = errors.New("lockfile: not supported on this platform")
)

const retryInterval = 50 * time.Millisecond

// Handle is a held lock. Release is safe on every exit path and never
// returns an error; release failures are logged only.
type Handle struct {
	fl *flock.Flock
}

// Acquire takes an exclusive advisory lock on path, retrying until
// timeout elapses. It returns ErrBusy when the lock stays contended and
// ErrUnsupported on platforms without flock support.
func Acquire(path string, timeout time.Duration) (*Handle, error) {
	// flock(2) has no Windows counterpart here; the probe-and-record
	// protocol runs without mutual exclusion there.
	if platform.IsWindows() {
		return nil, ErrUnsupported
	}
	fl := flock.New(path)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ok, err := fl.TryLockContext(ctx, retryInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrBusy
		}
		return nil, fmt.Errorf("lockfile: acquire %s: %w", path, err)
	}
	if !ok {
		return nil, ErrBusy
	}
	return &Handle{fl: fl}, nil
}

// Release drops the lock. Nil-safe so callers can defer it directly on
// the Acquire result even when acquisition degraded to ErrUnsupported.
func (h *Handle) Release() {
	if h == nil || h.fl == nil {
		return
	}
	if err := h.fl.Unlock(); err != nil {
		slog.Warn("lock release failed", "path", h.fl.Path(), "error", err)
	}
	h.fl = nil
}
