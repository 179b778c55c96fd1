// Package proc probes process liveness and performs escalating
// termination. Both platforms run the same state machine; only the
// notification primitives differ.
package proc

import "time"

// Result is the terminal state of a termination attempt.
type Result int

const (
	// Terminated: the process is gone. The only success terminal.
	Terminated Result = iota
	// TimedOut: the process survived graceful and forceful phases.
	// Callers keep the PID record for diagnosis; this is never reported
	// as silent success.
	TimedOut
	// PermissionDenied: the pid exists but is not ours to signal.
	// Terminal and user-actionable; never retried automatically.
	PermissionDenied
)

func (r Result) String() string {
	switch r {
	case Terminated:
		return "terminated"
	case TimedOut:
		return "timed_out"
	case PermissionDenied:
		return "permission_denied"
	}
	return "unknown"
}

// PollInterval is the liveness polling cadence during termination waits.
const PollInterval = 100 * time.Millisecond

// forceWait bounds the re-poll window after forceful escalation.
const forceWait = 500 * time.Millisecond

// Alive reports whether pid refers to an existing process. An
// already-exited pid is the expected false case, never an error. A pid
// we lack permission to signal still exists, so it reports true.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return sys{}.alive(pid)
}

// Terminate drives a process to exit. With graceful set it first sends
// the cooperative shutdown notification, polls for up to timeout, then
// escalates exactly once to the platform's unconditional primitive and
// re-polls briefly. Without graceful it goes straight to escalation.
func Terminate(pid int, graceful bool, timeout time.Duration) Result {
	return terminate(sys{}, pid, graceful, timeout, time.Sleep)
}

// ops is the per-platform process table. Tests substitute a fake so the
// state machine can be exercised without real processes.
type ops interface {
	alive(pid int) bool
	// signalGraceful requests cooperative shutdown (SIGTERM / CTRL_BREAK).
	signalGraceful(pid int) error
	// signalForce is unconditional (SIGKILL / TerminateProcess). Windows
	// has no perfect equivalent of SIGKILL for unrelated processes; the
	// closest primitive is used and the asymmetry is accepted.
	signalForce(pid int) error
}

// terminate implements the escalation state machine:
//
//	RUNNING → GRACE_WAIT → {EXITED | GRACE_EXPIRED}
//	GRACE_EXPIRED → FORCE_WAIT → {EXITED | FORCE_EXPIRED}
func terminate(o ops, pid int, graceful bool, timeout time.Duration, sleep func(time.Duration)) Result {
	if !o.alive(pid) {
		return Terminated
	}
	if graceful {
		if err := o.signalGraceful(pid); err != nil {
			if isPermission(err) {
				return PermissionDenied
			}
			// Signal delivery failed for another reason (usually the
			// process exited between probe and signal). Re-probe decides.
			if !o.alive(pid) {
				return Terminated
			}
		}
		if pollGone(o, pid, timeout, sleep) {
			return Terminated
		}
	}
	if err := o.signalForce(pid); err != nil {
		if isPermission(err) {
			return PermissionDenied
		}
		if !o.alive(pid) {
			return Terminated
		}
	}
	if pollGone(o, pid, forceWait, sleep) {
		return Terminated
	}
	return TimedOut
}

// pollGone polls alive at PollInterval for up to limit, returning true
// once the process is gone. The wait is expressed as a step count so a
// fake sleep drives the loop deterministically in tests.
func pollGone(o ops, pid int, limit time.Duration, sleep func(time.Duration)) bool {
	steps := int(limit / PollInterval)
	for i := 0; ; i++ {
		if !o.alive(pid) {
			return true
		}
		if i >= steps {
			return false
		}
		sleep(PollInterval)
	}
}
