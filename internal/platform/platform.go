// Package platform decides which OS process model is in effect.
// Every component that needs platform branching takes the predicate as
// input instead of re-deriving it from runtime.GOOS ad hoc, so exactly
// one place in the codebase owns the decision.
package platform

import "runtime"

// Kind is one of the two supported process models.
type Kind int

const (
	// POSIX covers Linux, macOS and the BSDs: signal-based process control.
	POSIX Kind = iota
	// Windows uses handle-based process control (OpenProcess and friends).
	Windows
)

func (k Kind) String() string {
	if k == Windows {
		return "windows"
	}
	return "posix"
}

// Current reports the process model of the running OS. Pure and
// deterministic; safe from any goroutine.
func Current() Kind {
	if runtime.GOOS == "windows" {
		return Windows
	}
	return POSIX
}

// IsWindows is a convenience wrapper over Current.
func IsWindows() bool { return Current() == Windows }
