//go:build !windows

package proc

import (
	"errors"
	"syscall"
)

type sys struct{}

// alive sends the null signal. ESRCH means gone; EPERM means the
// process exists but belongs to someone else, which still counts as
// alive.
func (sys) alive(pid int) bool {
	err := syscall.Kill(pid, 0)
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}

func (sys) signalGraceful(pid int) error {
	return syscall.Kill(pid, syscall.SIGTERM)
}

func (sys) signalForce(pid int) error {
	return syscall.Kill(pid, syscall.SIGKILL)
}

func isPermission(err error) bool {
	return errors.Is(err, syscall.EPERM)
}
