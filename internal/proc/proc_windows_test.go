//go:build windows

package proc

import "syscall"

// permissionErr feeds the fake table the same error the real one sees.
func permissionErr() error { return syscall.ERROR_ACCESS_DENIED }
