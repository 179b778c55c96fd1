//go:build windows

package proc

import (
	"errors"
	"syscall"
)

var (
	kernel32                     = syscall.NewLazyDLL("kernel32.dll")
	procOpenProcess              = kernel32.NewProc("OpenProcess")
	procTerminateProcess         = kernel32.NewProc("TerminateProcess")
	procCloseHandle              = kernel32.NewProc("CloseHandle")
	procGenerateConsoleCtrlEvent = kernel32.NewProc("GenerateConsoleCtrlEvent")
)

const (
	processTerminate        = 0x0001
	processQueryInformation = 0x0400
	ctrlBreakEvent          = 1
)

type sys struct{}

// alive queries process existence via OpenProcess. Access denied means
// the process exists but is owned elsewhere, so it counts as alive.
func (sys) alive(pid int) bool {
	h, err := openProcess(processQueryInformation, uint32(pid))
	if err != nil {
		return errors.Is(err, syscall.ERROR_ACCESS_DENIED)
	}
	_ = closeHandle(h)
	return true
}

// signalGraceful sends CTRL_BREAK to the player's process group. The
// supervisor spawns the daemon with CREATE_NEW_PROCESS_GROUP, so the
// group id equals the pid.
func (sys) signalGraceful(pid int) error {
	ret, _, err := procGenerateConsoleCtrlEvent.Call(uintptr(ctrlBreakEvent), uintptr(uint32(pid)))
	if ret == 0 {
		return err
	}
	return nil
}

// signalForce uses TerminateProcess, the closest Windows primitive to an
// unconditional kill. A handle that cannot be opened usually means the
// process is already gone; the caller re-probes to decide.
func (sys) signalForce(pid int) error {
	h, err := openProcess(processTerminate, uint32(pid))
	if err != nil {
		return err
	}
	defer func() { _ = closeHandle(h) }()
	ret, _, callErr := procTerminateProcess.Call(uintptr(h), uintptr(1))
	if ret == 0 {
		return callErr
	}
	return nil
}

func openProcess(access uint32, pid uint32) (syscall.Handle, error) {
	ret, _, err := procOpenProcess.Call(uintptr(access), uintptr(0), uintptr(pid))
	if ret == 0 {
		return 0, err
	}
	return syscall.Handle(ret), nil
}

func closeHandle(h syscall.Handle) error {
	ret, _, err := procCloseHandle.Call(uintptr(h))
	if ret == 0 {
		return err
	}
	return nil
}

func isPermission(err error) bool {
	return errors.Is(err, syscall.ERROR_ACCESS_DENIED)
}
