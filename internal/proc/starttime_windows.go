//go:build windows

package proc

import (
	"syscall"
	"unsafe"
)

var procGetProcessTimes = kernel32.NewProc("GetProcessTimes")

// StartTimeUnix returns the process creation time in Unix seconds, or 0
// when it cannot be determined.
func StartTimeUnix(pid int) int64 {
	if pid <= 0 {
		return 0
	}
	h, err := openProcess(processQueryInformation, uint32(pid))
	if err != nil {
		return 0
	}
	defer func() { _ = closeHandle(h) }()

	var creation, exit, kernel, user syscall.Filetime
	ret, _, _ := procGetProcessTimes.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&creation)),
		uintptr(unsafe.Pointer(&exit)),
		uintptr(unsafe.Pointer(&kernel)),
		uintptr(unsafe.Pointer(&user)),
	)
	if ret == 0 {
		return 0
	}
	// FILETIME counts 100ns ticks since 1601-01-01 UTC.
	const ticksPerSecond = 10000000
	const epochDiff = 11644473600
	ft := (uint64(creation.HighDateTime) << 32) | uint64(creation.LowDateTime)
	return int64(ft/ticksPerSecond) - epochDiff
}
