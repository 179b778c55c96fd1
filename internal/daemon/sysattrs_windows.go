//go:build windows

package daemon

import (
	"os/exec"
	"syscall"
)

// Windows creation flags
const (
	createNewProcessGroup = 0x00000200
	detachedProcess       = 0x00000008
)

// configureSysAttrs puts the child in its own process group without a
// console, so it is fully detached from the launching CLI and can be
// targeted by CTRL_BREAK on stop.
func configureSysAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: createNewProcessGroup | detachedProcess,
	}
}
