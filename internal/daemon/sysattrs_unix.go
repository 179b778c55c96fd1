//go:build !windows

package daemon

import (
	"os/exec"
	"syscall"
)

// configureSysAttrs detaches the child from the controlling terminal by
// starting it in a new session, so it survives the CLI's exit and never
// receives the terminal's SIGINT.
func configureSysAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
