//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills a process and all its children using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func KillProcessGroup(pid int) {
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}

// Configure makes cancelling cmd's context kill its whole process tree.
func Configure(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}
}
