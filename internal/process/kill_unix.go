//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort; the renderer's npx wrapper may already be gone.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

// Configure starts cmd in its own process group so that cancelling its
// context also stops the node processes npx spawns.
func Configure(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}
}
