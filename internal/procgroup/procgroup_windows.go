// SPDX-License-Identifier: MIT

//go:build windows

package procgroup

import (
	"os/exec"
	"syscall"
)

// Set is a no-op on Windows; process groups are not used here.
func Set(cmd *exec.Cmd) {}

// Signal maps SIGKILL to Process.Kill. SIGTERM is a no-op since Windows
// has no reliable graceful termination via signals; the caller's grace
// timeout escalates to SIGKILL.
func Signal(cmd *exec.Cmd, sig syscall.Signal) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if sig == syscall.SIGKILL {
		return cmd.Process.Kill()
	}
	return nil
}
