//go:build windows

package cmd

import (
	"fmt"
	"os"
)

// killDaemon terminates the daemon. Windows cannot deliver an interrupt to
// another console process, so this is not graceful.
func killDaemon(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("process not found: %w", err)
	}
	if err := process.Kill(); err != nil {
		return fmt.Errorf("kill daemon: %w", err)
	}
	waitExit(pid, stopTimeout)
	return nil
}
