package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/habitflash/habitflash/cmd/common"
	"github.com/habitflash/habitflash/internal/config"
	"github.com/urfave/cli"
)

const (
	stopTimeout  = 5 * time.Second
	pollInterval = 100 * time.Millisecond
)

func stopDaemon(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		common.PrintRuntimeErr(ctx, "stop-daemon", "config", err)
		return nil
	}
	pid, err := ReadPidFile(cfg.DataDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("Daemon is not running (PID file not found)")
			return nil
		}
		common.PrintRuntimeErr(ctx, "stop-daemon", "pid_file", err)
		return nil
	}
	if !isProcessRunning(pid) {
		fmt.Printf("Daemon is not running (stale PID %d)\n", pid)
		_ = RemovePidFile(cfg.DataDir)
		return nil
	}

	fmt.Printf("Stopping daemon (PID %d)...\n", pid)
	if err := killDaemon(pid); err != nil {
		common.PrintRuntimeErr(ctx, "stop-daemon", "kill", err)
		return nil
	}
	fmt.Println("Daemon stopped successfully")
	return nil
}

// waitExit polls until pid is gone or timeout elapses.
func waitExit(pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !isProcessRunning(pid) {
			return true
		}
		time.Sleep(pollInterval)
	}
	return !isProcessRunning(pid)
}
