package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/habitflash/habitflash/cmd/common"
	"github.com/habitflash/habitflash/internal/config"
	"github.com/urfave/cli"
)

var errDaemonRunning = errors.New("daemon already running")

func daemon(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "config", err)
		return nil
	}
	if pid, err := ReadPidFile(cfg.DataDir); err == nil && pid != os.Getpid() && isProcessRunning(pid) {
		common.PrintRuntimeErr(ctx, "daemon", "pid_file", fmt.Errorf("%w (PID %d)", errDaemonRunning, pid))
		return nil
	}

	comps, err := initDaemonComponents(cfg)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "init", err)
		return nil
	}
	defer comps.Close()

	if err := WritePidFile(cfg.DataDir); err != nil {
		comps.logger.Warning("write PID file: %v", err)
	}
	defer func() {
		if err := RemovePidFile(cfg.DataDir); err != nil {
			comps.logger.Warning("remove PID file: %v", err)
		}
	}()

	sctx, cancel := setupShutdownHandler()
	defer cancel()
	err = comps.Run(sctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
