package cmd

import (
	"context"
	"fmt"

	"github.com/habitflash/habitflash/cmd/common"
	"github.com/habitflash/habitflash/internal/config"
	"github.com/habitflash/habitflash/pkg/flashcli"
	"github.com/urfave/cli"
)

// newClient connects to the daemon, starting it first if needed. Replaced
// in tests.
var newClient = func() (*flashcli.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	base := fmt.Sprintf("http://127.0.0.1:%d", cfg.Port)
	if err := flashcli.EnsureDaemon(context.Background(), base); err != nil {
		return nil, err
	}
	token, err := flashcli.ResolveToken(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return flashcli.NewClient(base, token), nil
}

// withClient runs fn against the daemon. Errors are printed, not returned,
// so that urfave/cli does not print them a second time.
func withClient(ctx *cli.Context, cmd, action string, fn func(context.Context, *flashcli.Client) error) error {
	client, err := newClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, cmd, "new_client", err)
		return nil
	}
	defer client.Close()
	if err := fn(context.Background(), client); err != nil {
		common.PrintRuntimeErr(ctx, cmd, action, err)
	}
	return nil
}
