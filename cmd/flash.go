package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/habitflash/habitflash/cmd/common"
	"github.com/habitflash/habitflash/pkg/flashcli"
	"github.com/urfave/cli"
)

func flash(ctx *cli.Context) error {
	text := strings.TrimSpace(strings.Join(ctx.Args(), " "))
	if text == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("nothing to flash"))
	}
	return withClient(ctx, "flash", "show", func(c context.Context, client *flashcli.Client) error {
		req, err := client.Flash(c, text)
		if err != nil {
			return err
		}
		fmt.Printf("Flashed: %s\n", req.Text)
		return nil
	})
}
