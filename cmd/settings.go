package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/habitflash/habitflash/cmd/common"
	"github.com/habitflash/habitflash/internal/settings"
	"github.com/habitflash/habitflash/pkg/flashcli"
	"github.com/urfave/cli"
)

func settingsGet(ctx *cli.Context) error {
	name := ctx.Args().First()
	return withClient(ctx, "settings", "get", func(c context.Context, client *flashcli.Client) error {
		s, err := client.GetSettings(c)
		if err != nil {
			return err
		}
		out, err := formatSettings(*s, name)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	})
}

func settingsSet(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 2 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("want <name> <value>"))
	}
	name, value := args.Get(0), args.Get(1)
	return withClient(ctx, "settings", "set", func(c context.Context, client *flashcli.Client) error {
		s, err := client.SetSetting(c, name, value)
		if err != nil {
			return err
		}
		out, err := formatSettings(*s, name)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	})
}

func settingsReset(ctx *cli.Context) error {
	return withClient(ctx, "settings", "reset", func(c context.Context, client *flashcli.Client) error {
		if _, err := client.ResetSettings(c); err != nil {
			return err
		}
		fmt.Println("Settings restored to defaults.")
		return nil
	})
}

// formatSettings prints one "name value" line per setting in name order.
// A non-empty only selects a single setting, case-insensitively.
func formatSettings(s settings.Settings, only string) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", err
	}
	names := make([]string, 0, len(m))
	width := 0
	for k := range m {
		if only != "" && !strings.EqualFold(k, only) {
			continue
		}
		names = append(names, k)
		width = max(width, len(k))
	}
	if len(names) == 0 {
		return "", fmt.Errorf("unknown setting %q", only)
	}
	slices.Sort(names)
	var b strings.Builder
	for _, k := range names {
		fmt.Fprintf(&b, "%-*s  %s\n", width, k, m[k])
	}
	return b.String(), nil
}
