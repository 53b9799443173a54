package cmd

import (
	"fmt"
	"runtime"

	"github.com/habitflash/habitflash/cmd/common"
	"github.com/urfave/cli"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

// currentBuildArgs is reported by the daemon's system.getVersion.
var currentBuildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	app := cli.App{
		Name:                  "habitflash",
		HelpName:              "habitflash",
		Usage:                 "Flash reminders on your screen at random intervals.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "habitflash <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:               "daemon",
				Usage:              "runs the reminder engine in the foreground",
				Description:        DaemonDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             daemon,
			},
			{
				Name:   "stop-daemon",
				Usage:  "stops the running daemon",
				Action: stopDaemon,
			},
			{
				Name:    "group",
				Aliases: []string{"g"},
				Usage:   "manages reminder groups",
				Subcommands: []cli.Command{
					{
						Name:         "list",
						Aliases:      []string{"ls"},
						Usage:        "lists reminder groups and their next fire time",
						OnUsageError: common.UsageErrorCallback,
						Action:       groupList,
					},
					{
						Name:                   "add",
						Usage:                  "creates a reminder group",
						Description:            GroupAddDescription,
						CustomHelpTemplate:     CMD_HELP_TEMPL,
						OnUsageError:           common.UsageErrorCallback,
						UseShortOptionHandling: true,
						Flags:                  groupFlags,
						Action:                 groupAdd,
					},
					{
						Name:                   "update",
						Usage:                  "changes a reminder group",
						ArgsUsage:              "<group id>",
						Description:            GroupUpdateDescription,
						CustomHelpTemplate:     CMD_HELP_TEMPL,
						OnUsageError:           common.UsageErrorCallback,
						UseShortOptionHandling: true,
						Flags:                  groupFlags,
						Action:                 groupUpdate,
					},
					{
						Name:         "remove",
						Aliases:      []string{"rm"},
						Usage:        "deletes a reminder group",
						ArgsUsage:    "<group id>",
						OnUsageError: common.UsageErrorCallback,
						Action:       groupRemove,
					},
					{
						Name:         "preview",
						Usage:        "flashes one reminder from a group now",
						ArgsUsage:    "<group id>",
						OnUsageError: common.UsageErrorCallback,
						Action:       groupPreview,
					},
				},
			},
			{
				Name:    "pomodoro",
				Aliases: []string{"p"},
				Usage:   "controls the focus countdown",
				Subcommands: []cli.Command{
					{
						Name:   "start",
						Usage:  "starts or resumes the countdown",
						Action: pomodoroAction("start"),
					},
					{
						Name:   "pause",
						Usage:  "pauses the countdown",
						Action: pomodoroAction("pause"),
					},
					{
						Name:   "stop",
						Usage:  "stops the countdown",
						Action: pomodoroAction("stop"),
					},
					{
						Name:   "status",
						Usage:  "prints the countdown state",
						Action: pomodoroAction("status"),
					},
					{
						Name:               "watch",
						Usage:              "draws the countdown until it ends",
						Description:        PomodoroWatchDescription,
						CustomHelpTemplate: CMD_HELP_TEMPL,
						Action:             pomodoroWatch,
					},
				},
			},
			{
				Name:    "settings",
				Aliases: []string{"s"},
				Usage:   "reads and changes settings",
				Subcommands: []cli.Command{
					{
						Name:   "get",
						Usage:  "prints every setting, or the named one",
						Action: settingsGet,
					},
					{
						Name:               "set",
						Usage:              "changes one setting",
						ArgsUsage:          "<name> <value>",
						Description:        SettingsSetDescription,
						CustomHelpTemplate: CMD_HELP_TEMPL,
						OnUsageError:       common.UsageErrorCallback,
						Action:             settingsSet,
					},
					{
						Name:   "reset",
						Usage:  "restores the default settings",
						Action: settingsReset,
					},
				},
			},
			{
				Name:      "flash",
				Aliases:   []string{"f"},
				Usage:     "flashes a message now",
				ArgsUsage: "<text>",
				Action:    flash,
			},
			{
				Name:               "overlay",
				Usage:              "renders flashes and the countdown in this terminal",
				Description:        OverlayDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             overlay,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of habitflash",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      common.Help,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
