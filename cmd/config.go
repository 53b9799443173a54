package cmd

const DESCRIPTION = `
HabitFlash flashes short reminder messages on your screen at randomized
intervals, gated by a weekly schedule. A background daemon owns the
timers; every other command talks to it over JSON-RPC and starts it
when it is not running.
`

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`

const (
	DaemonDescription = `The daemon command runs the reminder engine in the
foreground. Other commands start it automatically.

Example:
        habitflash daemon

`
	GroupAddDescription = `The group add command creates a reminder group. Every
--reminder flag adds one message. Days are given as
name=all, name=off or name=HH:MM-HH:MM.

Example:
        habitflash group add -r "Drink water" -r "Stretch" \
                --interval 20m --jitter 5m --day sat=off --day sun=off

`
	GroupUpdateDescription = `The group update command changes the flags you pass
and leaves everything else as it is.

Example:
        habitflash group update <group id> --interval 45m

`
	PomodoroWatchDescription = `The pomodoro watch command draws the running focus
countdown until it completes or you press Ctrl+C.

Example:
        habitflash pomodoro watch

`
	SettingsSetDescription = `The settings set command changes one setting. Names
are matched case-insensitively; out-of-range numbers
are clamped.

Example:
        habitflash settings set volume 0.4
        habitflash settings set fontColor FFCC00

`
	OverlayDescription = `The overlay command renders flashed messages and the
focus countdown in the terminal, using your font color
setting.

Example:
        habitflash overlay

`
)
