package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/habitflash/habitflash/cmd/common"
	hfcommon "github.com/habitflash/habitflash/common"
	"github.com/habitflash/habitflash/internal/group"
	"github.com/habitflash/habitflash/internal/schedule"
	"github.com/habitflash/habitflash/internal/scheduler"
	"github.com/habitflash/habitflash/pkg/flashcli"
	"github.com/urfave/cli"
)

var groupFlags = []cli.Flag{
	cli.StringSliceFlag{
		Name:  "reminder, r",
		Usage: "reminder text, repeat for several (replaces the group's list)",
	},
	cli.StringFlag{
		Name:  "interval, i",
		Usage: "base time between reminders, e.g. 10m, 90s, 2h",
	},
	cli.StringFlag{
		Name:  "jitter, j",
		Usage: "random spread around the interval, e.g. 5m",
	},
	cli.BoolFlag{
		Name:  "always, a",
		Usage: "ignore the weekly schedule",
	},
	cli.BoolFlag{
		Name:  "scheduled",
		Usage: "follow the weekly schedule",
	},
	cli.StringSliceFlag{
		Name:  "day, d",
		Usage: "day rule as name=all, name=off or name=HH:MM-HH:MM",
	},
}

var errNoGroupID = errors.New("missing group id")

func groupList(ctx *cli.Context) error {
	return withClient(ctx, "group", "list", func(c context.Context, client *flashcli.Client) error {
		groups, err := client.ListGroups(c)
		if err != nil {
			return err
		}
		pending, err := client.Pending(c)
		if err != nil {
			return err
		}
		fmt.Print(formatGroups(groups.Groups, pending, time.Now()))
		return nil
	})
}

func groupAdd(ctx *cli.Context) error {
	spec, err := groupSpecFromFlags(ctx)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	return withClient(ctx, "group", "add", func(c context.Context, client *flashcli.Client) error {
		g, err := client.AddGroup(c, spec)
		if err != nil {
			return err
		}
		fmt.Printf("Added group %s with %d reminder(s), every %s.\n", g.ID, len(g.Reminders), g.Interval)
		return nil
	})
}

func groupUpdate(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoGroupID)
	}
	spec, err := groupSpecFromFlags(ctx)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	return withClient(ctx, "group", "update", func(c context.Context, client *flashcli.Client) error {
		id, err := resolveGroupID(c, client, arg)
		if err != nil {
			return err
		}
		g, err := client.UpdateGroup(c, id, spec)
		if err != nil {
			return err
		}
		fmt.Printf("Updated group %s.\n", g.ID)
		return nil
	})
}

func groupRemove(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoGroupID)
	}
	return withClient(ctx, "group", "remove", func(c context.Context, client *flashcli.Client) error {
		id, err := resolveGroupID(c, client, arg)
		if err != nil {
			return err
		}
		if err := client.RemoveGroup(c, id); err != nil {
			return err
		}
		fmt.Printf("Removed group %s.\n", id)
		return nil
	})
}

func groupPreview(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoGroupID)
	}
	return withClient(ctx, "group", "preview", func(c context.Context, client *flashcli.Client) error {
		id, err := resolveGroupID(c, client, arg)
		if err != nil {
			return err
		}
		req, err := client.PreviewGroup(c, id)
		if err != nil {
			return err
		}
		fmt.Printf("Flashed: %s\n", req.Text)
		return nil
	})
}

// resolveGroupID expands a unique id prefix, as printed by group list.
func resolveGroupID(ctx context.Context, client *flashcli.Client, arg string) (string, error) {
	res, err := client.ListGroups(ctx)
	if err != nil {
		return "", err
	}
	var match string
	for _, g := range res.Groups {
		if g.ID == arg {
			return g.ID, nil
		}
		if strings.HasPrefix(g.ID, arg) {
			if match != "" {
				return "", fmt.Errorf("group id %q is ambiguous", arg)
			}
			match = g.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no group matches %q", arg)
	}
	return match, nil
}

// groupSpecFromFlags collects only the flags that were given.
func groupSpecFromFlags(ctx *cli.Context) (hfcommon.GroupSpec, error) {
	var spec hfcommon.GroupSpec
	if r := ctx.StringSlice("reminder"); len(r) > 0 {
		spec.Reminders = r
	}
	for _, f := range []struct {
		name string
		dst  **group.Span
	}{{"interval", &spec.Interval}, {"jitter", &spec.Jitter}} {
		v := ctx.String(f.name)
		if v == "" {
			continue
		}
		sp, err := group.ParseSpan(v)
		if err != nil {
			return spec, fmt.Errorf("--%s: %w", f.name, err)
		}
		*f.dst = &sp
	}
	switch {
	case ctx.Bool("always") && ctx.Bool("scheduled"):
		return spec, errors.New("--always and --scheduled are mutually exclusive")
	case ctx.Bool("always"):
		v := true
		spec.Always = &v
	case ctx.Bool("scheduled"):
		v := false
		spec.Always = &v
	}
	if days := ctx.StringSlice("day"); len(days) > 0 {
		spec.Days = make(map[string]schedule.DaySchedule, len(days))
		for _, d := range days {
			name, rule, err := parseDay(d)
			if err != nil {
				return spec, err
			}
			spec.Days[name] = rule
		}
	}
	return spec, nil
}

// parseDay reads "mon=all", "sat=off", "fri=09:00-17:00" or an open-ended
// "tue=13:00-".
func parseDay(s string) (string, schedule.DaySchedule, error) {
	name, rule, ok := strings.Cut(s, "=")
	if !ok {
		return "", schedule.DaySchedule{}, fmt.Errorf("invalid day rule %q: want name=rule", s)
	}
	if _, err := schedule.ParseWeekday(name); err != nil {
		return "", schedule.DaySchedule{}, err
	}
	name = strings.ToLower(strings.TrimSpace(name))
	switch rule = strings.ToLower(strings.TrimSpace(rule)); rule {
	case "all", "on":
		return name, schedule.AllDay(), nil
	case "off":
		return name, schedule.DaySchedule{Enabled: false, Mode: schedule.ModeAllDay}, nil
	}
	from, to, ok := strings.Cut(rule, "-")
	if !ok {
		return "", schedule.DaySchedule{}, fmt.Errorf("invalid day rule %q: want all, off or HH:MM-HH:MM", s)
	}
	d := schedule.DaySchedule{Enabled: true, Mode: schedule.ModeWindow}
	for _, p := range []struct {
		text string
		dst  **schedule.TimeOfDay
	}{{from, &d.Start}, {to, &d.End}} {
		if p.text == "" {
			continue
		}
		t, err := schedule.ParseTimeOfDay(p.text)
		if err != nil {
			return "", schedule.DaySchedule{}, err
		}
		*p.dst = &t
	}
	return name, d, nil
}

func formatGroups(groups []group.ReminderGroup, pending *hfcommon.PendingResult, now time.Time) string {
	if len(groups) == 0 {
		return "habitflash: no reminder groups, add one with \"habitflash group add\"\n"
	}
	next := make(map[string]scheduler.Pending, len(pending.Pending))
	for _, p := range pending.Pending {
		next[p.GroupID] = p
	}
	txt := "Here are your reminder groups:"
	txt += "\n\n----------------------------------------------------------------------------"
	txt += "\n|    ID    | Every  | Jitter |  Mode  |  Next   |        Reminders         |"
	txt += "\n|----------|--------|--------|--------|---------|--------------------------|"
	for _, g := range groups {
		mode := "sched"
		if g.Always {
			mode = "always"
		}
		txt += fmt.Sprintf("\n| %s | %s | %s | %s | %s | %s |",
			common.Beaut(shortID(g.ID), 8),
			common.Beaut(compactSpan(g.Interval), 6),
			common.Beaut(compactSpan(g.Jitter), 6),
			common.Beaut(mode, 6),
			common.Beaut(nextFire(next, g.ID, pending.Asleep, now), 7),
			common.Beaut(strings.Join(g.Reminders, ", "), 24),
		)
	}
	txt += "\n----------------------------------------------------------------------------\n"
	return txt
}

func nextFire(next map[string]scheduler.Pending, id string, asleep bool, now time.Time) string {
	if asleep {
		return "asleep"
	}
	p, ok := next[id]
	switch {
	case !ok:
		return "-"
	case p.Deferred:
		return "wait"
	}
	d := max(p.FireAt.Sub(now), 0)
	if d >= time.Hour {
		return strings.TrimSuffix(d.Round(time.Minute).String(), "0s")
	}
	return d.Round(time.Second).String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func compactSpan(s group.Span) string {
	suffix := map[group.Unit]string{
		group.Seconds: "s",
		group.Minutes: "m",
		group.Hours:   "h",
		group.Days:    "d",
	}[s.Unit]
	return fmt.Sprintf("%d%s", s.Count, suffix)
}
