package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/habitflash/habitflash/common"
	"github.com/habitflash/habitflash/internal/delivery"
	"github.com/habitflash/habitflash/internal/group"
	"github.com/habitflash/habitflash/internal/schedule"
)

// Groups lists every reminder group.
func (a *Api) Groups(ctx context.Context) ([]group.ReminderGroup, error) {
	var out []group.ReminderGroup
	err := a.exec.Do(ctx, func() error {
		out = a.store.All()
		return nil
	})
	return out, err
}

// Group returns one reminder group.
func (a *Api) Group(ctx context.Context, id string) (group.ReminderGroup, error) {
	var out group.ReminderGroup
	err := a.exec.Do(ctx, func() (err error) {
		out, err = a.store.Get(id)
		return err
	})
	return out, err
}

// AddGroup creates a group from the defaults overlaid with spec and starts
// its timer.
func (a *Api) AddGroup(ctx context.Context, spec common.GroupSpec) (group.ReminderGroup, error) {
	apply, err := compile(spec)
	if err != nil {
		return group.ReminderGroup{}, err
	}
	var out group.ReminderGroup
	err = a.exec.Do(ctx, func() (err error) {
		g := group.New()
		apply(&g)
		out, err = a.store.Add(g)
		return err
	})
	return out, err
}

// UpdateGroup changes the fields set in spec and restarts the group's timer.
func (a *Api) UpdateGroup(ctx context.Context, id string, spec common.GroupSpec) (group.ReminderGroup, error) {
	apply, err := compile(spec)
	if err != nil {
		return group.ReminderGroup{}, err
	}
	var out group.ReminderGroup
	err = a.exec.Do(ctx, func() (err error) {
		out, err = a.store.Update(id, apply)
		return err
	})
	return out, err
}

// RemoveGroup deletes a group and cancels its timer.
func (a *Api) RemoveGroup(ctx context.Context, id string) error {
	return a.exec.Do(ctx, func() error {
		return a.store.Remove(id)
	})
}

// PreviewGroup shows one reminder from the group now. The group's timer is
// left alone.
func (a *Api) PreviewGroup(ctx context.Context, id string) (delivery.Request, error) {
	var out delivery.Request
	err := a.exec.Do(ctx, func() error {
		if _, err := a.store.Get(id); err != nil {
			return err
		}
		out = a.pipe.Deliver(delivery.Request{GroupID: id, Source: delivery.SourcePreview})
		return nil
	})
	return out, err
}

// Pending reports every armed group timer.
func (a *Api) Pending(ctx context.Context) (common.PendingResult, error) {
	var out common.PendingResult
	err := a.exec.Do(ctx, func() error {
		out.Asleep = a.coord.Asleep()
		out.Pending = a.coord.Pending()
		return nil
	})
	return out, err
}

// compile validates spec off the loop and returns the mutation to apply.
func compile(spec common.GroupSpec) (func(*group.ReminderGroup), error) {
	days := make(map[time.Weekday]schedule.DaySchedule, len(spec.Days))
	for name, d := range spec.Days {
		wd, err := schedule.ParseWeekday(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		days[wd] = d
	}
	for _, s := range []*group.Span{spec.Interval, spec.Jitter} {
		if s != nil && s.Count < 0 {
			return nil, fmt.Errorf("%w: negative span %d", ErrInvalidParams, s.Count)
		}
	}
	var reminders []string
	if spec.Reminders != nil {
		reminders = make([]string, 0, len(spec.Reminders))
		for _, r := range spec.Reminders {
			if r = strings.TrimSpace(r); r != "" {
				reminders = append(reminders, r)
			}
		}
	}
	return func(g *group.ReminderGroup) {
		if reminders != nil {
			g.Reminders = reminders
		}
		if spec.Interval != nil {
			g.Interval = *spec.Interval
		}
		if spec.Jitter != nil {
			g.Jitter = *spec.Jitter
		}
		if spec.Always != nil {
			g.Always = *spec.Always
		}
		for wd, d := range days {
			g.Schedule.Set(wd, d)
		}
	}, nil
}
