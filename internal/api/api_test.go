package api

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/habitflash/habitflash/common"
	"github.com/habitflash/habitflash/internal/clock"
	"github.com/habitflash/habitflash/internal/delivery"
	"github.com/habitflash/habitflash/internal/eventloop"
	"github.com/habitflash/habitflash/internal/group"
	"github.com/habitflash/habitflash/internal/pomodoro"
	"github.com/habitflash/habitflash/internal/schedule"
	"github.com/habitflash/habitflash/internal/settings"
)

type memGroups struct {
	saved []group.ReminderGroup
}

func (m *memGroups) Load() ([]group.ReminderGroup, error) { return m.saved, nil }

func (m *memGroups) Save(g []group.ReminderGroup) error {
	m.saved = g
	return nil
}

type memSettings struct {
	saved *settings.Settings
}

func (m *memSettings) Load() (settings.Settings, error) {
	if m.saved == nil {
		return settings.Defaults(), nil
	}
	return *m.saved, nil
}

func (m *memSettings) Save(s settings.Settings) error {
	m.saved = &s
	return nil
}

type push struct {
	method string
	params any
}

type harness struct {
	api    *Api
	clk    *clock.Fake
	groups *memGroups
	pushes []push
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clk:    clock.NewFake(time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)),
		groups: &memGroups{},
	}
	h.api = NewApi(nil, Options{
		Clock:    h.clk,
		Exec:     eventloop.Inline{},
		Groups:   h.groups,
		Settings: &memSettings{},
		Rand:     rand.New(rand.NewPCG(1, 2)),
		Version:  common.VersionResult{Version: "1.2.3"},
	})
	h.api.Events(func(method string, params any) {
		h.pushes = append(h.pushes, push{method, params})
	})
	if err := h.api.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return h
}

func (h *harness) requests() []delivery.Request {
	var out []delivery.Request
	for _, p := range h.pushes {
		if p.method == common.PushReminderFired {
			out = append(out, p.params.(delivery.Request))
		}
	}
	return out
}

func TestAddGroup_ArmsTimer(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	g, err := h.api.AddGroup(ctx, common.GroupSpec{Reminders: []string{" Blink ", ""}})
	if err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	if g.ID == "" || len(g.Reminders) != 1 || g.Reminders[0] != "Blink" {
		t.Fatalf("unexpected group %+v", g)
	}
	if len(h.groups.saved) != 1 {
		t.Fatalf("saved %d groups, want 1", len(h.groups.saved))
	}

	p, err := h.api.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if p.Asleep || len(p.Pending) != 1 || p.Pending[0].GroupID != g.ID {
		t.Fatalf("pending = %+v", p)
	}
	delay := p.Pending[0].FireAt.Sub(h.clk.Now())
	if delay < 5*time.Minute || delay > 15*time.Minute {
		t.Fatalf("delay %v outside 5m..15m", delay)
	}

	h.clk.Advance(delay)
	reqs := h.requests()
	if len(reqs) != 1 || reqs[0].Text != "Blink" || reqs[0].Source != delivery.SourceGroup {
		t.Fatalf("requests = %+v", reqs)
	}
}

func TestUpdateGroup(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g, _ := h.api.AddGroup(ctx, common.GroupSpec{})

	off := false
	interval := group.Span{Count: 30, Unit: group.Seconds}
	updated, err := h.api.UpdateGroup(ctx, g.ID, common.GroupSpec{
		Interval: &interval,
		Always:   &off,
		Days:     map[string]schedule.DaySchedule{"sun": schedule.Off()},
	})
	if err != nil {
		t.Fatalf("UpdateGroup: %v", err)
	}
	if updated.Interval != interval || updated.Always {
		t.Fatalf("unexpected group %+v", updated)
	}
	if updated.Schedule.Day(time.Sunday).Enabled {
		t.Fatal("sunday should be disabled")
	}
	if !updated.Schedule.Day(time.Monday).Enabled {
		t.Fatal("monday should stay enabled")
	}
	if len(updated.Reminders) != 3 {
		t.Fatalf("reminders changed: %v", updated.Reminders)
	}
}

func TestUpdateGroup_Errors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g, _ := h.api.AddGroup(ctx, common.GroupSpec{})

	_, err := h.api.UpdateGroup(ctx, g.ID, common.GroupSpec{
		Days: map[string]schedule.DaySchedule{"someday": schedule.AllDay()},
	})
	if !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("err = %v, want ErrInvalidParams", err)
	}

	neg := group.Span{Count: -1, Unit: group.Minutes}
	if _, err := h.api.AddGroup(ctx, common.GroupSpec{Jitter: &neg}); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("err = %v, want ErrInvalidParams", err)
	}

	if _, err := h.api.UpdateGroup(ctx, "missing", common.GroupSpec{}); !errors.Is(err, group.ErrGroupNotFound) {
		t.Fatalf("err = %v, want ErrGroupNotFound", err)
	}
}

func TestRemoveGroup(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g, _ := h.api.AddGroup(ctx, common.GroupSpec{})

	if err := h.api.RemoveGroup(ctx, g.ID); err != nil {
		t.Fatalf("RemoveGroup: %v", err)
	}
	if p, _ := h.api.Pending(ctx); len(p.Pending) != 0 {
		t.Fatalf("pending after remove = %+v", p.Pending)
	}
	if err := h.api.RemoveGroup(ctx, g.ID); !errors.Is(err, group.ErrGroupNotFound) {
		t.Fatalf("err = %v, want ErrGroupNotFound", err)
	}
	if groups, _ := h.api.Groups(ctx); len(groups) != 0 {
		t.Fatalf("groups = %v", groups)
	}
}

func TestPreviewGroup_KeepsTimer(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g, _ := h.api.AddGroup(ctx, common.GroupSpec{Reminders: []string{"Breathe"}})
	before, _ := h.api.Pending(ctx)

	req, err := h.api.PreviewGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("PreviewGroup: %v", err)
	}
	if req.Text != "Breathe" || req.Source != delivery.SourcePreview {
		t.Fatalf("preview = %+v", req)
	}
	after, _ := h.api.Pending(ctx)
	if !after.Pending[0].FireAt.Equal(before.Pending[0].FireAt) {
		t.Fatal("preview moved the group's timer")
	}

	if _, err := h.api.PreviewGroup(ctx, "missing"); !errors.Is(err, group.ErrGroupNotFound) {
		t.Fatalf("err = %v, want ErrGroupNotFound", err)
	}
}

func TestSetSetting_AnnouncesAndConfiguresChime(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if !h.api.chime.Enabled() {
		t.Fatal("chime should start enabled")
	}

	s, err := h.api.SetSetting(ctx, "fadeInOut", "true")
	if err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if !s.FadeInOut {
		t.Fatal("fadeInOut not set")
	}
	reqs := h.requests()
	if len(reqs) != 1 || reqs[0].Text != "Fade enabled" {
		t.Fatalf("requests = %+v", reqs)
	}

	if _, err := h.api.SetSetting(ctx, "showHourOnTheHour", "off"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if h.api.chime.Enabled() {
		t.Fatal("chime should be disabled")
	}

	if _, err := h.api.SetSetting(ctx, "bogus", "1"); !errors.Is(err, settings.ErrUnknownSetting) {
		t.Fatalf("err = %v, want ErrUnknownSetting", err)
	}

	d, err := h.api.ResetSettings(ctx)
	if err != nil {
		t.Fatalf("ResetSettings: %v", err)
	}
	if d != settings.Defaults() || !h.api.chime.Enabled() {
		t.Fatalf("reset = %+v, chime enabled %v", d, h.api.chime.Enabled())
	}
}

func TestChime_DeliversTime(t *testing.T) {
	h := newHarness(t)
	h.clk.Advance(time.Hour)
	reqs := h.requests()
	if len(reqs) != 1 || reqs[0].Text != "10:00 AM" || reqs[0].Source != delivery.SourceChime {
		t.Fatalf("requests = %+v", reqs)
	}
}

func TestPomodoro(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	st, err := h.api.PomodoroStart(ctx)
	if err != nil {
		t.Fatalf("PomodoroStart: %v", err)
	}
	if st.Phase != pomodoro.Running || st.Remaining != 25*60 {
		t.Fatalf("state = %+v", st)
	}
	h.clk.Advance(3 * time.Second)
	st, _ = h.api.PomodoroPause(ctx)
	if st.Phase != pomodoro.Paused || st.Remaining != 25*60-3 {
		t.Fatalf("state = %+v", st)
	}
	st, _ = h.api.PomodoroStop(ctx)
	if st.Phase != pomodoro.Stopped {
		t.Fatalf("state = %+v", st)
	}
	st, _ = h.api.PomodoroStatus(ctx)
	if st.Remaining != 0 {
		t.Fatalf("state = %+v", st)
	}

	var updates int
	for _, p := range h.pushes {
		if p.method == common.PushPomodoroUpdate {
			updates++
		}
	}
	if updates == 0 {
		t.Fatal("no pomodoro updates pushed")
	}
}

func TestFlash(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	req, err := h.api.Flash(ctx, "  Hello  ")
	if err != nil {
		t.Fatalf("Flash: %v", err)
	}
	if req.Text != "Hello" || req.Source != delivery.SourceMessage {
		t.Fatalf("request = %+v", req)
	}
	st, _ := h.api.FlashState(ctx)
	if st.Text != "Hello" || st.Opacity != 1 {
		t.Fatalf("state = %+v", st)
	}

	h.clk.Advance(time.Minute)
	st, _ = h.api.FlashState(ctx)
	if st.Text != "" || st.Opacity != 0 {
		t.Fatalf("state after hide = %+v", st)
	}
}

func TestPowerHandler(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, _ = h.api.AddGroup(ctx, common.GroupSpec{})

	ph := h.api.PowerHandler()
	ph.OnSleep()
	p, _ := h.api.Pending(ctx)
	if !p.Asleep || len(p.Pending) != 0 {
		t.Fatalf("pending while asleep = %+v", p)
	}
	h.clk.Advance(2 * time.Hour)
	if reqs := h.requests(); len(reqs) != 0 {
		t.Fatalf("delivered while asleep: %+v", reqs)
	}

	ph.OnWake()
	p, _ = h.api.Pending(ctx)
	if p.Asleep || len(p.Pending) != 1 {
		t.Fatalf("pending after wake = %+v", p)
	}
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	if v := h.api.Version(); v.Version != "1.2.3" {
		t.Fatalf("version = %+v", v)
	}
}
