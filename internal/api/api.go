// Package api assembles the reminder engine and exposes it as a set of
// context-aware calls. Every call runs on the event loop, so the store,
// coordinator, pipeline, countdown and chime are never touched from two
// goroutines at once.
package api

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/habitflash/habitflash/common"
	"github.com/habitflash/habitflash/internal/clock"
	"github.com/habitflash/habitflash/internal/delivery"
	"github.com/habitflash/habitflash/internal/eventloop"
	"github.com/habitflash/habitflash/internal/group"
	"github.com/habitflash/habitflash/internal/notify"
	"github.com/habitflash/habitflash/internal/pomodoro"
	"github.com/habitflash/habitflash/internal/power"
	"github.com/habitflash/habitflash/internal/scheduler"
	"github.com/habitflash/habitflash/internal/settings"
	"github.com/habitflash/habitflash/pkg/logger"
)

// ErrInvalidParams is returned for malformed group input.
var ErrInvalidParams = errors.New("invalid params")

// Options holds the engine's dependencies. Clock and Exec are required.
type Options struct {
	Clock    clock.Clock
	Exec     eventloop.Executor
	Groups   group.Persister
	Settings settings.Persister
	Notifier notify.Notifier
	Player   delivery.Player
	Rand     *rand.Rand
	Version  common.VersionResult
}

type Api struct {
	log      logger.Logger
	exec     eventloop.Executor
	version  common.VersionResult
	store    *group.Store
	coord    *scheduler.Coordinator
	pipe     *delivery.Pipeline
	pomo     *pomodoro.Timer
	settings *settings.Manager
	chime    *scheduler.Chime
}

// NewApi builds and wires the engine. Nothing is scheduled until Start.
func NewApi(l logger.Logger, o Options) *Api {
	if l == nil {
		l = logger.NewNopLogger()
	}
	a := &Api{log: l, exec: o.Exec, version: o.Version}
	a.settings = settings.NewManager(o.Settings, l)
	a.store = group.NewStore(o.Groups, l)

	var copts []scheduler.Option
	var dopts []delivery.Option
	if o.Rand != nil {
		copts = append(copts, scheduler.WithRand(o.Rand))
		dopts = append(dopts, delivery.WithRand(o.Rand))
	}
	if o.Notifier != nil {
		dopts = append(dopts, delivery.WithNotifier(o.Notifier))
	}
	if o.Player != nil {
		dopts = append(dopts, delivery.WithPlayer(o.Player))
	}

	a.coord = scheduler.New(o.Clock, o.Exec, a.store, l, copts...)
	a.store.Attach(a.coord)
	a.pipe = delivery.New(o.Clock, o.Exec, a.store, func() delivery.Config {
		return a.settings.Get().Delivery()
	}, l, dopts...)
	a.pomo = pomodoro.New(o.Clock, o.Exec, func() pomodoro.Config {
		return a.settings.Get().Pomodoro()
	}, a.say(delivery.SourcePomodoro), l)
	a.chime = scheduler.NewChime(o.Clock, o.Exec, l, a.say(delivery.SourceChime))

	a.coord.Subscribe(func(ev scheduler.FireEvent) {
		a.pipe.Deliver(delivery.Request{GroupID: ev.GroupID, Source: delivery.SourceGroup, At: ev.At})
	})
	a.settings.OnChange(a.applySettings)
	a.settings.OnAnnounce(a.say(delivery.SourceMessage))
	return a
}

func (a *Api) say(source string) func(string) {
	return func(text string) {
		a.pipe.Deliver(delivery.Request{Text: text, Source: source})
	}
}

func (a *Api) applySettings(s settings.Settings) {
	if err := a.chime.Configure(s.ShowHourOnTheHour, s.ChimeSchedule); err != nil {
		a.log.Warning("api: chime schedule %q rejected: %v", s.ChimeSchedule, err)
	}
}

// Start arms the chime and every group timer.
func (a *Api) Start(ctx context.Context) error {
	return a.exec.Do(ctx, func() error {
		a.applySettings(a.settings.Get())
		a.coord.StartAll()
		a.log.Info("api: started with %d reminder groups", a.store.Len())
		return nil
	})
}

// Close cancels every timer and hides the overlay.
func (a *Api) Close(ctx context.Context) error {
	return a.exec.Do(ctx, func() error {
		a.coord.StopAll()
		a.chime.Stop()
		a.pomo.Stop()
		a.pipe.Hide()
		return nil
	})
}

// Events registers sink for every push the engine produces. It must be
// called before the event loop starts running.
func (a *Api) Events(sink func(method string, params any)) {
	a.pipe.OnRequest(func(r delivery.Request) { sink(common.PushReminderFired, r) })
	a.pipe.OnFlash(func(s delivery.FlashState) { sink(common.PushFlashUpdate, s) })
	a.pomo.OnChange(func(s pomodoro.State) { sink(common.PushPomodoroUpdate, s) })
}

// PowerHandler returns callbacks that post sleep and wake onto the loop.
func (a *Api) PowerHandler() power.Handler {
	return power.Handler{
		OnSleep: func() {
			a.exec.Post(func() {
				a.log.Info("api: system sleeping, timers suspended")
				a.coord.OnSystemSleep()
				a.chime.OnSystemSleep()
			})
		},
		OnWake: func() {
			a.exec.Post(func() {
				a.log.Info("api: system awake, redrawing timers")
				a.coord.OnSystemWake()
				a.chime.OnSystemWake()
			})
		},
	}
}

func (a *Api) Version() common.VersionResult {
	return a.version
}
