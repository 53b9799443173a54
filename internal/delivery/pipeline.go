// Package delivery shows reminders: it resolves the text, drives the
// overlay's fade and hide sequence, and fires the sound and desktop
// notification side effects.
//
// A Pipeline is confined to the event loop. Sound and notification calls run
// in their own goroutines and are never awaited.
package delivery

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/habitflash/habitflash/internal/clock"
	"github.com/habitflash/habitflash/internal/eventloop"
	"github.com/habitflash/habitflash/internal/notify"
	"github.com/habitflash/habitflash/pkg/logger"
)

const (
	// FadeDuration is the length of the fade-in and fade-out transitions.
	FadeDuration = 500 * time.Millisecond
	// NotifyDelay lets the sound start before the notification appears.
	NotifyDelay = 100 * time.Millisecond

	sinkTimeout = 30 * time.Second
)

// Pipeline delivers requests to the overlay and the OS sinks.
type Pipeline struct {
	clk      clock.Clock
	exec     eventloop.Executor
	groups   Groups
	config   func() Config
	log      logger.Logger
	notifier notify.Notifier
	player   Player
	rng      *rand.Rand

	state   FlashState
	gen     uint64
	pending []clock.Timer

	flashObs   observers[FlashState]
	requestObs observers[Request]
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithNotifier sets the desktop notification sink.
func WithNotifier(n notify.Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

// WithPlayer sets the sound sink.
func WithPlayer(pl Player) Option {
	return func(p *Pipeline) { p.player = pl }
}

// WithRand fixes the random source used to pick reminders.
func WithRand(r *rand.Rand) Option {
	return func(p *Pipeline) { p.rng = r }
}

// New creates a Pipeline. config is read once per delivery.
func New(clk clock.Clock, exec eventloop.Executor, groups Groups, config func() Config, l logger.Logger, opts ...Option) *Pipeline {
	if l == nil {
		l = logger.NewNopLogger()
	}
	p := &Pipeline{
		clk:    clk,
		exec:   exec,
		groups: groups,
		config: config,
		log:    l,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// OnFlash registers fn for every overlay state change.
func (p *Pipeline) OnFlash(fn func(FlashState)) (unsubscribe func()) {
	return p.flashObs.add(fn)
}

// OnRequest registers fn for every resolved request.
func (p *Pipeline) OnRequest(fn func(Request)) (unsubscribe func()) {
	return p.requestObs.add(fn)
}

// State returns the current overlay state.
func (p *Pipeline) State() FlashState {
	return p.state
}

// Deliver resolves req and hands it to every enabled sink. It returns the
// request with its final text.
func (p *Pipeline) Deliver(req Request) Request {
	req.Text = ResolveText(p.groups, req, p.rng)
	if req.Source == "" {
		req.Source = SourceMessage
		if req.GroupID != "" {
			req.Source = SourceGroup
		}
	}
	if req.At.IsZero() {
		req.At = p.clk.Now()
	}
	requestsTotal.WithLabelValues(req.Source).Inc()
	p.requestObs.emit(req)

	cfg := p.config()
	if cfg.FullScreen {
		p.flash(req.Text, cfg)
	} else {
		p.Hide()
	}
	if cfg.PlaySound && p.player != nil {
		p.playSound(cfg.Sound, cfg.Volume)
	}
	if cfg.SystemNotifications && p.notifier != nil {
		p.submit(req.Text)
	}
	return req
}

// Hide cancels any pending hide action and clears the overlay at once.
func (p *Pipeline) Hide() {
	p.cancelHide()
	if p.state.Text != "" || p.state.Opacity != 0 {
		p.set("", 0, 0)
	}
}

func (p *Pipeline) flash(text string, cfg Config) {
	p.cancelHide()
	gen := p.gen
	hold := Duration(text, cfg.DisplayDuration)
	if cfg.Fade {
		p.set(text, 1, FadeDuration)
		p.after(gen, hold, func() {
			p.set(text, 0, FadeDuration)
			p.after(gen, FadeDuration, func() { p.set("", 0, 0) })
		})
		return
	}
	p.set(text, 1, 0)
	p.after(gen, hold, func() { p.set("", 0, 0) })
}

func (p *Pipeline) set(text string, opacity float64, transition time.Duration) {
	p.state = FlashState{
		Text:       text,
		Opacity:    opacity,
		Transition: transition,
		Seq:        p.state.Seq + 1,
	}
	p.flashObs.emit(p.state)
}

// after runs fn on the loop once d has elapsed, unless the hide sequence
// that scheduled it has been cancelled.
func (p *Pipeline) after(gen uint64, d time.Duration, fn func()) {
	t := p.clk.AfterFunc(d, func() {
		p.exec.Post(func() {
			if gen != p.gen {
				return
			}
			fn()
		})
	})
	p.pending = append(p.pending, t)
}

func (p *Pipeline) cancelHide() {
	p.gen++
	for _, t := range p.pending {
		t.Stop()
	}
	p.pending = p.pending[:0]
}

func (p *Pipeline) playSound(name string, volume float64) {
	eventloop.Go(p.log, "sound", func() {
		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		defer cancel()
		if err := p.player.Play(ctx, name, volume); err != nil {
			sinkFailuresTotal.WithLabelValues("sound").Inc()
			p.log.Warning("delivery: play sound %q: %v", name, err)
		}
	})
}

func (p *Pipeline) submit(text string) {
	n := notify.Notification{Title: notify.AppName, Body: text}
	p.clk.AfterFunc(NotifyDelay, func() {
		eventloop.Go(p.log, "notify", func() {
			ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
			defer cancel()
			if err := p.notifier.Submit(ctx, n); err != nil {
				sinkFailuresTotal.WithLabelValues("notification").Inc()
				p.log.Warning("delivery: submit notification: %v", err)
			}
		})
	})
}
