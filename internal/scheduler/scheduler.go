package scheduler

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/habitflash/habitflash/internal/clock"
	"github.com/habitflash/habitflash/internal/eventloop"
	"github.com/habitflash/habitflash/internal/schedule"
	"github.com/habitflash/habitflash/pkg/logger"
)

// Coordinator owns the per-group timers.
type Coordinator struct {
	clk    clock.Clock
	exec   eventloop.Executor
	groups Groups
	log    logger.Logger
	rng    *rand.Rand

	entries map[string]*entry
	gen     uint64
	asleep  bool

	subs   map[int]func(FireEvent)
	subSeq int
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRand fixes the random source used for delay draws.
func WithRand(r *rand.Rand) Option {
	return func(c *Coordinator) { c.rng = r }
}

// New creates a Coordinator. Nothing is armed until Start or StartAll.
func New(clk clock.Clock, exec eventloop.Executor, groups Groups, l logger.Logger, opts ...Option) *Coordinator {
	if l == nil {
		l = logger.NewNopLogger()
	}
	c := &Coordinator{
		clk:     clk,
		exec:    exec,
		groups:  groups,
		log:     l,
		entries: make(map[string]*entry),
		subs:    make(map[int]func(FireEvent)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Subscribe registers fn for fire events and returns a function that
// removes it.
func (c *Coordinator) Subscribe(fn func(FireEvent)) (unsubscribe func()) {
	c.subSeq++
	id := c.subSeq
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

// Start cancels any timer for the group and arms a fresh one from a new
// delay draw. Unknown groups and calls while asleep are ignored.
func (c *Coordinator) Start(id string) {
	c.cancel(id)
	if c.asleep {
		return
	}
	g, err := c.groups.Get(id)
	if err != nil {
		return
	}
	lo, hi := g.Bounds()
	c.arm(id, DrawDelay(c.rng, lo, hi), false)
}

// Stop cancels the group's timer.
func (c *Coordinator) Stop(id string) {
	c.cancel(id)
}

// Reconfigure restarts the group's timer with its current configuration.
func (c *Coordinator) Reconfigure(id string) {
	c.Start(id)
}

// StartAll starts every group in the store.
func (c *Coordinator) StartAll() {
	for _, id := range c.groups.IDs() {
		c.Start(id)
	}
}

// StopAll cancels every timer.
func (c *Coordinator) StopAll() {
	for id := range c.entries {
		c.cancel(id)
	}
}

// OnSystemSleep discards every pending timer. Start is ignored until wake.
func (c *Coordinator) OnSystemSleep() {
	c.log.Info("scheduler: system sleep, stopping %d timers", len(c.entries))
	c.asleep = true
	c.StopAll()
}

// OnSystemWake redraws every group's timer. Fires missed during sleep are
// not replayed.
func (c *Coordinator) OnSystemWake() {
	c.asleep = false
	c.StartAll()
	c.log.Info("scheduler: system wake, armed %d timers", len(c.entries))
}

// Asleep reports whether the coordinator is between sleep and wake.
func (c *Coordinator) Asleep() bool {
	return c.asleep
}

// Pending returns the armed timers ordered by fire time.
func (c *Coordinator) Pending() []Pending {
	out := make([]Pending, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, Pending{GroupID: e.groupID, FireAt: e.fireAt, Deferred: e.deferred})
	}
	slices.SortFunc(out, func(a, b Pending) int {
		if n := a.FireAt.Compare(b.FireAt); n != 0 {
			return n
		}
		return cmp.Compare(a.GroupID, b.GroupID)
	})
	return out
}

func (c *Coordinator) arm(id string, d time.Duration, deferred bool) {
	c.gen++
	gen := c.gen
	e := &entry{
		groupID:  id,
		gen:      gen,
		fireAt:   c.clk.Now().Add(d),
		deferred: deferred,
	}
	c.entries[id] = e
	e.timer = c.clk.AfterFunc(d, func() {
		c.exec.Post(func() { c.expire(id, gen) })
	})
}

func (c *Coordinator) cancel(id string) {
	e, ok := c.entries[id]
	if !ok {
		return
	}
	e.timer.Stop()
	delete(c.entries, id)
}

func (c *Coordinator) expire(id string, gen uint64) {
	e, ok := c.entries[id]
	if !ok || e.gen != gen {
		staleExpiriesTotal.Inc()
		return
	}
	delete(c.entries, id)

	g, err := c.groups.Get(id)
	if err != nil {
		return
	}
	now := c.clk.Now()
	if !schedule.IsEligible(g, now) {
		deferralsTotal.Inc()
		d := schedule.NextEligible(g, now).Sub(now)
		if d < time.Second {
			d = time.Second
		}
		c.arm(id, d, true)
		return
	}

	firesTotal.Inc()
	// Re-arm before notifying so a failing subscriber cannot end the cycle.
	c.Start(id)
	ev := FireEvent{GroupID: id, At: now}
	for _, fn := range c.subscribers() {
		fn(ev)
	}
}

func (c *Coordinator) subscribers() []func(FireEvent) {
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(FireEvent), len(ids))
	for i, id := range ids {
		fns[i] = c.subs[id]
	}
	return fns
}
