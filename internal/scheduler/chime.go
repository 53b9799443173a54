package scheduler

import (
	"time"

	"github.com/habitflash/habitflash/internal/clock"
	"github.com/habitflash/habitflash/internal/eventloop"
	"github.com/habitflash/habitflash/internal/schedule"
	"github.com/habitflash/habitflash/pkg/logger"
)

// DefaultChimeSchedule fires on the hour.
const DefaultChimeSchedule = "0 * * * *"

// ChimeFormat renders the time announced by the chime.
const ChimeFormat = "3:04 PM"

// Chime announces the current time on every tick of a cron expression.
// Like Coordinator, it must only be used from the event loop.
type Chime struct {
	clk     clock.Clock
	exec    eventloop.Executor
	log     logger.Logger
	deliver func(text string)

	expr    string
	enabled bool
	asleep  bool
	gen     uint64
	timer   clock.Timer
	next    time.Time
}

// NewChime creates a disabled chime that hands its text to deliver.
func NewChime(clk clock.Clock, exec eventloop.Executor, l logger.Logger, deliver func(string)) *Chime {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Chime{clk: clk, exec: exec, log: l, deliver: deliver, expr: DefaultChimeSchedule}
}

// Configure enables or disables the chime and sets its schedule. An empty
// expr keeps the current schedule.
func (c *Chime) Configure(enabled bool, expr string) error {
	if expr != "" {
		if err := schedule.ValidateCron(expr); err != nil {
			return err
		}
		c.expr = expr
	}
	c.enabled = enabled
	c.rearm()
	return nil
}

// Enabled reports whether the chime is switched on.
func (c *Chime) Enabled() bool {
	return c.enabled
}

// Next returns the next announcement time, if one is armed.
func (c *Chime) Next() (time.Time, bool) {
	return c.next, c.timer != nil
}

// OnSystemSleep stops the chime until wake.
func (c *Chime) OnSystemSleep() {
	c.asleep = true
	c.rearm()
}

// OnSystemWake re-arms the chime if it is enabled.
func (c *Chime) OnSystemWake() {
	c.asleep = false
	c.rearm()
}

// Stop disarms the chime without changing its configuration.
func (c *Chime) Stop() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.next = time.Time{}
}

func (c *Chime) rearm() {
	c.Stop()
	if !c.enabled || c.asleep {
		return
	}
	now := c.clk.Now()
	next, err := schedule.NextCron(c.expr, now)
	if err != nil {
		c.log.Error("chime: next tick of %q: %v", c.expr, err)
		return
	}
	gen := c.gen
	c.next = next
	c.timer = c.clk.AfterFunc(next.Sub(now), func() {
		c.exec.Post(func() { c.tick(gen) })
	})
}

func (c *Chime) tick(gen uint64) {
	if gen != c.gen {
		return
	}
	at := c.next
	c.timer = nil
	c.rearm()
	c.deliver(at.Format(ChimeFormat))
}
