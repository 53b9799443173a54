// Package pomodoro implements the single focus countdown. It ticks once a
// second and reports progress as short messages.
package pomodoro

import (
	"fmt"
	"time"

	"github.com/habitflash/habitflash/internal/clock"
	"github.com/habitflash/habitflash/internal/eventloop"
	"github.com/habitflash/habitflash/pkg/logger"
)

// Phase is the countdown's state.
type Phase string

const (
	Stopped Phase = "stopped"
	Running Phase = "running"
	Paused  Phase = "paused"
)

// CompleteMessage is emitted when the countdown reaches zero.
const CompleteMessage = "Complete!"

// State is a snapshot of the countdown.
type State struct {
	Phase     Phase  `json:"phase"`
	Remaining int    `json:"remainingSeconds"`
	Total     int    `json:"totalSeconds"`
	Readable  string `json:"remainingReadable"`
}

// Config is read on Start and on every tick.
type Config struct {
	DurationMinutes  int
	FrequencyMinutes int
}

// Timer is the countdown. It must only be used from the event loop.
type Timer struct {
	clk    clock.Clock
	exec   eventloop.Executor
	config func() Config
	emit   func(text string)
	log    logger.Logger

	phase     Phase
	remaining int
	total     int
	gen       uint64
	tick      clock.Timer
	observers []func(State)
}

// New creates a stopped Timer. emit receives progress messages.
func New(clk clock.Clock, exec eventloop.Executor, config func() Config, emit func(string), l logger.Logger) *Timer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Timer{clk: clk, exec: exec, config: config, emit: emit, log: l, phase: Stopped}
}

// OnChange registers fn for every state change, including each tick.
func (t *Timer) OnChange(fn func(State)) {
	t.observers = append(t.observers, fn)
}

// State returns the current snapshot.
func (t *Timer) State() State {
	return State{
		Phase:     t.phase,
		Remaining: t.remaining,
		Total:     t.total,
		Readable:  Readable(t.remaining),
	}
}

// Start begins a new countdown when stopped and resumes one when paused.
// It does nothing while running.
func (t *Timer) Start() {
	switch t.phase {
	case Running:
		return
	case Stopped:
		t.total = max(t.config().DurationMinutes, 1) * 60
		t.remaining = t.total
	}
	t.phase = Running
	t.log.Info("pomodoro: running, %s left", Readable(t.remaining))
	t.arm()
	t.changed()
}

// Pause holds the remaining time.
func (t *Timer) Pause() {
	if t.phase != Running {
		return
	}
	t.disarm()
	t.phase = Paused
	t.changed()
}

// Stop ends the countdown and clears the remaining time.
func (t *Timer) Stop() {
	if t.phase == Stopped && t.remaining == 0 {
		return
	}
	t.disarm()
	t.phase = Stopped
	t.remaining = 0
	t.changed()
}

func (t *Timer) arm() {
	t.gen++
	gen := t.gen
	t.tick = t.clk.AfterFunc(time.Second, func() {
		t.exec.Post(func() { t.onTick(gen) })
	})
}

func (t *Timer) disarm() {
	t.gen++
	if t.tick != nil {
		t.tick.Stop()
		t.tick = nil
	}
}

func (t *Timer) onTick(gen uint64) {
	if gen != t.gen || t.phase != Running {
		return
	}
	t.remaining--
	if t.remaining <= 0 {
		t.emit(CompleteMessage)
		t.Stop()
		return
	}
	cfg := t.config()
	every := max(cfg.FrequencyMinutes, 1) * 60
	if t.remaining%every == 0 || t.remaining < 10 {
		t.emit(Readable(t.remaining) + " to go")
	}
	t.arm()
	t.changed()
}

func (t *Timer) changed() {
	s := t.State()
	for _, fn := range t.observers {
		fn(s)
	}
}

// Readable formats seconds as "M:SS" when both parts are non-zero, else as
// whole minutes or seconds.
func Readable(seconds int) string {
	m, s := seconds/60, seconds%60
	switch {
	case m > 0 && s > 0:
		return fmt.Sprintf("%d:%02d", m, s)
	case m > 0:
		return plural(m, "minute")
	default:
		return plural(s, "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
