// Package eventloop implements the single logical actor that owns all
// reminder engine state. Timer expirations, power signals and RPC calls are
// posted onto one goroutine and run there one at a time, so the store, the
// coordinator, the delivery pipeline and the Pomodoro timer need no locks.
package eventloop

import (
	"context"
	"errors"
	"runtime/debug"

	"github.com/habitflash/habitflash/pkg/logger"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("event loop stopped")

// Executor accepts work for the loop.
type Executor interface {
	// Post queues fn. It never runs fn on the caller's stack unless the
	// executor is Inline.
	Post(fn func())
	// Do runs fn on the loop and waits for its result.
	Do(ctx context.Context, fn func() error) error
}

// Loop is the production executor: a goroutine draining a queue.
type Loop struct {
	queue chan func()
	done  chan struct{}
	log   logger.Logger
}

// New creates a loop with the given queue depth. Call Run to start it.
func New(l logger.Logger, depth int) *Loop {
	if depth <= 0 {
		depth = 256
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Loop{
		queue: make(chan func(), depth),
		done:  make(chan struct{}),
		log:   l,
	}
}

// Run processes posted work until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			l.exec(fn)
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("PANIC [eventloop]: %v\n%s", r, debug.Stack())
		}
	}()
	fn()
}

// Post queues fn. Work posted after the loop exits is dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Do runs fn on the loop and returns its error. It must not be called from
// the loop goroutine itself.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	res := make(chan error, 1)
	task := func() { res <- fn() }
	select {
	case l.queue <- task:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-res:
		return err
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Inline runs posted work immediately on the caller's goroutine. It pairs
// with clock.Fake in tests, where the test goroutine plays the loop.
type Inline struct{}

func (Inline) Post(fn func()) { fn() }

func (Inline) Do(_ context.Context, fn func() error) error { return fn() }

var (
	_ Executor = (*Loop)(nil)
	_ Executor = Inline{}
)
