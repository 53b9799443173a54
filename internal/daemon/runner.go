// Package daemon runs the habitflash control plane: it owns the listener,
// serves until the context ends, and shuts down within a bounded time.
package daemon

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"
)

// Sentinel errors for the daemon runner.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running daemon.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNotRunning is returned when Shutdown() is called on a stopped daemon.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrShutdownTimeout is returned when shutdown exceeds the configured timeout.
	ErrShutdownTimeout = errors.New("shutdown timed out")
)

// DefaultAddr is used when Config.Addr is empty.
const DefaultAddr = "127.0.0.1:7391"

// Config holds the configuration for the daemon runner.
type Config struct {
	// Addr is the TCP address to listen on. Port 0 picks an ephemeral port.
	Addr string

	// ShutdownTimeout bounds ShutdownFunc. Zero means no limit.
	ShutdownTimeout time.Duration
}

// ListenerFactory creates the daemon's listener.
type ListenerFactory func(network, address string) (net.Listener, error)

// Dependencies holds the pieces the runner drives.
type Dependencies struct {
	// ListenerFactory creates network listeners. If nil, net.Listen is used.
	ListenerFactory ListenerFactory

	// Serve handles connections on the listener until it is closed. If nil,
	// the runner only holds the listener open.
	Serve func(net.Listener) error

	// ShutdownFunc releases resources. It runs once, on Shutdown or when
	// the Start context ends.
	ShutdownFunc func(ctx context.Context) error
}

// Runner manages the daemon lifecycle.
type Runner struct {
	config   *Config
	deps     *Dependencies
	running  bool
	mu       sync.Mutex
	cancel   context.CancelFunc
	listener net.Listener
	stopOnce sync.Once
	stopErr  error
}

// New creates a runner. Nil config and deps get defaults.
func New(config *Config, deps *Dependencies) *Runner {
	if config == nil {
		config = &Config{}
	}
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}
	if deps == nil {
		deps = &Dependencies{}
	}
	if deps.ListenerFactory == nil {
		deps.ListenerFactory = net.Listen
	}
	return &Runner{config: config, deps: deps}
}

// Config returns the runner's configuration.
func (r *Runner) Config() *Config {
	return r.config
}

// Addr returns the bound address while running, or nil.
func (r *Runner) Addr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return nil
	}
	return r.listener.Addr()
}

// Start listens and serves until ctx is canceled, Shutdown is called or
// Serve fails. Returns ErrAlreadyRunning if the daemon is already started.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, r.cancel = context.WithCancel(ctx)

	// Create listener BEFORE setting running=true to avoid race condition
	listener, err := r.deps.ListenerFactory("tcp", r.config.Addr)
	if err != nil {
		r.cancel()
		r.mu.Unlock()
		return err
	}
	r.listener = listener
	r.running = true
	r.stopOnce = sync.Once{}
	r.mu.Unlock()

	served := make(chan error, 1)
	if r.deps.Serve != nil {
		go func() { served <- r.deps.Serve(listener) }()
	}

	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-served:
	}

	if stopErr := r.stop(); err == nil {
		err = stopErr
	}
	r.cleanupOnStop()
	return err
}

func (r *Runner) cleanupOnStop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.running = false
	if r.cancel != nil {
		r.cancel()
	}
	r.closeListener()
}

// closeListener closes the listener if it exists.
// Caller must hold the mutex.
func (r *Runner) closeListener() {
	if r.listener != nil {
		_ = r.listener.Close()
		r.listener = nil
	}
}

// Shutdown runs the shutdown function and stops Start.
// Returns ErrNotRunning if the daemon is not running.
// Returns ErrShutdownTimeout if the shutdown function exceeds the configured timeout.
func (r *Runner) Shutdown() error {
	r.mu.Lock()
	running := r.running
	r.mu.Unlock()
	if !running {
		return ErrNotRunning
	}

	err := r.stop()

	r.mu.Lock()
	r.running = false
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()
	return err
}

// stop runs ShutdownFunc at most once per Start.
func (r *Runner) stop() error {
	r.stopOnce.Do(func() {
		if r.deps.ShutdownFunc == nil {
			return
		}
		r.stopErr = r.executeWithTimeout(r.deps.ShutdownFunc, r.config.ShutdownTimeout)
	})
	return r.stopErr
}

// executeWithTimeout runs fn with a context bounded by timeout.
// Returns ErrShutdownTimeout if fn is still running when it expires.
func (r *Runner) executeWithTimeout(fn func(context.Context) error, timeout time.Duration) error {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ErrShutdownTimeout
	}
}

// IsRunning returns true if the daemon is currently running.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
