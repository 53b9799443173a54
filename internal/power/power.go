// Package power reports system sleep and wake.
package power

import (
	"context"
	"fmt"
	"runtime"

	"github.com/habitflash/habitflash/pkg/logger"
)

// Handler receives power transitions. Callbacks run on the monitor's
// goroutine; callers post them onto the event loop.
type Handler struct {
	OnSleep func()
	OnWake  func()
}

func (h Handler) sleep() {
	if h.OnSleep != nil {
		h.OnSleep()
	}
}

func (h Handler) wake() {
	if h.OnWake != nil {
		h.OnWake()
	}
}

// Monitor watches for power transitions until ctx is cancelled.
type Monitor interface {
	Run(ctx context.Context, h Handler) error
}

// Monitor modes accepted by New.
const (
	ModeAuto   = "auto"
	ModeLogind = "logind"
	ModeDrift  = "drift"
	ModeNone   = "none"
)

// New builds the monitor for mode. In auto mode logind is tried first on
// Linux and the drift monitor is the fallback.
func New(mode string, l logger.Logger) (Monitor, error) {
	if l == nil {
		l = logger.NewNopLogger()
	}
	switch mode {
	case ModeNone:
		return None{}, nil
	case ModeDrift:
		return NewDriftMonitor(l), nil
	case ModeLogind:
		return NewLogindMonitor(l)
	case "", ModeAuto:
		if runtime.GOOS == "linux" {
			m, err := NewLogindMonitor(l)
			if err == nil {
				return m, nil
			}
			l.Warning("power: logind unavailable, using drift monitor: %v", err)
		}
		return NewDriftMonitor(l), nil
	}
	return nil, fmt.Errorf("unknown power monitor %q", mode)
}

// None never reports anything.
type None struct{}

func (None) Run(ctx context.Context, _ Handler) error {
	<-ctx.Done()
	return nil
}
