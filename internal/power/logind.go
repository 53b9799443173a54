package power

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/habitflash/habitflash/pkg/logger"
)

const (
	login1Path   = dbus.ObjectPath("/org/freedesktop/login1")
	login1Iface  = "org.freedesktop.login1.Manager"
	prepareSleep = "PrepareForSleep"
)

// LogindMonitor listens for PrepareForSleep on the system bus.
type LogindMonitor struct {
	conn *dbus.Conn
	log  logger.Logger
}

// NewLogindMonitor connects to the system bus.
func NewLogindMonitor(l logger.Logger) (*LogindMonitor, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}
	return &LogindMonitor{conn: conn, log: l}, nil
}

// Run subscribes to the signal and dispatches it until ctx is done. The
// bus connection is closed on return.
func (m *LogindMonitor) Run(ctx context.Context, h Handler) error {
	defer m.conn.Close()
	if err := m.conn.AddMatchSignal(
		dbus.WithMatchObjectPath(login1Path),
		dbus.WithMatchInterface(login1Iface),
		dbus.WithMatchMember(prepareSleep),
	); err != nil {
		return fmt.Errorf("subscribe %s: %w", prepareSleep, err)
	}
	ch := make(chan *dbus.Signal, 8)
	m.conn.Signal(ch)
	defer m.conn.RemoveSignal(ch)
	m.log.Info("power: watching logind %s", prepareSleep)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-ch:
			if !ok {
				return nil
			}
			dispatch(sig, h)
		}
	}
}

// dispatch maps PrepareForSleep(true) to sleep and (false) to wake.
func dispatch(sig *dbus.Signal, h Handler) {
	if sig == nil || sig.Name != login1Iface+"."+prepareSleep || len(sig.Body) == 0 {
		return
	}
	start, ok := sig.Body[0].(bool)
	if !ok {
		return
	}
	if start {
		h.sleep()
	} else {
		h.wake()
	}
}
