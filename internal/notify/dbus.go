package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	dbusDest  = "org.freedesktop.Notifications"
	dbusPath  = dbus.ObjectPath("/org/freedesktop/Notifications")
	dbusIface = "org.freedesktop.Notifications"
)

// BusObject is the subset of dbus.BusObject the notifier calls.
type BusObject interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// DBusNotifier talks to the freedesktop notification service on the
// session bus.
type DBusNotifier struct {
	conn *dbus.Conn
	obj  BusObject

	mu     sync.Mutex
	lastID uint32
}

// NewDBusNotifier connects to the session bus.
func NewDBusNotifier() (*DBusNotifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &DBusNotifier{conn: conn, obj: conn.Object(dbusDest, dbusPath)}, nil
}

// NewDBusNotifierWithObject builds a notifier on an existing bus object.
func NewDBusNotifierWithObject(obj BusObject) *DBusNotifier {
	return &DBusNotifier{obj: obj}
}

// RequestPermission asks the server for its capabilities. A server that
// does not answer is treated as a refusal.
func (n *DBusNotifier) RequestPermission(ctx context.Context) error {
	var caps []string
	if err := n.obj.CallWithContext(ctx, dbusIface+".GetCapabilities", 0).Store(&caps); err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return nil
}

// Submit shows a notification with the default timeout. It carries no
// sound hint.
func (n *DBusNotifier) Submit(ctx context.Context, note Notification) error {
	var id uint32
	call := n.obj.CallWithContext(ctx, dbusIface+".Notify", 0,
		AppName,
		uint32(0),
		"",
		note.Title,
		note.Body,
		[]string{},
		map[string]dbus.Variant{"suppress-sound": dbus.MakeVariant(true)},
		int32(-1),
	)
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	n.mu.Lock()
	n.lastID = id
	n.mu.Unlock()
	return nil
}

// LastID returns the server id of the most recent notification.
func (n *DBusNotifier) LastID() uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastID
}

func (n *DBusNotifier) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Close()
}
