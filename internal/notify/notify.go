// Package notify submits native desktop notifications.
package notify

import (
	"context"
	"errors"

	"github.com/habitflash/habitflash/pkg/logger"
)

// AppName is the title and application name of every notification.
const AppName = "HabitFlash"

// ErrPermissionDenied is returned when the desktop refuses notifications.
var ErrPermissionDenied = errors.New("notification permission denied")

// Notification is a single desktop notification.
type Notification struct {
	Title string
	Body  string
}

// Notifier is a notification sink.
type Notifier interface {
	// RequestPermission checks that notifications can be shown.
	RequestPermission(ctx context.Context) error
	Submit(ctx context.Context, n Notification) error
	Close() error
}

// LogNotifier writes notifications to the log instead of the desktop.
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier returns a notifier that only logs.
func NewLogNotifier(l logger.Logger) *LogNotifier {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &LogNotifier{log: l}
}

func (n *LogNotifier) RequestPermission(context.Context) error { return nil }

func (n *LogNotifier) Submit(_ context.Context, note Notification) error {
	n.log.Info("notification: %s: %s", note.Title, note.Body)
	return nil
}

func (n *LogNotifier) Close() error { return nil }

var (
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = (*DBusNotifier)(nil)
)
