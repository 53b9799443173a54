package delivery

import (
	"context"
	"time"

	"github.com/habitflash/habitflash/internal/group"
)

// Request sources, used as the metrics label.
const (
	SourceGroup    = "group"
	SourceMessage  = "message"
	SourcePomodoro = "pomodoro"
	SourceChime    = "chime"
	SourcePreview  = "preview"
)

const (
	// NoReminders is shown for a group whose reminder list is empty.
	NoReminders = "No reminders configured"
	// Unavailable is shown for a group that no longer exists.
	Unavailable = "Reminder unavailable"
)

// Request is one thing to show. With GroupID set, Text is ignored and a
// reminder is drawn from the group.
type Request struct {
	Text    string    `json:"text"`
	GroupID string    `json:"groupId,omitempty"`
	Source  string    `json:"source"`
	At      time.Time `json:"at"`
}

// FlashState is the overlay's target appearance. Renderers animate to
// Opacity over Transition.
type FlashState struct {
	Text       string        `json:"text"`
	Opacity    float64       `json:"opacity"`
	Transition time.Duration `json:"transition"`
	Seq        uint64        `json:"seq"`
}

// Config is the subset of settings read on every delivery.
type Config struct {
	FullScreen          bool
	Fade                bool
	PlaySound           bool
	Sound               string
	Volume              float64
	DisplayDuration     float64
	SystemNotifications bool
}

// Groups is the read side of the group store.
type Groups interface {
	Get(id string) (group.ReminderGroup, error)
}

// Player plays a named sound.
type Player interface {
	Play(ctx context.Context, name string, volume float64) error
}
