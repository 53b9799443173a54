package scheduler

import (
	"time"

	"github.com/habitflash/habitflash/internal/clock"
	"github.com/habitflash/habitflash/internal/group"
)

// FireEvent is emitted when a group's timer expires inside its schedule.
type FireEvent struct {
	GroupID string    `json:"groupId"`
	At      time.Time `json:"at"`
}

// Pending describes an armed group timer.
type Pending struct {
	GroupID string    `json:"groupId"`
	FireAt  time.Time `json:"fireAt"`
	// Deferred is true when the timer re-checks eligibility rather than
	// firing on a fresh draw.
	Deferred bool `json:"deferred"`
}

// Groups is the read side of the group store.
type Groups interface {
	Get(id string) (group.ReminderGroup, error)
	IDs() []string
}

// entry is the scheduler's only per-group state.
type entry struct {
	groupID  string
	gen      uint64
	fireAt   time.Time
	deferred bool
	timer    clock.Timer
}
