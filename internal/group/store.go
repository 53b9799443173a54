package group

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/habitflash/habitflash/pkg/logger"
)

// ErrGroupNotFound is returned for an id the store does not hold.
var ErrGroupNotFound = errors.New("reminder group not found")

// Persister loads and saves the full group list.
type Persister interface {
	Load() ([]ReminderGroup, error)
	Save([]ReminderGroup) error
}

// Scheduler is notified after every mutation so timers follow the data.
type Scheduler interface {
	Start(id string)
	Stop(id string)
	Reconfigure(id string)
}

// Store is the single source of truth for reminder groups. It is confined to
// the event loop and does no locking.
type Store struct {
	groups []ReminderGroup
	db     Persister
	sched  Scheduler
	log    logger.Logger
}

// NewStore loads the saved groups. A load failure is logged and yields an
// empty store.
func NewStore(db Persister, l logger.Logger) *Store {
	if l == nil {
		l = logger.NewNopLogger()
	}
	s := &Store{db: db, log: l}
	if db == nil {
		return s
	}
	groups, err := db.Load()
	if err != nil {
		l.Warning("group store: load failed, starting empty: %v", err)
		return s
	}
	for _, g := range groups {
		if g.ID == "" {
			g.ID = uuid.NewString()
		}
		g.normalize()
		s.groups = append(s.groups, g)
	}
	return s
}

// Attach sets the scheduler notified on mutations.
func (s *Store) Attach(sched Scheduler) {
	s.sched = sched
}

// All returns a copy of every group in order.
func (s *Store) All() []ReminderGroup {
	out := make([]ReminderGroup, len(s.groups))
	for i, g := range s.groups {
		out[i] = g.clone()
	}
	return out
}

// IDs returns the ids of every group in order.
func (s *Store) IDs() []string {
	ids := make([]string, len(s.groups))
	for i, g := range s.groups {
		ids[i] = g.ID
	}
	return ids
}

// Len returns the number of groups.
func (s *Store) Len() int {
	return len(s.groups)
}

// Get returns a copy of the group with the given id.
func (s *Store) Get(id string) (ReminderGroup, error) {
	i := s.index(id)
	if i < 0 {
		return ReminderGroup{}, ErrGroupNotFound
	}
	return s.groups[i].clone(), nil
}

// Add appends g, assigning an id when it has none, and starts its timer.
// The group stays in memory even if saving fails; the save error is
// returned.
func (s *Store) Add(g ReminderGroup) (ReminderGroup, error) {
	g = g.clone()
	if g.ID == "" || s.index(g.ID) >= 0 {
		g.ID = uuid.NewString()
	}
	g.normalize()
	s.groups = append(s.groups, g)
	err := s.save()
	if s.sched != nil {
		s.sched.Start(g.ID)
	}
	return g.clone(), err
}

// Update applies mutate to the group and restarts its timer with the new
// configuration. The id cannot be changed.
func (s *Store) Update(id string, mutate func(*ReminderGroup)) (ReminderGroup, error) {
	i := s.index(id)
	if i < 0 {
		return ReminderGroup{}, ErrGroupNotFound
	}
	g := s.groups[i].clone()
	mutate(&g)
	g.ID = id
	g.normalize()
	s.groups[i] = g
	err := s.save()
	if s.sched != nil {
		s.sched.Reconfigure(id)
	}
	return g.clone(), err
}

// Remove deletes the group and stops its timer.
func (s *Store) Remove(id string) error {
	i := s.index(id)
	if i < 0 {
		return ErrGroupNotFound
	}
	s.groups = append(s.groups[:i], s.groups[i+1:]...)
	err := s.save()
	if s.sched != nil {
		s.sched.Stop(id)
	}
	return err
}

func (s *Store) index(id string) int {
	for i, g := range s.groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) save() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Save(s.All()); err != nil {
		s.log.Error("group store: save failed: %v", err)
		return fmt.Errorf("save reminder groups: %w", err)
	}
	return nil
}
