package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/habitflash/habitflash/internal/group"
	"github.com/habitflash/habitflash/internal/settings"
)

// Document keys.
const (
	KeyReminderGroups = "reminderGroups"
	KeySettings       = "settings"
)

const opTimeout = 5 * time.Second

// GroupRepository stores the full group list as one document.
type GroupRepository struct {
	db *DB
}

func NewGroupRepository(db *DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Load returns the saved groups. A missing document is an empty list.
func (r *GroupRepository) Load() ([]group.ReminderGroup, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	b, err := r.db.Get(ctx, KeyReminderGroups)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var groups []group.ReminderGroup
	if err := json.Unmarshal(b, &groups); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyReminderGroups, err)
	}
	return groups, nil
}

// Save replaces the stored list.
func (r *GroupRepository) Save(groups []group.ReminderGroup) error {
	if groups == nil {
		groups = []group.ReminderGroup{}
	}
	b, err := json.Marshal(groups)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return r.db.Put(ctx, KeyReminderGroups, b)
}

// SettingsRepository stores the settings document.
type SettingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Load returns the saved settings over the defaults, so keys added since
// the document was written keep their default values.
func (r *SettingsRepository) Load() (settings.Settings, error) {
	s := settings.Defaults()
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	b, err := r.db.Get(ctx, KeySettings)
	if errors.Is(err, ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return settings.Defaults(), fmt.Errorf("decode %s: %w", KeySettings, err)
	}
	return s, nil
}

func (r *SettingsRepository) Save(s settings.Settings) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return r.db.Put(ctx, KeySettings, b)
}

var (
	_ group.Persister    = (*GroupRepository)(nil)
	_ settings.Persister = (*SettingsRepository)(nil)
)
