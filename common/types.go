package common

import (
	"github.com/habitflash/habitflash/internal/delivery"
	"github.com/habitflash/habitflash/internal/group"
	"github.com/habitflash/habitflash/internal/schedule"
	"github.com/habitflash/habitflash/internal/scheduler"
	"github.com/habitflash/habitflash/internal/settings"
)

type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildType string `json:"build_type"`
}

type GroupIDParams struct {
	ID string `json:"id"`
}

// GroupSpec carries the fields of a group to create or change. Nil fields
// are left as they are (or at their defaults on add).
type GroupSpec struct {
	Reminders []string                        `json:"reminders,omitempty"`
	Interval  *group.Span                     `json:"interval,omitempty"`
	Jitter    *group.Span                     `json:"jitter,omitempty"`
	Always    *bool                           `json:"always,omitempty"`
	Days      map[string]schedule.DaySchedule `json:"days,omitempty"`
}

type GroupUpdateParams struct {
	ID string `json:"id"`
	GroupSpec
}

type GroupListResult struct {
	Groups []group.ReminderGroup `json:"groups"`
}

type PendingResult struct {
	Asleep  bool                `json:"asleep"`
	Pending []scheduler.Pending `json:"pending"`
}

type SettingsSetParams struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type SettingsResult struct {
	Settings settings.Settings `json:"settings"`
}

type FlashShowParams struct {
	Text string `json:"text"`
}

// ReminderFired is pushed for every delivered request.
type ReminderFired = delivery.Request
