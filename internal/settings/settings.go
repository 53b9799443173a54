// Package settings holds the user preferences and the Manager that
// validates, persists and announces changes to them.
package settings

import (
	"errors"

	"github.com/habitflash/habitflash/internal/delivery"
	"github.com/habitflash/habitflash/internal/pomodoro"
	"github.com/habitflash/habitflash/internal/scheduler"
)

var (
	// ErrUnknownSetting is returned for a name that is not a setting.
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrInvalidValue is returned when a value cannot be parsed.
	ErrInvalidValue = errors.New("invalid setting value")
)

// Settings are the user preferences. JSON names match the stored keys.
type Settings struct {
	FontSize                          float64 `json:"fontSize"`
	FontColor                         string  `json:"fontColor"`
	FontShadow                        bool    `json:"fontShadow"`
	FadeInOut                         bool    `json:"fadeInOut"`
	PlaySound                         bool    `json:"playSound"`
	Sound                             string  `json:"sound"`
	Volume                            float64 `json:"volume"`
	DisplayDuration                   float64 `json:"displayDuration"`
	UseFullScreenNotifications        bool    `json:"useFullScreenNotifications"`
	UseSystemNotifications            bool    `json:"useSystemNotifications"`
	ShowHourOnTheHour                 bool    `json:"showHourOnTheHour"`
	ChimeSchedule                     string  `json:"chimeSchedule"`
	PomodoroDuration                  int     `json:"pomodoroDuration"`
	PomodoroCountdownDisplay          bool    `json:"pomodoroCountdownDisplay"`
	PomodoroCountdownDisplayFrequency int     `json:"pomodoroCountdownDisplayFrequency"`
}

// Defaults returns the factory settings.
func Defaults() Settings {
	return Settings{
		FontSize:                          100,
		FontColor:                         "FFFFFF",
		FontShadow:                        true,
		FadeInOut:                         false,
		PlaySound:                         false,
		Sound:                             "Default",
		Volume:                            1.0,
		DisplayDuration:                   50,
		UseFullScreenNotifications:        true,
		UseSystemNotifications:            false,
		ShowHourOnTheHour:                 true,
		ChimeSchedule:                     scheduler.DefaultChimeSchedule,
		PomodoroDuration:                  25,
		PomodoroCountdownDisplay:          true,
		PomodoroCountdownDisplayFrequency: 10,
	}
}

// Delivery returns the settings the delivery pipeline reads.
func (s Settings) Delivery() delivery.Config {
	return delivery.Config{
		FullScreen:          s.UseFullScreenNotifications,
		Fade:                s.FadeInOut,
		PlaySound:           s.PlaySound,
		Sound:               s.Sound,
		Volume:              s.Volume,
		DisplayDuration:     s.DisplayDuration,
		SystemNotifications: s.UseSystemNotifications,
	}
}

// Pomodoro returns the settings the countdown reads.
func (s Settings) Pomodoro() pomodoro.Config {
	return pomodoro.Config{
		DurationMinutes:  s.PomodoroDuration,
		FrequencyMinutes: s.PomodoroCountdownDisplayFrequency,
	}
}
