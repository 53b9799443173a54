package settings

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/habitflash/habitflash/internal/schedule"
	"github.com/habitflash/habitflash/pkg/hexcolor"
)

// field describes one named setting.
type field struct {
	name string
	get  func(*Settings) string
	set  func(*Settings, string) error
	// announce returns the confirmation shown after a change, or "".
	announce func(Settings) string
}

// fields lists every setting in display order.
var fields = []field{
	floatField("fontSize", func(s *Settings) *float64 { return &s.FontSize }, 1, 1000, fixed("Font size changed")),
	{
		name:     "fontColor",
		get:      func(s *Settings) string { return s.FontColor },
		set:      setColor,
		announce: fixed("Font color changed"),
	},
	boolField("fontShadow", func(s *Settings) *bool { return &s.FontShadow }, "Text shadow on", "Text shadow off"),
	boolField("fadeInOut", func(s *Settings) *bool { return &s.FadeInOut }, "Fade enabled", "Fade disabled"),
	boolField("playSound", func(s *Settings) *bool { return &s.PlaySound }, "Sound on", "Sound off"),
	stringField("sound", func(s *Settings) *string { return &s.Sound }, nil),
	floatField("volume", func(s *Settings) *float64 { return &s.Volume }, 0, 1, nil),
	floatField("displayDuration", func(s *Settings) *float64 { return &s.DisplayDuration }, 0, 100, fixed("Display duration changed")),
	boolField("useFullScreenNotifications", func(s *Settings) *bool { return &s.UseFullScreenNotifications },
		"Full screen reminders on", "Full screen reminders off"),
	boolField("useSystemNotifications", func(s *Settings) *bool { return &s.UseSystemNotifications },
		"System reminders on", "System reminders off"),
	boolField("showHourOnTheHour", func(s *Settings) *bool { return &s.ShowHourOnTheHour },
		"Clock reminders on", "Clock reminders off"),
	stringField("chimeSchedule", func(s *Settings) *string { return &s.ChimeSchedule }, schedule.ValidateCron),
	intField("pomodoroDuration", func(s *Settings) *int { return &s.PomodoroDuration }, 1, 24*60),
	boolField("pomodoroCountdownDisplay", func(s *Settings) *bool { return &s.PomodoroCountdownDisplay }, "", ""),
	intField("pomodoroCountdownDisplayFrequency", func(s *Settings) *int { return &s.PomodoroCountdownDisplayFrequency }, 1, 24*60),
}

func lookup(name string) (field, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.name, name) {
			return f, true
		}
	}
	return field{}, false
}

func fixed(msg string) func(Settings) string {
	return func(Settings) string { return msg }
}

func boolField(name string, p func(*Settings) *bool, on, off string) field {
	return field{
		name: name,
		get:  func(s *Settings) string { return strconv.FormatBool(*p(s)) },
		set: func(s *Settings, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			*p(s) = b
			return nil
		},
		announce: func(s Settings) string {
			if *p(&s) {
				return on
			}
			return off
		},
	}
}

func floatField(name string, p func(*Settings) *float64, lo, hi float64, announce func(Settings) string) field {
	return field{
		name: name,
		get:  func(s *Settings) string { return strconv.FormatFloat(*p(s), 'g', -1, 64) },
		set: func(s *Settings, v string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil || math.IsNaN(f) {
				return fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v)
			}
			*p(s) = min(max(f, lo), hi)
			return nil
		},
		announce: announce,
	}
}

func intField(name string, p func(*Settings) *int, lo, hi int) field {
	return field{
		name: name,
		get:  func(s *Settings) string { return strconv.Itoa(*p(s)) },
		set: func(s *Settings, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, v)
			}
			*p(s) = min(max(n, lo), hi)
			return nil
		},
	}
}

func stringField(name string, p func(*Settings) *string, validate func(string) error) field {
	return field{
		name: name,
		get:  func(s *Settings) string { return *p(s) },
		set: func(s *Settings, v string) error {
			v = strings.TrimSpace(v)
			if v == "" {
				return fmt.Errorf("%w: empty", ErrInvalidValue)
			}
			if validate != nil {
				if err := validate(v); err != nil {
					return fmt.Errorf("%w: %v", ErrInvalidValue, err)
				}
			}
			*p(s) = v
			return nil
		},
	}
}

func setColor(s *Settings, v string) error {
	if !hexcolor.Valid(v) {
		return fmt.Errorf("%w: %q is not a hex color", ErrInvalidValue, v)
	}
	s.FontColor = hexcolor.Normalize(v)
	return nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "on", "yes", "enabled":
		return true, nil
	case "0", "f", "false", "off", "no", "disabled":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v)
}

// clamp repairs out-of-range or malformed values loaded from storage.
func (s *Settings) clamp() {
	d := Defaults()
	s.FontSize = min(max(s.FontSize, 1), 1000)
	s.Volume = min(max(s.Volume, 0), 1)
	s.DisplayDuration = min(max(s.DisplayDuration, 0), 100)
	s.PomodoroDuration = min(max(s.PomodoroDuration, 1), 24*60)
	s.PomodoroCountdownDisplayFrequency = min(max(s.PomodoroCountdownDisplayFrequency, 1), 24*60)
	if !hexcolor.Valid(s.FontColor) {
		s.FontColor = d.FontColor
	}
	if strings.TrimSpace(s.Sound) == "" {
		s.Sound = d.Sound
	}
	if schedule.ValidateCron(s.ChimeSchedule) != nil {
		s.ChimeSchedule = d.ChimeSchedule
	}
}
