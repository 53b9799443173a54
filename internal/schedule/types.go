// Package schedule decides when a reminder group may fire. Everything here
// is pure: given a weekly schedule and an instant it answers "eligible now?"
// and "when next?", with no clocks, timers or side effects.
package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Mode selects how an enabled day is gated.
type Mode string

const (
	// ModeAllDay makes the whole day eligible.
	ModeAllDay Mode = "all day"
	// ModeWindow restricts eligibility to [Start, End].
	ModeWindow Mode = "window"
)

// TimeOfDay is a wall-clock time with no date, stored as seconds since
// midnight. It encodes as "HH:MM" (or "HH:MM:SS" when seconds are set).
type TimeOfDay int

const (
	Midnight  TimeOfDay = 0
	EndOfDay  TimeOfDay = 24*60*60 - 1
	secPerDay           = 24 * 60 * 60
)

// Clock returns the time of day of t in t's location.
func Clock(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay(h*3600 + m*60 + s)
}

// At builds a TimeOfDay from hours and minutes.
func At(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60)
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m, sec int
	var err error
	switch strings.Count(s, ":") {
	case 1:
		_, err = fmt.Sscanf(s, "%d:%d", &h, &m)
	case 2:
		_, err = fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec)
	default:
		err = fmt.Errorf("want HH:MM")
	}
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("invalid time of day %q: out of range", s)
	}
	return TimeOfDay(h*3600 + m*60 + sec), nil
}

func (t TimeOfDay) String() string {
	h, m, s := int(t)/3600, int(t)%3600/60, int(t)%60
	if s != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// On returns the instant at this time of day on day's date, in day's
// location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, int(t)/3600, int(t)%3600/60, int(t)%60, 0, day.Location())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// DaySchedule is one weekday's rule.
type DaySchedule struct {
	Enabled bool       `json:"enabled"`
	Mode    Mode       `json:"mode"`
	Start   *TimeOfDay `json:"startTime,omitempty"`
	End     *TimeOfDay `json:"endTime,omitempty"`
}

// AllDay is an enabled, unrestricted day.
func AllDay() DaySchedule {
	return DaySchedule{Enabled: true, Mode: ModeAllDay}
}

// Window is an enabled day restricted to [start, end].
func Window(start, end TimeOfDay) DaySchedule {
	return DaySchedule{Enabled: true, Mode: ModeWindow, Start: &start, End: &end}
}

// Off is a disabled day.
func Off() DaySchedule {
	return DaySchedule{Mode: ModeAllDay}
}

// bounds returns the eligible span of an enabled day. A window with a
// missing start or end is open on that side. ok is false for a disabled day
// or an inverted window, which are never eligible.
func (d DaySchedule) bounds() (start, end TimeOfDay, ok bool) {
	if !d.Enabled {
		return 0, 0, false
	}
	if d.Mode != ModeWindow {
		return Midnight, EndOfDay, true
	}
	start, end = Midnight, EndOfDay
	if d.Start != nil {
		start = *d.Start
	}
	if d.End != nil {
		end = *d.End
	}
	if start > end {
		return 0, 0, false
	}
	return start, end, true
}

// Week holds one DaySchedule per weekday, indexed by time.Weekday.
type Week [7]DaySchedule

// EveryDay returns a week with every day enabled all day.
func EveryDay() Week {
	var w Week
	for i := range w {
		w[i] = AllDay()
	}
	return w
}

// Day returns the rule for wd.
func (w *Week) Day(wd time.Weekday) DaySchedule {
	return w[wd]
}

// Set replaces the rule for wd.
func (w *Week) Set(wd time.Weekday, d DaySchedule) {
	w[wd] = d
}

// ParseWeekday accepts English weekday names, any case, full or
// three-letter.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if s == name || s == name[:3] {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// MarshalJSON encodes the week as an object keyed by lowercase weekday name.
func (w Week) MarshalJSON() ([]byte, error) {
	m := make(map[string]DaySchedule, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		m[strings.ToLower(wd.String())] = w[wd]
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes an object keyed by weekday name. Days missing from
// the object default to enabled all day; unknown keys are an error.
func (w *Week) UnmarshalJSON(b []byte) error {
	var m map[string]DaySchedule
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	out := EveryDay()
	for k, v := range m {
		wd, err := ParseWeekday(k)
		if err != nil {
			return err
		}
		out[wd] = v
	}
	*w = out
	return nil
}
