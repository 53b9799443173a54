// Package group holds the reminder group model and the Store that owns the
// ordered list of groups.
package group

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/habitflash/habitflash/internal/schedule"
)

// Unit is the unit of a Span.
type Unit string

const (
	Seconds Unit = "seconds"
	Minutes Unit = "minutes"
	Hours   Unit = "hours"
	Days    Unit = "days"
)

// ParseUnit accepts singular or plural unit names in any case. Unknown
// names fall back to minutes.
func ParseUnit(s string) Unit {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "s")
	switch s {
	case "second", "sec":
		return Seconds
	case "hour", "hr":
		return Hours
	case "day":
		return Days
	default:
		return Minutes
	}
}

func (u Unit) duration() time.Duration {
	switch u {
	case Seconds:
		return time.Second
	case Hours:
		return time.Hour
	case Days:
		return 24 * time.Hour
	default:
		return time.Minute
	}
}

func (u *Unit) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*u = ParseUnit(s)
	return nil
}

// Span is a count of units, such as "10 minutes".
type Span struct {
	Count int  `json:"count"`
	Unit  Unit `json:"unit"`
}

// MaxSpan caps every span and delay bound.
const MaxSpan = 100 * 365 * 24 * time.Hour

// Duration converts the span, saturating at MaxSpan. Negative counts are
// treated as zero.
func (s Span) Duration() time.Duration {
	if s.Count <= 0 {
		return 0
	}
	unit := s.Unit.duration()
	if int64(s.Count) > int64(MaxSpan/unit) {
		return MaxSpan
	}
	return time.Duration(s.Count) * unit
}

func (s Span) String() string {
	u := string(s.Unit)
	if s.Count == 1 {
		u = strings.TrimSuffix(u, "s")
	}
	return fmt.Sprintf("%d %s", s.Count, u)
}

// ParseSpan parses "10m", "90s", "2h", "1d" or "10 minutes".
func ParseSpan(s string) (Span, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return Span{}, fmt.Errorf("invalid span %q", s)
	}
	var n int
	if _, err := fmt.Sscanf(s[:i], "%d", &n); err != nil {
		return Span{}, fmt.Errorf("invalid span %q: %w", s, err)
	}
	unit := strings.TrimSpace(s[i:])
	switch strings.ToLower(unit) {
	case "s":
		return Span{n, Seconds}, nil
	case "", "m":
		return Span{n, Minutes}, nil
	case "h":
		return Span{n, Hours}, nil
	case "d":
		return Span{n, Days}, nil
	}
	return Span{n, ParseUnit(unit)}, nil
}

// ReminderGroup is an independently scheduled set of reminder texts.
type ReminderGroup struct {
	ID        string        `json:"id"`
	Reminders []string      `json:"reminders"`
	Interval  Span          `json:"interval"`
	Jitter    Span          `json:"jitter"`
	Always    bool          `json:"always"`
	Schedule  schedule.Week `json:"schedule"`
}

// New returns the default group with a fresh id.
func New() ReminderGroup {
	return ReminderGroup{
		ID:        uuid.NewString(),
		Reminders: []string{"Stretch", "Water", "Stand"},
		Interval:  Span{10, Minutes},
		Jitter:    Span{5, Minutes},
		Always:    true,
		Schedule:  schedule.EveryDay(),
	}
}

// ParseReminders splits comma-separated user input, trimming entries and
// dropping empty ones.
func ParseReminders(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

func (g ReminderGroup) AlwaysOn() bool { return g.Always }

func (g ReminderGroup) Weekly() schedule.Week { return g.Schedule }

// Bounds returns the range a fire delay is drawn from:
// [max(1s, interval-jitter), interval+jitter].
func (g ReminderGroup) Bounds() (lo, hi time.Duration) {
	iv, j := g.Interval.Duration(), g.Jitter.Duration()
	lo, hi = iv-j, min(iv+j, MaxSpan)
	if lo < time.Second {
		lo = time.Second
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// normalize trims reminder text and clamps malformed spans.
func (g *ReminderGroup) normalize() {
	g.Reminders = ParseReminders(strings.Join(g.Reminders, ","))
	for _, sp := range []*Span{&g.Interval, &g.Jitter} {
		if sp.Count < 0 {
			sp.Count = 0
		}
		sp.Unit = ParseUnit(string(sp.Unit))
	}
}

func (g ReminderGroup) clone() ReminderGroup {
	c := g
	c.Reminders = append([]string(nil), g.Reminders...)
	for i, d := range g.Schedule {
		if d.Start != nil {
			v := *d.Start
			c.Schedule[i].Start = &v
		}
		if d.End != nil {
			v := *d.End
			c.Schedule[i].End = &v
		}
	}
	return c
}

var _ schedule.Source = ReminderGroup{}
