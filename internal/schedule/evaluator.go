package schedule

import "time"

// maxScanDays caps the forward search for the next enabled day.
const maxScanDays = 7

// Source is what the evaluator needs to know about a reminder group.
type Source interface {
	AlwaysOn() bool
	Weekly() Week
}

// IsEligible reports whether src may fire at now.
func IsEligible(src Source, now time.Time) bool {
	if src.AlwaysOn() {
		return true
	}
	w := src.Weekly()
	start, end, ok := w.Day(now.Weekday()).bounds()
	if !ok {
		return false
	}
	tod := Clock(now)
	return start <= tod && tod <= end
}

// NextEligible returns the earliest instant at or after now at which src
// may fire. If src is eligible now, it returns now. If no day of the week is
// enabled it returns now + 7 days.
func NextEligible(src Source, now time.Time) time.Time {
	if IsEligible(src, now) {
		return now
	}
	w := src.Weekly()
	if start, _, ok := w.Day(now.Weekday()).bounds(); ok && Clock(now) < start {
		return start.On(now)
	}
	y, m, d := now.Date()
	for i := 1; i <= maxScanDays; i++ {
		day := time.Date(y, m, d+i, 0, 0, 0, 0, now.Location())
		if start, _, ok := w.Day(day.Weekday()).bounds(); ok {
			return start.On(day)
		}
	}
	return now.AddDate(0, 0, maxScanDays)
}

// Gate adapts a plain always/week pair to Source.
type Gate struct {
	Always bool
	Week   Week
}

func (g Gate) AlwaysOn() bool { return g.Always }
func (g Gate) Weekly() Week   { return g.Week }
