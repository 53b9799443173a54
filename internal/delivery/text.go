package delivery

import (
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"
)

// ResolveText picks the text to show for req.
func ResolveText(groups Groups, req Request, r *rand.Rand) string {
	if req.GroupID == "" {
		return strings.TrimSpace(req.Text)
	}
	g, err := groups.Get(req.GroupID)
	if err != nil {
		return Unavailable
	}
	var pool []string
	for _, s := range g.Reminders {
		if s = strings.TrimSpace(s); s != "" {
			pool = append(pool, s)
		}
	}
	if len(pool) == 0 {
		return NoReminders
	}
	if r != nil {
		return pool[r.IntN(len(pool))]
	}
	return pool[rand.IntN(len(pool))]
}

// Duration is how long text stays on screen before it starts to hide:
// max(runes/17, 0.5) * max(1, displayDuration/20) seconds.
func Duration(text string, displayDuration float64) time.Duration {
	base := max(float64(utf8.RuneCountInString(text))/17, 0.5)
	scale := max(1, displayDuration/20)
	return time.Duration(base * scale * float64(time.Second))
}
