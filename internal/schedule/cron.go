package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
)

// ValidateCron checks a 5-field cron expression (minute hour day-of-month
// month day-of-week).
func ValidateCron(expr string) error {
	// gronx.IsValid also accepts a 6-field form with seconds.
	if len(strings.Fields(expr)) != 5 || !gronx.IsValid(expr) {
		return fmt.Errorf("invalid cron expression %q, expected 5-field format (minute hour day-of-month month day-of-week)", expr)
	}
	return nil
}

// NextCron returns the next tick of expr strictly after from.
func NextCron(expr string, from time.Time) (time.Time, error) {
	return gronx.NextTickAfter(expr, from, false)
}
