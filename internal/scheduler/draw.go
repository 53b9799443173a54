package scheduler

import (
	"math/rand/v2"
	"time"
)

// DrawDelay returns a whole number of seconds drawn uniformly from
// [lo, hi], with lo raised to at least one second.
func DrawDelay(r *rand.Rand, lo, hi time.Duration) time.Duration {
	loS := int64((lo + time.Second - 1) / time.Second)
	if loS < 1 {
		loS = 1
	}
	hiS := int64(hi / time.Second)
	if hiS < loS {
		hiS = loS
	}
	n := loS
	if hiS > loS {
		if r != nil {
			n += r.Int64N(hiS - loS + 1)
		} else {
			n += rand.Int64N(hiS - loS + 1)
		}
	}
	return time.Duration(n) * time.Second
}
