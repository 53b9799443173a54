package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	firesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "habitflash",
		Subsystem: "scheduler",
		Name:      "fires_total",
		Help:      "Group timer expiries that emitted a fire event.",
	})

	deferralsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "habitflash",
		Subsystem: "scheduler",
		Name:      "deferrals_total",
		Help:      "Group timer expiries outside the group's schedule.",
	})

	staleExpiriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "habitflash",
		Subsystem: "scheduler",
		Name:      "stale_expiries_total",
		Help:      "Timer callbacks discarded because their entry was cancelled or replaced.",
	})
)
