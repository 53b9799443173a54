package delivery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "habitflash",
			Subsystem: "delivery",
			Name:      "requests_total",
			Help:      "Delivery requests by source.",
		},
		[]string{"source"},
	)

	sinkFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "habitflash",
			Subsystem: "delivery",
			Name:      "sink_failures_total",
			Help:      "Sound and notification submissions that failed.",
		},
		[]string{"sink"},
	)
)
