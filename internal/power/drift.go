package power

import (
	"context"
	"time"

	"github.com/habitflash/habitflash/pkg/logger"
)

const (
	defaultDriftInterval  = 5 * time.Second
	defaultDriftThreshold = 30 * time.Second
)

// Sample pairs a wall-clock reading with a monotonic one.
type Sample struct {
	Wall time.Time
	Mono time.Duration
}

var processStart = time.Now()

func realSample() Sample {
	now := time.Now()
	return Sample{Wall: now.Round(0), Mono: now.Sub(processStart)}
}

// Slept reports whether wall-clock time moved more than threshold past
// monotonic time between prev and cur. The monotonic clock stops while the
// machine is suspended.
func Slept(prev, cur Sample, threshold time.Duration) bool {
	wall := cur.Wall.Sub(prev.Wall)
	mono := cur.Mono - prev.Mono
	return wall-mono > threshold
}

// DriftMonitor polls the clocks and reports a sleep followed by a wake
// once a suspend is detected after the fact.
type DriftMonitor struct {
	Interval  time.Duration
	Threshold time.Duration
	sample    func() Sample
	log       logger.Logger
}

// NewDriftMonitor uses a 5s poll and a 30s threshold.
func NewDriftMonitor(l logger.Logger) *DriftMonitor {
	return &DriftMonitor{
		Interval:  defaultDriftInterval,
		Threshold: defaultDriftThreshold,
		sample:    realSample,
		log:       l,
	}
}

func (m *DriftMonitor) Run(ctx context.Context, h Handler) error {
	t := time.NewTicker(m.Interval)
	defer t.Stop()
	prev := m.sample()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			cur := m.sample()
			if Slept(prev, cur, m.Threshold) {
				m.log.Info("power: clock jumped %v, treating as sleep and wake",
					cur.Wall.Sub(prev.Wall)-(cur.Mono-prev.Mono))
				h.sleep()
				h.wake()
			}
			prev = cur
		}
	}
}
