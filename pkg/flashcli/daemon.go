package flashcli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/habitflash/habitflash/common"
)

const (
	daemonStartTimeout = 5 * time.Second
	healthTimeout      = 500 * time.Millisecond
)

// spawn starts the daemon process. Replaced in tests.
var spawn = spawnDaemon

// Health is the daemon's /healthz payload.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Clients int    `json:"clients"`
}

// Healthy probes the daemon's health endpoint.
func Healthy(ctx context.Context, base string) (*Health, error) {
	var h Health
	resp, err := resty.New().
		SetBaseURL(base).
		SetTimeout(healthTimeout).
		R().
		SetContext(ctx).
		SetResult(&h).
		Get(common.RouteHealth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("health check: %s", resp.Status())
	}
	return &h, nil
}

// EnsureDaemon returns once a daemon answers at base, starting one if none
// is running.
func EnsureDaemon(ctx context.Context, base string) error {
	if _, err := Healthy(ctx, base); err == nil {
		return nil
	}
	if err := spawn(); err != nil {
		return err
	}
	return waitHealthy(ctx, base, daemonStartTimeout)
}

func waitHealthy(ctx context.Context, base string, timeout time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = timeout
	err := backoff.Retry(func() error {
		_, err := Healthy(ctx, base)
		return err
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return fmt.Errorf("daemon failed to start within %v: %w", timeout, err)
	}
	return nil
}
