package echo

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// BackoffConfig defines the retry delay after a failed accept.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// DefaultBackoffConfig mirrors the net/http accept retry schedule.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		InitialDelay: 5 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     time.Second,
		Jitter:       false,
	}
}

// WithDefaults fills zero fields from DefaultBackoffConfig.
func (cfg BackoffConfig) WithDefaults() BackoffConfig {
	def := DefaultBackoffConfig()
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = def.InitialDelay
	}
	if cfg.Multiplier < 1.0 {
		cfg.Multiplier = def.Multiplier
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = def.MaxDelay
	}
	if cfg.MaxDelay < cfg.InitialDelay {
		cfg.MaxDelay = cfg.InitialDelay
	}
	return cfg
}

// newBackoff builds a policy that never gives up; the accept loop only stops
// on shutdown.
func newBackoff(cfg BackoffConfig) *backoff.ExponentialBackOff {
	cfg = cfg.WithDefaults()
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialDelay
	b.Multiplier = cfg.Multiplier
	b.MaxInterval = cfg.MaxDelay
	b.MaxElapsedTime = 0
	b.RandomizationFactor = 0
	if cfg.Jitter {
		b.RandomizationFactor = 0.5
	}
	b.Reset()
	return b
}

// sleepContext waits for d and reports false if ctx ended first.
func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
