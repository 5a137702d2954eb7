package server

import (
	"errors"
	"testing"
	"time"

	"github.com/danmuck/sockecho/internal/testutil/testlog"
)

func TestServiceConfigValidate(t *testing.T) {
	testlog.Start(t)
	if err := DefaultServiceConfig().Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}

	bad := []func(*ServiceConfig){
		func(c *ServiceConfig) { c.AcceptBackoff.InitialDelay = -time.Millisecond },
		func(c *ServiceConfig) { c.AcceptBackoff.MaxDelay = -time.Second },
		func(c *ServiceConfig) { c.AcceptBackoff.Multiplier = 0.5 },
		func(c *ServiceConfig) { c.AdminListenAddr = "localhost" },
		func(c *ServiceConfig) { c.Policy.StartSleep = ^uint(0) },
	}
	for i, mutate := range bad {
		cfg := DefaultServiceConfig()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidPolicy) {
			t.Fatalf("case %d: expected ErrInvalidPolicy, got %v", i, err)
		}
	}

	cfg := DefaultServiceConfig()
	cfg.AdminListenAddr = "127.0.0.1:9310"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("admin address rejected: %v", err)
	}
}

func TestStartSleepBoundFitsDuration(t *testing.T) {
	testlog.Start(t)
	if d := time.Duration(MaxStartSleep) * time.Second; d <= 0 {
		t.Fatalf("max start sleep overflows: %v", d)
	}
	limit := MaxStartSleep
	if uint64(^uint(0)) < limit {
		t.Skip("uint cannot exceed the start sleep bound")
	}
	cfg := DefaultServiceConfig()
	cfg.Policy.StartSleep = uint(limit)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("max start sleep rejected: %v", err)
	}
}
