package server

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/danmuck/sockecho/internal/echo"
)

var ErrInvalidPolicy = errors.New("server: invalid policy")

// Policy is the startup behavior resolved once from flags and config.
type Policy struct {
	Debug      bool
	Notify     bool
	StartSleep uint
}

// ServiceConfig configures the echo service runtime.
type ServiceConfig struct {
	Policy           Policy
	AdminListenAddr  string
	AdminCORSOrigins []string
	AcceptBackoff    echo.BackoffConfig
}

// DefaultServiceConfig returns the defaults used without a config file.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Policy:        Policy{},
		AcceptBackoff: echo.DefaultBackoffConfig(),
	}
}

// MaxStartSleep is the longest start delay a time.Duration can hold, in seconds.
const MaxStartSleep = uint64(math.MaxInt64 / int64(time.Second))

// Validate rejects settings that cannot be served.
func (c ServiceConfig) Validate() error {
	if uint64(c.Policy.StartSleep) > MaxStartSleep {
		return fmt.Errorf("%w: start sleep %d exceeds %d seconds", ErrInvalidPolicy, c.Policy.StartSleep, MaxStartSleep)
	}
	b := c.AcceptBackoff
	if b.InitialDelay < 0 || b.MaxDelay < 0 {
		return fmt.Errorf("%w: accept backoff delays must not be negative", ErrInvalidPolicy)
	}
	if b.Multiplier != 0 && b.Multiplier < 1.0 {
		return fmt.Errorf("%w: accept backoff multiplier %v is below 1", ErrInvalidPolicy, b.Multiplier)
	}
	if addr := strings.TrimSpace(c.AdminListenAddr); addr != "" && !strings.Contains(addr, ":") {
		return fmt.Errorf("%w: admin listen address %q has no port", ErrInvalidPolicy, addr)
	}
	return nil
}
