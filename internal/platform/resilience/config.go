package resilience

import (
	"fmt"
	"strings"
	"time"
)

type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// api-football bills per request against a daily quota, so its breaker trips
// sooner and stays open longer than the push and queue publishers.
var dependencyDefaults = map[string]CircuitBreakerConfig{
	"APIFOOTBALL": {Enabled: true, FailureThreshold: 4, OpenTimeout: 30 * time.Second, HalfOpenMaxReq: 1},
	"ONESIGNAL":   {Enabled: true, FailureThreshold: 3, OpenTimeout: time.Minute, HalfOpenMaxReq: 1},
	"QSTASH":      {Enabled: true, FailureThreshold: 5, OpenTimeout: 15 * time.Second, HalfOpenMaxReq: 2},
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

// DefaultsFor returns the breaker defaults for an env prefix such as
// APIFOOTBALL, falling back to the generic defaults.
func DefaultsFor(prefix string) CircuitBreakerConfig {
	if cfg, ok := dependencyDefaults[strings.ToUpper(strings.TrimSpace(prefix))]; ok {
		return cfg
	}
	return DefaultCircuitBreakerConfig()
}

// Validate reports the first out-of-range field using the env key it came from.
func (c CircuitBreakerConfig) Validate(prefix string) error {
	if c.FailureThreshold < 1 {
		return fmt.Errorf("%s_CIRCUIT_FAILURE_COUNT must be >= 1", prefix)
	}
	if c.OpenTimeout <= 0 {
		return fmt.Errorf("%s_CIRCUIT_OPEN_TIMEOUT must be > 0", prefix)
	}
	if c.HalfOpenMaxReq < 1 {
		return fmt.Errorf("%s_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1", prefix)
	}
	return nil
}

func normalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return cfg
}
