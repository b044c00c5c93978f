package resilience

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultsFor(t *testing.T) {
	t.Parallel()

	if got := DefaultsFor("apifootball"); got.OpenTimeout != 30*time.Second || got.HalfOpenMaxReq != 1 {
		t.Fatalf("unexpected api-football defaults: %+v", got)
	}
	if got := DefaultsFor("UNKNOWN"); got != DefaultCircuitBreakerConfig() {
		t.Fatalf("expected generic defaults, got %+v", got)
	}
}

func TestCircuitBreakerConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := DefaultsFor("QSTASH")
	if err := valid.Validate("QSTASH"); err != nil {
		t.Fatalf("expected defaults to validate: %v", err)
	}

	cases := map[string]CircuitBreakerConfig{
		"ONESIGNAL_CIRCUIT_FAILURE_COUNT":     {FailureThreshold: 0, OpenTimeout: time.Second, HalfOpenMaxReq: 1},
		"ONESIGNAL_CIRCUIT_OPEN_TIMEOUT":      {FailureThreshold: 1, OpenTimeout: 0, HalfOpenMaxReq: 1},
		"ONESIGNAL_CIRCUIT_HALF_OPEN_MAX_REQ": {FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenMaxReq: 0},
	}
	for key, cfg := range cases {
		err := cfg.Validate("ONESIGNAL")
		if err == nil || !strings.Contains(err.Error(), key) {
			t.Fatalf("expected error naming %s, got %v", key, err)
		}
	}
}

func TestNewNamedCircuitBreaker_DisabledIsNil(t *testing.T) {
	t.Parallel()

	if b := NewNamedCircuitBreaker("onesignal", CircuitBreakerConfig{}); b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}
	b := NewNamedCircuitBreaker("apifootball", CircuitBreakerConfig{Enabled: true})
	if b == nil || b.Name() != "apifootball" {
		t.Fatalf("expected named breaker with normalized config")
	}
}
