package resilience

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
)

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	cb := NewCircuitBreaker("test")
	boom := errors.New("boom")

	for i := 0; i < minRequests; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, boom })
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", cb.State())
	}
	if _, err := cb.Execute(func() (interface{}, error) { return "ok", nil }); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected ErrOpenState, got %v", err)
	}
}

func TestBreakerStaysClosedBelowThreshold(t *testing.T) {
	cb := NewCircuitBreaker("test")
	boom := errors.New("boom")

	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, boom })
	}
	if cb.State() != gobreaker.StateClosed {
		t.Fatalf("expected closed breaker after 4 failures, got %s", cb.State())
	}
}
