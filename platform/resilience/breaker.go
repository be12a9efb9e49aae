// Package resilience provides the circuit breaker shared by outbound
// collaborator clients.
package resilience

import (
	"time"

	"github.com/sony/gobreaker"
)

const (
	halfOpenRequests = 3
	countInterval    = 30 * time.Second
	openTimeout      = 10 * time.Second
	minRequests      = 5
	failureRatio     = 0.6
)

// NewCircuitBreaker opens after at least five requests in a 30s window with a
// 60% failure ratio, and probes again after 10s.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: halfOpenRequests,
		Interval:    countInterval,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && ratio >= failureRatio
		},
	})
}
