package service

import (
	"time"

	"suggest/internal/model"

	"github.com/charmbracelet/log"
	gobreaker "github.com/sony/gobreaker/v2"
)

// newEngineBreaker builds the circuit breaker guarding the remote engine.
// An open circuit short-circuits straight to the local fuzzy tier without a
// network round trip, so a dead engine stops costing its timeout on every
// request. Trips after 3 consecutive failures, probes again after 30s.
func newEngineBreaker() *gobreaker.CircuitBreaker[[]model.Candidate] {
	return gobreaker.NewCircuitBreaker[[]model.Candidate](gobreaker.Settings{
		Name:        "search-engine",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Infof("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})
}
