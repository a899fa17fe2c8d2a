package httpx

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig tunes the circuit breaker guarding an outbound dependency.
type BreakerConfig struct {
	Name        string
	Timeout     time.Duration
	MaxFailures uint32
}

type breakerClient struct {
	inner   Client
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerClient decorates a Client with a circuit breaker. Consecutive
// failures trip the breaker; while open, calls fail fast without reaching
// the wire.
func NewBreakerClient(inner Client, cfg BreakerConfig) Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 5,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
	}
	return &breakerClient{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (c *breakerClient) Do(req *http.Request) (*http.Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.inner.Do(req)
		if err != nil {
			return nil, err
		}
		// 5xx responses count as failures so a dying upstream trips the
		// breaker even when the transport itself succeeds.
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, fmt.Errorf("upstream returned %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if resp, ok := result.(*http.Response); ok {
			return resp, fmt.Errorf("breaker (%s): %w", c.breaker.Name(), err)
		}
		return nil, fmt.Errorf("breaker (%s): %w", c.breaker.Name(), err)
	}
	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("breaker (%s): unexpected result type %T", c.breaker.Name(), result)
	}
	return resp, nil
}
