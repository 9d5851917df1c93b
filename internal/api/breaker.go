package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrBreakerOpen is returned when the circuit breaker rejects a request.
var ErrBreakerOpen = gobreaker.ErrOpenState

// BreakerConfig holds circuit breaker configuration for the gateway.
type BreakerConfig struct {
	// Name identifies this breaker in metrics and logs.
	Name string
	// MaxRequests is the number of probe requests allowed half-open.
	MaxRequests uint32
	// Interval is the closed-state period for clearing internal counts.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// FailureRatio trips the breaker once this share of requests fail.
	FailureRatio float64
	// MinRequests is the minimum sample size before the ratio is evaluated.
	MinRequests uint32
}

// DefaultBreakerConfig returns the gateway's breaker defaults.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// breaker guards the commerce API transport. Only transport-level failures
// (no response at all) count against the breaker; HTTP error statuses still
// carry information and are mapped by the caller.
type breaker struct {
	cb *gobreaker.CircuitBreaker[*http.Response]
}

func newBreaker(cfg BreakerConfig, log *slog.Logger) *breaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}

	breakerState.WithLabelValues(cfg.Name).Set(stateToFloat(gobreaker.StateClosed))

	return &breaker{cb: gobreaker.NewCircuitBreaker[*http.Response](settings)}
}

// Do executes the request through the breaker using the given client.
func (b *breaker) Do(client *http.Client, req *http.Request) (*http.Response, error) {
	return b.cb.Execute(func() (*http.Response, error) {
		return client.Do(req)
	})
}

// stateToFloat maps gobreaker states to gauge values.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
