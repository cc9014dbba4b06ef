// Package ratelimit provides the token-bucket request pacing used by every
// source adapter before it issues an HTTP request (C1). It wraps
// golang.org/x/time/rate the way Amr-9-Sayl's load-test engine paces workers
// against a target rate.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/relentnet/nhl-ingest/config"
)

// Limiter paces requests to a configured sustained rate with burst capacity.
type Limiter struct {
	rl *rate.Limiter
}

// New builds a Limiter from a RateLimiterConfig. RequestsPerSecond <= 0
// disables limiting (Wait never blocks).
func New(cfg config.RateLimiterConfig) *Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return &Limiter{rl: rate.NewLimiter(rate.Inf, 0)}
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Limiter{rl: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)}
}

// Wait blocks until a token is available or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.rl.Wait(ctx)
}

// SetRate adjusts the sustained rate at runtime, e.g. after a 429 response
// signals the source wants callers to slow down.
func (l *Limiter) SetRate(requestsPerSecond float64) {
	l.rl.SetLimit(rate.Limit(requestsPerSecond))
}

// Rate reports the current sustained rate.
func (l *Limiter) Rate() float64 {
	return float64(l.rl.Limit())
}
