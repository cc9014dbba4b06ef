// Package retry implements the backoff-and-retry executor (C2): a small
// number of retryable-error classes are retried with exponential backoff,
// everything else fails fast. Grounded on Amr-9-Sayl's
// executeStepWithRetry (attacker.go), generalized with an explicit
// classification type instead of string-matching network errors.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/relentnet/nhl-ingest/config"
)

// Class is the outcome a RetryableError reports to the executor.
type Class int

const (
	// ClassRetryable means the executor should retry (network/timeout, 5xx,
	// 429 rate limiting).
	ClassRetryable Class = iota
	// ClassFatal means the executor must not retry (4xx other than 429,
	// parse errors, validation errors).
	ClassFatal
)

// RetryableError wraps an underlying error with a retry classification and
// an optional server-supplied delay hint (from a Retry-After header). The
// hint never shortens the computed backoff -- it only raises the wait when
// the server asks for longer than the backoff would have given.
type RetryableError struct {
	Err        error
	Class      Class
	RetryAfter time.Duration // zero means "no server hint"
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Retryable wraps err as a retryable error, optionally with a server-supplied
// Retry-After delay hint that floors the computed exponential backoff (pass
// 0 if the response carried no such hint).
func Retryable(err error, retryAfter time.Duration) error {
	return &RetryableError{Err: err, Class: ClassRetryable, RetryAfter: retryAfter}
}

// Fatal wraps err to signal the executor must not retry it.
func Fatal(err error) error {
	return &RetryableError{Err: err, Class: ClassFatal}
}

// classify inspects err for an attached RetryableError; a plain error with
// no classification is treated as fatal, matching the spec's "only
// explicitly classified errors retry" rule.
func classify(err error) (Class, time.Duration) {
	var re *RetryableError
	if errors.As(err, &re) {
		return re.Class, re.RetryAfter
	}
	return ClassFatal, 0
}

// ErrExhausted is returned (wrapped) when all attempts are exhausted.
var ErrExhausted = errors.New("retry: attempts exhausted")

// Do runs fn, retrying on ClassRetryable errors with exponential backoff
// base_delay * 2^(attempt-1) capped at MaxDelay, up to MaxRetries
// additional attempts (MaxRetries+1 total attempts). If the error carries a
// Retry-After hint, the wait is max(backoff, hint) -- the hint only ever
// lengthens the wait. A non-nil ctx cancellation aborts immediately.
func Do(ctx context.Context, cfg config.RetryConfig, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxRetries+1; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		class, retryAfter := classify(lastErr)
		if class != ClassRetryable {
			return lastErr
		}
		if attempt > cfg.MaxRetries {
			break
		}

		delay := backoff(cfg, attempt)
		if retryAfter > delay {
			delay = retryAfter
		}
		if cfg.Jitter != nil {
			delay = cfg.Jitter(delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%w: %v", ErrExhausted, lastErr)
}

// backoff computes base_delay * 2^(attempt-1), capped at MaxDelay.
func backoff(cfg config.RetryConfig, attempt int) time.Duration {
	d := cfg.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= cfg.MaxDelay {
			return cfg.MaxDelay
		}
	}
	if d > cfg.MaxDelay {
		return cfg.MaxDelay
	}
	return d
}
