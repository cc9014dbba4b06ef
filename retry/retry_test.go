package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/relentnet/nhl-ingest/config"
)

func testCfg() config.RetryConfig {
	return config.RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Millisecond,
		MaxDelay:   20 * time.Millisecond,
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), testCfg(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesRetryableThenSucceeds(t *testing.T) {
	calls := 0
	err := Do(context.Background(), testCfg(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("transient"), 0)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoFailsFastOnFatal(t *testing.T) {
	calls := 0
	sentinel := errors.New("bad request")
	err := Do(context.Background(), testCfg(), func(ctx context.Context) error {
		calls++
		return Fatal(sentinel)
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on fatal)", calls)
	}
}

func TestDoUnclassifiedErrorIsFatal(t *testing.T) {
	calls := 0
	sentinel := errors.New("unclassified")
	err := Do(context.Background(), testCfg(), func(ctx context.Context) error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	sentinel := errors.New("always fails")
	err := Do(context.Background(), testCfg(), func(ctx context.Context) error {
		calls++
		return Retryable(sentinel, 0)
	})
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted, got %v", err)
	}
	// MaxRetries=3 means 4 total attempts.
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
}

func TestBackoffCapsAtMaxDelay(t *testing.T) {
	cfg := config.RetryConfig{BaseDelay: 1 * time.Second, MaxDelay: 4 * time.Second}
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 4 * time.Second},
		{10, 4 * time.Second},
	}
	for _, c := range cases {
		got := backoff(cfg, c.attempt)
		if got != c.want {
			t.Errorf("backoff(attempt=%d) = %v, want %v", c.attempt, got, c.want)
		}
	}
}

func TestDoRetryAfterRaisesDelayAboveBackoff(t *testing.T) {
	calls := 0
	start := time.Now()
	cfg := testCfg() // BaseDelay 1ms, well under the 50ms hint
	err := Do(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return Retryable(errors.New("rate limited"), 50*time.Millisecond)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("expected delay floored at the Retry-After hint (50ms), elapsed=%v", elapsed)
	}
}

func TestDoRetryAfterDoesNotShortenBackoff(t *testing.T) {
	calls := 0
	start := time.Now()
	cfg := testCfg()
	cfg.BaseDelay = 50 * time.Millisecond
	cfg.MaxDelay = 1 * time.Second
	err := Do(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			// hint is far below the computed backoff; max(backoff, hint) must
			// still wait out the backoff, not the shorter hint.
			return Retryable(errors.New("rate limited"), 1*time.Millisecond)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("expected delay floored at computed backoff (50ms), elapsed=%v", elapsed)
	}
}

func TestDoAbortsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := Do(ctx, testCfg(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err == nil {
		t.Fatal("expected context error")
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0 (cancelled before first attempt)", calls)
	}
}
