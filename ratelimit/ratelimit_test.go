package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/relentnet/nhl-ingest/config"
)

func TestWaitPacesRequests(t *testing.T) {
	l := New(config.RateLimiterConfig{RequestsPerSecond: 20, Burst: 1})
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("Wait returned error: %v", err)
		}
	}
	elapsed := time.Since(start)

	// 3 requests at burst 1 / 20rps means at least 2 waits of ~50ms.
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected pacing delay, elapsed=%v", elapsed)
	}
}

func TestWaitRespectsCancellation(t *testing.T) {
	l := New(config.RateLimiterConfig{RequestsPerSecond: 0.001, Burst: 1})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// First call consumes the initial burst token immediately.
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait failed: %v", err)
	}
	if err := l.Wait(ctx); err == nil {
		t.Error("expected context deadline error on second Wait")
	}
}

func TestDisabledLimiterNeverBlocks(t *testing.T) {
	l := New(config.RateLimiterConfig{RequestsPerSecond: 0})
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("Wait returned error: %v", err)
		}
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Error("disabled limiter should not introduce pacing delay")
	}
}

func TestSetRate(t *testing.T) {
	l := New(config.RateLimiterConfig{RequestsPerSecond: 5, Burst: 1})
	l.SetRate(50)
	if l.Rate() != 50 {
		t.Errorf("Rate() = %v, want 50", l.Rate())
	}
}
