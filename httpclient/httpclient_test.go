package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/relentnet/nhl-ingest/config"
)

func testClient() *Client {
	return New(
		config.HTTPClientConfig{
			Timeout:               2 * time.Second,
			ConnectTimeout:        1 * time.Second,
			UserAgent:             "nhl-ingest-test/1.0",
			MaxConnections:        10,
			MaxConnectionsPerHost: 10,
		},
		config.RateLimiterConfig{RequestsPerSecond: 1000, Burst: 10},
		config.RetryConfig{MaxRetries: 2, BaseDelay: 1 * time.Millisecond, MaxDelay: 10 * time.Millisecond},
	)
}

func TestGetSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := testClient()
	defer c.Close()

	resp, err := c.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsSuccess() {
		t.Errorf("expected success, got status %d", resp.StatusCode)
	}

	var v struct{ OK bool `json:"ok"` }
	if err := resp.JSON(&v); err != nil {
		t.Fatalf("JSON decode failed: %v", err)
	}
	if !v.OK {
		t.Error("expected ok=true")
	}
}

func TestGetRetriesOn500ThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := testClient()
	defer c.Close()

	resp, err := c.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestGetFailsFastOn404(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient()
	defer c.Close()

	resp, err := c.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("404 should not be returned as executor error: %v", err)
	}
	if !resp.IsClientError() {
		t.Errorf("expected client error classification, got status %d", resp.StatusCode)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 404)", calls)
	}
}

func TestGetRetryAfterOn429(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient()
	defer c.Close()

	resp, err := c.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 after retry", resp.StatusCode)
	}
}

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient()
	defer c.Close()

	if !c.HealthCheck(context.Background(), srv.URL, "/healthz") {
		t.Error("expected health check to succeed")
	}
	if c.HealthCheck(context.Background(), srv.URL, "/missing") {
		t.Error("expected health check to fail for 404 path")
	}
}
