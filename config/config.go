// Package config loads the fixed configuration structs used across the
// ingestion engine. Every configurable surface is an explicit struct field
// with a sane default -- there are no free-form string-keyed option bags
// at this layer (the store's metadata map is the only opaque payload, and
// it stays opaque to this package).
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// HTTPClientConfig configures the pooled HTTP client (C3).
type HTTPClientConfig struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration
	// ConnectTimeout bounds the TCP+TLS handshake.
	ConnectTimeout time.Duration
	// UserAgent is sent on every request. Required.
	UserAgent string
	// MaxConnections caps total pooled connections.
	MaxConnections int
	// MaxConnectionsPerHost caps pooled connections to a single host.
	MaxConnectionsPerHost int
	// EnableCookies turns on a cookie jar (needed for HTML sources that
	// issue session cookies).
	EnableCookies bool
	// VerifySSL controls TLS certificate verification.
	VerifySSL bool
}

// DefaultHTTPClientConfig returns the engine's default HTTP client
// configuration. UserAgent must still be set by the caller.
func DefaultHTTPClientConfig(userAgent string) HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:               30 * time.Second,
		ConnectTimeout:        10 * time.Second,
		UserAgent:             userAgent,
		MaxConnections:        100,
		MaxConnectionsPerHost: 10,
		EnableCookies:         false,
		VerifySSL:             true,
	}
}

// RateLimiterConfig configures the token-bucket rate limiter (C1).
type RateLimiterConfig struct {
	// RequestsPerSecond is the sustained rate.
	RequestsPerSecond float64
	// Burst is the bucket capacity. 1 means smooth pacing.
	Burst int
}

// RetryConfig configures the retry executor (C2).
type RetryConfig struct {
	MaxRetries      int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	// Jitter, when non-nil, perturbs the computed backoff. Default is nil
	// (deterministic backoff).
	Jitter func(d time.Duration) time.Duration
}

// DefaultRetryConfig returns the engine's default retry policy:
// base_delay * 2^(attempt-1), capped at 60s, 3 retries (4 attempts total).
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   60 * time.Second,
	}
}

// SourceConfig describes one data source's network-facing configuration.
type SourceConfig struct {
	Name              string
	BaseURL           string
	RequestsPerSecond float64
	HealthCheckPath   string
}

// AutoValidationConfig configures the auto-validation worker (C12), read
// from environment variables per spec.md section 6.
type AutoValidationConfig struct {
	AutoRun bool
	Delay   time.Duration
}

// LoadAutoValidationConfig reads VALIDATION_AUTO_RUN (bool, default true)
// and VALIDATION_DELAY_SECONDS (float, default 2.0) from the environment.
func LoadAutoValidationConfig() AutoValidationConfig {
	cfg := AutoValidationConfig{
		AutoRun: true,
		Delay:   2 * time.Second,
	}

	if v := os.Getenv("VALIDATION_AUTO_RUN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AutoRun = b
		} else {
			log.Printf("[Config] Invalid VALIDATION_AUTO_RUN=%q, using default true", v)
		}
	}

	if v := os.Getenv("VALIDATION_DELAY_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Delay = time.Duration(f * float64(time.Second))
		} else {
			log.Printf("[Config] Invalid VALIDATION_DELAY_SECONDS=%q, using default 2s", v)
		}
	}

	return cfg
}

// DatabaseConfig configures the pooled connection to the relational store.
type DatabaseConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
}

// LoadDatabaseConfig reads DATABASE_URL from the environment. Fatal if unset,
// matching the teacher's core.ConnectDB behaviour.
func LoadDatabaseConfig() DatabaseConfig {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		log.Fatal("DATABASE_URL must be set")
	}

	return DatabaseConfig{
		URL:             url,
		MaxConns:        20,
		MinConns:        2,
		MaxConnIdleTime: 30 * time.Minute,
		MaxRetries:      5,
		RetryDelay:      2 * time.Second,
	}
}
