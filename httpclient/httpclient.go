// Package httpclient provides the pooled HTTP client every source adapter
// fetches through (C3). It composes a rate limiter and a retry executor
// around net/http the way the Python original's HTTPClient composed
// aiohttp with RateLimiter/RetryHandler, and exposes the same typed
// response helpers (is_success, is_rate_limited, retry_after, json/text).
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"github.com/relentnet/nhl-ingest/config"
	"github.com/relentnet/nhl-ingest/ratelimit"
	"github.com/relentnet/nhl-ingest/retry"
)

// Response is the typed wrapper returned by every fetch, mirroring the
// original HTTPResponse helper surface.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
	Duration   time.Duration
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRateLimited reports HTTP 429.
func (r *Response) IsRateLimited() bool {
	return r.StatusCode == http.StatusTooManyRequests
}

// IsServerError reports a 5xx status.
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

// IsClientError reports a 4xx status other than 429.
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500 && !r.IsRateLimited()
}

// RetryAfter parses the Retry-After header as seconds. Returns 0, false if
// absent or unparsable.
func (r *Response) RetryAfter() (time.Duration, bool) {
	v := r.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Client is the pooled, rate-limited, retrying HTTP client owned by one
// source adapter (or shared when a caller injects its own instance,
// mirroring the Python original's owns-vs-injected client distinction).
type Client struct {
	http       *http.Client
	limiter    *ratelimit.Limiter
	retryCfg   config.RetryConfig
	userAgent  string
}

// New builds a Client scoped to one source's network configuration.
func New(httpCfg config.HTTPClientConfig, rateCfg config.RateLimiterConfig, retryCfg config.RetryConfig) *Client {
	transport := &http.Transport{
		MaxConnsPerHost:     httpCfg.MaxConnectionsPerHost,
		MaxIdleConns:        httpCfg.MaxConnections,
		MaxIdleConnsPerHost: httpCfg.MaxConnectionsPerHost,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   httpCfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	hc := &http.Client{
		Timeout:   httpCfg.Timeout,
		Transport: transport,
	}
	if httpCfg.EnableCookies {
		jar, _ := cookiejar.New(nil)
		hc.Jar = jar
	}

	return &Client{
		http:      hc,
		limiter:   ratelimit.New(rateCfg),
		retryCfg:  retryCfg,
		userAgent: httpCfg.UserAgent,
	}
}

// Get issues a rate-limited, retrying GET request. 429/5xx/network errors
// are retried per retryCfg; other statuses are returned as a successful
// (non-error) Response for the caller to classify further (e.g. a 404 used
// as a "not yet published" signal by some sources).
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	var resp *Response

	err := retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Fatal(fmt.Errorf("building request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "*/*")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		start := time.Now()
		httpResp, err := c.http.Do(req)
		if err != nil {
			return retry.Retryable(fmt.Errorf("request failed: %w", err), 0)
		}
		defer httpResp.Body.Close()

		body, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return retry.Retryable(fmt.Errorf("reading body: %w", err), 0)
		}

		r := &Response{
			StatusCode: httpResp.StatusCode,
			Body:       body,
			Header:     httpResp.Header,
			Duration:   time.Since(start),
		}

		if r.IsRateLimited() {
			delay, _ := r.RetryAfter()
			return retry.Retryable(fmt.Errorf("rate limited: %s", url), delay)
		}
		if r.IsServerError() {
			return retry.Retryable(fmt.Errorf("server error %d: %s", r.StatusCode, url), 0)
		}

		resp = r
		return nil
	})

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// HealthCheck issues a GET to path relative to baseURL and reports whether
// the response was a success status, matching the adapter capability
// set's health_check hook (C7).
func (c *Client) HealthCheck(ctx context.Context, baseURL, path string) bool {
	resp, err := c.Get(ctx, baseURL+path, nil)
	if err != nil {
		return false
	}
	return resp.IsSuccess()
}

// Close releases pooled connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
