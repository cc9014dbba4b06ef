// Package cache wraps the Redis client used for generic JSON Get/Set
// caching and auto-validation in-flight dedup, grounded on the teacher's
// api/core/redis.go (GetCache/SetCache/AddSubscriber/RemoveSubscriber/
// GetSubscribers over go-redis/v9).
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps a *redis.Client with the engine's cache/set helpers.
type Client struct {
	rdb *redis.Client
}

// Connect parses redisURL and pings it, fatal on failure, matching the
// teacher's ConnectRedis.
func Connect(redisURL string) *Client {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("[Cache] Unable to parse REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("[Cache] Unable to connect to Redis: %v", err)
	}
	log.Println("[Cache] Successfully connected to Redis")
	return &Client{rdb: rdb}
}

// Get attempts to retrieve and deserialize a value.
func (c *Client) Get(ctx context.Context, key string, target any) bool {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), target) == nil
}

// Set serializes and stores a value with an expiration.
func (c *Client) Set(ctx context.Context, key string, value any, expiration time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[Cache] Failed to marshal cache data for %s: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, expiration).Err(); err != nil {
		log.Printf("[Cache] Failed to set cache for %s: %v", key, err)
	}
}

// AddInFlight marks key as in-flight (e.g. a game queued for auto-validation
// dispatch), used by the auto-validation worker to coalesce duplicate
// dispatches within the delay window.
func (c *Client) AddInFlight(ctx context.Context, setKey, member string) error {
	return c.rdb.SAdd(ctx, setKey, member).Err()
}

// RemoveInFlight clears the in-flight marker.
func (c *Client) RemoveInFlight(ctx context.Context, setKey, member string) error {
	return c.rdb.SRem(ctx, setKey, member).Err()
}

// InFlightMembers lists all in-flight members.
func (c *Client) InFlightMembers(ctx context.Context, setKey string) ([]string, error) {
	return c.rdb.SMembers(ctx, setKey).Result()
}

// IsInFlight reports whether member is present in setKey.
func (c *Client) IsInFlight(ctx context.Context, setKey, member string) (bool, error) {
	return c.rdb.SIsMember(ctx, setKey, member).Result()
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
