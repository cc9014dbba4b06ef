// Package source defines the adapter capability set every source
// implementation satisfies (C7), and the parser utilities shared across the
// three archetypes (C8): safe numeric coercion, MM:SS parsing, and name
// normalization/similarity matching. Grounded on the Python original's
// BaseDownloader composing an HTTPClient + RateLimiter + RetryHandler, and
// on the teacher's App-struct-holds-dependencies pattern
// (integrations/sports/api/sports.go's App{db, rdb}).
package source

import (
	"context"

	"github.com/relentnet/nhl-ingest/httpclient"
	"github.com/relentnet/nhl-ingest/model"
)

// Item is one enumerable unit of work for a source: a game id, a
// (team, date) pair, whatever the source's enumeration granularity is.
// ItemKey is the stable string used as progress_entries.item_key.
type Item struct {
	ItemKey  string
	SeasonID *int
	Payload  map[string]any
}

// FetchResult is what Adapter.FetchOne returns: the parsed entity (left to
// the caller to type-assert per source) plus size/timing metadata for
// progress bookkeeping.
type FetchResult struct {
	Parsed            any
	ResponseSizeBytes int
	ResponseTimeMs    int
}

// Adapter is the capability set every source implementation provides,
// matching C7's "source_name, enumerate_items, fetch_one, persist,
// health_check" contract. Composition over inheritance: concrete adapters
// embed a *Base for the shared HTTP/rate-limit/retry plumbing and implement
// only their parsing logic.
type Adapter interface {
	SourceName() string
	EnumerateItems(ctx context.Context, seasonID *int) ([]Item, error)
	FetchOne(ctx context.Context, item Item) (FetchResult, error)
	Persist(ctx context.Context, result FetchResult) error
	HealthCheck(ctx context.Context) bool
}

// Base holds the HTTP client plumbing shared by every adapter. A caller may
// construct its own *httpclient.Client and inject it (owned=false, the
// adapter must not Close it) or let the adapter build and own one
// (owned=true), mirroring the Python original's owns-vs-injected client
// lifecycle distinction.
type Base struct {
	Client  *httpclient.Client
	owned   bool
	baseURL string
}

// NewBase wraps a client the adapter owns and must Close on Shutdown.
func NewBase(client *httpclient.Client, baseURL string) *Base {
	return &Base{Client: client, owned: true, baseURL: baseURL}
}

// NewInjectedBase wraps a client supplied by the caller; Shutdown is a
// no-op since the caller retains ownership.
func NewInjectedBase(client *httpclient.Client, baseURL string) *Base {
	return &Base{Client: client, owned: false, baseURL: baseURL}
}

// BaseURL returns the source's configured base URL.
func (b *Base) BaseURL() string {
	return b.baseURL
}

// Shutdown releases the client if this Base owns it.
func (b *Base) Shutdown() {
	if b.owned {
		b.Client.Close()
	}
}

// SeasonIDFromGameID derives a season id from a 10-digit game id, exposed
// here so adapters don't need to import model directly for this one helper.
func SeasonIDFromGameID(gameID int) int {
	return model.GameIDToSeasonID(gameID)
}
