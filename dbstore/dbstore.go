// Package dbstore holds the shared PostgreSQL connection pool and bootstrap
// schema for the ingestion engine, grounded on the teacher's
// api/core/database.go ConnectDB: retry-on-connect loop, pool tuning from
// config, CREATE TABLE IF NOT EXISTS bootstrap, non-fatal warnings for
// individual table creation failures.
package dbstore

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relentnet/nhl-ingest/config"
)

// Store wraps the pooled connection shared by progress, batch, validate,
// and reconcile.
type Store struct {
	Pool *pgxpool.Pool
}

// Connect opens the pool, retrying per cfg.MaxRetries, then bootstraps the
// schema. Fatal if the pool cannot be established.
func Connect(ctx context.Context, cfg config.DatabaseConfig) *Store {
	pgCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		log.Fatalf("[DBStore] Unable to parse DATABASE_URL: %v", err)
	}
	pgCfg.MaxConns = cfg.MaxConns
	pgCfg.MinConns = cfg.MinConns
	pgCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	var pool *pgxpool.Pool
	for i := 0; i < cfg.MaxRetries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, pgCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
		}
		log.Printf("[DBStore] Failed to connect to DB, retrying in %s... (%d attempts left)", cfg.RetryDelay, cfg.MaxRetries-i-1)
		time.Sleep(cfg.RetryDelay)
	}
	if err != nil {
		log.Fatalf("[DBStore] Unable to connect to database after retries: %v", err)
	}

	log.Println("[DBStore] Successfully connected to PostgreSQL database")

	s := &Store{Pool: pool}
	s.bootstrap(ctx)
	return s
}

// Close releases the pool.
func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) bootstrap(ctx context.Context) {
	statements := []struct {
		name string
		ddl  string
	}{
		{"sources", ddlSources},
		{"batches", ddlBatches},
		{"progress_entries", ddlProgressEntries},
		{"validation_rules", ddlValidationRules},
		{"validation_runs", ddlValidationRuns},
		{"validation_results", ddlValidationResults},
		{"discrepancies", ddlDiscrepancies},
	}

	for _, stmt := range statements {
		if _, err := s.Pool.Exec(ctx, stmt.ddl); err != nil {
			log.Printf("[DBStore] Warning: failed to create table %s: %v", stmt.name, err)
		}
	}
}

const ddlSources = `
CREATE TABLE IF NOT EXISTS sources (
	id   SERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	type TEXT NOT NULL
);
`

const ddlBatches = `
CREATE TABLE IF NOT EXISTS batches (
	id             BIGSERIAL PRIMARY KEY,
	source_id      INTEGER NOT NULL REFERENCES sources(id),
	season_id      INTEGER,
	status         TEXT NOT NULL,
	started_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at   TIMESTAMPTZ,
	items_total    INTEGER,
	items_success  INTEGER NOT NULL DEFAULT 0,
	items_failed   INTEGER NOT NULL DEFAULT 0,
	items_skipped  INTEGER NOT NULL DEFAULT 0,
	error_message  TEXT NOT NULL DEFAULT '',
	metadata       JSONB NOT NULL DEFAULT '{}'
);
`

const ddlProgressEntries = `
CREATE TABLE IF NOT EXISTS progress_entries (
	id                  BIGSERIAL PRIMARY KEY,
	source_id           INTEGER NOT NULL REFERENCES sources(id),
	season_id           INTEGER,
	item_key            TEXT NOT NULL,
	status              TEXT NOT NULL DEFAULT 'pending',
	attempts            INTEGER NOT NULL DEFAULT 0,
	batch_id            BIGINT REFERENCES batches(id),
	last_attempt_at     TIMESTAMPTZ,
	completed_at        TIMESTAMPTZ,
	error_message       TEXT NOT NULL DEFAULT '',
	response_size_bytes INTEGER,
	response_time_ms    INTEGER,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE NULLS NOT DISTINCT (source_id, season_id, item_key)
);
`

const ddlValidationRules = `
CREATE TABLE IF NOT EXISTS validation_rules (
	id        SERIAL PRIMARY KEY,
	name      TEXT NOT NULL UNIQUE,
	category  TEXT NOT NULL,
	severity  TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT true,
	config    JSONB NOT NULL DEFAULT '{}'
);
`

const ddlValidationRuns = `
CREATE TABLE IF NOT EXISTS validation_runs (
	run_id         TEXT PRIMARY KEY,
	season_id      INTEGER NOT NULL,
	started_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at   TIMESTAMPTZ,
	status         TEXT NOT NULL,
	rules_checked  INTEGER NOT NULL DEFAULT 0,
	total_passed   INTEGER NOT NULL DEFAULT 0,
	total_failed   INTEGER NOT NULL DEFAULT 0,
	total_warnings INTEGER NOT NULL DEFAULT 0,
	metadata       JSONB NOT NULL DEFAULT '{}'
);
`

const ddlValidationResults = `
CREATE TABLE IF NOT EXISTS validation_results (
	id            BIGSERIAL PRIMARY KEY,
	run_id        TEXT NOT NULL REFERENCES validation_runs(run_id),
	rule_name     TEXT NOT NULL,
	game_id       INTEGER,
	passed        BOOLEAN NOT NULL,
	severity      TEXT NOT NULL,
	message       TEXT NOT NULL DEFAULT '',
	details       JSONB NOT NULL DEFAULT '{}',
	source_values JSONB NOT NULL DEFAULT '{}',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const ddlDiscrepancies = `
CREATE TABLE IF NOT EXISTS discrepancies (
	id                TEXT PRIMARY KEY,
	rule_name         TEXT NOT NULL,
	entity_type       TEXT NOT NULL,
	entity_id         TEXT NOT NULL,
	field_name        TEXT NOT NULL,
	source_values     JSONB NOT NULL DEFAULT '{}',
	resolution_status TEXT NOT NULL DEFAULT 'open',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE(rule_name, entity_type, entity_id, field_name)
);
`

// pingErr wraps a context-deadline ping failure for callers that want to
// surface a readiness probe (mirrors the teacher's health-check style).
func pingErr(ctx context.Context, pool *pgxpool.Pool) error {
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("dbstore: ping failed: %w", err)
	}
	return nil
}

// Healthy reports whether the pool can be pinged within 2 seconds.
func (s *Store) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return pingErr(ctx, s.Pool) == nil
}
