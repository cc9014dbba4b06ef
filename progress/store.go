// Package progress implements the resumable per-item progress tracking
// described in spec.md sections 3-4 (C5 persistent store, C6 in-memory
// tracker): pending -> in_progress -> {success, failed, skipped}, with
// failed -> pending resets for retry-from-checkpoint. Query style follows
// the teacher's integrations/sports/api/sports.go queryGames (rows.Query +
// manual Scan loop, skip-and-log on row error).
package progress

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relentnet/nhl-ingest/model"
)

// Store is the pgx-backed persistent progress table (C5).
type Store struct {
	db *pgxpool.Pool
}

// NewStore wraps a connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Upsert creates a pending entry for (sourceID, seasonID, itemKey) if absent;
// it never resets an existing entry's status (use Reset for that).
func (s *Store) Upsert(ctx context.Context, sourceID int, seasonID *int, itemKey string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO progress_entries (source_id, season_id, item_key, status)
		VALUES ($1, $2, $3, 'pending')
		ON CONFLICT (source_id, season_id, item_key) DO NOTHING
	`, sourceID, seasonID, itemKey)
	if err != nil {
		return fmt.Errorf("progress: upsert failed: %w", err)
	}
	return nil
}

// MarkInProgress transitions an entry to in_progress, bumping attempts and
// recording the owning batch.
func (s *Store) MarkInProgress(ctx context.Context, sourceID int, seasonID *int, itemKey string, batchID int64) error {
	now := time.Now()
	_, err := s.db.Exec(ctx, `
		UPDATE progress_entries
		SET status = 'in_progress', attempts = attempts + 1, batch_id = $4, last_attempt_at = $5
		WHERE source_id = $1 AND season_id IS NOT DISTINCT FROM $2 AND item_key = $3
	`, sourceID, seasonID, itemKey, batchID, now)
	if err != nil {
		return fmt.Errorf("progress: mark in_progress failed: %w", err)
	}
	return nil
}

// MarkTerminal transitions an entry to success/failed/skipped, recording
// completion time, error message, and response metadata.
func (s *Store) MarkTerminal(ctx context.Context, sourceID int, seasonID *int, itemKey string, status model.ProgressStatus, errMsg string, responseSizeBytes, responseTimeMs *int) error {
	if status != model.ProgressSuccess && status != model.ProgressFailed && status != model.ProgressSkipped {
		return fmt.Errorf("progress: %q is not a terminal status", status)
	}
	now := time.Now()
	_, err := s.db.Exec(ctx, `
		UPDATE progress_entries
		SET status = $4, completed_at = $5, error_message = $6,
		    response_size_bytes = $7, response_time_ms = $8
		WHERE source_id = $1 AND season_id IS NOT DISTINCT FROM $2 AND item_key = $3
	`, sourceID, seasonID, itemKey, string(status), now, errMsg, responseSizeBytes, responseTimeMs)
	if err != nil {
		return fmt.Errorf("progress: mark terminal failed: %w", err)
	}
	return nil
}

// ResetFailed resets every failed entry for (sourceID, seasonID) back to
// pending, so the next batch retries them (spec.md's "resumable" guarantee).
func (s *Store) ResetFailed(ctx context.Context, sourceID int, seasonID *int) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE progress_entries
		SET status = 'pending', error_message = ''
		WHERE source_id = $1 AND season_id IS NOT DISTINCT FROM $2 AND status = 'failed'
	`, sourceID, seasonID)
	if err != nil {
		return 0, fmt.Errorf("progress: reset failed: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Get retrieves a single entry, or nil, nil if not found.
func (s *Store) Get(ctx context.Context, sourceID int, seasonID *int, itemKey string) (*model.ProgressEntry, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, source_id, season_id, item_key, status, attempts, batch_id,
		       last_attempt_at, completed_at, error_message,
		       response_size_bytes, response_time_ms, created_at
		FROM progress_entries
		WHERE source_id = $1 AND season_id IS NOT DISTINCT FROM $2 AND item_key = $3
	`, sourceID, seasonID, itemKey)

	var e model.ProgressEntry
	var status string
	if err := row.Scan(&e.ID, &e.SourceID, &e.SeasonID, &e.ItemKey, &status, &e.Attempts,
		&e.BatchID, &e.LastAttemptAt, &e.CompletedAt, &e.ErrorMessage,
		&e.ResponseSizeBytes, &e.ResponseTimeMs, &e.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("progress: get failed: %w", err)
	}
	e.Status = model.ProgressStatus(status)
	return &e, nil
}

// PendingItemKeys lists item keys still pending or failed for
// (sourceID, seasonID), the resume-from-checkpoint set spec.md section 4.5
// describes.
func (s *Store) PendingItemKeys(ctx context.Context, sourceID int, seasonID *int) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT item_key FROM progress_entries
		WHERE source_id = $1 AND season_id IS NOT DISTINCT FROM $2
		  AND status IN ('pending', 'failed')
		ORDER BY item_key
	`, sourceID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("progress: pending item keys failed: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			log.Printf("[Progress] row scan failed: %v", err)
			continue
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Stats computes BatchStats for (sourceID, seasonID), matching C5's
// get_batch_stats contract.
func (s *Store) Stats(ctx context.Context, sourceID int, seasonID *int) (model.BatchStats, error) {
	row := s.db.QueryRow(ctx, `
		SELECT
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'success'),
			count(*) FILTER (WHERE status = 'failed'),
			count(*) FILTER (WHERE status = 'skipped'),
			count(*)
		FROM progress_entries
		WHERE source_id = $1 AND season_id IS NOT DISTINCT FROM $2
	`, sourceID, seasonID)

	var stats model.BatchStats
	if err := row.Scan(&stats.Pending, &stats.Success, &stats.Failed, &stats.Skipped, &stats.Total); err != nil {
		return model.BatchStats{}, fmt.Errorf("progress: stats failed: %w", err)
	}
	return stats, nil
}
