// Package batch implements the batch coordinator (C9): start_batch,
// cancel_batch, list_active, cooperative cancellation, and the
// process-wide active-batch registry. The registry's add/remove uses the
// CAS-retry-loop idiom from the teacher's api/core/events.go Hub
// (register/unregister), adapted from a per-user client list to a
// per-source active-batch singleton.
package batch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relentnet/nhl-ingest/model"
	"github.com/relentnet/nhl-ingest/progress"
	"github.com/relentnet/nhl-ingest/source"
)

// Store persists Batch rows; kept as a narrow interface so tests don't
// need a live database.
type Store interface {
	CreateBatch(ctx context.Context, b model.Batch) (int64, error)
	UpdateBatchStatus(ctx context.Context, batchID int64, status model.BatchStatus, errMsg string) error
	UpdateBatchCounts(ctx context.Context, batchID int64, stats model.BatchStats) error
}

// ProgressStore is the narrow slice of progress.Store the coordinator
// needs, kept as an interface (rather than a concrete *progress.Store
// field) so unit tests can substitute an in-memory fake instead of a live
// database.
type ProgressStore interface {
	Upsert(ctx context.Context, sourceID int, seasonID *int, itemKey string) error
	MarkInProgress(ctx context.Context, sourceID int, seasonID *int, itemKey string, batchID int64) error
	MarkTerminal(ctx context.Context, sourceID int, seasonID *int, itemKey string, status model.ProgressStatus, errMsg string, responseSizeBytes, responseTimeMs *int) error
}

// pgBatchStore is the Store implementation, grounded on the teacher's
// rows.Scan/Exec idiom (integrations/sports/api/sports.go).
type pgBatchStore struct {
	db *pgxpool.Pool
}

// NewPGStore wraps a connection pool as a batch.Store.
func NewPGStore(db *pgxpool.Pool) Store {
	return &pgBatchStore{db: db}
}

func (s *pgBatchStore) CreateBatch(ctx context.Context, b model.Batch) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO batches (source_id, season_id, status, started_at, items_total, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, b.SourceID, b.SeasonID, string(b.Status), b.StartedAt, b.ItemsTotal, b.Metadata).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("batch: create failed: %w", err)
	}
	return id, nil
}

func (s *pgBatchStore) UpdateBatchStatus(ctx context.Context, batchID int64, status model.BatchStatus, errMsg string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE batches SET status = $2, error_message = $3,
		  completed_at = CASE WHEN $2 IN ('completed', 'failed', 'cancelled') THEN now() ELSE completed_at END
		WHERE id = $1
	`, batchID, string(status), errMsg)
	if err != nil {
		return fmt.Errorf("batch: update status failed: %w", err)
	}
	return nil
}

func (s *pgBatchStore) UpdateBatchCounts(ctx context.Context, batchID int64, stats model.BatchStats) error {
	_, err := s.db.Exec(ctx, `
		UPDATE batches SET items_success = $2, items_failed = $3, items_skipped = $4
		WHERE id = $1
	`, batchID, stats.Success, stats.Failed, stats.Skipped)
	if err != nil {
		return fmt.Errorf("batch: update counts failed: %w", err)
	}
	return nil
}

// activeEntry is one running batch tracked by the process-wide registry.
type activeEntry struct {
	batchID int64
	sourceID int
	cancel  context.CancelFunc
	tracker *progress.Tracker
}

// activeList wraps a slice so it can be stored atomically in sync.Map,
// matching the teacher's clientList wrapper (sync.Map.CompareAndSwap
// requires comparable stored values; Go slices aren't comparable, so each
// mutation stores a fresh *activeList rather than mutating one in place).
type activeList struct {
	entries []*activeEntry
}

// registry is the process-wide active-batch set, keyed by source id.
var registry sync.Map // int (sourceID) -> *activeList

func registerActive(sourceID int, entry *activeEntry) {
	for {
		existing, loaded := registry.Load(sourceID)
		if loaded {
			old := existing.(*activeList)
			newList := &activeList{entries: append(append([]*activeEntry(nil), old.entries...), entry)}
			if registry.CompareAndSwap(sourceID, old, newList) {
				return
			}
			continue
		}
		newList := &activeList{entries: []*activeEntry{entry}}
		if _, swapped := registry.LoadOrStore(sourceID, newList); !swapped {
			return
		}
	}
}

func unregisterActive(sourceID int, batchID int64) {
	for {
		existing, ok := registry.Load(sourceID)
		if !ok {
			return
		}
		old := existing.(*activeList)
		var newEntries []*activeEntry
		found := false
		for _, e := range old.entries {
			if e.batchID == batchID {
				found = true
				continue
			}
			newEntries = append(newEntries, e)
		}
		if !found {
			return
		}
		if len(newEntries) == 0 {
			if registry.CompareAndDelete(sourceID, old) {
				return
			}
		} else {
			newList := &activeList{entries: newEntries}
			if registry.CompareAndSwap(sourceID, old, newList) {
				return
			}
		}
	}
}

// ActiveBatch is a snapshot row returned by ListActive.
type ActiveBatch struct {
	BatchID  int64
	SourceID int
	Stats    model.BatchStats
}

// ListActive returns every batch currently running across all sources.
func ListActive() []ActiveBatch {
	var out []ActiveBatch
	registry.Range(func(key, value any) bool {
		sourceID := key.(int)
		list := value.(*activeList)
		for _, e := range list.entries {
			out = append(out, ActiveBatch{BatchID: e.batchID, SourceID: sourceID, Stats: e.tracker.Snapshot()})
		}
		return true
	})
	return out
}

// CancelBatch cooperatively cancels a running batch by id. Returns false if
// no such batch is active.
func CancelBatch(sourceID int, batchID int64) bool {
	existing, ok := registry.Load(sourceID)
	if !ok {
		return false
	}
	for _, e := range existing.(*activeList).entries {
		if e.batchID == batchID {
			e.cancel()
			return true
		}
	}
	return false
}

// Coordinator runs one (source, season) ingestion batch to completion,
// dispatching items to an Adapter with bounded concurrency via
// golang.org/x/sync/errgroup, matching the teacher's go.mod direct
// dependency on x/sync.
type Coordinator struct {
	Store           Store
	ProgressStore   ProgressStore
	MaxConcurrency  int
}

// NewCoordinator builds a Coordinator with the given stores and worker
// concurrency (defaults to 4 if <= 0).
func NewCoordinator(store Store, progressStore ProgressStore, maxConcurrency int) *Coordinator {
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	return &Coordinator{Store: store, ProgressStore: progressStore, MaxConcurrency: maxConcurrency}
}

// Run starts a batch for adapter over items, blocking until completion,
// cancellation, or ctx expiry. It registers the batch in the active
// registry for the duration of the run.
func (c *Coordinator) Run(ctx context.Context, sourceID int, seasonID *int, adapter source.Adapter, items []source.Item) (model.Batch, error) {
	if !adapter.HealthCheck(ctx) {
		return model.Batch{}, fmt.Errorf("batch: health check failed for source %q", adapter.SourceName())
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	itemsTotal := len(items)
	batch := model.Batch{
		SourceID:   sourceID,
		SeasonID:   seasonID,
		Status:     model.BatchRunning,
		StartedAt:  time.Now(),
		ItemsTotal: &itemsTotal,
	}
	batchID, err := c.Store.CreateBatch(runCtx, batch)
	if err != nil {
		return model.Batch{}, err
	}
	batch.ID = batchID

	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.ItemKey
	}
	tracker := progress.NewTracker(keys)

	entry := &activeEntry{batchID: batchID, sourceID: sourceID, cancel: cancel, tracker: tracker}
	registerActive(sourceID, entry)
	defer unregisterActive(sourceID, batchID)

	var success, failed, skipped int64

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(c.MaxConcurrency)

	for _, item := range items {
		item := item
		g.Go(func() error {
			if err := c.ProgressStore.Upsert(gctx, sourceID, item.SeasonID, item.ItemKey); err != nil {
				return err
			}
			if err := tracker.Transition(item.ItemKey, model.ProgressInProgress); err != nil {
				return err
			}
			if err := c.ProgressStore.MarkInProgress(gctx, sourceID, item.SeasonID, item.ItemKey, batchID); err != nil {
				return err
			}

			// Per-item fetch/persist failures are recorded against the item
			// (counters, tracker, progress store) but deliberately do not
			// fail this goroutine: section 7's propagation policy is that an
			// item failure marks the item failed and the batch continues,
			// only store/infra failures while recording that outcome are
			// batch-level and should escalate.
			result, fetchErr := adapter.FetchOne(gctx, item)
			if fetchErr != nil {
				atomic.AddInt64(&failed, 1)
				_ = tracker.Transition(item.ItemKey, model.ProgressFailed)
				if err := c.ProgressStore.MarkTerminal(gctx, sourceID, item.SeasonID, item.ItemKey, model.ProgressFailed, fetchErr.Error(), nil, nil); err != nil {
					return fmt.Errorf("batch: mark item %q failed: %w", item.ItemKey, err)
				}
				return nil
			}

			if persistErr := adapter.Persist(gctx, result); persistErr != nil {
				atomic.AddInt64(&failed, 1)
				_ = tracker.Transition(item.ItemKey, model.ProgressFailed)
				if err := c.ProgressStore.MarkTerminal(gctx, sourceID, item.SeasonID, item.ItemKey, model.ProgressFailed, persistErr.Error(), nil, nil); err != nil {
					return fmt.Errorf("batch: mark item %q failed: %w", item.ItemKey, err)
				}
				return nil
			}

			atomic.AddInt64(&success, 1)
			_ = tracker.Transition(item.ItemKey, model.ProgressSuccess)
			size, ms := result.ResponseSizeBytes, result.ResponseTimeMs
			return c.ProgressStore.MarkTerminal(gctx, sourceID, item.SeasonID, item.ItemKey, model.ProgressSuccess, "", &size, &ms)
		})
	}

	groupErr := g.Wait()

	finalStatus := model.BatchCompleted
	errMsg := ""
	if groupErr != nil {
		if runCtx.Err() == context.Canceled {
			finalStatus = model.BatchCancelled
		} else {
			finalStatus = model.BatchFailed
			errMsg = groupErr.Error()
		}
	}

	stats := model.BatchStats{
		Success: int(atomic.LoadInt64(&success)),
		Failed:  int(atomic.LoadInt64(&failed)),
		Skipped: int(atomic.LoadInt64(&skipped)),
	}
	if err := c.Store.UpdateBatchCounts(ctx, batchID, stats); err != nil {
		return batch, err
	}
	if err := c.Store.UpdateBatchStatus(ctx, batchID, finalStatus, errMsg); err != nil {
		return batch, err
	}

	batch.Status = finalStatus
	batch.ItemsSuccess = stats.Success
	batch.ItemsFailed = stats.Failed
	batch.ItemsSkipped = stats.Skipped
	batch.ErrorMessage = errMsg
	return batch, groupErr
}
