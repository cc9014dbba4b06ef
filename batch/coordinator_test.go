package batch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/relentnet/nhl-ingest/model"
	"github.com/relentnet/nhl-ingest/source"
)

type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	status model.BatchStatus
	counts model.BatchStats
}

func (f *fakeStore) CreateBatch(ctx context.Context, b model.Batch) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return f.nextID, nil
}

func (f *fakeStore) UpdateBatchStatus(ctx context.Context, batchID int64, status model.BatchStatus, errMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	return nil
}

func (f *fakeStore) UpdateBatchCounts(ctx context.Context, batchID int64, stats model.BatchStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = stats
	return nil
}

type fakeProgressStore struct{}

func (fakeProgressStore) Upsert(ctx context.Context, sourceID int, seasonID *int, itemKey string) error {
	return nil
}
func (fakeProgressStore) MarkInProgress(ctx context.Context, sourceID int, seasonID *int, itemKey string, batchID int64) error {
	return nil
}
func (fakeProgressStore) MarkTerminal(ctx context.Context, sourceID int, seasonID *int, itemKey string, status model.ProgressStatus, errMsg string, responseSizeBytes, responseTimeMs *int) error {
	return nil
}

// failingMarkTerminalStore simulates a progress-store write failure when
// recording a failed item's terminal state -- a batch-level infra error,
// distinct from the item's own fetch/persist failure.
type failingMarkTerminalStore struct{}

func (failingMarkTerminalStore) Upsert(ctx context.Context, sourceID int, seasonID *int, itemKey string) error {
	return nil
}
func (failingMarkTerminalStore) MarkInProgress(ctx context.Context, sourceID int, seasonID *int, itemKey string, batchID int64) error {
	return nil
}
func (failingMarkTerminalStore) MarkTerminal(ctx context.Context, sourceID int, seasonID *int, itemKey string, status model.ProgressStatus, errMsg string, responseSizeBytes, responseTimeMs *int) error {
	if status == model.ProgressFailed {
		return errors.New("progress store write failed")
	}
	return nil
}

type fakeAdapter struct {
	fail map[string]bool
}

func (a *fakeAdapter) SourceName() string { return "fake" }
func (a *fakeAdapter) EnumerateItems(ctx context.Context, seasonID *int) ([]source.Item, error) {
	return nil, nil
}
func (a *fakeAdapter) FetchOne(ctx context.Context, item source.Item) (source.FetchResult, error) {
	if a.fail != nil && a.fail[item.ItemKey] {
		return source.FetchResult{}, errors.New("fetch failed")
	}
	return source.FetchResult{Parsed: item.ItemKey, ResponseSizeBytes: 10, ResponseTimeMs: 5}, nil
}
func (a *fakeAdapter) Persist(ctx context.Context, result source.FetchResult) error { return nil }
func (a *fakeAdapter) HealthCheck(ctx context.Context) bool                        { return true }

func items(keys ...string) []source.Item {
	out := make([]source.Item, len(keys))
	for i, k := range keys {
		out[i] = source.Item{ItemKey: k, Payload: map[string]any{}}
	}
	return out
}

func TestCoordinatorRunAllSucceed(t *testing.T) {
	st := &fakeStore{}
	c := NewCoordinator(st, fakeProgressStore{}, 2)
	adapter := &fakeAdapter{}

	b, err := c.Run(context.Background(), 1, nil, adapter, items("a", "b", "c"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != model.BatchCompleted {
		t.Errorf("status = %v, want completed", b.Status)
	}
	if b.ItemsSuccess != 3 {
		t.Errorf("success = %d, want 3", b.ItemsSuccess)
	}
}

// A single item's fetch failure marks that item failed but does not fail
// the batch -- section 7's propagation policy: "the item is marked failed,
// the batch continues." Only store/infra failures are batch-level.
func TestCoordinatorRunPartialFailure(t *testing.T) {
	st := &fakeStore{}
	c := NewCoordinator(st, fakeProgressStore{}, 2)
	adapter := &fakeAdapter{fail: map[string]bool{"b": true}}

	b, err := c.Run(context.Background(), 1, nil, adapter, items("a", "b", "c"))
	if err != nil {
		t.Fatalf("unexpected error: a single item's failure must not fail the batch: %v", err)
	}
	if b.Status != model.BatchCompleted {
		t.Errorf("status = %v, want completed", b.Status)
	}
	if b.ItemsFailed != 1 || b.ItemsSuccess != 2 {
		t.Errorf("success=%d failed=%d, want 2/1", b.ItemsSuccess, b.ItemsFailed)
	}
}

// A failure in the progress store itself (not the adapter) is a batch-level
// infra failure and must fail the batch, per section 7's table row "Store
// conflict" / "Batch-level exceptions... terminate the batch as failed."
func TestCoordinatorRunFailsBatchOnStoreError(t *testing.T) {
	st := &fakeStore{}
	c := NewCoordinator(st, failingMarkTerminalStore{}, 2)
	adapter := &fakeAdapter{fail: map[string]bool{"b": true}}

	b, err := c.Run(context.Background(), 1, nil, adapter, items("a", "b", "c"))
	if err == nil {
		t.Fatal("expected an error from the progress store failing to record the item outcome")
	}
	if b.Status != model.BatchFailed {
		t.Errorf("status = %v, want failed", b.Status)
	}
}

func TestListActiveEmptyWhenNoneRunning(t *testing.T) {
	if got := ListActive(); len(got) != 0 {
		t.Errorf("ListActive() = %v, want empty (no batches registered by this test)", got)
	}
}

func TestCancelBatchReturnsFalseForUnknown(t *testing.T) {
	if CancelBatch(999, 999) {
		t.Error("expected CancelBatch to return false for unknown batch")
	}
}
