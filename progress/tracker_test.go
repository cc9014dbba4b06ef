package progress

import (
	"sync"
	"testing"

	"github.com/relentnet/nhl-ingest/model"
)

func TestTrackerInitialStateIsPending(t *testing.T) {
	tr := NewTracker([]string{"2023020001", "2023020002"})
	if tr.Status("2023020001") != model.ProgressPending {
		t.Errorf("expected pending, got %v", tr.Status("2023020001"))
	}
}

func TestValidTransitionSequence(t *testing.T) {
	tr := NewTracker([]string{"a"})
	if err := tr.Transition("a", model.ProgressInProgress); err != nil {
		t.Fatalf("pending->in_progress should be valid: %v", err)
	}
	if err := tr.Transition("a", model.ProgressSuccess); err != nil {
		t.Fatalf("in_progress->success should be valid: %v", err)
	}
}

func TestInvalidTransitionRejected(t *testing.T) {
	tr := NewTracker([]string{"a"})
	err := tr.Transition("a", model.ProgressSuccess)
	if err == nil {
		t.Fatal("expected error transitioning pending->success directly")
	}
}

func TestFailedCanResetToPending(t *testing.T) {
	tr := NewTracker([]string{"a"})
	tr.Transition("a", model.ProgressInProgress)
	tr.Transition("a", model.ProgressFailed)
	if err := tr.Transition("a", model.ProgressPending); err != nil {
		t.Fatalf("failed->pending should be valid: %v", err)
	}
}

func TestOnTransitionFiresCallback(t *testing.T) {
	tr := NewTracker([]string{"a"})
	var got []string
	var mu sync.Mutex
	tr.OnTransition(func(key string, from, to model.ProgressStatus) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, key+":"+string(from)+"->"+string(to))
	})
	tr.Transition("a", model.ProgressInProgress)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "a:pending->in_progress" {
		t.Errorf("got %v", got)
	}
}

func TestPendingListIncludesFailed(t *testing.T) {
	tr := NewTracker([]string{"a", "b"})
	tr.Transition("a", model.ProgressInProgress)
	tr.Transition("a", model.ProgressFailed)

	pending := tr.Pending()
	if len(pending) != 2 {
		t.Fatalf("expected both items pending/failed, got %v", pending)
	}
}

func TestSnapshotCounts(t *testing.T) {
	tr := NewTracker([]string{"a", "b", "c"})
	tr.Transition("a", model.ProgressInProgress)
	tr.Transition("a", model.ProgressSuccess)
	tr.Transition("b", model.ProgressInProgress)
	tr.Transition("b", model.ProgressFailed)

	stats := tr.Snapshot()
	if stats.Success != 1 || stats.Failed != 1 || stats.Pending != 1 || stats.Total != 3 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
