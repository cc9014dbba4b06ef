package progress

import (
	"sync"

	"github.com/relentnet/nhl-ingest/model"
)

// EventFunc is invoked on every status transition the Tracker records.
// Registered callbacks mirror the teacher's events.go Hub pattern of
// notifying interested listeners without blocking the mutation path.
type EventFunc func(itemKey string, from, to model.ProgressStatus)

// Tracker is the fast in-memory mirror of a single batch's item states
// (C6), consulted by the batch coordinator to decide what to fetch next
// without round-tripping to Postgres on every item.
type Tracker struct {
	mu        sync.Mutex
	states    map[string]model.ProgressStatus
	listeners []EventFunc
}

// NewTracker builds an empty tracker seeded with itemKeys all pending.
func NewTracker(itemKeys []string) *Tracker {
	states := make(map[string]model.ProgressStatus, len(itemKeys))
	for _, k := range itemKeys {
		states[k] = model.ProgressPending
	}
	return &Tracker{states: states}
}

// OnTransition registers a callback invoked after every state change.
func (t *Tracker) OnTransition(fn EventFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Status returns the current status of itemKey, or "" if unknown.
func (t *Tracker) Status(itemKey string) model.ProgressStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[itemKey]
}

// Transition moves itemKey to the given status. Invalid transitions
// (e.g. success -> in_progress) are rejected, matching spec.md section 3's
// state machine invariant; failed -> pending is the one allowed "backwards"
// move, used to requeue an item for retry.
func (t *Tracker) Transition(itemKey string, to model.ProgressStatus) error {
	t.mu.Lock()
	from, ok := t.states[itemKey]
	if !ok {
		from = model.ProgressPending
	}
	if !validTransition(from, to) {
		t.mu.Unlock()
		return &InvalidTransitionError{ItemKey: itemKey, From: from, To: to}
	}
	t.states[itemKey] = to
	listeners := append([]EventFunc(nil), t.listeners...)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(itemKey, from, to)
	}
	return nil
}

// InvalidTransitionError is returned by Transition for a disallowed move.
type InvalidTransitionError struct {
	ItemKey  string
	From, To model.ProgressStatus
}

func (e *InvalidTransitionError) Error() string {
	return "progress: invalid transition " + string(e.From) + " -> " + string(e.To) + " for " + e.ItemKey
}

func validTransition(from, to model.ProgressStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case model.ProgressPending:
		return to == model.ProgressInProgress
	case model.ProgressInProgress:
		return to == model.ProgressSuccess || to == model.ProgressFailed || to == model.ProgressSkipped
	case model.ProgressFailed:
		return to == model.ProgressPending
	default:
		return false
	}
}

// Pending returns every item key still pending or failed, the set the batch
// coordinator should (re)dispatch.
func (t *Tracker) Pending() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0)
	for k, s := range t.states {
		if s == model.ProgressPending || s == model.ProgressFailed {
			out = append(out, k)
		}
	}
	return out
}

// Snapshot computes BatchStats over the tracker's current in-memory state.
func (t *Tracker) Snapshot() model.BatchStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	var stats model.BatchStats
	for _, s := range t.states {
		stats.Total++
		switch s {
		case model.ProgressPending, model.ProgressInProgress:
			stats.Pending++
		case model.ProgressSuccess:
			stats.Success++
		case model.ProgressFailed:
			stats.Failed++
		case model.ProgressSkipped:
			stats.Skipped++
		}
	}
	return stats
}
