// Package autovalidate implements the auto-validation worker (C12): a
// single long-running singleton that consumes batch-completion signals
// and dispatches the reconciliation engine once a game's data is complete,
// grounded on the original's AutoValidationService (async queue + worker
// loop, coalescing delay, completeness check, linear-backoff retry).
package autovalidate

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/relentnet/nhl-ingest/config"
)

// inFlightSetKey is the Redis set the worker uses to coalesce duplicate
// dispatches for the same game within the coalescing delay window.
const inFlightSetKey = "autovalidate:inflight"

// maxRetryAttempts mirrors the original's "up to 3 attempts" retry cap.
const maxRetryAttempts = 3

// Job is one queued auto-validation request, produced by C9 on batch
// completion.
type Job struct {
	GameID         int
	SeasonID       int
	ValidatorTypes []string
}

// InFlight is the narrow slice of cache.Client the worker needs, kept as
// an interface so unit tests substitute an in-memory fake instead of Redis.
type InFlight interface {
	AddInFlight(ctx context.Context, setKey, member string) error
	RemoveInFlight(ctx context.Context, setKey, member string) error
	IsInFlight(ctx context.Context, setKey, member string) (bool, error)
}

// Dispatcher runs the completeness check and the reconciliation dispatch
// itself; kept as an interface so the worker doesn't depend on a concrete
// entity store or reconcile.Engine.
type Dispatcher interface {
	HasCompleteData(ctx context.Context, gameID int, validatorTypes []string) (bool, error)
	Dispatch(ctx context.Context, gameID, seasonID int, validatorTypes []string) error
}

// Worker is the process-wide singleton auto-validation consumer. Start and
// Stop are idempotent; Stop stops the loop from accepting new jobs and
// waits for in-flight dispatches to drain.
type Worker struct {
	cfg        config.AutoValidationConfig
	inFlight   InFlight
	dispatcher Dispatcher
	queue      chan Job
	sem        *semaphore.Weighted

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewWorker builds a Worker with the given queue depth and bounded
// concurrent-dispatch limit (defaults to 4 if <= 0).
func NewWorker(cfg config.AutoValidationConfig, inFlight InFlight, dispatcher Dispatcher, queueDepth, maxConcurrency int) *Worker {
	if queueDepth <= 0 {
		queueDepth = 256
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	return &Worker{
		cfg:        cfg,
		inFlight:   inFlight,
		dispatcher: dispatcher,
		queue:      make(chan Job, queueDepth),
		sem:        semaphore.NewWeighted(int64(maxConcurrency)),
	}
}

// Start launches the worker loop. The given ctx governs in-flight dispatch
// work (delays, retries, and the dispatcher calls themselves) -- it should
// outlive individual Stop calls; Stop only tells the loop to stop pulling
// new jobs off the queue, it does not cancel ctx. Calling Start on an
// already-running worker is a no-op.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	stopCh := make(chan struct{})
	w.running = true
	w.stopCh = stopCh
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(ctx, stopCh)
	log.Println("[AutoValidate] worker started")
}

// Stop tells the worker loop to stop accepting new jobs and blocks until
// every already-dispatched job (including its retries) has drained.
// Calling Stop on an already-stopped worker is a no-op.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh := w.stopCh
	w.mu.Unlock()

	close(stopCh)
	w.wg.Wait()
	log.Println("[AutoValidate] worker stopped")
}

// Enqueue queues a game for validation. Returns false if auto-validation is
// disabled by config, the game is already in flight, or the queue is full
// (the job is dropped rather than blocking the producer, matching C9's
// batch-completion callers which must not stall on a full queue).
func (w *Worker) Enqueue(ctx context.Context, gameID, seasonID int, validatorTypes []string) bool {
	if !w.cfg.AutoRun {
		return false
	}
	if len(validatorTypes) == 0 {
		validatorTypes = []string{"json_cross_source"}
	}

	member := fmt.Sprintf("%d", gameID)
	if already, err := w.inFlight.IsInFlight(ctx, inFlightSetKey, member); err == nil && already {
		return false
	}
	if err := w.inFlight.AddInFlight(ctx, inFlightSetKey, member); err != nil {
		log.Printf("[AutoValidate] failed to mark game %d in-flight: %v", gameID, err)
	}

	select {
	case w.queue <- Job{GameID: gameID, SeasonID: seasonID, ValidatorTypes: validatorTypes}:
		return true
	default:
		_ = w.inFlight.RemoveInFlight(ctx, inFlightSetKey, member)
		log.Printf("[AutoValidate] queue full, dropping game %d", gameID)
		return false
	}
}

func (w *Worker) loop(ctx context.Context, stopCh chan struct{}) {
	defer w.wg.Done()
	for {
		select {
		case <-stopCh:
			return
		case job := <-w.queue:
			w.wg.Add(1)
			go func(job Job) {
				defer w.wg.Done()
				if err := w.sem.Acquire(ctx, 1); err != nil {
					return
				}
				defer w.sem.Release(1)
				w.process(ctx, job)
			}(job)
		}
	}
}

// process sleeps the coalescing delay, checks completeness, and dispatches
// with linear backoff on failure -- spec.md section 4.11's dispatch policy
// and failure handling, in full.
func (w *Worker) process(ctx context.Context, job Job) {
	defer func() {
		_ = w.inFlight.RemoveInFlight(ctx, inFlightSetKey, fmt.Sprintf("%d", job.GameID))
	}()

	if w.cfg.Delay > 0 {
		select {
		case <-time.After(w.cfg.Delay):
		case <-ctx.Done():
			return
		}
	}

	complete, err := w.dispatcher.HasCompleteData(ctx, job.GameID, job.ValidatorTypes)
	if err != nil {
		log.Printf("[AutoValidate] completeness check failed for game %d: %v", job.GameID, err)
		return
	}
	if !complete {
		return
	}

	for attempt := 1; attempt <= maxRetryAttempts; attempt++ {
		if err := w.dispatcher.Dispatch(ctx, job.GameID, job.SeasonID, job.ValidatorTypes); err == nil {
			log.Printf("[AutoValidate] validation dispatched for game %d", job.GameID)
			return
		} else if attempt == maxRetryAttempts {
			log.Printf("[AutoValidate] abandoning game %d after %d attempts: %v", job.GameID, attempt, err)
			return
		} else {
			log.Printf("[AutoValidate] dispatch attempt %d failed for game %d, retrying: %v", attempt, job.GameID, err)
			select {
			case <-time.After(time.Duration(attempt) * 5 * time.Second):
			case <-ctx.Done():
				return
			}
		}
	}
}
