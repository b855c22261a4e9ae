package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/taskmesh/core"
	"github.com/hupe1980/taskmesh/logging"
	"github.com/hupe1980/taskmesh/schedule"
	"github.com/hupe1980/taskmesh/status"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// PollInterval is the delay between ledger reads while waiting for a
	// batch to reach an all-terminal state.
	PollInterval time.Duration
	// BatchTimeout bounds the per-batch wait. Zero means wait forever: a
	// worker that never terminates then stalls its batch indefinitely.
	BatchTimeout time.Duration
	// ArtifactStore receives worker artifacts saved through the Recorder.
	ArtifactStore core.ArtifactStore
	// Logger receives structured progress and failure logs.
	Logger logging.Logger
}

// Orchestrator coordinates batch execution over a shared event ledger: it
// schedules the plan, dispatches independent tasks concurrently, gates each
// batch on the ledger reaching an all-terminal state and aggregates final
// results. It holds no task state of its own - between polls everything is
// re-derived from the ledger, so a crashed and restarted orchestrator
// observes exactly what the workers recorded. Safe for concurrent use.
type Orchestrator struct {
	worker core.Worker
	ledger core.EventLedger

	pollInterval time.Duration
	batchTimeout time.Duration

	artifacts core.ArtifactStore
	logger    logging.Logger
}

// New constructs an Orchestrator with optional overrides.
func New(worker core.Worker, ledger core.EventLedger, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		PollInterval: 100 * time.Millisecond,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Orchestrator{
		worker:       worker,
		ledger:       ledger,
		pollInterval: opts.PollInterval,
		batchTimeout: opts.BatchTimeout,
		artifacts:    opts.ArtifactStore,
		logger:       opts.Logger,
	}
}

// Run executes the plan to completion. Plan and scheduling errors
// (*core.PlanError, *core.CycleError) abort before any work starts; after
// dispatch begins the run only stops early when the context is canceled.
// Individual task failures and batch timeouts never halt the run - they are
// recorded and surface in the Summary, which lists every task's terminal
// standing.
func (o *Orchestrator) Run(ctx context.Context, p *core.Plan) (*Summary, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	batches, err := schedule.Schedule(p)
	if err != nil {
		return nil, err
	}

	o.logger.Info("starting run session_id=%s tasks=%d batches=%d", p.SessionID, len(p.Tasks), len(batches))

	blocked := map[string][]string{}
	infraErrs := map[string]error{}
	var infraMu sync.Mutex

	for i, batch := range batches {
		batchStart := time.Now()

		events, err := o.ledger.ReadAll()
		if err != nil {
			return nil, err
		}
		completed := status.Completed(events)
		terminal := status.Terminal(events)

		// Partition the batch: a task whose dependencies lack a successful
		// terminal event is blocked, surfaced but never dispatched. A task
		// that is already terminal on the ledger (a resumed run) is skipped.
		var ready []core.Task
		for _, id := range batch {
			if terminal[id] {
				o.logger.Debug("task %s already terminal, skipping", id)
				continue
			}
			task, _ := p.Task(id)
			var missing []string
			for _, dep := range task.Dependencies {
				if !completed[dep] {
					missing = append(missing, dep)
				}
			}
			if len(missing) > 0 {
				blocked[id] = missing
				o.logger.Warn("task %s blocked, waiting for %v", id, missing)
				continue
			}
			ready = append(ready, task)
		}

		if len(ready) == 0 {
			continue
		}

		// Dispatch is fire-and-forget: each worker owns its own lifecycle
		// events. A non-nil return is an infrastructure failure, not a task
		// failure, and is reported on the Summary instead of the ledger.
		var wg sync.WaitGroup
		for _, task := range ready {
			wg.Add(1)
			go func(t core.Task) {
				defer wg.Done()
				rec := core.NewRecorder(o.ledger, o.artifacts, p.SessionID, t.ID)
				o.logger.Debug("dispatching task %s (%s)", t.ID, t.Name)
				if err := o.worker.Execute(ctx, t, rec); err != nil {
					infraMu.Lock()
					infraErrs[t.ID] = err
					infraMu.Unlock()
					o.logger.Error("worker for task %s failed: %v", t.ID, err)
				}
			}(task)
		}
		workersDone := make(chan struct{})
		go func() {
			wg.Wait()
			close(workersDone)
		}()

		pending, err := o.awaitBatch(ctx, ready, workersDone)
		if err != nil {
			return nil, err
		}
		if len(pending) > 0 {
			o.logger.Warn("%v", &core.TimeoutError{Batch: i + 1, Pending: pending})
		}
		o.logger.Info("batch %d/%d finished tasks=%d pending=%d duration=%s",
			i+1, len(batches), len(ready), len(pending), time.Since(batchStart))
	}

	events, err := o.ledger.ReadAll()
	if err != nil {
		return nil, err
	}
	return summarize(p, events, blocked, infraErrs), nil
}

// awaitBatch polls the ledger until every dispatched task has a terminal
// event. It returns early with the still-pending ids when the batch timeout
// elapses or when all workers have returned without covering their terminal
// obligation (they never will after returning). Context cancellation aborts
// the wait with the context's error.
func (o *Orchestrator) awaitBatch(ctx context.Context, ready []core.Task, workersDone <-chan struct{}) ([]string, error) {
	var deadline <-chan time.Time
	if o.batchTimeout > 0 {
		timer := time.NewTimer(o.batchTimeout)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	workersFinished := false
	for {
		events, err := o.ledger.ReadAll()
		if err != nil {
			return nil, err
		}
		term := status.Terminal(events)

		var pending []string
		for _, t := range ready {
			if !term[t.ID] {
				pending = append(pending, t.ID)
			}
		}
		if len(pending) == 0 {
			return nil, nil
		}
		if workersFinished {
			return pending, nil
		}

		select {
		case <-ctx.Done():
			return pending, ctx.Err()
		case <-deadline:
			return pending, nil
		case <-workersDone:
			workersFinished = true
		case <-ticker.C:
		}
	}
}
