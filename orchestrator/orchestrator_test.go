package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/taskmesh/core"
	"github.com/hupe1980/taskmesh/internal/testutil"
	"github.com/hupe1980/taskmesh/ledger"
)

type workerFunc func(ctx context.Context, task core.Task, rec *core.Recorder) error

func (f workerFunc) Execute(ctx context.Context, task core.Task, rec *core.Recorder) error {
	return f(ctx, task, rec)
}

var _ core.Worker = (workerFunc)(nil)

// dispatchTracker records which tasks were handed to the worker and in what
// order, so tests can assert scheduling behavior independently of the ledger.
type dispatchTracker struct {
	mu    sync.Mutex
	order []string
}

func (d *dispatchTracker) record(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.order = append(d.order, id)
}

func (d *dispatchTracker) dispatched() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.order...)
}

func succeedWorker(tracker *dispatchTracker) workerFunc {
	return func(_ context.Context, task core.Task, rec *core.Recorder) error {
		if tracker != nil {
			tracker.record(task.ID)
		}
		if err := rec.Start(task.Name); err != nil {
			return err
		}
		if err := rec.Progress(50, "halfway"); err != nil {
			return err
		}
		return rec.Done(core.OutcomeSuccess)
	}
}

func TestRunHappyPath(t *testing.T) {
	p := testutil.NewPlanBuilder().
		Task("w1").
		Task("w2").
		Task("w3").
		Task("w4", "w1", "w2", "w3").
		Build(t)
	l := ledger.NewMemoryLedger()
	tracker := &dispatchTracker{}

	o := New(succeedWorker(tracker), l, func(o *Options) {
		o.PollInterval = 5 * time.Millisecond
	})

	s, err := o.Run(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "S-test", s.SessionID)
	assert.Equal(t, 4, s.Succeeded)
	assert.Zero(t, s.Failed)
	assert.Zero(t, s.Blocked)
	assert.Zero(t, s.Incomplete)
	assert.True(t, s.Clean)
	assert.Empty(t, s.Warnings)
	require.Len(t, s.Results, 4)
	for id, res := range s.Results {
		assert.Equal(t, DispositionDone, res.Disposition, id)
		assert.NoError(t, res.Err)
	}

	// w4 must be dispatched strictly after its three dependencies.
	order := tracker.dispatched()
	require.Len(t, order, 4)
	assert.Equal(t, "w4", order[3])
}

func TestRunFailedTaskBlocksDependents(t *testing.T) {
	p := testutil.NewPlanBuilder().
		Task("w1").
		Task("w2").
		Task("w4", "w1", "w2").
		Build(t)
	l := ledger.NewMemoryLedger()
	tracker := &dispatchTracker{}

	worker := workerFunc(func(_ context.Context, task core.Task, rec *core.Recorder) error {
		tracker.record(task.ID)
		if err := rec.Start(task.Name); err != nil {
			return err
		}
		if task.ID == "w2" {
			return rec.Error("boom")
		}
		return rec.Done(core.OutcomeSuccess)
	})

	o := New(worker, l, func(o *Options) {
		o.PollInterval = 5 * time.Millisecond
	})

	s, err := o.Run(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Blocked)
	assert.Zero(t, s.Incomplete)

	assert.Equal(t, DispositionFailed, s.Results["w2"].Disposition)
	assert.Equal(t, "boom", s.Results["w2"].Message)
	assert.Equal(t, DispositionBlocked, s.Results["w4"].Disposition)
	assert.Equal(t, "waiting for w2", s.Results["w4"].Message)

	// The blocked task never reaches the worker.
	assert.NotContains(t, tracker.dispatched(), "w4")
}

func TestRunWorkerWithoutTerminalEventIsIncomplete(t *testing.T) {
	p := testutil.NewPlanBuilder().Task("w1").Build(t)
	l := ledger.NewMemoryLedger()

	// The worker starts but returns without a terminal event; the batch gate
	// must not wait for the poll timeout once all workers have returned.
	worker := workerFunc(func(_ context.Context, task core.Task, rec *core.Recorder) error {
		return rec.Start(task.Name)
	})

	o := New(worker, l, func(o *Options) {
		o.PollInterval = 5 * time.Millisecond
	})

	s, err := o.Run(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, DispositionIncomplete, s.Results["w1"].Disposition)
	assert.Equal(t, 1, s.Incomplete)
	assert.False(t, s.Clean)
}

func TestRunBatchTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := testutil.NewPlanBuilder().Task("w1").Build(t)
	l := ledger.NewMemoryLedger()

	worker := workerFunc(func(ctx context.Context, task core.Task, rec *core.Recorder) error {
		if err := rec.Start(task.Name); err != nil {
			return err
		}
		<-ctx.Done() // hang until the test tears down
		return nil
	})

	o := New(worker, l, func(o *Options) {
		o.PollInterval = 5 * time.Millisecond
		o.BatchTimeout = 30 * time.Millisecond
	})

	s, err := o.Run(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, DispositionIncomplete, s.Results["w1"].Disposition)
	assert.False(t, s.Clean)
}

func TestRunWorkerInfrastructureError(t *testing.T) {
	p := testutil.NewPlanBuilder().Task("w1").Build(t)
	l := ledger.NewMemoryLedger()
	infra := errors.New("connection refused")

	worker := workerFunc(func(_ context.Context, task core.Task, rec *core.Recorder) error {
		if err := rec.Start(task.Name); err != nil {
			return err
		}
		if err := rec.Done(core.OutcomeSuccess); err != nil {
			return err
		}
		return infra
	})

	o := New(worker, l, func(o *Options) {
		o.PollInterval = 5 * time.Millisecond
	})

	s, err := o.Run(context.Background(), p)
	require.NoError(t, err)

	// The ledger says done, but an infrastructure error still taints the run.
	assert.Equal(t, DispositionDone, s.Results["w1"].Disposition)
	assert.ErrorIs(t, s.Results["w1"].Err, infra)
	assert.False(t, s.Clean)
}

func TestRunRejectsInvalidPlan(t *testing.T) {
	p := &core.Plan{SessionID: "S-test", Tasks: []core.Task{{ID: "w1", Name: "w1", Dependencies: []string{"missing"}}}}
	o := New(succeedWorker(nil), ledger.NewMemoryLedger())

	_, err := o.Run(context.Background(), p)

	var planErr *core.PlanError
	require.ErrorAs(t, err, &planErr)
}

func TestRunRejectsCyclicPlan(t *testing.T) {
	p := &core.Plan{SessionID: "S-test", Tasks: []core.Task{
		{ID: "w1", Name: "w1", Dependencies: []string{"w2"}},
		{ID: "w2", Name: "w2", Dependencies: []string{"w1"}},
	}}
	o := New(succeedWorker(nil), ledger.NewMemoryLedger())

	_, err := o.Run(context.Background(), p)

	var cycleErr *core.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []string{"w1", "w2"}, cycleErr.Remaining)
}

func TestRunResumesFromExistingLedger(t *testing.T) {
	// w1 already terminated in a previous run; only w2 is dispatched.
	p := testutil.NewPlanBuilder().Task("w1").Task("w2", "w1").Build(t)
	l := ledger.NewMemoryLedger()
	testutil.Seed(t, l, testutil.Start("w1"), testutil.Done("w1"))
	tracker := &dispatchTracker{}

	o := New(succeedWorker(tracker), l, func(o *Options) {
		o.PollInterval = 5 * time.Millisecond
	})

	s, err := o.Run(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Succeeded)
	assert.True(t, s.Clean)
	assert.Equal(t, []string{"w2"}, tracker.dispatched())
}
