// Package worker contains core.Worker implementations and adapters. The
// canonical Worker interface lives in the core package; backends here range
// from plain function adapters to model-API backed workers in subpackages.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hupe1980/taskmesh/core"
)

// Func adapts an ordinary function to the core.Worker interface.
type Func func(ctx context.Context, task core.Task, rec *core.Recorder) error

// Execute calls the wrapped function.
func (f Func) Execute(ctx context.Context, task core.Task, rec *core.Recorder) error {
	return f(ctx, task, rec)
}

var _ core.Worker = (Func)(nil)

// Simulate returns a worker that fakes execution: it walks through the full
// event lifecycle (start, staged progress, a JSON result artifact, done) with
// the given delay between steps. Useful for examples, demos and wiring tests
// that need realistic ledger traffic without real work.
func Simulate(stepDelay time.Duration) Func {
	steps := []struct {
		percent int
		message string
	}{
		{25, "Initializing..."},
		{50, "Processing..."},
		{75, "Finalizing..."},
		{100, "Complete"},
	}

	return func(ctx context.Context, task core.Task, rec *core.Recorder) error {
		if err := rec.Start(task.Name); err != nil {
			return err
		}

		for _, step := range steps {
			if stepDelay > 0 {
				select {
				case <-ctx.Done():
					if err := rec.Error(ctx.Err().Error()); err != nil {
						return err
					}
					return nil
				case <-time.After(stepDelay):
				}
			}
			if err := rec.Progress(step.percent, step.message); err != nil {
				return err
			}
		}

		result, err := json.Marshal(struct {
			WorkerID string `json:"worker_id"`
			Task     string `json:"task"`
			Status   string `json:"status"`
		}{WorkerID: rec.TaskID(), Task: task.Name, Status: "completed"})
		if err != nil {
			return err
		}

		artifactID := rec.TaskID() + "_result.json"
		if err := rec.SaveArtifact(artifactID, result); err != nil {
			if !errors.Is(err, core.ErrNoArtifactStore) {
				return err
			}
			// No store configured: still leave the reference on the ledger.
			if err := rec.Artifact(artifactID); err != nil {
				return err
			}
		}

		return rec.Done(core.OutcomeSuccess)
	}
}
