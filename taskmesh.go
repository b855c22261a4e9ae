// Package taskmesh provides a high-level façade over the plan, schedule,
// orchestrator and status packages for dependency-aware parallel task
// execution. Most applications interact with this package by:
//  1. Creating a TaskMesh via New() with a worker (optionally overriding the
//     default in-memory ledger and artifact store)
//  2. Running a plan (RunPlan) or a plan descriptor file (RunFile)
//  3. Inspecting progress via Status / StatusLine while or after a run
//
// All defaults are safe for local development and testing; durable
// deployments typically supply a file-backed ledger and artifact store plus a
// structured logger.
package taskmesh

import (
	"context"
	"time"

	"github.com/hupe1980/taskmesh/artifact"
	"github.com/hupe1980/taskmesh/core"
	"github.com/hupe1980/taskmesh/ledger"
	"github.com/hupe1980/taskmesh/logging"
	"github.com/hupe1980/taskmesh/orchestrator"
	"github.com/hupe1980/taskmesh/plan"
	"github.com/hupe1980/taskmesh/status"
)

// Options configures the TaskMesh instance.
type Options struct {
	// Ledger holds the append-only event stream shared by the orchestrator
	// and all workers. Defaults to an in-memory ledger.
	Ledger core.EventLedger

	// ArtifactStore receives worker results. Defaults to an in-memory store.
	ArtifactStore core.ArtifactStore

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// PollInterval is the orchestrator's ledger polling cadence.
	PollInterval time.Duration

	// BatchTimeout bounds the per-batch wait; zero waits forever.
	BatchTimeout time.Duration
}

// TaskMesh is the high-level façade aggregating the orchestrator and its
// collaborators.
type TaskMesh struct {
	opts         Options
	orchestrator *orchestrator.Orchestrator
}

// New creates a new TaskMesh instance executing tasks with the given worker.
// Any unset collaborator is initialized with an in-memory implementation.
func New(worker core.Worker, optFns ...func(o *Options)) *TaskMesh {
	opts := Options{
		Ledger:        ledger.NewMemoryLedger(),
		ArtifactStore: artifact.NewInMemoryStore(),
		Logger:        logging.NoOpLogger{},
		PollInterval:  100 * time.Millisecond,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	o := orchestrator.New(worker, opts.Ledger, func(oo *orchestrator.Options) {
		oo.PollInterval = opts.PollInterval
		oo.BatchTimeout = opts.BatchTimeout
		oo.ArtifactStore = opts.ArtifactStore
		oo.Logger = opts.Logger
	})

	return &TaskMesh{opts: opts, orchestrator: o}
}

// Ledger exposes the underlying event ledger for direct inspection.
func (m *TaskMesh) Ledger() core.EventLedger { return m.opts.Ledger }

// RunPlan executes the plan to completion and returns the run summary.
func (m *TaskMesh) RunPlan(ctx context.Context, p *core.Plan) (*orchestrator.Summary, error) {
	return m.orchestrator.Run(ctx, p)
}

// RunFile loads a plan descriptor file and executes it.
func (m *TaskMesh) RunFile(ctx context.Context, path string) (*orchestrator.Summary, error) {
	p, err := plan.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return m.RunPlan(ctx, p)
}

// Status derives the current per-task status report from the ledger.
func (m *TaskMesh) Status(p *core.Plan) (*status.Report, error) {
	return status.Derive(p, m.opts.Ledger)
}

// StatusLine renders the plan's status as a single human-readable line, e.g.
//
//	w1 50% | w2 done | w3 waiting
func (m *TaskMesh) StatusLine(p *core.Plan) (string, error) {
	r, err := m.Status(p)
	if err != nil {
		return "", err
	}
	return status.Format(p, r), nil
}

// Complete reports whether every task of the plan has reached a terminal
// event on the ledger.
func (m *TaskMesh) Complete(p *core.Plan) (bool, error) {
	return status.PlanComplete(p, m.opts.Ledger)
}
