package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoArtifactStore is returned by Recorder.SaveArtifact when the recorder
// was created without an artifact store.
var ErrNoArtifactStore = errors.New("no artifact store configured")

// PlanError reports a malformed plan: duplicate or missing ids, dangling or
// self-referencing dependencies. It is fatal at build time, before any
// scheduling or execution starts.
type PlanError struct {
	Reason string
}

func (e *PlanError) Error() string { return "invalid plan: " + e.Reason }

// CycleError reports that the dependency graph contains a cycle. Remaining
// lists the task ids that could not be placed into any batch.
type CycleError struct {
	Remaining []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected among tasks: %s", strings.Join(e.Remaining, ", "))
}

// LedgerWriteError reports an infrastructure failure while appending an
// event. It is fatal to the emitting task but never aborts sibling tasks or
// later batches.
type LedgerWriteError struct {
	Err error
}

func (e *LedgerWriteError) Error() string { return "ledger write failed: " + e.Err.Error() }

// Unwrap exposes the underlying I/O error.
func (e *LedgerWriteError) Unwrap() error { return e.Err }

// TimeoutError reports that a batch did not reach an all-terminal state
// within the configured bound. The affected tasks are surfaced as incomplete
// and the run proceeds, flagged non-clean.
type TimeoutError struct {
	Batch   int
	Pending []string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("batch %d timed out waiting for tasks: %s", e.Batch, strings.Join(e.Pending, ", "))
}
