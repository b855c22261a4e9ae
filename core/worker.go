package core

import "context"

// Worker executes one task. The engine invokes Execute once per task with
// the task's opaque payload; it neither inspects nor validates the payload's
// semantics. The worker's contractual obligation is to emit a start event
// before doing work, zero or more progress/artifact events during work, and
// exactly one terminal event (done or error) before returning.
//
// A non-nil return value signals an infrastructure failure (most commonly a
// *LedgerWriteError): the worker could not uphold its event discipline. Task
// failures are not returned as errors; they are recorded on the ledger via
// Recorder.Error or a failure outcome.
type Worker interface {
	Execute(ctx context.Context, task Task, rec *Recorder) error
}
