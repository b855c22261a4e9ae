package core

import "time"

// Kind discriminates the lifecycle event variants. The set is closed: a
// ledger record with any other kind is treated as malformed.
type Kind string

const (
	// KindStart marks the beginning of a task's execution. At most one per task.
	KindStart Kind = "start"
	// KindProgress reports an integer completion percentage (0-100).
	KindProgress Kind = "progress"
	// KindArtifact records a reference to an output produced by the task.
	KindArtifact Kind = "artifact"
	// KindDone terminates a task with an explicit Outcome.
	KindDone Kind = "done"
	// KindError terminates a task with a failure message.
	KindError Kind = "error"
)

// Outcome tags a done event with the task's terminal result.
type Outcome string

const (
	// OutcomeSuccess indicates the task completed successfully.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailure indicates the task completed but did not succeed.
	OutcomeFailure Outcome = "failure"
)

// Event is one append-only record of a task's lifecycle. After emission it is
// immutable: the ledger is never edited, only extended. Fields beyond
// Timestamp, TaskID and Kind are kind-specific; absent fields are omitted
// from the wire form.
//
// The JSON keys mirror the ledger's line format: one JSON object per line,
// "worker_id" carrying the task id and "type" the kind discriminator.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	TaskID    string    `json:"worker_id"`
	Kind      Kind      `json:"type"`
	TaskName  string    `json:"task,omitempty"`    // start
	Percent   int       `json:"percent,omitempty"` // progress
	Message   string    `json:"message,omitempty"` // progress, error
	Path      string    `json:"path,omitempty"`    // artifact
	Outcome   Outcome   `json:"status,omitempty"`  // done
}

// NewStartEvent marks the beginning of execution for the given task.
func NewStartEvent(taskID, taskName string) Event {
	return Event{Timestamp: time.Now().UTC(), TaskID: taskID, Kind: KindStart, TaskName: taskName}
}

// NewProgressEvent reports completion progress. The percentage is clamped to
// the 0-100 range; the message is an optional human-readable note.
func NewProgressEvent(taskID string, percent int, message string) Event {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return Event{Timestamp: time.Now().UTC(), TaskID: taskID, Kind: KindProgress, Percent: percent, Message: message}
}

// NewArtifactEvent records a reference to an output the task produced. The
// path is opaque to the engine; it typically names an entry in an
// ArtifactStore or a file on disk.
func NewArtifactEvent(taskID, path string) Event {
	return Event{Timestamp: time.Now().UTC(), TaskID: taskID, Kind: KindArtifact, Path: path}
}

// NewDoneEvent terminates the task with the given outcome.
func NewDoneEvent(taskID string, outcome Outcome) Event {
	return Event{Timestamp: time.Now().UTC(), TaskID: taskID, Kind: KindDone, Outcome: outcome}
}

// NewErrorEvent terminates the task with a failure message.
func NewErrorEvent(taskID, message string) Event {
	return Event{Timestamp: time.Now().UTC(), TaskID: taskID, Kind: KindError, Message: message}
}

// Terminal reports whether the event ends its task's lifecycle.
func (e Event) Terminal() bool { return e.Kind == KindDone || e.Kind == KindError }

// Succeeded reports whether the event is a successful terminal event.
func (e Event) Succeeded() bool { return e.Kind == KindDone && e.Outcome == OutcomeSuccess }

// Lifecycle reports whether the event participates in status derivation.
// Artifact events are audit records and do not change a task's state.
func (e Event) Lifecycle() bool { return e.Kind != KindArtifact }
