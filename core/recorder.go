package core

// Recorder binds a worker to its task id on the shared ledger and enforces
// the emit discipline: workers only ever append, never rewrite. One Recorder
// is created per task invocation; it is safe to share across goroutines
// spawned by the same worker because the underlying ledger serializes
// appends.
type Recorder struct {
	ledger    EventLedger
	artifacts ArtifactStore
	sessionID string
	taskID    string
}

// NewRecorder creates a recorder for the given task. The artifact store may
// be nil, in which case SaveArtifact is unavailable but plain Artifact
// events still work.
func NewRecorder(ledger EventLedger, artifacts ArtifactStore, sessionID, taskID string) *Recorder {
	return &Recorder{ledger: ledger, artifacts: artifacts, sessionID: sessionID, taskID: taskID}
}

// TaskID returns the task id this recorder emits for.
func (r *Recorder) TaskID() string { return r.taskID }

// Start emits the task's start event. Must be called before any work.
func (r *Recorder) Start(taskName string) error {
	return r.ledger.Append(NewStartEvent(r.taskID, taskName))
}

// Progress emits a progress event with the given percentage and note.
func (r *Recorder) Progress(percent int, message string) error {
	return r.ledger.Append(NewProgressEvent(r.taskID, percent, message))
}

// Artifact emits an artifact reference without persisting any bytes.
func (r *Recorder) Artifact(path string) error {
	return r.ledger.Append(NewArtifactEvent(r.taskID, path))
}

// SaveArtifact persists the bytes under the recorder's session in the
// artifact store and emits the matching artifact event in one step. The
// event's path is the artifact id.
func (r *Recorder) SaveArtifact(artifactID string, data []byte) error {
	if r.artifacts == nil {
		return ErrNoArtifactStore
	}
	if err := r.artifacts.Save(r.sessionID, artifactID, data); err != nil {
		return err
	}
	return r.Artifact(artifactID)
}

// Done emits the task's terminal done event with the given outcome.
func (r *Recorder) Done(outcome Outcome) error {
	return r.ledger.Append(NewDoneEvent(r.taskID, outcome))
}

// Error emits the task's terminal error event.
func (r *Recorder) Error(message string) error {
	return r.ledger.Append(NewErrorEvent(r.taskID, message))
}
