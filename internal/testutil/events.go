package testutil

import (
	"testing"

	"github.com/hupe1980/taskmesh/core"
)

// Event constructors with test-friendly defaults.

// Start returns a start event whose task name equals its id.
func Start(taskID string) core.Event { return core.NewStartEvent(taskID, taskID) }

// Progress returns a progress event without a message.
func Progress(taskID string, percent int) core.Event {
	return core.NewProgressEvent(taskID, percent, "")
}

// Artifact returns an artifact event for the given path.
func Artifact(taskID, path string) core.Event { return core.NewArtifactEvent(taskID, path) }

// Done returns a successful terminal event.
func Done(taskID string) core.Event { return core.NewDoneEvent(taskID, core.OutcomeSuccess) }

// DoneFailure returns a done event with a failure outcome.
func DoneFailure(taskID string) core.Event { return core.NewDoneEvent(taskID, core.OutcomeFailure) }

// Fail returns a terminal error event.
func Fail(taskID, message string) core.Event { return core.NewErrorEvent(taskID, message) }

// Seed appends the events to the ledger, failing the test on error.
func Seed(t *testing.T, l core.EventLedger, events ...core.Event) {
	t.Helper()
	for _, ev := range events {
		if err := l.Append(ev); err != nil {
			t.Fatalf("seed ledger: %v", err)
		}
	}
}
