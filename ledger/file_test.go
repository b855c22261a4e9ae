package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/taskmesh/core"
)

// Interface compliance (compile-time assertion)
var (
	_ core.EventLedger = (*FileLedger)(nil)
	_ core.EventLedger = (*MemoryLedger)(nil)
)

func newTestLedger(t *testing.T) *FileLedger {
	t.Helper()
	l, err := NewFileLedger(filepath.Join(t.TempDir(), "state", "events.jsonl"))
	require.NoError(t, err)
	return l
}

func TestFileLedgerAppendAndReadAll(t *testing.T) {
	l := newTestLedger(t)

	require.NoError(t, l.Append(core.NewStartEvent("w1", "Test A")))
	require.NoError(t, l.Append(core.NewProgressEvent("w1", 50, "halfway")))
	require.NoError(t, l.Append(core.NewDoneEvent("w1", core.OutcomeSuccess)))

	events, err := l.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, core.KindStart, events[0].Kind)
	assert.Equal(t, 50, events[1].Percent)
	assert.Equal(t, core.OutcomeSuccess, events[2].Outcome)
}

func TestFileLedgerReadAllIsRestartable(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Append(core.NewStartEvent("w1", "A")))

	first, err := l.ReadAll()
	require.NoError(t, err)
	second, err := l.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A read must observe appends that happened before it, from the start.
	require.NoError(t, l.Append(core.NewDoneEvent("w1", core.OutcomeSuccess)))
	third, err := l.ReadAll()
	require.NoError(t, err)
	require.Len(t, third, 2)
	assert.Equal(t, core.KindStart, third[0].Kind)
}

func TestFileLedgerMissingFile(t *testing.T) {
	l, err := NewFileLedger(filepath.Join(t.TempDir(), "events.jsonl"))
	require.NoError(t, err)

	events, err := l.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFileLedgerSkipsMalformedLines(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Append(core.NewStartEvent("w1", "A")))

	// Simulate a crash mid-append: a truncated trailing record.
	f, err := os.OpenFile(l.Path(), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"worker_id":"w2","type":"sta`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	events, err := l.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "w1", events[0].TaskID)
}

func TestFileLedgerConcurrentAppendAtomicity(t *testing.T) {
	l := newTestLedger(t)

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			taskID := fmt.Sprintf("w%d", id)
			assert.NoError(t, l.Append(core.NewStartEvent(taskID, taskID)))
			for p := 1; p < perWorker-1; p++ {
				assert.NoError(t, l.Append(core.NewProgressEvent(taskID, p*2, "")))
			}
			assert.NoError(t, l.Append(core.NewDoneEvent(taskID, core.OutcomeSuccess)))
		}(w)
	}
	wg.Wait()

	// Every physical line must parse as a single well-formed event record.
	raw, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, workers*perWorker)
	for _, line := range lines {
		var ev core.Event
		require.NoError(t, json.Unmarshal([]byte(line), &ev), "line %q", line)
		require.NotEmpty(t, ev.TaskID)
	}

	// Per-task append order must be preserved: start first, terminal last.
	events, err := l.ReadAll()
	require.NoError(t, err)
	perTask := map[string][]core.Event{}
	for _, ev := range events {
		perTask[ev.TaskID] = append(perTask[ev.TaskID], ev)
	}
	require.Len(t, perTask, workers)
	for taskID, evs := range perTask {
		require.Len(t, evs, perWorker, "task %s", taskID)
		assert.Equal(t, core.KindStart, evs[0].Kind)
		assert.True(t, evs[len(evs)-1].Terminal())
		for _, ev := range evs[1 : len(evs)-1] {
			assert.Equal(t, core.KindProgress, ev.Kind)
		}
	}
}

func TestFileLedgerArchiveAndClear(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Append(core.NewStartEvent("w1", "A")))
	require.NoError(t, l.Append(core.NewDoneEvent("w1", core.OutcomeSuccess)))

	dest, err := l.Archive("")
	require.NoError(t, err)
	require.NotEmpty(t, dest)
	assert.Contains(t, dest, "archive")

	archived, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(archived), "\n"))

	require.NoError(t, l.Clear())
	events, err := l.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, events)

	// Clearing an already-missing file is not an error.
	require.NoError(t, l.Clear())
}

func TestMemoryLedgerSnapshotIsolation(t *testing.T) {
	l := NewMemoryLedger()
	require.NoError(t, l.Append(core.NewStartEvent("w1", "A")))

	snapshot, err := l.ReadAll()
	require.NoError(t, err)
	require.NoError(t, l.Append(core.NewDoneEvent("w1", core.OutcomeSuccess)))
	assert.Len(t, snapshot, 1)

	require.NoError(t, l.Clear())
	events, err := l.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, events)
}
