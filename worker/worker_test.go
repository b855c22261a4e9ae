package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/taskmesh/artifact"
	"github.com/hupe1980/taskmesh/core"
	"github.com/hupe1980/taskmesh/ledger"
)

func TestFuncAdapter(t *testing.T) {
	called := false
	w := Func(func(_ context.Context, task core.Task, rec *core.Recorder) error {
		called = true
		return rec.Start(task.Name)
	})

	l := ledger.NewMemoryLedger()
	rec := core.NewRecorder(l, nil, "S-test", "w1")
	require.NoError(t, w.Execute(context.Background(), core.Task{ID: "w1", Name: "build"}, rec))
	assert.True(t, called)
}

func TestSimulateFullLifecycle(t *testing.T) {
	l := ledger.NewMemoryLedger()
	store := artifact.NewInMemoryStore()
	rec := core.NewRecorder(l, store, "S-test", "w1")

	err := Simulate(0).Execute(context.Background(), core.Task{ID: "w1", Name: "build"}, rec)
	require.NoError(t, err)

	events, err := l.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 7)
	assert.Equal(t, core.KindStart, events[0].Kind)
	assert.Equal(t, 25, events[1].Percent)
	assert.Equal(t, 50, events[2].Percent)
	assert.Equal(t, 75, events[3].Percent)
	assert.Equal(t, 100, events[4].Percent)
	assert.Equal(t, core.KindArtifact, events[5].Kind)
	assert.Equal(t, "w1_result.json", events[5].Path)
	assert.True(t, events[6].Succeeded())

	raw, err := store.Get("S-test", "w1_result.json")
	require.NoError(t, err)
	var result map[string]string
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, "w1", result["worker_id"])
	assert.Equal(t, "completed", result["status"])
}

func TestSimulateWithoutArtifactStore(t *testing.T) {
	l := ledger.NewMemoryLedger()
	rec := core.NewRecorder(l, nil, "S-test", "w1")

	err := Simulate(0).Execute(context.Background(), core.Task{ID: "w1", Name: "build"}, rec)
	require.NoError(t, err)

	events, err := l.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 7)
	// The reference is still recorded even though nothing was persisted.
	assert.Equal(t, core.KindArtifact, events[5].Kind)
	assert.True(t, events[6].Succeeded())
}
