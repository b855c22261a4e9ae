package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	p, err := NewPlan("S1", "test the modules", []Task{
		{ID: "w1", Name: "Test A"},
		{ID: "w2", Name: "Test B", Dependencies: []string{"w1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "S1", p.SessionID)
	assert.Equal(t, []string{"w1", "w2"}, p.TaskIDs())

	task, ok := p.Task("w2")
	require.True(t, ok)
	assert.Equal(t, []string{"w1"}, task.Dependencies)

	_, ok = p.Task("w9")
	assert.False(t, ok)
}

func TestNewPlanCopiesTasks(t *testing.T) {
	tasks := []Task{{ID: "w1", Name: "A"}}
	p, err := NewPlan("S1", "", tasks)
	require.NoError(t, err)

	tasks[0].ID = "mutated"
	assert.Equal(t, "w1", p.Tasks[0].ID)
}

func TestPlanValidate(t *testing.T) {
	tests := []struct {
		name   string
		plan   Plan
		reason string
	}{
		{
			name:   "missing session id",
			plan:   Plan{Tasks: []Task{{ID: "w1"}}},
			reason: "session id",
		},
		{
			name:   "empty plan",
			plan:   Plan{SessionID: "S1"},
			reason: "no tasks",
		},
		{
			name:   "empty task id",
			plan:   Plan{SessionID: "S1", Tasks: []Task{{Name: "unnamed"}}},
			reason: "has no id",
		},
		{
			name:   "duplicate id",
			plan:   Plan{SessionID: "S1", Tasks: []Task{{ID: "w1"}, {ID: "w1"}}},
			reason: "duplicate",
		},
		{
			name:   "dangling dependency",
			plan:   Plan{SessionID: "S1", Tasks: []Task{{ID: "w1", Dependencies: []string{"w9"}}}},
			reason: "unknown task",
		},
		{
			name:   "self reference",
			plan:   Plan{SessionID: "S1", Tasks: []Task{{ID: "w1", Dependencies: []string{"w1"}}}},
			reason: "depends on itself",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			var planErr *PlanError
			require.ErrorAs(t, err, &planErr)
			assert.Contains(t, planErr.Error(), tt.reason)
		})
	}
}

func TestPlanErrorIsNotCycleError(t *testing.T) {
	err := error(&PlanError{Reason: "x"})
	var cycleErr *CycleError
	assert.False(t, errors.As(err, &cycleErr))
}
