package testutil

import (
	"testing"

	"github.com/hupe1980/taskmesh/core"
)

// PlanBuilder provides a fluent helper for constructing plans in tests.
// Example:
//
//	p := NewPlanBuilder().Task("w1").Task("w2", "w1").Build(t)
//
// Chain only the parts you need; sensible defaults are applied.
type PlanBuilder struct {
	sessionID string
	request   string
	tasks     []core.Task
}

// NewPlanBuilder creates a builder with default session id "S-test".
func NewPlanBuilder() *PlanBuilder { return &PlanBuilder{sessionID: "S-test"} }

// Session overrides the session id (chainable).
func (b *PlanBuilder) Session(id string) *PlanBuilder { b.sessionID = id; return b }

// Request sets the originating request text (chainable).
func (b *PlanBuilder) Request(r string) *PlanBuilder { b.request = r; return b }

// Task appends a task whose name equals its id, with the given dependency
// ids (chainable).
func (b *PlanBuilder) Task(id string, deps ...string) *PlanBuilder {
	b.tasks = append(b.tasks, core.Task{ID: id, Name: id, Dependencies: deps})
	return b
}

// NamedTask appends a fully specified task (chainable).
func (b *PlanBuilder) NamedTask(id, name, payload string, deps ...string) *PlanBuilder {
	b.tasks = append(b.tasks, core.Task{ID: id, Name: name, Payload: payload, Dependencies: deps})
	return b
}

// Build constructs the plan, failing the test on validation errors.
func (b *PlanBuilder) Build(t *testing.T) *core.Plan {
	t.Helper()
	p, err := core.NewPlan(b.sessionID, b.request, b.tasks)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	return p
}
