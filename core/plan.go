package core

import "fmt"

// Task is one unit of work inside a Plan. Tasks are created at plan-build
// time and never mutated; all execution state lives in the event ledger.
// The Payload is passed through to the Worker verbatim and never interpreted
// by the engine.
type Task struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Payload      string   `json:"payload,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Plan is the immutable description of one orchestration session: its tasks,
// their dependency edges and the originating request text (kept for audit
// only). Build plans through NewPlan so the dependency invariants hold;
// treat the exported fields as read-only afterwards.
type Plan struct {
	SessionID string `json:"session_id"`
	Request   string `json:"prompt,omitempty"`
	Tasks     []Task `json:"tasks"`
}

// NewPlan validates the task set and returns an immutable Plan. The task
// slice is copied. Violations (empty session id, duplicate or empty task
// ids, dangling or self-referencing dependencies) surface as *PlanError.
func NewPlan(sessionID, request string, tasks []Task) (*Plan, error) {
	p := &Plan{SessionID: sessionID, Request: request, Tasks: make([]Task, len(tasks))}
	copy(p.Tasks, tasks)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the plan invariants. It is invoked by NewPlan and again by
// the orchestrator before any work starts, so plans decoded directly from a
// descriptor file cannot bypass validation.
func (p *Plan) Validate() error {
	if p.SessionID == "" {
		return &PlanError{Reason: "session id is required"}
	}
	if len(p.Tasks) == 0 {
		return &PlanError{Reason: "plan contains no tasks"}
	}
	ids := make(map[string]bool, len(p.Tasks))
	for i, t := range p.Tasks {
		if t.ID == "" {
			return &PlanError{Reason: fmt.Sprintf("task %d has no id", i+1)}
		}
		if ids[t.ID] {
			return &PlanError{Reason: fmt.Sprintf("duplicate task id %q", t.ID)}
		}
		ids[t.ID] = true
	}
	for _, t := range p.Tasks {
		for _, dep := range t.Dependencies {
			if dep == t.ID {
				return &PlanError{Reason: fmt.Sprintf("task %q depends on itself", t.ID)}
			}
			if !ids[dep] {
				return &PlanError{Reason: fmt.Sprintf("task %q depends on unknown task %q", t.ID, dep)}
			}
		}
	}
	return nil
}

// Task returns the task with the given id, if present.
func (p *Plan) Task(id string) (Task, bool) {
	for _, t := range p.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// TaskIDs returns the plan's task ids in declaration order. The slice is a
// snapshot safe for caller mutation.
func (p *Plan) TaskIDs() []string {
	ids := make([]string, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		ids = append(ids, t.ID)
	}
	return ids
}
