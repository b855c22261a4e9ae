package status

import (
	"fmt"

	"github.com/hupe1980/taskmesh/core"
)

// State is a task's derived lifecycle state.
type State string

const (
	// StateWaiting means no event has been recorded for the task yet.
	StateWaiting State = "waiting"
	// StateRunning means the task has started but not reached a terminal event.
	StateRunning State = "running"
	// StateDone means the task terminated successfully.
	StateDone State = "done"
	// StateFailed means the task emitted an error event or a failure outcome.
	StateFailed State = "failed"
)

// TaskStatus is the derived state of one task: its State, the last reported
// completion percentage and the last human-readable note.
type TaskStatus struct {
	State   State
	Percent int
	Message string
}

// Report is the derived status of a whole plan. Warnings collect ledger
// anomalies (events after a terminal event, events for unknown task ids);
// anomalous events never change derived state - the first terminal wins.
type Report struct {
	SessionID string
	Statuses  map[string]TaskStatus
	Warnings  []string
}

// Derive reads the ledger and folds it into a per-task status report.
func Derive(p *core.Plan, l core.EventLedger) (*Report, error) {
	events, err := l.ReadAll()
	if err != nil {
		return nil, err
	}
	return DeriveEvents(p, events), nil
}

// DeriveEvents is the pure fold behind Derive, exposed for callers that
// already hold an event snapshot. Deterministic: the same input always
// produces the same report.
func DeriveEvents(p *core.Plan, events []core.Event) *Report {
	r := &Report{SessionID: p.SessionID, Statuses: make(map[string]TaskStatus, len(p.Tasks))}
	for _, t := range p.Tasks {
		r.Statuses[t.ID] = TaskStatus{State: StateWaiting}
	}

	terminal := map[string]bool{}
	for _, ev := range events {
		cur, known := r.Statuses[ev.TaskID]
		if !known {
			r.Warnings = append(r.Warnings, fmt.Sprintf("event for task %q not in plan", ev.TaskID))
			continue
		}
		if !ev.Lifecycle() {
			continue
		}
		if terminal[ev.TaskID] {
			r.Warnings = append(r.Warnings,
				fmt.Sprintf("task %q: %s event after terminal event", ev.TaskID, ev.Kind))
			continue
		}

		switch ev.Kind {
		case core.KindStart:
			if cur.State == StateRunning {
				r.Warnings = append(r.Warnings, fmt.Sprintf("task %q: duplicate start event", ev.TaskID))
				continue
			}
			cur = TaskStatus{State: StateRunning, Percent: 0, Message: ev.TaskName}
		case core.KindProgress:
			cur = TaskStatus{State: StateRunning, Percent: ev.Percent, Message: ev.Message}
		case core.KindDone:
			terminal[ev.TaskID] = true
			if ev.Outcome == core.OutcomeSuccess {
				cur = TaskStatus{State: StateDone, Percent: 100}
			} else {
				cur = TaskStatus{State: StateFailed, Percent: cur.Percent, Message: string(ev.Outcome)}
			}
		case core.KindError:
			terminal[ev.TaskID] = true
			cur = TaskStatus{State: StateFailed, Percent: cur.Percent, Message: ev.Message}
		}
		r.Statuses[ev.TaskID] = cur
	}
	return r
}

// Completed returns the set of task ids with a successful terminal event.
func Completed(events []core.Event) map[string]bool {
	done := map[string]bool{}
	for _, ev := range events {
		if ev.Succeeded() {
			done[ev.TaskID] = true
		}
	}
	return done
}

// Terminal returns the set of task ids with any terminal event, regardless
// of outcome.
func Terminal(events []core.Event) map[string]bool {
	term := map[string]bool{}
	for _, ev := range events {
		if ev.Terminal() {
			term[ev.TaskID] = true
		}
	}
	return term
}

// Started returns the set of task ids with a start event.
func Started(events []core.Event) map[string]bool {
	started := map[string]bool{}
	for _, ev := range events {
		if ev.Kind == core.KindStart {
			started[ev.TaskID] = true
		}
	}
	return started
}

// DependenciesSatisfied reports whether every dependency of the task has a
// successful terminal event. A dependency that failed never satisfies; the
// conservative default is to block forever.
func DependenciesSatisfied(task core.Task, l core.EventLedger) (bool, error) {
	events, err := l.ReadAll()
	if err != nil {
		return false, err
	}
	completed := Completed(events)
	for _, dep := range task.Dependencies {
		if !completed[dep] {
			return false, nil
		}
	}
	return true, nil
}

// Blocking returns the dependency ids still missing a successful terminal
// event for the task, in declaration order.
func Blocking(task core.Task, l core.EventLedger) ([]string, error) {
	events, err := l.ReadAll()
	if err != nil {
		return nil, err
	}
	completed := Completed(events)
	var blocking []string
	for _, dep := range task.Dependencies {
		if !completed[dep] {
			blocking = append(blocking, dep)
		}
	}
	return blocking, nil
}

// PlanComplete reports whether every task in the plan has reached a terminal
// event. This is a termination predicate, not a success predicate: a plan
// whose tasks all failed is still complete.
func PlanComplete(p *core.Plan, l core.EventLedger) (bool, error) {
	events, err := l.ReadAll()
	if err != nil {
		return false, err
	}
	term := Terminal(events)
	for _, t := range p.Tasks {
		if !term[t.ID] {
			return false, nil
		}
	}
	return true, nil
}
