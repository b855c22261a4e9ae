package orchestrator

import (
	"strings"
	"time"

	"github.com/hupe1980/taskmesh/core"
	"github.com/hupe1980/taskmesh/status"
)

// Disposition is a task's final standing at the end of a run. It extends the
// derived ledger states with the two conditions only the orchestrator knows
// about: blocked (never dispatched because a dependency never succeeded) and
// incomplete (dispatched but not terminal when the run ended).
type Disposition string

const (
	// DispositionDone marks a successful terminal outcome.
	DispositionDone Disposition = "done"
	// DispositionFailed marks a failure outcome or error event.
	DispositionFailed Disposition = "failed"
	// DispositionBlocked marks a task that was never dispatched because a
	// dependency never reached a successful terminal state.
	DispositionBlocked Disposition = "blocked"
	// DispositionIncomplete marks a dispatched task without a terminal event
	// (batch timeout, cancellation or a worker infrastructure failure).
	DispositionIncomplete Disposition = "incomplete"
)

// Result is the final standing of one task.
type Result struct {
	TaskID      string
	Disposition Disposition
	Message     string
	// Err carries a worker infrastructure failure (e.g. a ledger write
	// error), distinct from an ordinary task failure on the ledger.
	Err error
}

// Summary aggregates a finished run. Every task of the plan appears in
// Results exactly once - silent task loss is never acceptable. Duration
// spans the first start event to the last terminal event on the ledger.
// Clean is false when any task is incomplete or hit an infrastructure
// failure; task failures alone do not make a run unclean.
type Summary struct {
	SessionID  string
	Results    map[string]Result
	Succeeded  int
	Failed     int
	Blocked    int
	Incomplete int
	Duration   time.Duration
	Clean      bool
	Warnings   []string
}

// summarize folds the final ledger state and the orchestrator's bookkeeping
// into a Summary.
func summarize(p *core.Plan, events []core.Event, blocked map[string][]string, infraErrs map[string]error) *Summary {
	report := status.DeriveEvents(p, events)

	s := &Summary{
		SessionID: p.SessionID,
		Results:   make(map[string]Result, len(p.Tasks)),
		Warnings:  report.Warnings,
	}

	for _, t := range p.Tasks {
		res := Result{TaskID: t.ID, Err: infraErrs[t.ID]}
		st := report.Statuses[t.ID]
		switch {
		case st.State == status.StateDone:
			res.Disposition = DispositionDone
			s.Succeeded++
		case st.State == status.StateFailed:
			res.Disposition = DispositionFailed
			res.Message = st.Message
			s.Failed++
		case len(blocked[t.ID]) > 0:
			res.Disposition = DispositionBlocked
			res.Message = "waiting for " + strings.Join(blocked[t.ID], ", ")
			s.Blocked++
		default:
			res.Disposition = DispositionIncomplete
			res.Message = st.Message
			s.Incomplete++
		}
		s.Results[t.ID] = res
	}

	var firstStart, lastTerminal time.Time
	for _, ev := range events {
		if ev.Kind == core.KindStart && (firstStart.IsZero() || ev.Timestamp.Before(firstStart)) {
			firstStart = ev.Timestamp
		}
		if ev.Terminal() && ev.Timestamp.After(lastTerminal) {
			lastTerminal = ev.Timestamp
		}
	}
	if !firstStart.IsZero() && !lastTerminal.IsZero() {
		s.Duration = lastTerminal.Sub(firstStart)
	}

	s.Clean = s.Incomplete == 0 && len(infraErrs) == 0
	return s
}
