package status

import (
	"fmt"
	"strings"

	"github.com/hupe1980/taskmesh/core"
)

// Format renders a report as one compact token per task in plan order,
// e.g. "w1 50% | w2 done | w3 waiting". Intended for external presentation
// layers that want a single status line; the structured Report remains the
// contract.
func Format(p *core.Plan, r *Report) string {
	parts := make([]string, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		parts = append(parts, fmt.Sprintf("%s %s", t.ID, token(r.Statuses[t.ID])))
	}
	return strings.Join(parts, " | ")
}

func token(s TaskStatus) string {
	switch s.State {
	case StateRunning:
		return fmt.Sprintf("%d%%", s.Percent)
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "waiting"
	}
}
