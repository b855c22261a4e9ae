// Package schedule computes the leveled execution order of a plan. Tasks are
// grouped into batches: every task in a batch has all of its dependencies
// placed in earlier batches, so batch members may run concurrently while
// batches themselves execute strictly in sequence.
package schedule

import "github.com/hupe1980/taskmesh/core"

// Batch is an unordered set of task ids that may run concurrently. Order
// within a batch carries no meaning.
type Batch []string

// Schedule partitions the plan's tasks into dependency-leveled batches using
// round-based Kahn leveling: each round extracts every task whose
// dependencies are already placed, maximizing batch width instead of picking
// an arbitrary linear order. If a round extracts nothing while tasks remain,
// the graph contains a cycle and Schedule returns *core.CycleError without
// assigning any batches.
func Schedule(p *core.Plan) ([]Batch, error) {
	placed := make(map[string]bool, len(p.Tasks))
	var batches []Batch

	for len(placed) < len(p.Tasks) {
		var ready Batch
		for _, t := range p.Tasks {
			if placed[t.ID] {
				continue
			}
			satisfied := true
			for _, dep := range t.Dependencies {
				if !placed[dep] {
					satisfied = false
					break
				}
			}
			if satisfied {
				ready = append(ready, t.ID)
			}
		}

		if len(ready) == 0 {
			remaining := make([]string, 0, len(p.Tasks)-len(placed))
			for _, t := range p.Tasks {
				if !placed[t.ID] {
					remaining = append(remaining, t.ID)
				}
			}
			return nil, &core.CycleError{Remaining: remaining}
		}

		for _, id := range ready {
			placed[id] = true
		}
		batches = append(batches, ready)
	}

	return batches, nil
}
