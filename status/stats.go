package status

import "github.com/hupe1980/taskmesh/core"

// Statistics summarizes a ledger for monitoring and audit: totals per event
// kind plus the started/completed/failed task sets.
type Statistics struct {
	TotalEvents int
	ByKind      map[core.Kind]int
	Started     int
	Completed   int
	Failed      int
}

// Stats folds the ledger into aggregate counts. Like Derive it is a pure
// reader over a fresh snapshot.
func Stats(l core.EventLedger) (*Statistics, error) {
	events, err := l.ReadAll()
	if err != nil {
		return nil, err
	}

	s := &Statistics{ByKind: map[core.Kind]int{}}
	completed := map[string]bool{}
	failed := map[string]bool{}
	for _, ev := range events {
		s.TotalEvents++
		s.ByKind[ev.Kind]++
		switch {
		case ev.Succeeded():
			completed[ev.TaskID] = true
		case ev.Terminal():
			failed[ev.TaskID] = true
		}
	}
	s.Started = len(Started(events))
	s.Completed = len(completed)
	s.Failed = len(failed)
	return s, nil
}
