package ledger

import (
	"sync"

	"github.com/hupe1980/taskmesh/core"
)

// MemoryLedger is a volatile in-process EventLedger guarded by an RWMutex.
// ReadAll returns a snapshot copy, so readers never observe appends that
// happen after the call - the same restartable-read contract the file
// backend provides.
type MemoryLedger struct {
	mu     sync.RWMutex
	events []core.Event
}

// NewMemoryLedger returns an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{events: []core.Event{}}
}

// Append adds one event to the log.
func (l *MemoryLedger) Append(ev core.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	return nil
}

// ReadAll returns a snapshot of all events in append order.
func (l *MemoryLedger) ReadAll() ([]core.Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]core.Event, len(l.events))
	copy(out, l.events)
	return out, nil
}

// Clear drops all events so the ledger can be reused for a new session.
func (l *MemoryLedger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = l.events[:0]
	return nil
}
