package core

// EventLedger is the append-only record of task lifecycle events and the
// sole source of truth for task state. Implementations must guarantee:
//
//   - Append is atomic at the granularity of one event: concurrent writers
//     never interleave partial records, and append order is preserved for
//     any single task's own events. Cross-task ordering carries no meaning
//     beyond physical append order.
//   - ReadAll starts a fresh pass from the beginning on every call. It is
//     not a cursor: repeated reads of an unmodified ledger are idempotent,
//     and readers must tolerate a ledger that grows between reads.
//
// Events are never mutated or deleted once written; archiving or clearing a
// backing store is an external lifecycle concern, not part of this contract.
type EventLedger interface {
	// Append writes one event. I/O failures surface as *LedgerWriteError.
	Append(ev Event) error
	// ReadAll returns every event in physical append order.
	ReadAll() ([]Event, error)
}

// ArtifactStore persists opaque artifact bytes scoped by session and
// artifact id. Implementations must be safe for concurrent use. Short method
// names mirror the ledger interface for consistency.
type ArtifactStore interface {
	Save(sessionID, artifactID string, data []byte) error
	Get(sessionID, artifactID string) ([]byte, error)
	List(sessionID string) ([]string, error)
	Delete(sessionID, artifactID string) error
}
