// Package ledger houses concrete implementations of the core.EventLedger.
// FileLedger is the durable default: an append-only JSONL file shared by all
// workers of a session. MemoryLedger is a volatile in-process variant for
// tests and prototypes.
//
// Add additional backends (database table, log service, etc.) without
// changing any calling code - only the wiring layer needs to decide which
// implementation to instantiate.
package ledger
