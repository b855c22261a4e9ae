// Package orchestrator drives a plan through its dependency-leveled batches.
// Tasks within a batch run concurrently, batches run strictly in sequence,
// and the only blocking point is the per-batch wait for all dispatched tasks
// to reach a terminal ledger state (bounded by an optional timeout).
//
// Failures never cascade: a failed task is recorded and the run proceeds, so
// tasks whose dependencies failed are surfaced as blocked rather than
// dispatched or silently dropped. There are no retries.
package orchestrator
