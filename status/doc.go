// Package status derives task and plan state from the event ledger. All
// functions are pure readers: they fold over a fresh ReadAll snapshot and
// never write, so replaying the same ledger always yields the same result
// and a ledger that grows between calls is simply re-derived.
package status
