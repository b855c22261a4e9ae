// Package artifact contains concrete implementations of core.ArtifactStore.
//
// The canonical ArtifactStore interface lives in the core package to avoid
// dependency cycles and keep domain contracts central. Implementation packages
// like this one (in-memory, filesystem, object stores) provide storage
// backends that can be swapped without touching calling code.
//
// Callers should depend on the core interface rather than concrete types so
// they can substitute alternative persistence layers in tests or production.
package artifact
