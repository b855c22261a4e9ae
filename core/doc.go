// Package core defines the domain contracts of TaskMesh: the immutable Plan
// and its Tasks, the lifecycle Event variants, the EventLedger and
// ArtifactStore capabilities, the Worker boundary and the Recorder through
// which workers emit their lifecycle. Concrete implementations live in
// sibling packages (ledger, artifact, worker); keeping only contracts here
// prevents higher layers from depending on specific backends.
package core
