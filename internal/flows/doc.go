// Package flows contains pure-function orchestrators for every session
// lifecycle operation.
//
// Each flow function (RunLogin, RunRefresh, RunRestore, etc.) accepts a typed
// dependency struct and returns a result carrying either its payload or a
// classified failure kind. This design enables exhaustive unit testing with
// closure fakes and keeps the root Session type thin: the root package maps
// failure kinds onto sentinel errors, metrics, and audit events.
//
// # Architecture boundaries
//
// Flow functions coordinate calls to the secure store, the transport
// boundary, and state publication. They do NOT own any of these resources —
// ownership stays with the Session engine.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import the root package (to avoid import cycles).
//   - Perform I/O directly — all I/O is mediated through dependency closures.
package flows
