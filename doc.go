// Package soaecs implements the storage core of an entity-component system: generation-checked
// entity handles, a growable structure-of-arrays column store, and a hierarchical transform
// component built on both.
//
// Features:
//   - Entity handles pair a slot index with a generation, so stale handles are detected.
//   - Retired slots are reused only after a configurable number of creations.
//   - Column storage keeps each field in its own contiguous typed run.
//   - Growth reports view invalidation explicitly instead of relying on aliasing.
//   - Transforms index rows directly by entity index and derive a local TRS matrix.
//
// Contract violations, such as destroying a dead entity or reading past the last row, panic. They
// are compiled out with the release build tag.
package soaecs
