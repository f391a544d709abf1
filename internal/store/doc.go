// Package store provides SQLite-backed storage for generated questions and
// the graphs they were asked about.
//
// # Identity
//
// Question ids are content addresses computed by ir.InstanceID over the
// graph id, type string, canonical tree and answer. Writing the same
// instance twice is a no-op. Graphs are keyed by their id and carry a
// digest of their canonical JSON; rewriting an id with different content
// fails with ErrGraphConflict.
//
// # Ordering
//
// Questions get a seq number when first written. Every read orders by
// seq ASC, id ASC COLLATE BINARY, so reads are deterministic.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
