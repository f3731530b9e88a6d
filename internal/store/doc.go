// Package store provides a SQLite-backed archive for the design-state
// ledger.
//
// The JSON document written by ledger.Save is the interchange format; the
// SQLite archive is the durable, queryable session history. Both carry
// the same append-only content: nodes keyed by content address, edges
// deduplicated by full equality.
//
// Invariants carried over from the in-process graph:
//   - Writes are idempotent: INSERT ... ON CONFLICT DO NOTHING
//   - All reads order by seq ASC, node_id ASC for deterministic results
//   - seq is a logical clock; wall time is metadata only
//
// Database configuration: WAL mode for concurrent reads, synchronous
// NORMAL, 5 second busy timeout, foreign keys on.
package store
