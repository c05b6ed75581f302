// Package store provides a SQLite-backed log of compilations.
//
// Every successful compilation can be recorded with its source hash, IR
// fingerprint, canonical IR and generated output. The log serves two
// purposes:
//   - Cache: a later compilation of the same source can reuse the output.
//   - Determinism audit: one source hash compiled by one compiler version
//     must always yield one fingerprint and one output.
//
// # Ordering
//
// Records are ordered by seq, a logical counter assigned on insert, never
// by wall time. Queries use ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
