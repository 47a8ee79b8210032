// Package store provides SQLite-backed durable storage for claims.
//
// The store is the only reader and writer of claim records. It provides:
//   - Schema management: table, secondary indexes, schema-version marker
//   - Creation with claim_uuid idempotency
//   - Point reads by id or claim_uuid
//   - Filtered, deterministically ordered listing
//   - Field edits, status transitions, attachment-reference updates
//
// # Critical Patterns
//
// Idempotent creation
//   - claim_uuid carries a UNIQUE constraint
//   - A violating insert is rolled back, the existing row is re-read, and
//     a *claim.DuplicateClaimError with its id is returned
//   - If the re-read finds nothing, the driver error is returned unmodified
//
// Atomic operations
//   - Every operation is one transaction, committed before it returns
//   - Status transitions write status, resolved_at, resolution_outcome,
//     resolved_note and updated_at together
//
// Deterministic ordering
//   - List uses ORDER BY created_at DESC, id DESC
//   - Identical data and filters always yield identical order
//
// Monotonic updated_at
//   - A mutation stamps max(now, previous updated_at + 1µs)
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - One open connection: transactions serialize in-process
package store
