// Package claim defines the Claim entity and the pure logic around it.
//
// The package has no I/O. It provides:
//   - Closed enumerations: Type, Severity, Status, Outcome
//   - The Claim record and its write-side inputs (Draft, FieldUpdate, StatusChange)
//   - The lifecycle state machine (Derive)
//   - List filters and date-range parsing
//   - The error taxonomy shared by the store and its callers
//
// # Enumerations
//
// Each enumeration is an integer type whose zero value means "unset".
// Members are declared in a fixed order; reports and summaries enumerate
// them in that order, never by frequency or insertion.
//
// The persisted label of a member may differ from its Go name
// (MissingKit is stored as "Missing Kit", Medium as "Med", InReview as
// "In Review"). Parsing accepts either spelling, case-insensitively.
//
// # Lifecycle
//
// Any status may move to any other status. Derive only computes the fields
// that depend on the target status: resolved_at and resolution_outcome.
// The resolved note is not status-coupled and survives a reopen.
package claim
