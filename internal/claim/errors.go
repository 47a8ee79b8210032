package claim

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id or claim_uuid lookup has no match.
	ErrNotFound = errors.New("claim not found")

	// ErrDuplicateClaim matches a *DuplicateClaimError via errors.Is.
	ErrDuplicateClaim = errors.New("duplicate claim")

	// ErrStorageUnavailable wraps I/O-level failures of the durable store.
	// These are never retried internally.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidClaim is returned for drafts and updates that fail validation.
	ErrInvalidClaim = errors.New("invalid claim")

	// ErrInvalidFilter is returned for list filters that cannot be applied.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrInvalidRange is returned for malformed or inverted date ranges.
	ErrInvalidRange = errors.New("invalid range")

	// ErrUnknownValue is returned when a label matches no enumeration member.
	ErrUnknownValue = errors.New("unknown value")
)

// DuplicateClaimError reports that a claim with the same claim_uuid already
// exists. Callers should treat it as a redirect to the existing record
// rather than a failure.
type DuplicateClaimError struct {
	ID        int64
	ClaimUUID string
}

func (e *DuplicateClaimError) Error() string {
	return fmt.Sprintf("claim %q already exists with id %d", e.ClaimUUID, e.ID)
}

// Is reports whether target is ErrDuplicateClaim.
func (e *DuplicateClaimError) Is(target error) bool {
	return target == ErrDuplicateClaim
}
