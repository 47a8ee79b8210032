package claim

import (
	"fmt"
	"strings"
	"time"
)

// Claim is a single recorded incident.
//
// ResolvedAt is non-nil exactly when Status is Resolved, and
// ResolutionOutcome is only ever set while Status is Resolved.
type Claim struct {
	ID                int64      `json:"id" db:"id"`
	ClaimUUID         string     `json:"claim_uuid" db:"claim_uuid"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	Type              Type       `json:"type" db:"type"`
	Severity          Severity   `json:"severity" db:"severity"`
	Status            Status     `json:"status" db:"status"`
	Description       string     `json:"description" db:"description"`
	ResolvedNote      *string    `json:"resolved_note,omitempty" db:"resolved_note"`
	ResolutionOutcome Outcome    `json:"resolution_outcome,omitempty" db:"resolution_outcome"`
	PhotoPath         *string    `json:"photo_path,omitempty" db:"photo_path"`
}

// Draft holds the caller-supplied fields of a new claim.
// ClaimUUID is the idempotency key for creation.
type Draft struct {
	ClaimUUID   string   `json:"claim_uuid" yaml:"claim_uuid"`
	Type        Type     `json:"type" yaml:"type"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Description string   `json:"description" yaml:"description"`

	// PhotoPath optionally records an attachment saved before creation.
	PhotoPath string `json:"photo_path,omitempty" yaml:"photo_path,omitempty"`
}

// Validate checks that the draft can be persisted.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.ClaimUUID) == "" {
		return fmt.Errorf("%w: claim_uuid is required", ErrInvalidClaim)
	}
	if !d.Type.Known() {
		return fmt.Errorf("%w: type is required", ErrInvalidClaim)
	}
	if !d.Severity.Known() {
		return fmt.Errorf("%w: severity is required", ErrInvalidClaim)
	}
	return nil
}

// FieldUpdate is a partial edit. Nil fields are left unchanged.
type FieldUpdate struct {
	Description *string
	Severity    *Severity
}

// IsEmpty reports whether the update carries no fields.
func (u FieldUpdate) IsEmpty() bool {
	return u.Description == nil && u.Severity == nil
}

// Validate checks the fields that are present.
func (u FieldUpdate) Validate() error {
	if u.Severity != nil && !u.Severity.Known() {
		return fmt.Errorf("%w: unknown severity %d", ErrInvalidClaim, int(*u.Severity))
	}
	return nil
}

// StatusChange requests a lifecycle transition.
//
// ResolvedNote is applied whenever it is non-nil, independent of Status.
// Outcome is only kept when Status is Resolved.
type StatusChange struct {
	Status       Status
	ResolvedNote *string
	Outcome      Outcome
}

// Validate checks the requested status and outcome.
func (c StatusChange) Validate() error {
	if !c.Status.Known() {
		return fmt.Errorf("%w: status is required", ErrInvalidClaim)
	}
	if c.Outcome != 0 && !c.Outcome.Known() {
		return fmt.Errorf("%w: unknown outcome %d", ErrInvalidClaim, int(c.Outcome))
	}
	return nil
}
