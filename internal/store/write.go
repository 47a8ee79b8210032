package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/sirupsen/logrus"

	"github.com/roach88/microclaims/internal/claim"
)

// Create inserts a new Open claim and returns its id.
//
// claim_uuid is the idempotency key. If a claim with the same uuid already
// exists, no row is written and a *claim.DuplicateClaimError carrying the
// existing id is returned; callers should treat it as a redirect. If the
// insert violates the constraint but the existing row cannot be found, the
// driver error is returned unmodified.
func (s *Store) Create(ctx context.Context, d claim.Draft) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}

	now := formatTime(s.now())
	query, args, err := sq.Insert(claimsTable).
		Columns("claim_uuid", "created_at", "updated_at", "type", "severity", "status", "description", "photo_path").
		Values(d.ClaimUUID, now, now, d.Type, d.Severity, claim.Open, claim.NormalizeText(d.Description), nullString(d.PhotoPath)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("create claim: build insert: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, unavailable("create claim: begin tx", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		// Release the connection before re-reading; the pool holds one.
		_ = tx.Rollback()
		if isUniqueViolation(err) {
			return 0, s.resolveDuplicate(ctx, d.ClaimUUID, err)
		}
		return 0, unavailable("create claim: insert", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, unavailable("create claim: last insert id", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, unavailable("create claim: commit", err)
	}

	s.log.WithFields(logrus.Fields{
		"claim_id":   id,
		"claim_uuid": d.ClaimUUID,
	}).Info("claim created")

	return id, nil
}

// resolveDuplicate maps a uniqueness violation to the existing claim.
func (s *Store) resolveDuplicate(ctx context.Context, claimUUID string, insertErr error) error {
	existing, err := s.GetByUUID(ctx, claimUUID)
	if errors.Is(err, claim.ErrNotFound) {
		// Constraint fired but nothing is there: surface the original error.
		return insertErr
	}
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"claim_id":   existing.ID,
		"claim_uuid": claimUUID,
	}).Warn("duplicate claim submission")

	return &claim.DuplicateClaimError{ID: existing.ID, ClaimUUID: existing.ClaimUUID}
}

// UpdateFields applies the fields present in u and bumps updated_at.
// An empty update returns the current record unchanged.
func (s *Store) UpdateFields(ctx context.Context, id int64, u claim.FieldUpdate) (claim.Claim, error) {
	if err := u.Validate(); err != nil {
		return claim.Claim{}, err
	}

	updated, err := s.mutate(ctx, "update claim", id, func(current claim.Claim, stamp time.Time) (sq.UpdateBuilder, bool) {
		b := sq.Update(claimsTable)
		if u.IsEmpty() {
			return b, false
		}
		if u.Description != nil {
			b = b.Set("description", claim.NormalizeText(*u.Description))
		}
		if u.Severity != nil {
			b = b.Set("severity", *u.Severity)
		}
		return b, true
	})
	if err != nil {
		return claim.Claim{}, fmt.Errorf("update claim %d: %w", id, err)
	}
	return updated, nil
}

// TransitionStatus moves a claim to a new status.
//
// resolved_at and resolution_outcome are derived by claim.Derive and written
// in the same statement as the status. A non-nil ResolvedNote is applied
// whatever the target status; reopening leaves an existing note in place.
func (s *Store) TransitionStatus(ctx context.Context, id int64, change claim.StatusChange) (claim.Claim, error) {
	if err := change.Validate(); err != nil {
		return claim.Claim{}, err
	}

	updated, err := s.mutate(ctx, "transition claim", id, func(current claim.Claim, stamp time.Time) (sq.UpdateBuilder, bool) {
		res := claim.Derive(current.Status, change.Status, change.Outcome, stamp)
		b := sq.Update(claimsTable).
			Set("status", change.Status).
			Set("resolved_at", formatTimePtr(res.ResolvedAt)).
			Set("resolution_outcome", res.Outcome)
		if change.ResolvedNote != nil {
			b = b.Set("resolved_note", claim.NormalizeText(*change.ResolvedNote))
		}
		return b, true
	})
	if err != nil {
		return claim.Claim{}, fmt.Errorf("transition claim %d: %w", id, err)
	}

	s.log.WithFields(logrus.Fields{
		"claim_id": id,
		"status":   updated.Status.String(),
	}).Info("claim status updated")

	return updated, nil
}

// UpdatePhotoReference records photoPath as the claim's attachment and bumps
// updated_at. An empty path clears the reference. The file itself is owned
// by the caller; this method never touches the filesystem.
func (s *Store) UpdatePhotoReference(ctx context.Context, id int64, photoPath string) (claim.Claim, error) {
	updated, err := s.mutate(ctx, "update photo", id, func(current claim.Claim, stamp time.Time) (sq.UpdateBuilder, bool) {
		return sq.Update(claimsTable).Set("photo_path", nullString(photoPath)), true
	})
	if err != nil {
		return claim.Claim{}, fmt.Errorf("update photo of claim %d: %w", id, err)
	}
	return updated, nil
}

// mutateFunc builds the SET clauses of an update from the current record.
// Returning false skips the write.
type mutateFunc func(current claim.Claim, stamp time.Time) (sq.UpdateBuilder, bool)

// mutate runs read-modify-write for one claim in a single transaction.
// The update gets updated_at = stamp and the re-read row is returned.
func (s *Store) mutate(ctx context.Context, op string, id int64, build mutateFunc) (claim.Claim, error) {
	var out claim.Claim
	err := s.inTx(ctx, op, func(tx *sql.Tx) error {
		current, err := readClaim(ctx, tx, sq.Eq{"id": id})
		if err != nil {
			return err
		}

		stamp := s.nextUpdatedAt(current.UpdatedAt)
		b, write := build(current, stamp)
		if !write {
			out = current
			return nil
		}

		query, args, err := b.Set("updated_at", formatTime(stamp)).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return unavailable(op, err)
		}

		out, err = readClaim(ctx, tx, sq.Eq{"id": id})
		return err
	})
	return out, err
}

// now returns the clock's instant at stored precision.
func (s *Store) now() time.Time {
	return s.clock.Now().UTC().Truncate(storedPrecision)
}

// nextUpdatedAt returns a stamp strictly after prev, normally now.
func (s *Store) nextUpdatedAt(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		return prev.Add(storedPrecision)
	}
	return now
}
