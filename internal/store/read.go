package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/roach88/microclaims/internal/claim"
)

const claimsTable = "claims"

var claimColumns = []string{
	"id",
	"claim_uuid",
	"created_at",
	"updated_at",
	"resolved_at",
	"type",
	"severity",
	"status",
	"description",
	"resolved_note",
	"resolution_outcome",
	"photo_path",
}

// Get returns the claim with the given id.
// Returns claim.ErrNotFound if no such claim exists.
func (s *Store) Get(ctx context.Context, id int64) (claim.Claim, error) {
	var c claim.Claim
	err := s.inTx(ctx, "get claim", func(tx *sql.Tx) error {
		var err error
		c, err = readClaim(ctx, tx, sq.Eq{"id": id})
		return err
	})
	if err != nil {
		return claim.Claim{}, fmt.Errorf("get claim %d: %w", id, err)
	}
	return c, nil
}

// GetByUUID returns the claim with the given claim_uuid.
// Returns claim.ErrNotFound if no such claim exists.
func (s *Store) GetByUUID(ctx context.Context, claimUUID string) (claim.Claim, error) {
	var c claim.Claim
	err := s.inTx(ctx, "get claim by uuid", func(tx *sql.Tx) error {
		var err error
		c, err = readClaim(ctx, tx, sq.Eq{"claim_uuid": claimUUID})
		return err
	})
	if err != nil {
		return claim.Claim{}, fmt.Errorf("get claim %q: %w", claimUUID, err)
	}
	return c, nil
}

// List returns the claims matching f, newest first.
//
// Results are ordered by created_at DESC with id DESC as the tie-break, so
// repeated calls over the same data return the same order. Returns an empty
// slice (not nil) when nothing matches.
func (s *Store) List(ctx context.Context, f claim.Filter) ([]claim.Claim, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	query, args, err := listQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("list claims: build query: %w", err)
	}

	claims := make([]claim.Claim, 0)
	err = s.inTx(ctx, "list claims", func(tx *sql.Tx) error {
		if err := sqlscan.Select(ctx, tx, &claims, query, args...); err != nil {
			return unavailable("list claims", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// listQuery translates a filter into a SELECT with deterministic ordering.
func listQuery(f claim.Filter) sq.SelectBuilder {
	q := sq.Select(claimColumns...).From(claimsTable)

	if f.Status != 0 {
		q = q.Where(sq.Eq{"status": f.Status.String()})
	}
	if f.Severity != 0 {
		q = q.Where(sq.Eq{"severity": f.Severity.String()})
	}
	if f.Type != 0 {
		q = q.Where(sq.Eq{"type": f.Type.String()})
	}
	if f.Search != "" {
		pattern := likePattern(claim.NormalizeText(f.Search))
		q = q.Where(sq.Or{
			sq.Expr(`description LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`resolved_note LIKE ? ESCAPE '\'`, pattern),
		})
	}
	if f.From != nil {
		q = q.Where(sq.GtOrEq{"created_at": formatTime(*f.From)})
	}
	if f.To != nil {
		q = q.Where(sq.LtOrEq{"created_at": formatTime(*f.To)})
	}

	return q.OrderBy("created_at DESC", "id DESC")
}

// readClaim loads a single claim inside tx.
func readClaim(ctx context.Context, tx *sql.Tx, where sq.Sqlizer) (claim.Claim, error) {
	query, args, err := sq.Select(claimColumns...).
		From(claimsTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return claim.Claim{}, fmt.Errorf("build claim query: %w", err)
	}

	var c claim.Claim
	if err := sqlscan.Get(ctx, tx, &c, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return claim.Claim{}, claim.ErrNotFound
		}
		return claim.Claim{}, unavailable("read claim", err)
	}
	return c, nil
}

// inTx runs fn in a transaction and commits it.
// Errors returned by fn are passed through; the transaction is rolled back.
func (s *Store) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(op+": begin tx", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return unavailable(op+": commit", err)
	}
	return nil
}
