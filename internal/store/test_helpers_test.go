package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/microclaims/internal/claim"
	"github.com/roach88/microclaims/internal/testutil"
)

// createTestStore creates a new temp-dir store with a deterministic clock
// that advances one second per reading.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, _ := createTestStoreWithClock(t, time.Second)
	return s
}

// createTestStoreWithClock creates a temp-dir store driven by a step clock.
func createTestStoreWithClock(t *testing.T, step time.Duration) (*Store, *testutil.StepClock) {
	t.Helper()
	clock := testutil.NewStepClock(time.Time{}, step)
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithClock(clock))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, clock
}

// createTestClaim inserts an Other claim and returns its id.
func createTestClaim(t *testing.T, s *Store, claimUUID string, severity claim.Severity) int64 {
	t.Helper()
	id, err := s.Create(context.Background(), claim.Draft{
		ClaimUUID:   claimUUID,
		Type:        claim.Other,
		Severity:    severity,
		Description: "test claim " + claimUUID,
	})
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", claimUUID, err)
	}
	return id
}

func countByUUID(t *testing.T, s *Store, claimUUID string) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM claims WHERE claim_uuid = ?", claimUUID).Scan(&n); err != nil {
		t.Fatalf("count claims: %v", err)
	}
	return n
}

func strPtr(s string) *string { return &s }
