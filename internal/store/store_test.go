package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/roach88/microclaims/internal/claim"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_OpensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()

	var count int
	err = s2.db.QueryRow("SELECT COUNT(*) FROM claims").Scan(&count)
	if err != nil {
		t.Errorf("query failed: %v", err)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	var name string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
		"claims",
	).Scan(&name)
	if err != nil {
		t.Errorf("table claims not found after idempotent opens: %v", err)
	}
}

func TestOpen_InvalidPathIsStorageUnavailable(t *testing.T) {
	path := "/nonexistent/dir/test.db"

	_, err := Open(path)
	if err == nil {
		t.Fatal("expected error for invalid path, got nil")
	}
	if !errors.Is(err, claim.ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestDB_ReturnsUnderlyingConnection(t *testing.T) {
	s := createTestStore(t)

	db := s.DB()
	if db == nil {
		t.Fatal("DB() returned nil")
	}
	if err := db.Ping(); err != nil {
		t.Errorf("DB() connection not usable: %v", err)
	}
}

// Pragma tests

func TestPragmas(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		name, want string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.verifyPragma(tt.name, tt.want); err != nil {
				t.Error(err)
			}
		})
	}
}

// Schema tests

func TestSchema_ClaimsTable(t *testing.T) {
	s := createTestStore(t)

	columns := getTableColumns(t, s.db, "claims")
	expected := []string{
		"id", "claim_uuid", "created_at", "updated_at", "resolved_at",
		"type", "severity", "status", "description", "resolved_note",
		"resolution_outcome", "photo_path",
	}

	if len(columns) != len(expected) {
		t.Errorf("claims has %d columns, want %d: %v", len(columns), len(expected), columns)
	}
	for _, col := range expected {
		if !contains(columns, col) {
			t.Errorf("claims table missing column %q", col)
		}
	}
}

func TestSchema_ClaimsIndexes(t *testing.T) {
	s := createTestStore(t)

	indexes := getTableIndexes(t, s.db, "claims")
	expected := []string{
		"idx_claims_created_at",
		"idx_claims_status",
		"idx_claims_severity",
		"idx_claims_type",
		"idx_claims_resolved_at",
	}
	for _, idx := range expected {
		if !contains(indexes, idx) {
			t.Errorf("claims table missing index %q, got %v", idx, indexes)
		}
	}
}

func TestSchema_ClaimUUIDUnique(t *testing.T) {
	s := createTestStore(t)

	insert := `INSERT INTO claims (claim_uuid, created_at, updated_at, type, severity, status, description)
		VALUES ('dup', '2024-01-01T00:00:00.000000Z', '2024-01-01T00:00:00.000000Z', 'Other', 'Low', 'Open', 'x')`
	if _, err := s.db.Exec(insert); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	_, err := s.db.Exec(insert)
	if err == nil {
		t.Fatal("expected UNIQUE constraint violation, got nil")
	}
	if !isUniqueViolation(err) {
		t.Errorf("isUniqueViolation(%v) = false", err)
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	createTestClaim(t, s, "keep-me", claim.Low)

	for i := 0; i < 3; i++ {
		if err := s.EnsureSchema(ctx); err != nil {
			t.Fatalf("EnsureSchema() iteration %d failed: %v", i, err)
		}
	}

	if _, err := s.GetByUUID(ctx, "keep-me"); err != nil {
		t.Errorf("claim lost after EnsureSchema: %v", err)
	}
}

// Schema version tests

func TestSchemaVersion_SetOnFreshDatabase(t *testing.T) {
	s := createTestStore(t)

	version, err := s.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion() failed: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestSchemaVersion_NewerMarkerWarnsAndIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := s1.db.Exec("PRAGMA user_version = 3"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	s1.Close()

	logger, hook := logtest.NewNullLogger()
	s2, err := Open(path, WithLogger(logger))
	if err != nil {
		t.Fatalf("Open() with newer schema version must not fail: %v", err)
	}
	defer s2.Close()

	var warned *logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warned = entry
		}
	}
	if warned == nil {
		t.Fatal("expected a warning about schema version skew")
	}
	if got := warned.Data["found_version"]; got != 3 {
		t.Errorf("found_version = %v, want 3", got)
	}
	if got := warned.Data["expected_version"]; got != currentSchemaVersion {
		t.Errorf("expected_version = %v, want %d", got, currentSchemaVersion)
	}

	version, err := s2.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion() failed: %v", err)
	}
	if version != 3 {
		t.Errorf("user_version = %d, must not be written backward to %d", version, currentSchemaVersion)
	}
}

func TestSchemaVersion_CurrentMarkerDoesNotWarn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	s1.Close()

	logger, hook := logtest.NewNullLogger()
	s2, err := Open(path, WithLogger(logger))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s2.Close()

	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			t.Errorf("unexpected warning: %s", entry.Message)
		}
	}
}

// Helper functions

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("failed to get table info for %q: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("failed to scan column info: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func getTableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='index' AND tbl_name=?", table)
	if err != nil {
		t.Fatalf("failed to get indexes for %q: %v", table, err)
	}
	defer rows.Close()

	var indexes []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan index name: %v", err)
		}
		indexes = append(indexes, name)
	}
	return indexes
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
