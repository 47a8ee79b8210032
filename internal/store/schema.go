package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Schema version tracking (PRAGMA user_version):
// 0 - Empty file, nothing applied yet
// 1 - claims table with created_at, status, severity, type, resolved_at indexes
const currentSchemaVersion = 1

// EnsureSchema creates the claims table and its indexes if they are missing
// and stamps the schema-version marker.
//
// A marker newer than this build expects is tolerated: the schema is left
// alone, the marker is never written backward, and a warning is logged.
// This function is idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return unavailable("apply schema", err)
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	switch {
	case version < 1:
		if err := s.setSchemaVersion(ctx, currentSchemaVersion); err != nil {
			return err
		}
	case version > currentSchemaVersion:
		s.log.WithFields(logrus.Fields{
			"found_version":    version,
			"expected_version": currentSchemaVersion,
		}).Warn("database schema version is newer than this build expects")
	}

	return nil
}

// SchemaVersion returns the schema-version marker stored in the database file.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, unavailable("get user_version", err)
	}
	return version, nil
}

func (s *Store) setSchemaVersion(ctx context.Context, version int) error {
	// PRAGMA does not accept bound parameters.
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return unavailable("set user_version", err)
	}
	return nil
}
