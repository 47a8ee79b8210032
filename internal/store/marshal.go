package store

import (
	"errors"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// timeLayout is the stored form of every timestamp column.
// Fixed width and UTC, so lexical order is chronological order; the driver
// parses it back into time.Time for TIMESTAMP columns.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// storedPrecision is the resolution kept by timeLayout.
const storedPrecision = time.Microsecond

// formatTime converts t to its stored TEXT form.
func formatTime(t time.Time) string {
	return t.UTC().Truncate(storedPrecision).Format(timeLayout)
}

// formatTimePtr returns nil for a nil time so the column is written as NULL.
func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// nullString returns nil for an empty string so the column is written as NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// likePattern builds a substring pattern for LIKE ... ESCAPE '\'.
// Wildcards in term match literally.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
