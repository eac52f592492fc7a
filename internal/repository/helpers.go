package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/alexanderramin/critpath/internal/domain"
)

// ErrVersionConflict is returned by Update when the stored version no longer
// matches the version the caller loaded.
var ErrVersionConflict = errors.New("version conflict")

const (
	dateLayout  = "2006-01-02"
	stampLayout = time.RFC3339
)

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the formatted string.
func nullableTimeToString(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(layout)
}

func notFound(kind, id string) error {
	return &domain.LookupError{Kind: kind, ID: id}
}
