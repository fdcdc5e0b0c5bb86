package postgres

import (
	"database/sql"
	"time"
)

// PostgreSQL error codes checked when mapping driver errors to store
// sentinel errors.
const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
)

// nullableTime maps the zero time to SQL NULL so "never reviewed" is
// stored as absence rather than year 1.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
