package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes used for invariant mapping.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// IsUniqueViolation checks if the error is a unique constraint violation,
// optionally restricted to a specific constraint name. Partial unique
// indexes back the open-enrollment, contract-per-term and grade-per-student
// invariants, so a race surfaces here instead of as silent duplication.
func IsUniqueViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}

// IsForeignKeyViolation checks if the error is a foreign key violation.
// Deletes blocked by dependent rows (enrollments on courses/users) map to
// RestrictedDelete through this check.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// IsCheckViolation checks if the error is a CHECK constraint violation.
func IsCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == checkViolation
}

// IsNoRows reports whether the error is pgx.ErrNoRows.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
