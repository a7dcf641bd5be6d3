package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode     = "23505"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
	invalidTextRepresention = "22P02"
	numericOutOfRangeCode   = "22003"
)

// IsConstraintViolation reports whether err is a postgres error caused by
// data the schema rejects, as opposed to an unavailable or failing server.
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case checkViolationCode, notNullViolationCode, invalidTextRepresention, numericOutOfRangeCode:
		return true
	}
	return false
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
