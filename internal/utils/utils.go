package utils

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsPGUniqueViolation reports whether error is PostgreSQL unique constraint violation (code 23505).
func IsPGUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

// IsPGCheckViolation reports whether error is PostgreSQL check constraint violation (code 23514).
func IsPGCheckViolation(err error) bool {
	return pgCode(err) == "23514"
}

func pgCode(err error) string {
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return pge.Code
	}
	return ""
}
