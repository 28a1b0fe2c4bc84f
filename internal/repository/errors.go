package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when no row matches a query. Callers translate it
// into their own not-found errors.
var ErrNotFound = errors.New("record not found")

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. The constraint is the arbiter of identifier uniqueness; the
// allocation retry loops key off this check.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
