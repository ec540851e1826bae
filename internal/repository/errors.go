package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound means the referenced row does not exist
var ErrNotFound = errors.New("not found")

// isForeignKeyViolation reports whether err is a Postgres FK violation,
// which surfaces when a write references a missing parent row
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return false
}
