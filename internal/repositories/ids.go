package repositories

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Postgres SQLSTATE codes the repositories translate.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// validID reports whether id can address a UUID primary key. Malformed ids
// are treated as "not found" instead of surfacing a driver cast error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
