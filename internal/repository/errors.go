// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"kindnest/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes we classify. SQLite (used in tests) reports the same
// conditions as text, so both forms are checked.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// IsForeignKeyViolation reports whether err is a referential integrity
// failure: the row a write pointed at vanished between resolution and write.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// IsUniqueViolation reports whether err is a unique constraint failure, the
// signature of a lost race between two concurrent toggles.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// classifyWriteError converts raw datastore errors from interaction writes
// into the application taxonomy.
func classifyWriteError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case IsForeignKeyViolation(err):
		return models.NewInvalidReferenceError(resource+" no longer exists", err)
	default:
		return models.NewInternalError(err)
	}
}
