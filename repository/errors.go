package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when a write violates a uniqueness constraint.
	ErrDuplicateKey = errors.New("duplicate key")
)

// DuplicateKeyError names the field whose uniqueness was violated.
// It matches ErrDuplicateKey under errors.Is.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return ErrDuplicateKey.Error()
	}
	return "duplicate " + e.Field
}

// Is reports whether target is ErrDuplicateKey.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// asDuplicateKey converts a Postgres unique violation into a DuplicateKeyError.
// Constraint names follow the <table>_<column>_key convention
// generated by Postgres for UNIQUE columns.
func asDuplicateKey(err error) (*DuplicateKeyError, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil, false
	}
	field := ""
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		field = "email"
	case strings.Contains(pgErr.ConstraintName, "username"):
		field = "username"
	}
	return &DuplicateKeyError{Field: field}, true
}
