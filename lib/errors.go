package lib

import (
	"database/sql"
	"errors"

	"woodzire_server/database"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid reference")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
)

// MapPgError translates Postgres failures into the package sentinels
// while keeping the original error in the chain.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Join(ErrNotFound, err)
	}

	switch database.SQLState(err) {
	case "23505": // unique_violation
		return errors.Join(ErrConflict, err)
	case "23503", "23502", "23514", "22P02": // foreign key, not null, check, invalid text representation
		return errors.Join(ErrInvalid, err)
	case "P0002": // no_data_found
		return errors.Join(ErrNotFound, err)
	}
	return err
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrConflict)
}

// GetDetailForLogging returns a short label for known error kinds.
func GetDetailForLogging(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "unique_violation"
	case errors.Is(err, ErrInvalid):
		return "constraint_violation"
	default:
		return err.Error()
	}
}
