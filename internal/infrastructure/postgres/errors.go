package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/docvault-api/internal/domain/repository"
)

const uniqueViolation = "23505"

// validID reports whether id can be compared against a uuid column. Anything
// else cannot match a row, so callers short-circuit to not found.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}
