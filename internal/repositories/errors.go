package repositories

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey wraps a unique-constraint violation (Postgres 23505).
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrAlreadyClaimed is returned by ClaimResponsible when the conditional
	// update matched no rows (somebody else won the claim).
	ErrAlreadyClaimed = errors.New("lead already claimed")
)

const uniqueViolation = "23505"

// mapError reclassifies driver errors into the repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return errors.Join(ErrDuplicateKey, err)
	}
	return err
}

func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
