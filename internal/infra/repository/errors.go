package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-core/internal/domain"
)

// Postgres SQLSTATE codes that mean "try again".
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgUniqueViolation      = "23505"
)

// translate maps driver errors onto the domain sentinels. Anything else is
// returned unchanged and treated by callers as a storage fault.
func translate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Join(domain.ErrDuplicate, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.Join(domain.ErrDuplicate, err)
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return errors.Join(domain.ErrContention, err)
		}
	}

	return err
}
