package repository

import (
	"errors"

	"github.com/denisceno/clone-magazina/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres error codes the engines care about.
const (
	pgLockNotAvailable    = "55P03" // lock_timeout expired
	pgSerializationFail   = "40001"
	pgDeadlockDetected    = "40P01"
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgQueryCanceled       = "57014" // statement_timeout / context cancellation
)

// Translate maps database-level failures onto the engine error taxonomy.
// Errors that already carry a kind pass through unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Wrap(apperror.KindNotFound, err, "record not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgQueryCanceled:
			return apperror.Wrap(apperror.KindBusy, err, "row lock wait timed out")
		case pgSerializationFail, pgDeadlockDetected:
			return apperror.Wrap(apperror.KindConflict, err, "concurrent modification detected")
		case pgUniqueViolation:
			return apperror.Wrap(apperror.KindConflict, err, "duplicate value violates a uniqueness rule")
		case pgForeignKeyViolation:
			return apperror.Wrap(apperror.KindConflict, err, "row is referenced by other records")
		}
	}

	return err
}
