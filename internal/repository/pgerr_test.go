package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/denisceno/clone-magazina/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, Translate(nil))
	})

	t.Run("RecordNotFound", func(t *testing.T) {
		err := Translate(gorm.ErrRecordNotFound)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("LockTimeoutBecomesBusy", func(t *testing.T) {
		err := Translate(&pgconn.PgError{Code: "55P03"})
		assert.Equal(t, apperror.KindBusy, apperror.KindOf(err))
		assert.True(t, apperror.Retryable(err))
	})

	t.Run("QueryCanceledBecomesBusy", func(t *testing.T) {
		err := Translate(&pgconn.PgError{Code: "57014"})
		assert.Equal(t, apperror.KindBusy, apperror.KindOf(err))
	})

	t.Run("SerializationFailureBecomesConflict", func(t *testing.T) {
		err := Translate(&pgconn.PgError{Code: "40001"})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("DeadlockBecomesConflict", func(t *testing.T) {
		err := Translate(&pgconn.PgError{Code: "40P01"})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("UniqueViolationBecomesConflict", func(t *testing.T) {
		err := Translate(&pgconn.PgError{Code: "23505"})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("ForeignKeyViolationBecomesConflict", func(t *testing.T) {
		err := Translate(&pgconn.PgError{Code: "23503"})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("WrappedPgErrorStillMatches", func(t *testing.T) {
		inner := &pgconn.PgError{Code: "55P03"}
		err := Translate(fmt.Errorf("query failed: %w", inner))
		assert.Equal(t, apperror.KindBusy, apperror.KindOf(err))
	})

	t.Run("ExistingKindPassesThrough", func(t *testing.T) {
		orig := apperror.New(apperror.KindInsufficientStock, "short")
		assert.Equal(t, error(orig), Translate(orig))
	})

	t.Run("UnknownErrorUntouched", func(t *testing.T) {
		orig := errors.New("boom")
		assert.Equal(t, orig, Translate(orig))
		assert.Equal(t, apperror.KindInternal, apperror.KindOf(Translate(orig)))
	})
}
