package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type contextKey string

const txKey contextKey = "gorm_tx"

// TransactionManager manages database transactions via context injection.
// Every mutating engine call runs inside RunInTx; row locks taken through the
// injected tx are held until commit or rollback.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	db       *gorm.DB
	lockWait time.Duration
}

func NewTransactionManager(db *gorm.DB, lockWait time.Duration) TransactionManager {
	return &transactionManager{db: db, lockWait: lockWait}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.lockWait > 0 {
			// SET LOCAL does not take bind parameters; the value is our own
			// configuration, never caller input.
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", t.lockWait.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		txCtx := context.WithValue(ctx, txKey, tx)
		return fn(txCtx)
	})
	return Translate(err)
}

// GetDB extracts the transaction DB from context if present, otherwise returns root DB.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}
