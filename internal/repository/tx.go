package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxManager runs a sequence of dependent writes as one atomic unit. The
// closure receives a transaction handle that repositories rebind onto via
// WithTx; the first failing step aborts the rest and rolls back everything
// already done in the unit. A unit that has begun always runs to commit or
// rollback, even if the caller's context is cancelled mid-flight.
type TxManager interface {
	RunAtomic(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) RunAtomic(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
