package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxFn runs against repositories bound to a single database transaction.
type TxFn func(ctx context.Context, books BookRepository, loans LoanRepository) error

// TxManager provides the atomic unit of work for operations that touch a
// book's quantity together with the loan ledger. Everything inside fn
// commits together or rolls back together.
type TxManager interface {
	WithTransaction(ctx context.Context, fn TxFn) error
}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager over the shared DB handle.
func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithTransaction(ctx context.Context, fn TxFn) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &bookRepository{db: tx}, &loanRepository{db: tx})
	})
}
