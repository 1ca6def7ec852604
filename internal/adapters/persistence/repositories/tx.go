package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Tx exposes repositories bound to a single database transaction.
// All writes made through it commit together or not at all.
type Tx interface {
	Books() BookRepository
	BorrowRecords() BorrowRecordRepository
}

// TxManager runs a unit of work inside one database transaction.
// The function receives a Tx view; if it returns an error the whole
// transaction rolls back, including any context cancellation before
// commit.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}

// gormTxManager implements TxManager on top of gorm transactions
type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{tx: tx})
	})
}

// gormTx binds repositories to an open transaction
type gormTx struct {
	tx *gorm.DB
}

func (t *gormTx) Books() BookRepository {
	return NewBookRepository(t.tx)
}

func (t *gormTx) BorrowRecords() BorrowRecordRepository {
	return NewBorrowRecordRepository(t.tx)
}
