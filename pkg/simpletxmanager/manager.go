package simpletxmanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m04kA/SMC-BookingCore/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingCore/pkg/txmanager"
)

// TransactionManager is the txmanager contract over a bare *sql.DB, used when metrics are off
type TransactionManager struct {
	inner *txmanager.TransactionManager
}

type beginner struct {
	db *sql.DB
}

func (b beginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx, err := b.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("simpletxmanager: %w", err)
	}
	return &dbmetrics.SqlTxWrapper{Tx: tx}, nil
}

func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{inner: txmanager.NewTransactionManager(beginner{db: db})}
}

func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.inner.Do(ctx, fn)
}

func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.inner.DoSerializable(ctx, fn)
}

func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.inner.DoReadOnly(ctx, fn)
}
