package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubTx struct{ DBExecutor }

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

type stubDB struct{ DBExecutor }

func TestGetExecutor(t *testing.T) {
	db := &stubDB{}
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, db, GetExecutor(ctx, db))

	tx := &stubTx{}
	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, db))
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation("SELECT id FROM reservations"))
	assert.Equal(t, "insert", operation("  INSERT INTO payments (id) VALUES ($1)"))
	assert.Equal(t, "update", operation("UPDATE loyalty_profiles\nSET x = 1"))
	assert.Equal(t, "other", operation("LOCK TABLE x"))
}

var _ TxExecutor = (*SqlTxWrapper)(nil)
var _ TxExecutor = (*Tx)(nil)
var _ DBExecutor = (*sql.DB)(nil)
