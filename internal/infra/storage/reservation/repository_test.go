package reservation

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingCore/pkg/txmanager"
)

// failingTx rejects every statement with queryErr
type failingTx struct {
	queryErr error
	queries  []string
}

func (t *failingTx) ExecContext(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
	t.queries = append(t.queries, query)
	return nil, t.queryErr
}

func (t *failingTx) QueryContext(_ context.Context, query string, _ ...interface{}) (*sql.Rows, error) {
	t.queries = append(t.queries, query)
	return nil, t.queryErr
}

func (t *failingTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	panic("not used")
}

func (t *failingTx) Commit() error   { return nil }
func (t *failingTx) Rollback() error { return nil }

type failingBeginner struct {
	queryErr error
	txs      []*failingTx
}

func (b *failingBeginner) BeginTx(context.Context, *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx := &failingTx{queryErr: b.queryErr}
	b.txs = append(b.txs, tx)
	return tx, nil
}

func TestList_StatementSerializationFailureIsRetried(t *testing.T) {
	db := &failingBeginner{queryErr: &pq.Error{Code: "40001"}}
	tm := txmanager.NewTransactionManager(db)
	repo := NewRepository(nil)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	locationID := int64(10)

	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		_, err := repo.List(ctx, domain.ReservationFilter{OrganizationID: 1, LocationID: &locationID, Date: &date})
		return err
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.True(t, txmanager.IsSerializationFailure(err))
	require.Len(t, db.txs, txmanager.DefaultSerializableAttempts)
	assert.Contains(t, db.txs[0].queries[0], "FOR UPDATE")
}

func TestList_OtherDriverErrorsAreNotRetried(t *testing.T) {
	db := &failingBeginner{queryErr: &pq.Error{Code: "42P01"}}
	tm := txmanager.NewTransactionManager(db)
	repo := NewRepository(nil)

	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		_, err := repo.List(ctx, domain.ReservationFilter{OrganizationID: 1})
		return err
	})

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.False(t, txmanager.IsSerializationFailure(err))
	assert.Len(t, db.txs, 1)
}
