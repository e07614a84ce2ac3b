package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingCore/pkg/psqlbuilder"
)

// Repository payments and processed gateway events.
// Both tables are keyed by (provider, external_id) and written with ON CONFLICT DO NOTHING,
// so the existence check and the insert are one statement.
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts p unless a payment with the same (provider, external_id) exists.
// created is false for a duplicate; p is left untouched in that case.
func (r *Repository) Create(ctx context.Context, p *domain.Payment) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns("organization_id", "reservation_id", "provider", "external_id", "amount", "currency", "status").
		Values(p.OrganizationID, p.ReservationID, p.Provider, p.ExternalID, p.Amount, p.Currency, p.Status).
		Suffix("ON CONFLICT (provider, external_id) DO NOTHING RETURNING id, created_at").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	return true, nil
}

// Exists reports whether a payment with (provider, externalID) was recorded
func (r *Repository) Exists(ctx context.Context, provider domain.Provider, externalID string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("payments").
		Where(squirrel.Eq{"provider": provider, "external_id": externalID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %w", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Exists - scan: %w", ErrScanRow, err)
	}
	return true, nil
}

// MarkEventProcessed records (provider, externalID, outcome). fresh is false when it was already recorded.
func (r *Repository) MarkEventProcessed(ctx context.Context, ev *domain.NormalizedPaymentEvent) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_events").
		Columns("provider", "external_id", "outcome", "reservation_id").
		Values(ev.Provider, ev.ExternalID, ev.Outcome, ev.ReservationID).
		Suffix("ON CONFLICT (provider, external_id, outcome) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: MarkEventProcessed - build insert query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: MarkEventProcessed - execute insert: %w", ErrExecQuery, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkEventProcessed - rows affected: %w", ErrExecQuery, err)
	}
	return affected == 1, nil
}

// ListByReservation payments of one reservation, oldest first
func (r *Repository) ListByReservation(ctx context.Context, reservationID int64) ([]*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "organization_id", "reservation_id", "provider", "external_id", "amount", "currency", "status", "created_at",
	).
		From("payments").
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.ReservationID, &p.Provider, &p.ExternalID,
			&p.Amount, &p.Currency, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByReservation - scan payment: %w", ErrScanRow, err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - rows iteration: %w", ErrScanRow, err)
	}
	return payments, nil
}
