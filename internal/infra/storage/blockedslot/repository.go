package blockedslot

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingCore/pkg/psqlbuilder"
)

type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, b *domain.BlockedSlot) (*domain.BlockedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_slots").
		Columns("organization_id", "location_id", "date", "time", "duration_minutes", "all_day", "reason").
		Values(b.OrganizationID, b.LocationID, b.Date, b.Time, b.DurationMinutes, b.AllDay, b.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	return b, nil
}

// ListByLocationAndDate blocks of one location on one date
func (r *Repository) ListByLocationAndDate(ctx context.Context, organizationID, locationID int64, date time.Time) ([]*domain.BlockedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "organization_id", "location_id", "date", "time", "duration_minutes", "all_day", "reason", "created_at",
	).
		From("blocked_slots").
		Where(squirrel.Eq{
			"organization_id": organizationID,
			"location_id":     locationID,
			"date":            date,
		}).
		OrderBy("all_day DESC", "time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByLocationAndDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByLocationAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.BlockedSlot, 0)
	for rows.Next() {
		var b domain.BlockedSlot
		if err := rows.Scan(&b.ID, &b.OrganizationID, &b.LocationID, &b.Date, &b.Time,
			&b.DurationMinutes, &b.AllDay, &b.Reason, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByLocationAndDate - scan block: %w", ErrScanRow, err)
		}
		blocks = append(blocks, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByLocationAndDate - rows iteration: %w", ErrScanRow, err)
	}
	return blocks, nil
}

// Delete removes a block of the organization
func (r *Repository) Delete(ctx context.Context, organizationID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_slots").
		Where(squirrel.Eq{"id": id, "organization_id": organizationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrBlockedSlotNotFound
	}
	return nil
}
