package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingCore/pkg/psqlbuilder"
)

// Repository read side of locations and services
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetLocation loads a location of the organization with its weekday hours.
// Inside a transaction the location row is locked, which serializes bookings of that location.
func (r *Repository) GetLocation(ctx context.Context, organizationID, locationID int64) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("id", "organization_id", "name", "open_time", "close_time", "slot_step_minutes").
		From("locations").
		Where(squirrel.Eq{"id": locationID, "organization_id": organizationID})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLocation - build select query: %w", ErrBuildQuery, err)
	}

	var loc domain.Location
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&loc.ID, &loc.OrganizationID, &loc.Name, &loc.OpenTime, &loc.CloseTime, &loc.SlotStepMinutes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetLocation - scan location: %w", ErrScanRow, err)
	}

	hours, err := r.getHours(ctx, executor, loc.ID)
	if err != nil {
		return nil, err
	}
	loc.Hours = hours
	return &loc, nil
}

func (r *Repository) getHours(ctx context.Context, executor dbmetrics.DBExecutor, locationID int64) (map[time.Weekday]domain.DayHours, error) {
	query, args, err := psqlbuilder.Select("weekday", "is_open", "open_time", "close_time").
		From("location_hours").
		Where(squirrel.Eq{"location_id": locationID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getHours - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getHours - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make(map[time.Weekday]domain.DayHours)
	for rows.Next() {
		var (
			weekday int
			h       domain.DayHours
		)
		if err := rows.Scan(&weekday, &h.IsOpen, &h.OpenTime, &h.CloseTime); err != nil {
			return nil, fmt.Errorf("%w: getHours - scan hours: %w", ErrScanRow, err)
		}
		hours[time.Weekday(weekday)] = h
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getHours - rows iteration: %w", ErrScanRow, err)
	}
	return hours, nil
}

// GetServices active services of the organization among ids. Missing ids are simply absent.
func (r *Repository) GetServices(ctx context.Context, organizationID int64, ids []int64) ([]*domain.Service, error) {
	if len(ids) == 0 {
		return []*domain.Service{}, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "organization_id", "name", "duration_minutes", "price", "promo_price", "forfait_price", "is_active",
	).
		From("services").
		Where(squirrel.Eq{"organization_id": organizationID, "id": ids, "is_active": true}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServices - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0, len(ids))
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.OrganizationID, &s.Name, &s.DurationMinutes, &s.Price,
			&s.PromoPrice, &s.ForfaitPrice, &s.IsActive); err != nil {
			return nil, fmt.Errorf("%w: GetServices - scan service: %w", ErrScanRow, err)
		}
		services = append(services, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServices - rows iteration: %w", ErrScanRow, err)
	}
	return services, nil
}
