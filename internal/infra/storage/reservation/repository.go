package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-BookingCore/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingCore/pkg/psqlbuilder"
)

var reservationColumns = []string{
	"id",
	"organization_id",
	"location_id",
	"user_id",
	"date",
	"start_time",
	"duration_minutes",
	"status",
	"payment_status",
	"payment_amount",
	"discount_amount",
	"total_price",
	"currency",
	"payment_method",
	"payment_date",
	"invoice_number",
	"payment_notes",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository reservations and their selected services
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts the reservation and its service rows. Call it inside a transaction:
// an overlapping interval is rejected by the exclusion constraint and surfaces as ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"organization_id",
			"location_id",
			"user_id",
			"date",
			"start_time",
			"duration_minutes",
			"status",
			"payment_status",
			"payment_amount",
			"total_price",
			"currency",
			"notes",
		).
		Values(
			res.OrganizationID,
			res.LocationID,
			res.UserID,
			res.Date,
			res.StartTime,
			res.DurationMinutes,
			res.Status,
			res.PaymentStatus,
			res.PaymentAmount,
			res.TotalPrice,
			res.Currency,
			res.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if pgerr.IsExclusionViolation(err) {
			return nil, ErrSlotNotAvailable
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	if len(res.Services) == 0 {
		return res, nil
	}

	insertServices := psqlbuilder.Insert("reservation_services").
		Columns("reservation_id", "service_id", "service_name", "is_package", "duration_minutes", "price")
	for i := range res.Services {
		res.Services[i].ReservationID = res.ID
		s := res.Services[i]
		insertServices = insertServices.Values(s.ReservationID, s.ServiceID, s.ServiceName, s.IsPackage, s.DurationMinutes, s.Price)
	}

	query, args, err = insertServices.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build services insert: %w", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - insert services: %w", ErrExecQuery, err)
	}

	return res, nil
}

// GetByID loads a reservation with its services. Inside a transaction the row is locked.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %w", ErrScanRow, err)
	}

	if err := r.attachServices(ctx, executor, []*domain.Reservation{res}); err != nil {
		return nil, err
	}
	return res, nil
}

// List returns reservations matching filter ordered by date and start time.
// Inside a transaction with a single date the rows are locked.
func (r *Repository) List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"organization_id": filter.OrganizationID})

	if filter.LocationID != nil {
		builder = builder.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}
	if filter.Date != nil {
		builder = builder.Where(squirrel.Eq{"date": *filter.Date})
	}
	if filter.UserID != nil {
		builder = builder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if !filter.IncludeCancelled {
		builder = builder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	builder = builder.OrderBy("date ASC", "start_time ASC")

	if dbmetrics.IsInTransaction(ctx) && filter.Date != nil {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	list := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan reservation: %w", ErrScanRow, err)
		}
		list = append(list, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %w", ErrScanRow, err)
	}

	if err := r.attachServices(ctx, executor, list); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStatus persists the lifecycle fields of res
func (r *Repository) UpdateStatus(ctx context.Context, res *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", res.Status).
		Set("cancellation_reason", res.CancellationReason).
		Set("cancelled_at", res.CancelledAt).
		Set("completed_at", res.CompletedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	err = r.execOne(ctx, executor, query, args)
	if err != nil && !errors.Is(err, ErrReservationNotFound) {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}
	return err
}

// UpdatePayment persists the payment fields of res together with its status
func (r *Repository) UpdatePayment(ctx context.Context, res *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", res.Status).
		Set("payment_status", res.PaymentStatus).
		Set("payment_amount", res.PaymentAmount).
		Set("discount_amount", res.DiscountAmount).
		Set("payment_method", res.PaymentMethod).
		Set("payment_date", res.PaymentDate).
		Set("invoice_number", res.InvoiceNumber).
		Set("payment_notes", res.PaymentNotes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdatePayment - build update query: %w", ErrBuildQuery, err)
	}

	err = r.execOne(ctx, executor, query, args)
	switch {
	case err == nil, errors.Is(err, ErrReservationNotFound):
		return err
	case pgerr.IsUniqueViolation(err):
		return ErrDuplicateInvoice
	default:
		return fmt.Errorf("%w: UpdatePayment - execute update: %w", ErrExecQuery, err)
	}
}

// CountInvoices number of invoice numbers of the organization starting with prefix
func (r *Repository) CountInvoices(ctx context.Context, organizationID int64, prefix string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{"organization_id": organizationID}).
		Where(squirrel.Like{"invoice_number": prefix + "%"}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountInvoices - build select query: %w", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountInvoices - scan count: %w", ErrScanRow, err)
	}
	return count, nil
}

func (r *Repository) execOne(ctx context.Context, executor DBExecutor, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func (r *Repository) attachServices(ctx context.Context, executor DBExecutor, list []*domain.Reservation) error {
	if len(list) == 0 {
		return nil
	}

	ids := make([]int64, len(list))
	byID := make(map[int64]*domain.Reservation, len(list))
	for i, res := range list {
		ids[i] = res.ID
		byID[res.ID] = res
	}

	query, args, err := psqlbuilder.Select(
		"reservation_id", "service_id", "service_name", "is_package", "duration_minutes", "price",
	).
		From("reservation_services").
		Where(squirrel.Eq{"reservation_id": ids}).
		OrderBy("reservation_id", "service_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachServices - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.ReservationService
		if err := rows.Scan(&s.ReservationID, &s.ServiceID, &s.ServiceName, &s.IsPackage, &s.DurationMinutes, &s.Price); err != nil {
			return fmt.Errorf("%w: attachServices - scan service: %w", ErrScanRow, err)
		}
		if res, ok := byID[s.ReservationID]; ok {
			res.Services = append(res.Services, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachServices - rows iteration: %w", ErrScanRow, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(
		&res.ID,
		&res.OrganizationID,
		&res.LocationID,
		&res.UserID,
		&res.Date,
		&res.StartTime,
		&res.DurationMinutes,
		&res.Status,
		&res.PaymentStatus,
		&res.PaymentAmount,
		&res.DiscountAmount,
		&res.TotalPrice,
		&res.Currency,
		&res.PaymentMethod,
		&res.PaymentDate,
		&res.InvoiceNumber,
		&res.PaymentNotes,
		&res.Notes,
		&res.CancellationReason,
		&res.CancelledAt,
		&res.CompletedAt,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if _, err := domain.ParseReservationStatus(string(res.Status)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	}
	return &res, nil
}
