package loyalty

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingCore/pkg/psqlbuilder"
)

var profileColumns = []string{
	"id",
	"user_id",
	"organization_id",
	"individual_services_count",
	"packages_count",
	"total_spent",
	"points",
	"tier",
	"created_at",
	"updated_at",
}

// Repository loyalty profiles and their history
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByUserID loads the profile userID holds in organizationID; inside a transaction the row is locked
func (r *Repository) GetByUserID(ctx context.Context, userID, organizationID int64) (*domain.LoyaltyProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(profileColumns...).
		From("loyalty_profiles").
		Where(profileKey(userID, organizationID))
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %w", ErrBuildQuery, err)
	}

	profile, err := scanProfile(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - scan profile: %w", ErrScanRow, err)
	}
	return profile, nil
}

// CreateIfAbsent inserts an empty profile. created is false when one already existed.
func (r *Repository) CreateIfAbsent(ctx context.Context, userID, organizationID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("loyalty_profiles").
		Columns("user_id", "organization_id", "tier").
		Values(userID, organizationID, domain.TierBronze).
		Suffix("ON CONFLICT (organization_id, user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: CreateIfAbsent - build insert query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: CreateIfAbsent - execute insert: %w", ErrExecQuery, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: CreateIfAbsent - rows affected: %w", ErrExecQuery, err)
	}
	return affected == 1, nil
}

// IncrementCounter adds one completion to the counter kind draws on
func (r *Repository) IncrementCounter(ctx context.Context, userID, organizationID int64, kind domain.RedemptionKind) (*domain.LoyaltyProfile, error) {
	column := counterColumn(kind)
	return r.updateReturning(ctx, "IncrementCounter",
		psqlbuilder.Update("loyalty_profiles").
			Set(column, squirrel.Expr(column+" + 1")).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(profileKey(userID, organizationID)),
		ErrProfileNotFound,
	)
}

// DecrementIfAtLeast subtracts threshold from the counter only if it holds at least threshold.
// The condition and the write are one statement, so concurrent redemptions cannot both pass.
func (r *Repository) DecrementIfAtLeast(ctx context.Context, userID, organizationID int64, kind domain.RedemptionKind, threshold int) (*domain.LoyaltyProfile, error) {
	column := counterColumn(kind)
	return r.updateReturning(ctx, "DecrementIfAtLeast",
		psqlbuilder.Update("loyalty_profiles").
			Set(column, squirrel.Expr(column+" - ?", threshold)).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(profileKey(userID, organizationID)).
			Where(squirrel.GtOrEq{column: threshold}),
		ErrInsufficientBalance,
	)
}

// UpdateSpending stores total spent with the points and tier derived from it
func (r *Repository) UpdateSpending(ctx context.Context, userID, organizationID, totalSpent int64) (*domain.LoyaltyProfile, error) {
	if totalSpent < 0 {
		totalSpent = 0
	}
	points := domain.PointsFor(totalSpent)
	return r.updateReturning(ctx, "UpdateSpending",
		psqlbuilder.Update("loyalty_profiles").
			Set("total_spent", totalSpent).
			Set("points", points).
			Set("tier", domain.TierFor(points)).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(profileKey(userID, organizationID)),
		ErrProfileNotFound,
	)
}

// AddHistory appends an audit entry
func (r *Repository) AddHistory(ctx context.Context, h *domain.LoyaltyHistory) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("loyalty_history").
		Columns("user_id", "organization_id", "reservation_id", "action", "points", "description").
		Values(h.UserID, h.OrganizationID, h.ReservationID, h.Action, h.Points, h.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddHistory - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&h.ID, &h.CreatedAt); err != nil {
		return fmt.Errorf("%w: AddHistory - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

// ListHistory newest first
func (r *Repository) ListHistory(ctx context.Context, userID, organizationID int64, limit int) ([]*domain.LoyaltyHistory, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "user_id", "organization_id", "reservation_id", "action", "points", "description", "created_at",
	).
		From("loyalty_history").
		Where(profileKey(userID, organizationID)).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListHistory - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListHistory - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	history := make([]*domain.LoyaltyHistory, 0)
	for rows.Next() {
		var h domain.LoyaltyHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.OrganizationID, &h.ReservationID, &h.Action,
			&h.Points, &h.Description, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListHistory - scan entry: %w", ErrScanRow, err)
		}
		history = append(history, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListHistory - rows iteration: %w", ErrScanRow, err)
	}
	return history, nil
}

func (r *Repository) updateReturning(ctx context.Context, op string, builder squirrel.UpdateBuilder, noRowsErr error) (*domain.LoyaltyProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.Suffix("RETURNING " + strings.Join(profileColumns, ", ")).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build update query: %w", ErrBuildQuery, op, err)
	}

	profile, err := scanProfile(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, noRowsErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}
	return profile, nil
}

// profileKey profiles are per customer per organization
func profileKey(userID, organizationID int64) squirrel.Eq {
	return squirrel.Eq{"organization_id": organizationID, "user_id": userID}
}

func counterColumn(kind domain.RedemptionKind) string {
	if kind == domain.RedemptionPackage {
		return "packages_count"
	}
	return "individual_services_count"
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*domain.LoyaltyProfile, error) {
	var p domain.LoyaltyProfile
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.OrganizationID,
		&p.IndividualServicesCount,
		&p.PackagesCount,
		&p.TotalSpent,
		&p.Points,
		&p.Tier,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
