package loyalty

import (
	"context"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

// ProfileRepository loyalty profiles and their audit trail
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID, organizationID int64) (*domain.LoyaltyProfile, error)
	CreateIfAbsent(ctx context.Context, userID, organizationID int64) (bool, error)
	IncrementCounter(ctx context.Context, userID, organizationID int64, kind domain.RedemptionKind) (*domain.LoyaltyProfile, error)
	DecrementIfAtLeast(ctx context.Context, userID, organizationID int64, kind domain.RedemptionKind, threshold int) (*domain.LoyaltyProfile, error)
	UpdateSpending(ctx context.Context, userID, organizationID, totalSpent int64) (*domain.LoyaltyProfile, error)
	AddHistory(ctx context.Context, h *domain.LoyaltyHistory) error
	ListHistory(ctx context.Context, userID, organizationID int64, limit int) ([]*domain.LoyaltyHistory, error)
}

// TransactionManager nested calls join the caller's transaction
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type MetricsRecorder interface {
	IncLoyaltyRedemption(service, kind, result string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
