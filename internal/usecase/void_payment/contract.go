package void_payment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	UpdatePayment(ctx context.Context, res *domain.Reservation) error
}

type LoyaltyAccount interface {
	AccrueSpending(ctx context.Context, userID, organizationID, reservationID int64, delta int64, action domain.LoyaltyAction, description string) (*domain.LoyaltyProfile, error)
}

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventPublisher interface {
	Publish(ctx context.Context, evs ...domain.LedgerEvent) error
}

type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
