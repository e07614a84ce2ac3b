package record_payment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	loyaltyModels "github.com/m04kA/SMC-BookingCore/internal/service/loyalty/models"
)

type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	UpdatePayment(ctx context.Context, res *domain.Reservation) error
	CountInvoices(ctx context.Context, organizationID int64, prefix string) (int, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) (bool, error)
}

// LoyaltyAccount joins the transaction carried by ctx
type LoyaltyAccount interface {
	Rules() domain.LoyaltyRules
	Redeem(ctx context.Context, userID, organizationID, reservationID int64, kind domain.RedemptionKind) (*loyaltyModels.Redemption, error)
	AccrueSpending(ctx context.Context, userID, organizationID, reservationID int64, delta int64, action domain.LoyaltyAction, description string) (*domain.LoyaltyProfile, error)
}

type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventPublisher interface {
	Publish(ctx context.Context, evs ...domain.LedgerEvent) error
}

// IDGenerator external ids of desk payments
type IDGenerator interface {
	NewID() string
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
