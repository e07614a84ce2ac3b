package reconcile_payment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/infra/gateways"
)

// AdapterRegistry provider name -> adapter
type AdapterRegistry interface {
	Get(name string) (gateways.Adapter, error)
}

type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	UpdatePayment(ctx context.Context, res *domain.Reservation) error
}

// PaymentRepository idempotency is enforced by unique keys, not by a prior read
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) (bool, error)
	MarkEventProcessed(ctx context.Context, ev *domain.NormalizedPaymentEvent) (bool, error)
}

type LoyaltyAccount interface {
	AccrueSpending(ctx context.Context, userID, organizationID, reservationID int64, delta int64, action domain.LoyaltyAction, description string) (*domain.LoyaltyProfile, error)
}

// ProcessedCache fast path for redeliveries; the database stays authoritative
type ProcessedCache interface {
	Seen(ctx context.Context, ev *domain.NormalizedPaymentEvent) (bool, error)
	Remember(ctx context.Context, ev *domain.NormalizedPaymentEvent) error
}

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventPublisher interface {
	Publish(ctx context.Context, evs ...domain.LedgerEvent) error
}

type MetricsRecorder interface {
	IncWebhookEvent(service, provider, result string)
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
