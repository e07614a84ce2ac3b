package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

// ReservationRepository ledger rows
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, res *domain.Reservation) error
}

type PaymentRepository interface {
	ListByReservation(ctx context.Context, reservationID int64) ([]*domain.Payment, error)
}

// EventPublisher receives committed changes only
type EventPublisher interface {
	Publish(ctx context.Context, evs ...domain.LedgerEvent) error
}

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
