package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

type CatalogRepository interface {
	GetLocation(ctx context.Context, organizationID, locationID int64) (*domain.Location, error)
	GetServices(ctx context.Context, organizationID int64, ids []int64) ([]*domain.Service, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

type BlockedSlotRepository interface {
	ListByLocationAndDate(ctx context.Context, organizationID, locationID int64, date time.Time) ([]*domain.BlockedSlot, error)
}

// TransactionManager the check and the insert share one serializable transaction
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventPublisher interface {
	Publish(ctx context.Context, evs ...domain.LedgerEvent) error
}

type MetricsRecorder interface {
	IncReservationCreated(service string)
	IncBookingConflict(service string)
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
