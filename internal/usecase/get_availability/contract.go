package get_availability

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
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

type BlockedSlotRepository interface {
	ListByLocationAndDate(ctx context.Context, organizationID, locationID int64, date time.Time) ([]*domain.BlockedSlot, error)
}

// TimeProvider current time, replaceable in tests
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
