package blockedslots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

type BlockedSlotRepository interface {
	Create(ctx context.Context, b *domain.BlockedSlot) (*domain.BlockedSlot, error)
	ListByLocationAndDate(ctx context.Context, organizationID, locationID int64, date time.Time) ([]*domain.BlockedSlot, error)
	Delete(ctx context.Context, organizationID, id int64) error
}

type LocationRepository interface {
	GetLocation(ctx context.Context, organizationID, locationID int64) (*domain.Location, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
