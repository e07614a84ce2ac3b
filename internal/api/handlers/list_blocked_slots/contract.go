package list_blocked_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/service/blockedslots/models"
)

type BlockedSlotService interface {
	List(ctx context.Context, principal domain.Principal, organizationID, locationID int64, date time.Time) (*models.BlockedSlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
