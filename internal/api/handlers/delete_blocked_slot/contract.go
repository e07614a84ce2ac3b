package delete_blocked_slot

import (
	"context"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

type BlockedSlotService interface {
	Delete(ctx context.Context, principal domain.Principal, organizationID, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
