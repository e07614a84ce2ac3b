package create_blocked_slot

import (
	"context"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/service/blockedslots/models"
)

type BlockedSlotService interface {
	Create(ctx context.Context, principal domain.Principal, req *models.CreateRequest) (*models.BlockedSlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
