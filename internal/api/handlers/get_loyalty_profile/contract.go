package get_loyalty_profile

import (
	"context"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/service/loyalty/models"
)

type LoyaltyService interface {
	GetProfile(ctx context.Context, principal domain.Principal, userID int64, limit int) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
