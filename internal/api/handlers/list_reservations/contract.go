package list_reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/service/reservations/models"
)

type ReservationService interface {
	List(
		ctx context.Context,
		principal domain.Principal,
		organizationID, locationID int64,
		date *time.Time,
		includeCancelled bool,
	) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
