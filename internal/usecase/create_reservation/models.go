package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

type Request struct {
	UserID         int64
	OrganizationID int64
	LocationID     int64
	Date           time.Time
	StartTime      types.TimeString
	Services       []domain.ServiceSelection
	Notes          *string
}
