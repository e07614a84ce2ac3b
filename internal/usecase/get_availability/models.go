package get_availability

import (
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

type Request struct {
	OrganizationID int64
	LocationID     int64
	Date           time.Time
	// ServiceIDs optional; when set every candidate is tested with the real reservation duration
	ServiceIDs []int64
}

type Response struct {
	Date            time.Time
	OrganizationID  int64
	LocationID      int64
	IsOpen          bool
	OpenTime        types.TimeString
	CloseTime       types.TimeString
	StepMinutes     int
	DurationMinutes int
	Slots           []domain.SlotAvailability
}
