package create_blocked_slot

import (
	"errors"

	"github.com/m04kA/SMC-BookingCore/internal/api/handlers"
	"github.com/m04kA/SMC-BookingCore/internal/service/blockedslots/models"
	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

var (
	errInvalidDate = errors.New("create_blocked_slot handler: invalid date")
	errInvalidTime = errors.New("create_blocked_slot handler: invalid time")
)

// CreateBlockedSlotRequest time is required unless allDay
type CreateBlockedSlotRequest struct {
	Date            string  `json:"date"`
	Time            *string `json:"time,omitempty"`
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	AllDay          bool    `json:"allDay"`
	Reason          *string `json:"reason,omitempty"`
}

func (r *CreateBlockedSlotRequest) ToServiceRequest(organizationID, locationID int64) (*models.CreateRequest, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, errInvalidDate
	}

	req := &models.CreateRequest{
		OrganizationID:  organizationID,
		LocationID:      locationID,
		Date:            date,
		DurationMinutes: r.DurationMinutes,
		AllDay:          r.AllDay,
		Reason:          r.Reason,
	}
	if r.Time != nil && !r.AllDay {
		t, err := types.NewTimeStringFromString(*r.Time)
		if err != nil {
			return nil, errInvalidTime
		}
		req.Time = &t
	}
	return req, nil
}
