package create_reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.OrganizationID <= 0 || req.LocationID <= 0 {
		return fmt.Errorf("%w: organizationID and locationID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil || req.StartTime.Minutes() >= types.MinutesPerDay {
		return fmt.Errorf("%w: invalid start time", ErrInvalidInput)
	}

	if len(req.Services) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if len(req.Services) > domain.MaxServicesPerReservation {
		return fmt.Errorf("%w: at most %d services per reservation", ErrInvalidInput, domain.MaxServicesPerReservation)
	}
	seen := make(map[int64]struct{}, len(req.Services))
	for _, s := range req.Services {
		if s.ServiceID <= 0 {
			return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
		}
		if _, dup := seen[s.ServiceID]; dup {
			return fmt.Errorf("%w: duplicate service id %d", ErrInvalidInput, s.ServiceID)
		}
		seen[s.ServiceID] = struct{}{}
	}

	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		if len(notes) > domain.MaxNotesLength {
			return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
		}
		if notes == "" {
			req.Notes = nil
		} else {
			req.Notes = &notes
		}
	}
	return nil
}

// validateDate rejects past days and, on the current day, start times already passed
func validateDate(date time.Time, start types.TimeString, now time.Time) error {
	if domain.IsPastDay(date, now) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, date.Format(domain.DateFormat))
	}
	if domain.SameDay(date, now) && !start.IsAfter(types.NewTimeString(now)) {
		return fmt.Errorf("%w: start time %s has already passed", ErrInvalidDate, start)
	}
	return nil
}
