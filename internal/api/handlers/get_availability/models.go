package get_availability

import (
	"github.com/m04kA/SMC-BookingCore/internal/domain"
	getAvailability "github.com/m04kA/SMC-BookingCore/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date            string         `json:"date"`
	OrganizationID  int64          `json:"organizationId"`
	LocationID      int64          `json:"locationId"`
	IsOpen          bool           `json:"isOpen"`
	OpenTime        *string        `json:"openTime,omitempty"`
	CloseTime       *string        `json:"closeTime,omitempty"`
	StepMinutes     int            `json:"stepMinutes"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

type SlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// FromUseCaseResponse converts the use case result into the HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		OrganizationID:  resp.OrganizationID,
		LocationID:      resp.LocationID,
		IsOpen:          resp.IsOpen,
		StepMinutes:     resp.StepMinutes,
		DurationMinutes: resp.DurationMinutes,
		Slots:           make([]SlotResponse, 0, len(resp.Slots)),
	}
	if resp.IsOpen {
		open, closing := resp.OpenTime.String(), resp.CloseTime.String()
		out.OpenTime = &open
		out.CloseTime = &closing
	}
	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{Time: s.Time.String(), Available: s.Available})
	}
	return out
}
