package create_reservation

import (
	"github.com/m04kA/SMC-BookingCore/internal/api/handlers"
	"github.com/m04kA/SMC-BookingCore/internal/domain"
	createReservation "github.com/m04kA/SMC-BookingCore/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	LocationID int64            `json:"locationId"`
	Date       string           `json:"date"`      // "2026-03-02"
	StartTime  string           `json:"startTime"` // "10:00"
	Services   []ServiceRequest `json:"services"`
	Notes      *string          `json:"notes,omitempty"`
}

type ServiceRequest struct {
	ServiceID int64 `json:"serviceId"`
	IsPackage bool  `json:"isPackage"`
}

// ToUseCaseRequest parses date and time; caller identity comes from the token
func (r *CreateReservationRequest) ToUseCaseRequest(principal domain.Principal, organizationID int64) (*createReservation.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, errInvalidDate
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	services := make([]domain.ServiceSelection, 0, len(r.Services))
	for _, s := range r.Services {
		services = append(services, domain.ServiceSelection{ServiceID: s.ServiceID, IsPackage: s.IsPackage})
	}

	return &createReservation.Request{
		UserID:         principal.UserID,
		OrganizationID: organizationID,
		LocationID:     r.LocationID,
		Date:           date,
		StartTime:      startTime,
		Services:       services,
		Notes:          r.Notes,
	}, nil
}
