package complete_reservation

import (
	"github.com/m04kA/SMC-BookingCore/internal/service/reservations/models"
	completeReservation "github.com/m04kA/SMC-BookingCore/internal/usecase/complete_reservation"
)

type CompleteReservationResponse struct {
	Reservation *models.ReservationResponse `json:"reservation"`
	Loyalty     *LoyaltyCounters            `json:"loyalty,omitempty"`
}

// LoyaltyCounters profile state after the completion was counted
type LoyaltyCounters struct {
	IndividualServicesCount int    `json:"individualServicesCount"`
	PackagesCount           int    `json:"packagesCount"`
	Points                  int    `json:"points"`
	Tier                    string `json:"tier"`
}

func FromUseCaseResponse(resp *completeReservation.Response) *CompleteReservationResponse {
	out := &CompleteReservationResponse{Reservation: models.FromDomainReservation(resp.Reservation)}
	if p := resp.Loyalty; p != nil {
		out.Loyalty = &LoyaltyCounters{
			IndividualServicesCount: p.IndividualServicesCount,
			PackagesCount:           p.PackagesCount,
			Points:                  p.Points,
			Tier:                    string(p.Tier),
		}
	}
	return out
}
