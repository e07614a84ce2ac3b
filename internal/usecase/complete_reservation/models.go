package complete_reservation

import "github.com/m04kA/SMC-BookingCore/internal/domain"

type Request struct {
	Principal     domain.Principal
	ReservationID int64
}

type Response struct {
	Reservation *domain.Reservation
	Loyalty     *domain.LoyaltyProfile
}
