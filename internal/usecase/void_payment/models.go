package void_payment

import "github.com/m04kA/SMC-BookingCore/internal/domain"

type Request struct {
	Principal     domain.Principal
	ReservationID int64
}

type Response struct {
	Reservation *domain.Reservation
	// Voided cash amount removed from total spent
	Voided int64
	// Changed false when nothing was recorded
	Changed bool
}
