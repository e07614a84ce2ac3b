package complete_reservation

import (
	"fmt"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}
	if !req.Principal.Can(domain.CapReservationsManage) {
		return fmt.Errorf("%w: reservations:manage is required", ErrAccessDenied)
	}
	return nil
}
