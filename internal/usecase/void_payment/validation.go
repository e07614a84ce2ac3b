package void_payment

import (
	"fmt"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

func validateRequest(req *Request) error {
	if !req.Principal.Can(domain.CapPaymentsRecord) {
		return fmt.Errorf("%w: payments:record is required", ErrAccessDenied)
	}
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}
	return nil
}
