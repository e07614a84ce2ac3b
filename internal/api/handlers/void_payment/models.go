package void_payment

import (
	"github.com/m04kA/SMC-BookingCore/internal/service/reservations/models"
	voidPayment "github.com/m04kA/SMC-BookingCore/internal/usecase/void_payment"
)

type VoidPaymentResponse struct {
	Reservation *models.ReservationResponse `json:"reservation"`
	Voided      int64                       `json:"voided"`
	Changed     bool                        `json:"changed"`
}

func FromUseCaseResponse(resp *voidPayment.Response) *VoidPaymentResponse {
	return &VoidPaymentResponse{
		Reservation: models.FromDomainReservation(resp.Reservation),
		Voided:      resp.Voided,
		Changed:     resp.Changed,
	}
}
