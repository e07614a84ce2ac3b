package record_payment

import (
	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/service/reservations/models"
	recordPayment "github.com/m04kA/SMC-BookingCore/internal/usecase/record_payment"
)

// RecordPaymentRequest HTTP request model. Amount is in cents.
type RecordPaymentRequest struct {
	Amount int64    `json:"amount"`
	Method string   `json:"method"`
	Notes  *string  `json:"notes,omitempty"`
	Redeem []string `json:"redeem,omitempty"` // "individual", "package"
}

type RecordPaymentResponse struct {
	Reservation      *models.ReservationResponse `json:"reservation"`
	CashCredited     int64                       `json:"cashCredited"`
	DiscountCredited int64                       `json:"discountCredited"`
	Redemptions      []RedemptionResponse        `json:"redemptions"`
}

type RedemptionResponse struct {
	Kind     string `json:"kind"`
	Discount int64  `json:"discount"`
}

func (r *RecordPaymentRequest) ToUseCaseRequest(principal domain.Principal, reservationID int64) *recordPayment.Request {
	req := &recordPayment.Request{
		Principal:     principal,
		ReservationID: reservationID,
		Amount:        r.Amount,
		Method:        r.Method,
		Notes:         r.Notes,
	}
	for _, k := range r.Redeem {
		req.Redeem = append(req.Redeem, domain.RedemptionKind(k))
	}
	return req
}

func FromUseCaseResponse(resp *recordPayment.Response) *RecordPaymentResponse {
	out := &RecordPaymentResponse{
		Reservation:      models.FromDomainReservation(resp.Reservation),
		CashCredited:     resp.CashCredited,
		DiscountCredited: resp.DiscountCredited,
		Redemptions:      make([]RedemptionResponse, 0, len(resp.Redemptions)),
	}
	for _, red := range resp.Redemptions {
		out.Redemptions = append(out.Redemptions, RedemptionResponse{Kind: string(red.Kind), Discount: red.Discount})
	}
	return out
}
