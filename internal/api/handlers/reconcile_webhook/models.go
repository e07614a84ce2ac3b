package reconcile_webhook

import reconcilePayment "github.com/m04kA/SMC-BookingCore/internal/usecase/reconcile_payment"

// AckResponse body of every acknowledged delivery
type AckResponse struct {
	Outcome       string `json:"outcome"`
	Provider      string `json:"provider"`
	ExternalID    string `json:"externalId,omitempty"`
	ReservationID int64  `json:"reservationId,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

func FromUseCaseResult(res *reconcilePayment.Result) *AckResponse {
	return &AckResponse{
		Outcome:       string(res.Outcome),
		Provider:      string(res.Provider),
		ExternalID:    res.ExternalID,
		ReservationID: res.ReservationID,
		Reason:        res.Reason,
	}
}
