package cancel_reservation

// CancelReservationRequest the body is optional
type CancelReservationRequest struct {
	Reason *string `json:"reason,omitempty"`
}
