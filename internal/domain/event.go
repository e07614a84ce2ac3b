package domain

import "time"

// LedgerEventType type of a published ledger event
type LedgerEventType string

const (
	EventReservationCreated   LedgerEventType = "reservation.created"
	EventReservationConfirmed LedgerEventType = "reservation.confirmed"
	EventReservationCancelled LedgerEventType = "reservation.cancelled"
	EventReservationCompleted LedgerEventType = "reservation.completed"
	EventPaymentRecorded      LedgerEventType = "payment.recorded"
	EventPaymentVoided        LedgerEventType = "payment.voided"
	EventPaymentFailed        LedgerEventType = "payment.failed"
	EventLoyaltyRedeemed      LedgerEventType = "loyalty.redeemed"
)

// LedgerEvent committed change, published for downstream notification services
type LedgerEvent struct {
	Type           LedgerEventType `json:"type"`
	OrganizationID int64           `json:"organizationId"`
	ReservationID  int64           `json:"reservationId"`
	UserID         int64           `json:"userId"`
	Status         string          `json:"status,omitempty"`
	PaymentStatus  string          `json:"paymentStatus,omitempty"`
	Amount         int64           `json:"amount,omitempty"`
	Provider       string          `json:"provider,omitempty"`
	OccurredAt     time.Time       `json:"occurredAt"`
}

// NewReservationEvent event snapshot of r
func NewReservationEvent(t LedgerEventType, r *Reservation, at time.Time) LedgerEvent {
	return LedgerEvent{
		Type:           t,
		OrganizationID: r.OrganizationID,
		ReservationID:  r.ID,
		UserID:         r.UserID,
		Status:         string(r.Status),
		PaymentStatus:  string(r.PaymentStatus),
		OccurredAt:     at,
	}
}
