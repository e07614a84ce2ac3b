package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

// ReservationStatus lifecycle state of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

// PaymentStatus derived from PaymentAmount vs TotalPrice
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

var ErrInvalidTransition = errors.New("domain: invalid reservation status transition")

// ParseReservationStatus validates a status coming from storage or a request
func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch st := ReservationStatus(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, s)
	}
}

// Reservation ledger entry. Money is in cents.
type Reservation struct {
	ID              int64
	OrganizationID  int64
	LocationID      int64
	UserID          int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          ReservationStatus

	PaymentStatus  PaymentStatus
	PaymentAmount  int64
	// DiscountAmount part of PaymentAmount credited by loyalty redemptions
	DiscountAmount int64
	TotalPrice     int64
	Currency       string
	PaymentMethod  *string
	PaymentDate    *time.Time
	InvoiceNumber  *string
	PaymentNotes   *string

	Services []ReservationService

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReservationService snapshot of one selected service at booking time
type ReservationService struct {
	ReservationID   int64
	ServiceID       int64
	ServiceName     string
	IsPackage       bool
	DurationMinutes int
	Price           int64
}

// Interval occupied [start, start+duration)
func (r *Reservation) Interval() Interval {
	return NewInterval(r.StartTime, r.DurationMinutes)
}

// EndTime exclusive end of the occupied interval
func (r *Reservation) EndTime() types.TimeString {
	return r.Interval().EndTime()
}

// OccupiesCalendar cancelled reservations free their interval
func (r *Reservation) OccupiesCalendar() bool {
	return r.Status != StatusCancelled
}

// IsPackage true when any selected service was booked as a forfait
func (r *Reservation) IsPackage() bool {
	for _, s := range r.Services {
		if s.IsPackage {
			return true
		}
	}
	return false
}

// IsTerminal completed and cancelled have no way out
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusCancelled
}

// CanTransition reports whether from -> to is allowed
func CanTransition(from, to ReservationStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}

// Confirm moves pending to confirmed. Confirming a confirmed reservation changes nothing.
func (r *Reservation) Confirm() (bool, error) {
	if r.Status == StatusConfirmed {
		return false, nil
	}
	if !CanTransition(r.Status, StatusConfirmed) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, StatusConfirmed)
	}
	r.Status = StatusConfirmed
	return true, nil
}

// Cancel is idempotent: an already cancelled reservation reports changed=false and no error
func (r *Reservation) Cancel(reason *string, at time.Time) (bool, error) {
	if r.Status == StatusCancelled {
		return false, nil
	}
	if !CanTransition(r.Status, StatusCancelled) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, StatusCancelled)
	}
	r.Status = StatusCancelled
	r.CancellationReason = reason
	r.CancelledAt = &at
	return true, nil
}

// Complete moves confirmed to completed
func (r *Reservation) Complete(at time.Time) error {
	if !CanTransition(r.Status, StatusCompleted) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, StatusCompleted)
	}
	r.Status = StatusCompleted
	r.CompletedAt = &at
	return nil
}

// ComputePaymentStatus unpaid at 0, paid once the total is covered, partial in between
func ComputePaymentStatus(paymentAmount, totalPrice int64) PaymentStatus {
	switch {
	case paymentAmount <= 0:
		return PaymentUnpaid
	case paymentAmount >= totalPrice:
		return PaymentPaid
	default:
		return PaymentPartial
	}
}

// ApplyPayment credits cash plus discount, clamped to TotalPrice, and recomputes PaymentStatus.
// When the clamp applies the cash part is cut first. A pending reservation becomes confirmed;
// other statuses are left alone. It returns the cash and discount actually credited.
func (r *Reservation) ApplyPayment(cash, discount int64) (cashCredited, discountCredited int64) {
	if cash < 0 {
		cash = 0
	}
	if discount < 0 {
		discount = 0
	}

	room := r.TotalPrice - r.PaymentAmount
	if room < 0 {
		room = 0
	}
	discountCredited = min(discount, room)
	cashCredited = min(cash, room-discountCredited)

	r.PaymentAmount += cashCredited + discountCredited
	r.DiscountAmount += discountCredited
	r.PaymentStatus = ComputePaymentStatus(r.PaymentAmount, r.TotalPrice)
	if r.Status == StatusPending {
		r.Status = StatusConfirmed
	}
	return cashCredited, discountCredited
}

// CashAmount credited amount that was not a loyalty discount
func (r *Reservation) CashAmount() int64 {
	return r.PaymentAmount - r.DiscountAmount
}

// ResetPayment moves the ledger back to unpaid and returns the cash amount removed
func (r *Reservation) ResetPayment() int64 {
	removed := r.CashAmount()
	r.PaymentAmount = 0
	r.DiscountAmount = 0
	r.PaymentStatus = PaymentUnpaid
	r.PaymentMethod = nil
	r.PaymentDate = nil
	return removed
}

// ReservationFilter admin day schedule query
type ReservationFilter struct {
	OrganizationID   int64
	LocationID       *int64
	Date             *time.Time
	UserID           *int64
	IncludeCancelled bool
}
