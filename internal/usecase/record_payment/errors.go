package record_payment

import "errors"

var (
	ErrReservationNotFound = errors.New("record_payment: reservation not found")

	ErrAccessDenied = errors.New("record_payment: access denied")

	// ErrReservationCancelled payments cannot be recorded at the desk for cancelled reservations
	ErrReservationCancelled = errors.New("record_payment: reservation is cancelled")

	// ErrAlreadyPaid nothing is left to pay
	ErrAlreadyPaid = errors.New("record_payment: reservation is already paid")

	// ErrInsufficientLoyaltyBalance a requested redemption is not covered; nothing was applied
	ErrInsufficientLoyaltyBalance = errors.New("record_payment: insufficient loyalty balance")

	// ErrDiscountExceedsBalance the requested discounts are larger than what is left to pay
	ErrDiscountExceedsBalance = errors.New("record_payment: discount exceeds outstanding balance")

	ErrInvalidInput = errors.New("record_payment: invalid input data")

	ErrInternal = errors.New("record_payment: internal error")
)
