package reservations

import "errors"

var (
	ErrReservationNotFound = errors.New("reservations: reservation not found")

	ErrAccessDenied = errors.New("reservations: access denied")

	// ErrInvalidTransition the lifecycle does not allow the requested change
	ErrInvalidTransition = errors.New("reservations: invalid status transition")

	ErrInvalidInput = errors.New("reservations: invalid input data")

	ErrInternal = errors.New("reservations: internal error")
)
