package complete_reservation

import "errors"

var (
	ErrReservationNotFound = errors.New("complete_reservation: reservation not found")

	ErrAccessDenied = errors.New("complete_reservation: access denied")

	// ErrInvalidTransition only confirmed reservations can be completed
	ErrInvalidTransition = errors.New("complete_reservation: reservation cannot be completed")

	ErrInvalidInput = errors.New("complete_reservation: invalid input data")

	ErrInternal = errors.New("complete_reservation: internal error")
)
