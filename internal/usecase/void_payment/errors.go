package void_payment

import "errors"

var (
	ErrReservationNotFound = errors.New("void_payment: reservation not found")

	ErrAccessDenied = errors.New("void_payment: access denied")

	ErrInvalidInput = errors.New("void_payment: invalid input data")

	ErrInternal = errors.New("void_payment: internal error")
)
