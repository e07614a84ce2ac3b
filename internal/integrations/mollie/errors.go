package mollie

import "errors"

var (
	// ErrPaymentNotFound Mollie does not know the payment id
	ErrPaymentNotFound = errors.New("mollie client: payment not found")

	// ErrUnauthorized the API key was rejected
	ErrUnauthorized = errors.New("mollie client: unauthorized")

	ErrInternal = errors.New("mollie client: internal error")

	ErrInvalidResponse = errors.New("mollie client: invalid response")
)
