package reconcile_payment

import "errors"

var (
	// ErrUnknownProvider no adapter for the provider in the path
	ErrUnknownProvider = errors.New("reconcile_payment: unknown provider")

	// ErrUnauthorized the notification signature did not verify
	ErrUnauthorized = errors.New("reconcile_payment: invalid webhook signature")

	// ErrMalformedPayload retried deliveries of the same body fail the same way
	ErrMalformedPayload = errors.New("reconcile_payment: malformed webhook payload")

	// ErrUpstream the provider could not be asked about the event; a retry may succeed
	ErrUpstream = errors.New("reconcile_payment: provider unavailable")

	ErrInternal = errors.New("reconcile_payment: internal error")
)
