package gateways

import "errors"

var (
	// ErrInvalidSignature the notification could not be authenticated
	ErrInvalidSignature = errors.New("gateways: invalid signature")

	// ErrMalformedPayload the body could not be parsed or lacks required fields
	ErrMalformedPayload = errors.New("gateways: malformed payload")

	// ErrIgnoredEvent authentic notification that does not affect the ledger
	ErrIgnoredEvent = errors.New("gateways: event ignored")

	// ErrUnknownProvider no adapter registered under the name
	ErrUnknownProvider = errors.New("gateways: unknown provider")

	// ErrUpstream the provider API could not be reached while authenticating
	ErrUpstream = errors.New("gateways: provider unavailable")
)
