package loyalty

import "errors"

var (
	ErrProfileNotFound = errors.New("loyalty: profile not found")

	// ErrInsufficientBalance the counter holds less than the redemption threshold
	ErrInsufficientBalance = errors.New("loyalty: insufficient loyalty balance")

	ErrAccessDenied = errors.New("loyalty: access denied")

	ErrInvalidInput = errors.New("loyalty: invalid input data")

	ErrInternal = errors.New("loyalty: internal error")
)
