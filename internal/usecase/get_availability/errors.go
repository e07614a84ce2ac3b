package get_availability

import "errors"

var (
	ErrLocationNotFound = errors.New("get_availability: location not found")

	ErrServiceNotFound = errors.New("get_availability: service not found")

	// ErrInvalidDate the requested day is already over
	ErrInvalidDate = errors.New("get_availability: invalid date")

	ErrInvalidInput = errors.New("get_availability: invalid input data")

	ErrInternal = errors.New("get_availability: internal error")
)
