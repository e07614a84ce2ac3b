package create_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

var (
	ErrLocationNotFound = errors.New("create_reservation: location not found")

	// ErrServiceNotFound unknown or inactive service of the organization
	ErrServiceNotFound = errors.New("create_reservation: service not found")

	// ErrInvalidDate date already over, or a start time already passed today
	ErrInvalidDate = errors.New("create_reservation: invalid reservation date")

	ErrLocationClosed = errors.New("create_reservation: location is closed on this date")

	ErrOutsideOpeningHours = errors.New("create_reservation: reservation does not fit the opening hours")

	// ErrSlotNotAvailable the interval overlaps a reservation or a blocked slot
	ErrSlotNotAvailable = errors.New("create_reservation: slot is not available")

	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	ErrInternal = errors.New("create_reservation: internal error")
)

// ConflictError carries the end of the blocking interval as a retry hint
type ConflictError struct {
	NextAvailableTime types.TimeString
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s, next available time %s", ErrSlotNotAvailable, e.NextAvailableTime)
}

func (e *ConflictError) Unwrap() error {
	return ErrSlotNotAvailable
}
