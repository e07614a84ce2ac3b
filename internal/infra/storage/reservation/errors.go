package reservation

import "errors"

var (
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrSlotNotAvailable the exclusion constraint rejected an overlapping interval
	ErrSlotNotAvailable = errors.New("reservation.repository: slot not available")

	ErrDuplicateInvoice = errors.New("reservation.repository: invoice number already used")

	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	ErrScanRow = errors.New("reservation.repository: failed to scan row")

	ErrInvalidStatus = errors.New("reservation.repository: invalid reservation status")
)
