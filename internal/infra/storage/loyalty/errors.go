package loyalty

import "errors"

var (
	ErrProfileNotFound = errors.New("loyalty.repository: profile not found")

	// ErrInsufficientBalance the conditional decrement matched no row
	ErrInsufficientBalance = errors.New("loyalty.repository: insufficient balance")

	ErrBuildQuery = errors.New("loyalty.repository: failed to build query")

	ErrExecQuery = errors.New("loyalty.repository: failed to execute query")

	ErrScanRow = errors.New("loyalty.repository: failed to scan row")
)
