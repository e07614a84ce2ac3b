package payment

import "errors"

var (
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	ErrExecQuery = errors.New("payment.repository: failed to execute query")

	ErrScanRow = errors.New("payment.repository: failed to scan row")
)
