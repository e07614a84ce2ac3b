package catalog

import "errors"

var (
	ErrLocationNotFound = errors.New("catalog.repository: location not found")

	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
