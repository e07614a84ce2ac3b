package blockedslot

import "errors"

var (
	ErrBlockedSlotNotFound = errors.New("blockedslot.repository: blocked slot not found")

	ErrBuildQuery = errors.New("blockedslot.repository: failed to build query")

	ErrExecQuery = errors.New("blockedslot.repository: failed to execute query")

	ErrScanRow = errors.New("blockedslot.repository: failed to scan row")
)
