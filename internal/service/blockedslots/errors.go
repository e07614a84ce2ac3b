package blockedslots

import "errors"

var (
	ErrBlockedSlotNotFound = errors.New("blockedslots: blocked slot not found")

	ErrLocationNotFound = errors.New("blockedslots: location not found")

	ErrAccessDenied = errors.New("blockedslots: access denied")

	ErrInvalidInput = errors.New("blockedslots: invalid input data")

	ErrInternal = errors.New("blockedslots: internal error")
)
