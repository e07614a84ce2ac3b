package domain

import (
	"time"

	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

// BlockedSlot unavailability not tied to a reservation (holiday, break, maintenance)
type BlockedSlot struct {
	ID              int64
	OrganizationID  int64
	LocationID      int64
	Date            time.Time
	Time            *types.TimeString // nil when AllDay
	DurationMinutes int
	AllDay          bool
	Reason          *string
	CreatedAt       time.Time
}

// Interval occupied part of the day; all-day blocks cover the whole day
func (b *BlockedSlot) Interval() Interval {
	if b.AllDay || b.Time == nil {
		return Interval{Start: 0, Minutes: types.MinutesPerDay}
	}
	minutes := b.DurationMinutes
	if minutes <= 0 {
		minutes = DefaultSlotStepMinutes
	}
	return NewInterval(*b.Time, minutes)
}
