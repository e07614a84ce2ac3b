package models

import (
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

// CreateRequest Time is required unless AllDay
type CreateRequest struct {
	OrganizationID  int64
	LocationID      int64
	Date            time.Time
	Time            *types.TimeString
	DurationMinutes int
	AllDay          bool
	Reason          *string
}

type BlockedSlotResponse struct {
	ID              int64     `json:"id"`
	LocationID      int64     `json:"locationId"`
	Date            string    `json:"date"`
	Time            *string   `json:"time,omitempty"`
	EndTime         *string   `json:"endTime,omitempty"`
	DurationMinutes int       `json:"durationMinutes"`
	AllDay          bool      `json:"allDay"`
	Reason          *string   `json:"reason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type BlockedSlotListResponse struct {
	BlockedSlots []BlockedSlotResponse `json:"blockedSlots"`
}

func FromDomainBlockedSlot(b *domain.BlockedSlot) BlockedSlotResponse {
	resp := BlockedSlotResponse{
		ID:              b.ID,
		LocationID:      b.LocationID,
		Date:            b.Date.Format(domain.DateFormat),
		DurationMinutes: b.DurationMinutes,
		AllDay:          b.AllDay,
		Reason:          b.Reason,
		CreatedAt:       b.CreatedAt,
	}
	if !b.AllDay && b.Time != nil {
		start := b.Time.String()
		end := b.Interval().EndTime().String()
		resp.Time = &start
		resp.EndTime = &end
	}
	return resp
}
