package domain

import (
	"time"

	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

// Location physical resource with its own calendar
type Location struct {
	ID              int64
	OrganizationID  int64
	Name            string
	OpenTime        types.TimeString
	CloseTime       types.TimeString
	SlotStepMinutes int
	// Hours weekday overrides; a missing weekday uses OpenTime/CloseTime
	Hours           map[time.Weekday]DayHours
}

// DayHours opening hours for one weekday
type DayHours struct {
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// WindowFor returns the opening window on date and whether the location is open
func (l *Location) WindowFor(date time.Time) (OpeningWindow, bool) {
	if h, ok := l.Hours[date.Weekday()]; ok {
		if !h.IsOpen {
			return OpeningWindow{}, false
		}
		return OpeningWindow{Open: h.OpenTime, Close: h.CloseTime}, true
	}
	return OpeningWindow{Open: l.OpenTime, Close: l.CloseTime}, true
}

// Step grid step of the location, falling back to fallback when unset
func (l *Location) Step(fallback int) int {
	if l.SlotStepMinutes > 0 {
		return l.SlotStepMinutes
	}
	return fallback
}

// Service catalog entry. Prices are in cents.
type Service struct {
	ID              int64
	OrganizationID  int64
	Name            string
	DurationMinutes int
	Price           int64
	PromoPrice      *int64
	ForfaitPrice    *int64
	IsActive        bool
}

// PriceFor picks the forfait price for package selections, otherwise the promo price, otherwise the list price
func (s *Service) PriceFor(isPackage bool) int64 {
	if isPackage && s.ForfaitPrice != nil && *s.ForfaitPrice > 0 {
		return *s.ForfaitPrice
	}
	if s.PromoPrice != nil && *s.PromoPrice > 0 {
		return *s.PromoPrice
	}
	return s.Price
}

// ServiceSelection one requested service with its package flag
type ServiceSelection struct {
	ServiceID int64
	IsPackage bool
}
