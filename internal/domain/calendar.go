package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

var ErrInvalidOpeningWindow = errors.New("domain: invalid opening window")

// OpeningWindow [Open, Close) wall-clock window of a location on one day
type OpeningWindow struct {
	Open  types.TimeString
	Close types.TimeString
}

// Contains reports whether [start, start+minutes) fits inside the window
func (w OpeningWindow) Contains(start types.TimeString, minutes int) bool {
	return start.Minutes() >= w.Open.Minutes() && start.Minutes()+minutes <= w.Close.Minutes()
}

// GenerateSlots returns candidate start times from Open every step minutes,
// keeping only slots whose first step ends by Close. The result depends only on the inputs.
func GenerateSlots(w OpeningWindow, stepMinutes int) ([]types.TimeString, error) {
	if w.Open.IsZero() || w.Close.IsZero() || !w.Open.IsBefore(w.Close) {
		return nil, fmt.Errorf("%w: open=%s close=%s", ErrInvalidOpeningWindow, w.Open, w.Close)
	}
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("%w: step must be positive, got %d", ErrInvalidOpeningWindow, stepMinutes)
	}

	slots := make([]types.TimeString, 0, (w.Close.Minutes()-w.Open.Minutes())/stepMinutes)
	for m := w.Open.Minutes(); m+stepMinutes <= w.Close.Minutes(); m += stepMinutes {
		slot, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// SlotAvailability one grid entry of an availability answer
type SlotAvailability struct {
	Time      types.TimeString
	Available bool
}

// SameDay compares calendar days, ignoring the time of day
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsPastDay date lies on a calendar day before now's
func IsPastDay(date, now time.Time) bool {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.Before(n)
}
