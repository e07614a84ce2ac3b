package domain

import "github.com/m04kA/SMC-BookingCore/pkg/types"

// Interval half-open [Start, Start+Minutes) in minutes since midnight
type Interval struct {
	Start   int
	Minutes int
}

// End exclusive end
func (i Interval) End() int {
	return i.Start + i.Minutes
}

// EndTime exclusive end as a wall-clock value (24:00 for intervals reaching midnight)
func (i Interval) EndTime() types.TimeString {
	end, err := types.NewTimeStringFromMinutes(i.End())
	if err != nil {
		end, _ = types.NewTimeStringFromMinutes(types.MinutesPerDay)
	}
	return end
}

// NewInterval builds an interval from a wall-clock start
func NewInterval(start types.TimeString, minutes int) Interval {
	return Interval{Start: start.Minutes(), Minutes: minutes}
}

// Conflicts reports whether [s1, s1+d1) and [s2, s2+d2) intersect.
// Equal starts are covered by the general test.
func Conflicts(candidateStart, candidateDuration, existingStart, existingDuration int) bool {
	return candidateStart < existingStart+existingDuration && existingStart < candidateStart+candidateDuration
}

// Overlaps interval form of Conflicts
func (i Interval) Overlaps(other Interval) bool {
	return Conflicts(i.Start, i.Minutes, other.Start, other.Minutes)
}

// FirstConflict returns the first occupied interval overlapping candidate
func FirstConflict(candidate Interval, occupied []Interval) (Interval, bool) {
	for _, o := range occupied {
		if candidate.Overlaps(o) {
			return o, true
		}
	}
	return Interval{}, false
}

// IsFree reports whether candidate overlaps none of occupied
func IsFree(candidate Interval, occupied []Interval) bool {
	_, taken := FirstConflict(candidate, occupied)
	return !taken
}

// ReservationDuration sum of service durations plus the preparation buffer.
// Non-positive durations do not count; when none count the default service duration is used.
func ReservationDuration(serviceDurations []int, rules BookingRules) int {
	total := 0
	for _, d := range serviceDurations {
		if d > 0 {
			total += d
		}
	}
	if total == 0 {
		total = rules.DefaultServiceDuration
	}
	return total + rules.PreparationBufferMin
}

// OccupiedIntervals collects the intervals that block a location on one day:
// every non-cancelled reservation and every blocked slot
func OccupiedIntervals(reservations []*Reservation, blocked []*BlockedSlot) []Interval {
	out := make([]Interval, 0, len(reservations)+len(blocked))
	for _, r := range reservations {
		if !r.OccupiesCalendar() {
			continue
		}
		out = append(out, r.Interval())
	}
	for _, b := range blocked {
		out = append(out, b.Interval())
	}
	return out
}
