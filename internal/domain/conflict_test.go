package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

func TestConflicts(t *testing.T) {
	tests := []struct {
		name   string
		s1, d1 int
		s2, d2 int
		want   bool
	}{
		{name: "same start", s1: 600, d1: 30, s2: 600, d2: 75, want: true},
		{name: "candidate inside existing", s1: 630, d1: 30, s2: 600, d2: 75, want: true},
		{name: "candidate covers existing", s1: 540, d1: 180, s2: 600, d2: 30, want: true},
		{name: "candidate ends at existing start", s1: 570, d1: 30, s2: 600, d2: 30, want: false},
		{name: "candidate starts at existing end", s1: 675, d1: 30, s2: 600, d2: 75, want: false},
		{name: "tail overlap", s1: 660, d1: 30, s2: 600, d2: 75, want: true},
		{name: "disjoint", s1: 800, d1: 30, s2: 600, d2: 75, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Conflicts(tt.s1, tt.d1, tt.s2, tt.d2))
			// the relation is symmetric
			assert.Equal(t, tt.want, Conflicts(tt.s2, tt.d2, tt.s1, tt.d1))
		})
	}
}

func TestReservationDuration(t *testing.T) {
	rules := DefaultBookingRules()

	assert.Equal(t, 75, ReservationDuration([]int{60}, rules))
	assert.Equal(t, 105, ReservationDuration([]int{60, 30}, rules))
	assert.Equal(t, 75, ReservationDuration(nil, rules))
	assert.Equal(t, 75, ReservationDuration([]int{0}, rules))
	assert.Equal(t, 45, ReservationDuration([]int{30, 0}, rules))
}

// Location open 10:00-18:00, one 60 minute reservation at 10:00 ending 11:15.
func TestAvailabilityAroundExistingReservation(t *testing.T) {
	slots, err := GenerateSlots(window("10:00", "18:00"), 30)
	require.NoError(t, err)

	existing := &Reservation{
		StartTime:       types.MustTimeString("10:00"),
		DurationMinutes: ReservationDuration([]int{60}, DefaultBookingRules()),
		Status:          StatusConfirmed,
	}
	occupied := OccupiedIntervals([]*Reservation{existing}, nil)

	availability := map[string]bool{}
	for _, s := range slots {
		availability[s.String()] = IsFree(NewInterval(s, 30), occupied)
	}

	assert.False(t, availability["10:00"])
	assert.False(t, availability["10:30"])
	assert.False(t, availability["11:00"])
	assert.True(t, availability["11:30"])
	assert.True(t, availability["17:30"])
}

func TestOccupiedIntervals_SkipsCancelledAndHonorsBlocks(t *testing.T) {
	cancelled := &Reservation{StartTime: types.MustTimeString("12:00"), DurationMinutes: 75, Status: StatusCancelled}
	blockAt := types.MustTimeString("14:00")
	blocked := &BlockedSlot{Time: &blockAt, DurationMinutes: 30}
	allDay := &BlockedSlot{AllDay: true}

	occupied := OccupiedIntervals([]*Reservation{cancelled}, []*BlockedSlot{blocked})
	assert.True(t, IsFree(NewInterval(types.MustTimeString("12:00"), 30), occupied))
	assert.False(t, IsFree(NewInterval(types.MustTimeString("13:45"), 30), occupied))
	assert.True(t, IsFree(NewInterval(types.MustTimeString("14:30"), 30), occupied))

	occupied = OccupiedIntervals(nil, []*BlockedSlot{allDay})
	assert.False(t, IsFree(NewInterval(types.MustTimeString("23:00"), 30), occupied))
}

func TestFirstConflict_ReportsBlockingEnd(t *testing.T) {
	occupied := []Interval{{Start: 600, Minutes: 75}}

	hit, ok := FirstConflict(NewInterval(types.MustTimeString("10:45"), 60), occupied)
	require.True(t, ok)
	assert.Equal(t, "11:15", hit.EndTime().String())
}
