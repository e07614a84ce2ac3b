package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/testfixtures"
	"github.com/m04kA/SMC-BookingCore/pkg/ptr"
	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // Monday

func newStore(t *testing.T) *testfixtures.Store {
	t.Helper()
	store := testfixtures.NewStore().
		AddLocation(domain.Location{
			ID: 10, OrganizationID: 1, Name: "Main",
			OpenTime: types.MustTimeString("10:00"), CloseTime: types.MustTimeString("18:00"),
			Hours: map[time.Weekday]domain.DayHours{time.Sunday: {IsOpen: false}},
		}).
		AddService(domain.Service{ID: 1, OrganizationID: 1, Name: "Wash", DurationMinutes: 60, Price: 3000, IsActive: true}).
		AddService(domain.Service{ID: 2, OrganizationID: 1, Name: "Wax", DurationMinutes: 30, Price: 2000, IsActive: true})

	_, err := store.Reservations().Create(context.Background(), &domain.Reservation{
		OrganizationID: 1, LocationID: 10, UserID: 100, Date: day,
		StartTime: types.MustTimeString("10:00"), DurationMinutes: 75, Status: domain.StatusConfirmed,
	})
	require.NoError(t, err)
	return store
}

func newUseCase(store *testfixtures.Store, now time.Time) *UseCase {
	return NewUseCase(store.Catalog(), store.Reservations(), store.BlockedSlots(), domain.DefaultBookingRules(), testfixtures.NopLogger{}).
		WithTimeProvider(testfixtures.NewClock(now))
}

func availability(resp *Response) map[string]bool {
	out := make(map[string]bool, len(resp.Slots))
	for _, s := range resp.Slots {
		out[s.Time.String()] = s.Available
	}
	return out
}

func TestExecute_ExampleScenario(t *testing.T) {
	uc := newUseCase(newStore(t), day.AddDate(0, 0, -1))

	resp, err := uc.Execute(context.Background(), &Request{OrganizationID: 1, LocationID: 10, Date: day})
	require.NoError(t, err)
	require.True(t, resp.IsOpen)
	require.Len(t, resp.Slots, 16)

	got := availability(resp)
	assert.False(t, got["10:00"])
	assert.False(t, got["10:30"])
	assert.False(t, got["11:00"])
	assert.True(t, got["11:30"])
	assert.True(t, got["17:30"])
}

func TestExecute_WithServicesUsesRealDuration(t *testing.T) {
	uc := newUseCase(newStore(t), day.AddDate(0, 0, -1))

	// 60 + 30 + 15 = 105 minutes
	resp, err := uc.Execute(context.Background(), &Request{OrganizationID: 1, LocationID: 10, Date: day, ServiceIDs: []int64{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, 105, resp.DurationMinutes)

	got := availability(resp)
	assert.True(t, got["11:30"])
	assert.True(t, got["16:00"])
	assert.False(t, got["16:30"], "ends after closing")
	assert.False(t, got["17:30"])
}

func TestExecute_BlockedSlotsAndCancelled(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.BlockedSlots().Create(ctx, &domain.BlockedSlot{
		OrganizationID: 1, LocationID: 10, Date: day, Time: ptr.Ptr(types.MustTimeString("14:00")), DurationMinutes: 60,
	})
	require.NoError(t, err)

	cancelled, err := store.Reservations().Create(ctx, &domain.Reservation{
		OrganizationID: 1, LocationID: 10, UserID: 101, Date: day,
		StartTime: types.MustTimeString("16:00"), DurationMinutes: 75, Status: domain.StatusPending,
	})
	require.NoError(t, err)
	cancelled.Status = domain.StatusCancelled
	require.NoError(t, store.Reservations().UpdateStatus(ctx, cancelled))

	resp, err := newUseCase(store, day.AddDate(0, 0, -1)).Execute(ctx, &Request{OrganizationID: 1, LocationID: 10, Date: day})
	require.NoError(t, err)

	got := availability(resp)
	assert.True(t, got["13:30"])
	assert.False(t, got["14:00"])
	assert.False(t, got["14:30"])
	assert.True(t, got["15:00"])
	assert.True(t, got["16:00"])
}

func TestExecute_PastCandidatesToday(t *testing.T) {
	uc := newUseCase(newStore(t), day.Add(13*time.Hour+10*time.Minute))

	resp, err := uc.Execute(context.Background(), &Request{OrganizationID: 1, LocationID: 10, Date: day})
	require.NoError(t, err)

	got := availability(resp)
	assert.False(t, got["13:00"])
	assert.True(t, got["13:30"])
}

func TestExecute_ClosedDay(t *testing.T) {
	sunday := day.AddDate(0, 0, 6)
	uc := newUseCase(newStore(t), day)

	resp, err := uc.Execute(context.Background(), &Request{OrganizationID: 1, LocationID: 10, Date: sunday})
	require.NoError(t, err)
	assert.False(t, resp.IsOpen)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	uc := newUseCase(newStore(t), day)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{OrganizationID: 1, LocationID: 10, Date: day.AddDate(0, 0, -1)})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = uc.Execute(ctx, &Request{OrganizationID: 2, LocationID: 10, Date: day})
	assert.ErrorIs(t, err, ErrLocationNotFound)

	_, err = uc.Execute(ctx, &Request{OrganizationID: 1, LocationID: 10, Date: day, ServiceIDs: []int64{1, 99}})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = uc.Execute(ctx, &Request{OrganizationID: 1, LocationID: 10, Date: day, ServiceIDs: []int64{1, 1}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
