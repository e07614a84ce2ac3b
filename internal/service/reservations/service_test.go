package reservations

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

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T, status domain.ReservationStatus) (*Service, *testfixtures.Store, *testfixtures.RecordingPublisher, int64) {
	t.Helper()
	store := testfixtures.NewStore()
	pub := &testfixtures.RecordingPublisher{}

	res, err := store.Reservations().Create(context.Background(), &domain.Reservation{
		OrganizationID:  1,
		LocationID:      10,
		UserID:          100,
		Date:            day,
		StartTime:       types.MustTimeString("10:00"),
		DurationMinutes: 75,
		Status:          status,
		PaymentStatus:   domain.PaymentUnpaid,
		TotalPrice:      5000,
		Currency:        "EUR",
	})
	require.NoError(t, err)

	svc := NewService(store.Reservations(), store.PaymentsRepo(), store.TxManager(), pub, testfixtures.NopLogger{}).
		WithTimeProvider(testfixtures.NewClock(day.Add(8 * time.Hour)))
	return svc, store, pub, res.ID
}

var (
	owner   = domain.Principal{UserID: 100, OrganizationID: 1}
	manager = domain.Principal{UserID: 5, OrganizationID: 1, Capabilities: domain.NewCapabilitySet(domain.CapReservationsManage)}
)

func TestCancel_IdempotentAndFreesInterval(t *testing.T) {
	svc, store, pub, id := setup(t, domain.StatusPending)
	ctx := context.Background()

	resp, err := svc.Cancel(ctx, owner, id, ptr.Ptr("  changed plans "))
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, "changed plans", *resp.CancellationReason)

	resp, err = svc.Cancel(ctx, owner, id, nil)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)

	assert.Equal(t, []domain.LedgerEventType{domain.EventReservationCancelled}, pub.Types())

	_, err = store.Reservations().Create(ctx, &domain.Reservation{
		OrganizationID: 1, LocationID: 10, UserID: 101, Date: day,
		StartTime: types.MustTimeString("10:30"), DurationMinutes: 75, Status: domain.StatusPending,
	})
	assert.NoError(t, err)
}

func TestCancel_Access(t *testing.T) {
	svc, _, _, id := setup(t, domain.StatusConfirmed)
	ctx := context.Background()

	_, err := svc.Cancel(ctx, domain.Principal{UserID: 7, OrganizationID: 1}, id, nil)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Cancel(ctx, domain.Principal{UserID: 100, OrganizationID: 2}, id, nil)
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = svc.Cancel(ctx, manager, id, nil)
	assert.NoError(t, err)
}

func TestCancel_CompletedIsInvalid(t *testing.T) {
	svc, _, _, id := setup(t, domain.StatusCompleted)

	_, err := svc.Cancel(context.Background(), manager, id, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConfirm(t *testing.T) {
	svc, _, pub, id := setup(t, domain.StatusPending)
	ctx := context.Background()

	_, err := svc.Confirm(ctx, owner, id)
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.Confirm(ctx, manager, id)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	_, err = svc.Confirm(ctx, manager, id)
	require.NoError(t, err)
	assert.Len(t, pub.Events(), 1)
}

func TestGetByID_And_List(t *testing.T) {
	svc, _, _, id := setup(t, domain.StatusPending)
	ctx := context.Background()

	resp, err := svc.GetByID(ctx, owner, id)
	require.NoError(t, err)
	assert.Equal(t, "11:15", resp.EndTime)
	assert.NotNil(t, resp.Payments)

	_, err = svc.GetByID(ctx, owner, 999)
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = svc.List(ctx, owner, 1, 10, &day, false)
	assert.ErrorIs(t, err, ErrAccessDenied)

	list, err := svc.List(ctx, manager, 1, 10, &day, false)
	require.NoError(t, err)
	assert.Len(t, list.Reservations, 1)
}
