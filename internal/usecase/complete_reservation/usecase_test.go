package complete_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/service/loyalty"
	"github.com/m04kA/SMC-BookingCore/internal/testfixtures"
	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

var (
	day   = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	staff = domain.Principal{UserID: 1, OrganizationID: 1, Capabilities: domain.NewCapabilitySet(domain.CapReservationsManage)}
)

type fixture struct {
	store     *testfixtures.Store
	publisher *testfixtures.RecordingPublisher
	uc        *UseCase
}

func newFixture() *fixture {
	store := testfixtures.NewStore()
	tx := store.TxManager()
	account := loyalty.NewService(store.Loyalty(), tx, domain.DefaultLoyaltyRules(), testfixtures.NopMetrics{}, "test", testfixtures.NopLogger{})
	publisher := &testfixtures.RecordingPublisher{}

	uc := NewUseCase(store.Reservations(), account, tx, publisher, testfixtures.NopLogger{}).
		WithTimeProvider(testfixtures.NewClock(day.Add(15 * time.Hour)))
	return &fixture{store: store, publisher: publisher, uc: uc}
}

func (f *fixture) seed(t *testing.T, start string, status domain.ReservationStatus, isPackage bool) *domain.Reservation {
	t.Helper()
	res, err := f.store.Reservations().Create(context.Background(), &domain.Reservation{
		OrganizationID: 1, LocationID: 10, UserID: 100, Date: day,
		StartTime: types.MustTimeString(start), DurationMinutes: 75, Status: status,
		TotalPrice: 3000, Currency: "EUR",
		Services: []domain.ReservationService{{ServiceID: 1, ServiceName: "Wash", IsPackage: isPackage, DurationMinutes: 60, Price: 3000}},
	})
	require.NoError(t, err)
	return res
}

func TestExecute_CompletesAndCreditsIndividualCounter(t *testing.T) {
	f := newFixture()
	res := f.seed(t, "10:00", domain.StatusConfirmed, false)

	resp, err := f.uc.Execute(context.Background(), &Request{Principal: staff, ReservationID: res.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, resp.Reservation.Status)
	require.NotNil(t, resp.Reservation.CompletedAt)
	assert.Equal(t, 1, resp.Loyalty.IndividualServicesCount)
	assert.Equal(t, 0, resp.Loyalty.PackagesCount)

	stored, _ := f.store.Reservation(res.ID)
	assert.Equal(t, domain.StatusCompleted, stored.Status)

	history := f.store.History(1, 100)
	require.Len(t, history, 2)
	assert.Equal(t, domain.ActionProfileCreated, history[0].Action)
	assert.Equal(t, domain.ActionServiceCompleted, history[1].Action)

	assert.Equal(t, []domain.LedgerEventType{domain.EventReservationCompleted}, f.publisher.Types())
}

func TestExecute_PackageReservationCreditsPackageCounter(t *testing.T) {
	f := newFixture()
	res := f.seed(t, "10:00", domain.StatusConfirmed, true)

	resp, err := f.uc.Execute(context.Background(), &Request{Principal: staff, ReservationID: res.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Loyalty.PackagesCount)
	assert.Equal(t, 0, resp.Loyalty.IndividualServicesCount)

	history := f.store.History(1, 100)
	assert.Equal(t, domain.ActionPackageCompleted, history[len(history)-1].Action)
}

func TestExecute_SecondCompletionRejected(t *testing.T) {
	f := newFixture()
	res := f.seed(t, "10:00", domain.StatusConfirmed, false)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{Principal: staff, ReservationID: res.ID})
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, &Request{Principal: staff, ReservationID: res.ID})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	profile, ok := f.store.Profile(1, 100)
	require.True(t, ok)
	assert.Equal(t, 1, profile.IndividualServicesCount)
}

func TestExecute_PendingCannotComplete(t *testing.T) {
	f := newFixture()
	res := f.seed(t, "10:00", domain.StatusPending, false)

	_, err := f.uc.Execute(context.Background(), &Request{Principal: staff, ReservationID: res.ID})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, ok := f.store.Profile(1, 100)
	assert.False(t, ok)
}

func TestExecute_LoyaltyFailureRollsBackStatus(t *testing.T) {
	f := newFixture()
	res := f.seed(t, "10:00", domain.StatusConfirmed, false)
	f.store.FailOn("AddHistory", testfixtures.ErrInjected)

	_, err := f.uc.Execute(context.Background(), &Request{Principal: staff, ReservationID: res.ID})
	assert.ErrorIs(t, err, ErrInternal)

	stored, _ := f.store.Reservation(res.ID)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	_, ok := f.store.Profile(1, 100)
	assert.False(t, ok)
	assert.Empty(t, f.publisher.Events())
}

func TestExecute_Access(t *testing.T) {
	f := newFixture()
	res := f.seed(t, "10:00", domain.StatusConfirmed, false)
	ctx := context.Background()

	customer := domain.Principal{UserID: 100, OrganizationID: 1}
	_, err := f.uc.Execute(ctx, &Request{Principal: customer, ReservationID: res.ID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	otherTenant := staff
	otherTenant.OrganizationID = 2
	_, err = f.uc.Execute(ctx, &Request{Principal: otherTenant, ReservationID: res.ID})
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = f.uc.Execute(ctx, &Request{Principal: staff, ReservationID: 999})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}
