package void_payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/service/loyalty"
	"github.com/m04kA/SMC-BookingCore/internal/testfixtures"
	"github.com/m04kA/SMC-BookingCore/pkg/ptr"
	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

var (
	day     = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	cashier = domain.Principal{UserID: 1, OrganizationID: 1, Capabilities: domain.NewCapabilitySet(domain.CapPaymentsRecord)}
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
		WithTimeProvider(testfixtures.NewClock(day.Add(16 * time.Hour)))
	return &fixture{store: store, publisher: publisher, uc: uc}
}

// seedPaid stores a reservation paid with cash plus a loyalty discount
func (f *fixture) seedPaid(t *testing.T, cash, discount int64) *domain.Reservation {
	t.Helper()
	ctx := context.Background()
	res, err := f.store.Reservations().Create(ctx, &domain.Reservation{
		OrganizationID: 1, LocationID: 10, UserID: 100, Date: day,
		StartTime: types.MustTimeString("10:00"), DurationMinutes: 75, Status: domain.StatusConfirmed,
		PaymentStatus: domain.PaymentUnpaid, TotalPrice: 4500, Currency: "EUR",
	})
	require.NoError(t, err)

	res.ApplyPayment(cash, discount)
	res.PaymentMethod = ptr.Ptr("card")
	res.PaymentDate = ptr.Ptr(day.Add(12 * time.Hour))
	res.InvoiceNumber = ptr.Ptr("FAC-202603-0001")
	require.NoError(t, f.store.Reservations().UpdatePayment(ctx, res))
	return res
}

func TestExecute_ResetsLedgerAndSpending(t *testing.T) {
	f := newFixture()
	f.store.AddProfile(domain.LoyaltyProfile{UserID: 100, OrganizationID: 1, TotalSpent: 60000, Points: 60, Tier: domain.TierSilver})
	res := f.seedPaid(t, 2500, 2000)

	resp, err := f.uc.Execute(context.Background(), &Request{Principal: cashier, ReservationID: res.ID})
	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.Equal(t, int64(2500), resp.Voided)

	stored, _ := f.store.Reservation(res.ID)
	assert.Equal(t, int64(0), stored.PaymentAmount)
	assert.Equal(t, int64(0), stored.DiscountAmount)
	assert.Equal(t, domain.PaymentUnpaid, stored.PaymentStatus)
	assert.Nil(t, stored.PaymentMethod)
	assert.Nil(t, stored.PaymentDate)
	assert.Equal(t, "FAC-202603-0001", ptr.Deref(stored.InvoiceNumber))

	profile, _ := f.store.Profile(1, 100)
	assert.Equal(t, int64(57500), profile.TotalSpent)
	assert.Equal(t, 57, profile.Points)
	assert.Equal(t, domain.TierSilver, profile.Tier)

	history := f.store.History(1, 100)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ActionPaymentCancelled, history[0].Action)

	assert.Equal(t, []domain.LedgerEventType{domain.EventPaymentVoided}, f.publisher.Types())
}

func TestExecute_SpendingNeverNegative(t *testing.T) {
	f := newFixture()
	f.store.AddProfile(domain.LoyaltyProfile{UserID: 100, OrganizationID: 1, TotalSpent: 1000, Points: 1})
	res := f.seedPaid(t, 4500, 0)

	_, err := f.uc.Execute(context.Background(), &Request{Principal: cashier, ReservationID: res.ID})
	require.NoError(t, err)

	profile, _ := f.store.Profile(1, 100)
	assert.Equal(t, int64(0), profile.TotalSpent)
	assert.Equal(t, domain.TierBronze, profile.Tier)
}

func TestExecute_UnpaidIsNoop(t *testing.T) {
	f := newFixture()
	res, err := f.store.Reservations().Create(context.Background(), &domain.Reservation{
		OrganizationID: 1, LocationID: 10, UserID: 100, Date: day,
		StartTime: types.MustTimeString("10:00"), DurationMinutes: 75, Status: domain.StatusConfirmed,
		PaymentStatus: domain.PaymentUnpaid, TotalPrice: 4500, Currency: "EUR",
	})
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), &Request{Principal: cashier, ReservationID: res.ID})
	require.NoError(t, err)
	assert.False(t, resp.Changed)
	assert.Empty(t, f.publisher.Events())
	_, ok := f.store.Profile(1, 100)
	assert.False(t, ok)
}

func TestExecute_Access(t *testing.T) {
	f := newFixture()
	res := f.seedPaid(t, 2500, 0)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{Principal: domain.Principal{UserID: 100, OrganizationID: 1}, ReservationID: res.ID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	other := cashier
	other.OrganizationID = 2
	_, err = f.uc.Execute(ctx, &Request{Principal: other, ReservationID: res.ID})
	assert.ErrorIs(t, err, ErrReservationNotFound)

	stored, _ := f.store.Reservation(res.ID)
	assert.Equal(t, int64(2500), stored.PaymentAmount)
}
