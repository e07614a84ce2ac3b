package record_payment

import (
	"context"
	"fmt"
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
	cashier = domain.Principal{
		UserID:         1,
		OrganizationID: 1,
		Capabilities:   domain.NewCapabilitySet(domain.CapPaymentsRecord, domain.CapLoyaltyRedeem),
	}
)

type sequentialIDs struct{ n int }

func (g *sequentialIDs) NewID() string {
	g.n++
	return fmt.Sprintf("desk-%d", g.n)
}

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

	uc := NewUseCase(store.Reservations(), store.PaymentsRepo(), account, tx, publisher, testfixtures.NopLogger{}).
		WithTimeProvider(testfixtures.NewClock(day.Add(15 * time.Hour))).
		WithIDGenerator(&sequentialIDs{})
	return &fixture{store: store, publisher: publisher, uc: uc}
}

func (f *fixture) seed(t *testing.T, start string, total int64, status domain.ReservationStatus) *domain.Reservation {
	t.Helper()
	res, err := f.store.Reservations().Create(context.Background(), &domain.Reservation{
		OrganizationID: 1, LocationID: 10, UserID: 100, Date: day,
		StartTime: types.MustTimeString(start), DurationMinutes: 75, Status: status,
		PaymentStatus: domain.PaymentUnpaid, TotalPrice: total, Currency: "EUR",
	})
	require.NoError(t, err)
	return res
}

func pay(id, amount int64, redeem ...domain.RedemptionKind) *Request {
	return &Request{Principal: cashier, ReservationID: id, Amount: amount, Method: "card", Redeem: redeem}
}

func TestExecute_PartialThenPaid(t *testing.T) {
	f := newFixture()
	res := f.seed(t, "10:00", 4500, domain.StatusConfirmed)
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, pay(res.ID, 2000))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPartial, resp.Reservation.PaymentStatus)
	assert.Equal(t, int64(2000), resp.Reservation.PaymentAmount)
	assert.Equal(t, "FAC-202603-0001", ptr.Deref(resp.Reservation.InvoiceNumber))
	assert.Equal(t, "card", ptr.Deref(resp.Reservation.PaymentMethod))

	resp, err = f.uc.Execute(ctx, pay(res.ID, 2500))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, resp.Reservation.PaymentStatus)
	assert.Equal(t, "FAC-202603-0001", ptr.Deref(resp.Reservation.InvoiceNumber), "invoice number is assigned once")
	assert.Equal(t, "2026-03-02: 20.00 via card\n2026-03-02: 25.00 via card", ptr.Deref(resp.Reservation.PaymentNotes))

	payments := f.store.Payments(res.ID)
	require.Len(t, payments, 2)
	assert.Equal(t, domain.ProviderManual, payments[0].Provider)
	assert.Equal(t, "desk-1", payments[0].ExternalID)

	profile, ok := f.store.Profile(1, 100)
	require.True(t, ok)
	assert.Equal(t, int64(4500), profile.TotalSpent)
	assert.Equal(t, 4, profile.Points)

	_, err = f.uc.Execute(ctx, pay(res.ID, 100))
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestExecute_ClampsToTotal(t *testing.T) {
	f := newFixture()
	res := f.seed(t, "10:00", 4500, domain.StatusConfirmed)

	resp, err := f.uc.Execute(context.Background(), pay(res.ID, 6000))
	require.NoError(t, err)
	assert.Equal(t, int64(4500), resp.CashCredited)
	assert.Equal(t, int64(4500), resp.Reservation.PaymentAmount)

	profile, _ := f.store.Profile(1, 100)
	assert.Equal(t, int64(4500), profile.TotalSpent)
}

func TestExecute_PendingBecomesConfirmed(t *testing.T) {
	f := newFixture()
	res := f.seed(t, "10:00", 4500, domain.StatusPending)

	resp, err := f.uc.Execute(context.Background(), pay(res.ID, 1000))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Reservation.Status)
}

func TestExecute_RedemptionFoldsDiscount(t *testing.T) {
	f := newFixture()
	f.store.AddProfile(domain.LoyaltyProfile{UserID: 100, OrganizationID: 1, IndividualServicesCount: 5})
	res := f.seed(t, "10:00", 4500, domain.StatusConfirmed)

	resp, err := f.uc.Execute(context.Background(), pay(res.ID, 2500, domain.RedemptionIndividual))
	require.NoError(t, err)
	assert.Equal(t, int64(2500), resp.CashCredited)
	assert.Equal(t, int64(2000), resp.DiscountCredited)
	assert.Equal(t, domain.PaymentPaid, resp.Reservation.PaymentStatus)
	assert.Equal(t, int64(2000), resp.Reservation.DiscountAmount)
	require.Len(t, resp.Redemptions, 1)

	payments := f.store.Payments(res.ID)
	require.Len(t, payments, 2)
	assert.Equal(t, domain.ProviderLoyalty, payments[1].Provider)
	assert.Equal(t, fmt.Sprintf("loyalty-%d", resp.Redemptions[0].HistoryID), payments[1].ExternalID)
	assert.Equal(t, int64(2000), payments[1].Amount)

	profile, _ := f.store.Profile(1, 100)
	assert.Equal(t, 0, profile.IndividualServicesCount)
	assert.Equal(t, int64(2500), profile.TotalSpent, "only cash counts as spending")

	assert.Equal(t, []domain.LedgerEventType{domain.EventPaymentRecorded, domain.EventLoyaltyRedeemed}, f.publisher.Types())
}

func TestExecute_DiscountOnlyPayment(t *testing.T) {
	f := newFixture()
	f.store.AddProfile(domain.LoyaltyProfile{UserID: 100, OrganizationID: 1, PackagesCount: 3})
	res := f.seed(t, "10:00", 5000, domain.StatusConfirmed)

	resp, err := f.uc.Execute(context.Background(), pay(res.ID, 0, domain.RedemptionPackage))
	require.NoError(t, err)
	assert.Equal(t, int64(4000), resp.DiscountCredited)
	assert.Equal(t, int64(0), resp.CashCredited)
	assert.Equal(t, domain.PaymentPartial, resp.Reservation.PaymentStatus)

	payments := f.store.Payments(res.ID)
	require.Len(t, payments, 1)
	assert.Equal(t, int64(4000), payments[0].Amount)
}

func TestExecute_DiscountLargerThanOutstandingIsRejected(t *testing.T) {
	f := newFixture()
	f.store.AddProfile(domain.LoyaltyProfile{UserID: 100, OrganizationID: 1, PackagesCount: 3})
	res := f.seed(t, "10:00", 3000, domain.StatusConfirmed)

	_, err := f.uc.Execute(context.Background(), pay(res.ID, 0, domain.RedemptionPackage))
	assert.ErrorIs(t, err, ErrDiscountExceedsBalance)

	profile, _ := f.store.Profile(1, 100)
	assert.Equal(t, 3, profile.PackagesCount, "no units consumed")
	assert.Empty(t, f.store.History(1, 100))
	assert.Empty(t, f.store.Payments(res.ID))

	stored, _ := f.store.Reservation(res.ID)
	assert.Equal(t, int64(0), stored.PaymentAmount)
	assert.Empty(t, f.publisher.Events())
}

func TestExecute_DiscountCountsAgainstEarlierPayments(t *testing.T) {
	f := newFixture()
	f.store.AddProfile(domain.LoyaltyProfile{UserID: 100, OrganizationID: 1, IndividualServicesCount: 5})
	res := f.seed(t, "10:00", 4500, domain.StatusConfirmed)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, pay(res.ID, 3000))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, pay(res.ID, 0, domain.RedemptionIndividual))
	assert.ErrorIs(t, err, ErrDiscountExceedsBalance)

	profile, _ := f.store.Profile(1, 100)
	assert.Equal(t, 5, profile.IndividualServicesCount)
}

func TestExecute_InsufficientBalanceAppliesNothing(t *testing.T) {
	f := newFixture()
	f.store.AddProfile(domain.LoyaltyProfile{UserID: 100, OrganizationID: 1, IndividualServicesCount: 5, PackagesCount: 2})
	res := f.seed(t, "10:00", 9000, domain.StatusConfirmed)

	_, err := f.uc.Execute(context.Background(), pay(res.ID, 2000, domain.RedemptionIndividual, domain.RedemptionPackage))
	assert.ErrorIs(t, err, ErrInsufficientLoyaltyBalance)

	profile, _ := f.store.Profile(1, 100)
	assert.Equal(t, 5, profile.IndividualServicesCount, "the first redemption was rolled back")
	assert.Equal(t, 2, profile.PackagesCount)
	assert.Empty(t, f.store.History(1, 100))
	assert.Empty(t, f.store.Payments(res.ID))

	stored, _ := f.store.Reservation(res.ID)
	assert.Equal(t, int64(0), stored.PaymentAmount)
	assert.Nil(t, stored.InvoiceNumber)
	assert.Empty(t, f.publisher.Events())
}

func TestExecute_StorageFailureRollsBackRedemption(t *testing.T) {
	f := newFixture()
	f.store.AddProfile(domain.LoyaltyProfile{UserID: 100, OrganizationID: 1, IndividualServicesCount: 5})
	res := f.seed(t, "10:00", 4500, domain.StatusConfirmed)
	f.store.FailOn("UpdatePayment", testfixtures.ErrInjected)

	_, err := f.uc.Execute(context.Background(), pay(res.ID, 2500, domain.RedemptionIndividual))
	assert.ErrorIs(t, err, ErrInternal)

	profile, _ := f.store.Profile(1, 100)
	assert.Equal(t, 5, profile.IndividualServicesCount)
	assert.Empty(t, f.store.Payments(res.ID))
}

func TestExecute_InvoiceSequencePerMonth(t *testing.T) {
	f := newFixture()
	first := f.seed(t, "10:00", 3000, domain.StatusConfirmed)
	second := f.seed(t, "12:00", 3000, domain.StatusConfirmed)
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, pay(first.ID, 1000))
	require.NoError(t, err)
	assert.Equal(t, "FAC-202603-0001", ptr.Deref(resp.Reservation.InvoiceNumber))

	resp, err = f.uc.Execute(ctx, pay(second.ID, 1000))
	require.NoError(t, err)
	assert.Equal(t, "FAC-202603-0002", ptr.Deref(resp.Reservation.InvoiceNumber))
}

func TestExecute_Rejections(t *testing.T) {
	f := newFixture()
	res := f.seed(t, "10:00", 4500, domain.StatusConfirmed)
	ctx := context.Background()

	cancelled := f.seed(t, "14:00", 4500, domain.StatusPending)
	_, err := cancelled.Cancel(nil, day)
	require.NoError(t, err)
	require.NoError(t, f.store.Reservations().UpdateStatus(ctx, cancelled))

	_, err = f.uc.Execute(ctx, pay(cancelled.ID, 1000))
	assert.ErrorIs(t, err, ErrReservationCancelled)

	noCaps := pay(res.ID, 1000)
	noCaps.Principal = domain.Principal{UserID: 100, OrganizationID: 1}
	_, err = f.uc.Execute(ctx, noCaps)
	assert.ErrorIs(t, err, ErrAccessDenied)

	noRedeem := pay(res.ID, 1000, domain.RedemptionIndividual)
	noRedeem.Principal.Capabilities = domain.NewCapabilitySet(domain.CapPaymentsRecord)
	_, err = f.uc.Execute(ctx, noRedeem)
	assert.ErrorIs(t, err, ErrAccessDenied)

	otherTenant := pay(res.ID, 1000)
	otherTenant.Principal.OrganizationID = 2
	_, err = f.uc.Execute(ctx, otherTenant)
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = f.uc.Execute(ctx, pay(res.ID, 0))
	assert.ErrorIs(t, err, ErrInvalidInput)

	noMethod := pay(res.ID, 1000)
	noMethod.Method = "  "
	_, err = f.uc.Execute(ctx, noMethod)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(ctx, pay(res.ID, 1000, domain.RedemptionKind("bogus")))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
