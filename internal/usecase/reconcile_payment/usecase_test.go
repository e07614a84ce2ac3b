package reconcile_payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/infra/gateways"
	"github.com/m04kA/SMC-BookingCore/internal/service/loyalty"
	"github.com/m04kA/SMC-BookingCore/internal/testfixtures"
	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

const sumupSecret = "sumup-secret"

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

// stubAdapter returns a fixed event or error without authentication
type stubAdapter struct {
	ev  *domain.NormalizedPaymentEvent
	err error
}

func (a *stubAdapter) Provider() domain.Provider { return domain.ProviderStripe }

func (a *stubAdapter) Normalize(context.Context, gateways.WebhookRequest) (*domain.NormalizedPaymentEvent, error) {
	if a.err != nil {
		return nil, a.err
	}
	ev := *a.ev
	return &ev, nil
}

type fixture struct {
	store     *testfixtures.Store
	stub      *stubAdapter
	cache     *testfixtures.MemoryWebhookCache
	publisher *testfixtures.RecordingPublisher
	uc        *UseCase
}

func newFixture() *fixture {
	store := testfixtures.NewStore()
	tx := store.TxManager()
	account := loyalty.NewService(store.Loyalty(), tx, domain.DefaultLoyaltyRules(), testfixtures.NopMetrics{}, "test", testfixtures.NopLogger{})

	stub := &stubAdapter{}
	registry := gateways.NewRegistry(stub, gateways.NewSumUpAdapter(sumupSecret))
	cache := &testfixtures.MemoryWebhookCache{}
	publisher := &testfixtures.RecordingPublisher{}

	uc := NewUseCase(registry, store.Reservations(), store.PaymentsRepo(), account, cache, tx,
		publisher, testfixtures.NopMetrics{}, "test", testfixtures.NopLogger{}).
		WithTimeProvider(testfixtures.NewClock(day.Add(9 * time.Hour)))
	return &fixture{store: store, stub: stub, cache: cache, publisher: publisher, uc: uc}
}

func (f *fixture) seed(t *testing.T, status domain.ReservationStatus) *domain.Reservation {
	t.Helper()
	res, err := f.store.Reservations().Create(context.Background(), &domain.Reservation{
		OrganizationID: 1, LocationID: 10, UserID: 100, Date: day,
		StartTime: types.MustTimeString("10:00"), DurationMinutes: 75, Status: status,
		PaymentStatus: domain.PaymentUnpaid, TotalPrice: 4500, Currency: "EUR",
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) stripe(ev domain.NormalizedPaymentEvent) *Request {
	ev.Provider = domain.ProviderStripe
	f.stub.ev = &ev
	f.stub.err = nil
	return &Request{Provider: "stripe"}
}

func succeeded(externalID string, reservationID, amount int64) domain.NormalizedPaymentEvent {
	return domain.NormalizedPaymentEvent{
		ExternalID: externalID, ReservationID: reservationID, Amount: amount,
		Currency: "EUR", Outcome: domain.OutcomeSucceeded, RawType: "payment_intent.succeeded",
	}
}

func TestExecute_SucceededAppliesPayment(t *testing.T) {
	f := newFixture()
	res := f.seed(t, domain.StatusPending)

	result, err := f.uc.Execute(context.Background(), f.stripe(succeeded("pi_1", res.ID, 4500)))
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, result.Outcome)

	stored, _ := f.store.Reservation(res.ID)
	assert.Equal(t, domain.PaymentPaid, stored.PaymentStatus)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.Equal(t, "stripe", *stored.PaymentMethod)

	payments := f.store.Payments(res.ID)
	require.Len(t, payments, 1)
	assert.Equal(t, "pi_1", payments[0].ExternalID)

	profile, _ := f.store.Profile(1, 100)
	assert.Equal(t, int64(4500), profile.TotalSpent)

	assert.Equal(t, []domain.LedgerEventType{domain.EventPaymentRecorded}, f.publisher.Types())
}

func TestExecute_ReplayIsDuplicate(t *testing.T) {
	f := newFixture()
	res := f.seed(t, domain.StatusConfirmed)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, f.stripe(succeeded("pi_1", res.ID, 2000)))
	require.NoError(t, err)

	// cache hit
	result, err := f.uc.Execute(ctx, f.stripe(succeeded("pi_1", res.ID, 2000)))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, result.Outcome)

	// cache lost: the unique key still stops it
	f.cache = &testfixtures.MemoryWebhookCache{}
	f.uc.cache = f.cache
	result, err = f.uc.Execute(ctx, f.stripe(succeeded("pi_1", res.ID, 2000)))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, result.Outcome)

	assert.Len(t, f.store.Payments(res.ID), 1)
	stored, _ := f.store.Reservation(res.ID)
	assert.Equal(t, int64(2000), stored.PaymentAmount)
	assert.Equal(t, domain.PaymentPartial, stored.PaymentStatus)
	assert.Len(t, f.publisher.Events(), 1)
}

func TestExecute_ConcurrentDeliveries(t *testing.T) {
	f := newFixture()
	res := f.seed(t, domain.StatusConfirmed)
	f.stub.ev = &domain.NormalizedPaymentEvent{
		ExternalID: "pi_1", Provider: domain.ProviderStripe, ReservationID: res.ID,
		Amount: 2000, Currency: "EUR", Outcome: domain.OutcomeSucceeded,
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), &Request{Provider: "stripe"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, f.store.Payments(res.ID), 1)
	stored, _ := f.store.Reservation(res.ID)
	assert.Equal(t, int64(2000), stored.PaymentAmount)
}

func TestExecute_RefundResetsLedger(t *testing.T) {
	f := newFixture()
	res := f.seed(t, domain.StatusConfirmed)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, f.stripe(succeeded("pi_1", res.ID, 4500)))
	require.NoError(t, err)

	refund := succeeded("pi_1", res.ID, 4500)
	refund.Outcome = domain.OutcomeRefunded
	result, err := f.uc.Execute(ctx, f.stripe(refund))
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, result.Outcome)

	stored, _ := f.store.Reservation(res.ID)
	assert.Equal(t, int64(0), stored.PaymentAmount)
	assert.Equal(t, domain.PaymentUnpaid, stored.PaymentStatus)
	assert.Len(t, f.store.Payments(res.ID), 1, "refunds do not create payment rows")

	profile, _ := f.store.Profile(1, 100)
	assert.Equal(t, int64(0), profile.TotalSpent)

	result, err = f.uc.Execute(ctx, f.stripe(refund))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, result.Outcome)

	assert.Equal(t, []domain.LedgerEventType{domain.EventPaymentRecorded, domain.EventPaymentVoided}, f.publisher.Types())
}

func TestExecute_FailedOnUnpaid(t *testing.T) {
	f := newFixture()
	res := f.seed(t, domain.StatusConfirmed)

	failed := succeeded("pi_2", res.ID, 4500)
	failed.Outcome = domain.OutcomeFailed
	result, err := f.uc.Execute(context.Background(), f.stripe(failed))
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, result.Outcome)

	stored, _ := f.store.Reservation(res.ID)
	assert.Equal(t, domain.PaymentUnpaid, stored.PaymentStatus)
	assert.Equal(t, []domain.LedgerEventType{domain.EventPaymentFailed}, f.publisher.Types())
}

func TestExecute_CancelledReservationKeepsStatus(t *testing.T) {
	f := newFixture()
	res := f.seed(t, domain.StatusPending)
	_, err := res.Cancel(nil, day)
	require.NoError(t, err)
	require.NoError(t, f.store.Reservations().UpdateStatus(context.Background(), res))

	result, err := f.uc.Execute(context.Background(), f.stripe(succeeded("pi_1", res.ID, 4500)))
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, result.Outcome)

	stored, _ := f.store.Reservation(res.ID)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Equal(t, domain.PaymentPaid, stored.PaymentStatus)
	assert.Len(t, f.store.Payments(res.ID), 1)
}

func TestExecute_Ignored(t *testing.T) {
	f := newFixture()
	res := f.seed(t, domain.StatusConfirmed)
	ctx := context.Background()

	result, err := f.uc.Execute(ctx, f.stripe(succeeded("pi_1", 999, 4500)))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, result.Outcome)

	usd := succeeded("pi_2", res.ID, 4500)
	usd.Currency = "USD"
	result, err = f.uc.Execute(ctx, f.stripe(usd))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, result.Outcome)
	assert.Contains(t, result.Reason, "USD")

	f.stub.err = fmt.Errorf("%w: customer.created", gateways.ErrIgnoredEvent)
	result, err = f.uc.Execute(ctx, &Request{Provider: "stripe"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, result.Outcome)

	assert.Empty(t, f.store.Payments(res.ID))
	assert.Empty(t, f.publisher.Events())
}

func TestExecute_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{Provider: "bitcoin"})
	assert.ErrorIs(t, err, ErrUnknownProvider)

	cases := []struct {
		adapterErr error
		want       error
	}{
		{gateways.ErrInvalidSignature, ErrUnauthorized},
		{gateways.ErrMalformedPayload, ErrMalformedPayload},
		{gateways.ErrUpstream, ErrUpstream},
		{errors.New("boom"), ErrInternal},
	}
	for _, tc := range cases {
		f.stub.err = tc.adapterErr
		_, err := f.uc.Execute(ctx, &Request{Provider: "stripe"})
		assert.ErrorIs(t, err, tc.want)
	}
}

func TestExecute_StorageFailureLeavesNoTrace(t *testing.T) {
	f := newFixture()
	res := f.seed(t, domain.StatusConfirmed)
	f.store.FailOn("UpdatePayment", testfixtures.ErrInjected)

	_, err := f.uc.Execute(context.Background(), f.stripe(succeeded("pi_1", res.ID, 4500)))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.store.Payments(res.ID))

	// the gateway retries once storage is back
	f.store.FailOn("UpdatePayment", nil)
	result, err := f.uc.Execute(context.Background(), f.stripe(succeeded("pi_1", res.ID, 4500)))
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, result.Outcome)
}

func TestExecute_SumUpEndToEnd(t *testing.T) {
	f := newFixture()
	res := f.seed(t, domain.StatusConfirmed)

	body := []byte(fmt.Sprintf(`{"event_type":"CHECKOUT_STATUS_CHANGED","id":"evt_1","payload":{"checkout_id":"chk_1","checkout_reference":"%d","status":"PAID","amount":45.00,"currency":"eur"}}`, res.ID))
	mac := hmac.New(sha256.New, []byte(sumupSecret))
	mac.Write(body)
	header := http.Header{}
	header.Set("X-Payload-Signature", hex.EncodeToString(mac.Sum(nil)))

	result, err := f.uc.Execute(context.Background(), &Request{
		Provider: "SumUp",
		Webhook:  gateways.WebhookRequest{Header: header, Body: body},
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, result.Outcome)
	assert.Equal(t, domain.ProviderSumUp, result.Provider)

	stored, _ := f.store.Reservation(res.ID)
	assert.Equal(t, domain.PaymentPaid, stored.PaymentStatus)

	header.Set("X-Payload-Signature", hex.EncodeToString([]byte("forged")))
	_, err = f.uc.Execute(context.Background(), &Request{
		Provider: "sumup",
		Webhook:  gateways.WebhookRequest{Header: header, Body: body},
	})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
