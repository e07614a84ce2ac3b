package gateways

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

func stripeRequest(secret string, ts int64, body string) WebhookRequest {
	sig := hmacHex(secret, []byte(fmt.Sprintf("%d.%s", ts, body)))
	h := http.Header{}
	h.Set(stripeSignatureHeader, fmt.Sprintf("t=%d,v1=%s", ts, sig))
	return WebhookRequest{Header: h, Body: []byte(body)}
}

func TestStripeAdapter_Normalize(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := NewStripeAdapter("whsec_test", 5*time.Minute)
	a.now = func() time.Time { return now }

	tests := []struct {
		name    string
		body    string
		want    *domain.NormalizedPaymentEvent
		wantErr error
	}{
		{
			name: "checkout completed",
			body: `{"type":"checkout.session.completed","data":{"object":{"id":"cs_1","payment_intent":"pi_1","amount_total":4990,"currency":"eur","metadata":{"reservationId":"42"}}}}`,
			want: &domain.NormalizedPaymentEvent{
				ExternalID: "pi_1", Provider: domain.ProviderStripe, ReservationID: 42,
				Amount: 4990, Currency: "EUR", Outcome: domain.OutcomeSucceeded, RawType: "checkout.session.completed",
			},
		},
		{
			name: "payment intent failed",
			body: `{"type":"payment_intent.payment_failed","data":{"object":{"id":"pi_2","currency":"eur","metadata":{"reservationId":"7"}}}}`,
			want: &domain.NormalizedPaymentEvent{
				ExternalID: "pi_2", Provider: domain.ProviderStripe, ReservationID: 7,
				Currency: "EUR", Outcome: domain.OutcomeFailed, RawType: "payment_intent.payment_failed",
			},
		},
		{
			name: "charge refunded",
			body: `{"type":"charge.refunded","data":{"object":{"id":"ch_1","payment_intent":"pi_1","amount_refunded":4990,"currency":"eur","metadata":{"reservationId":"42"}}}}`,
			want: &domain.NormalizedPaymentEvent{
				ExternalID: "pi_1", Provider: domain.ProviderStripe, ReservationID: 42,
				Amount: 4990, Currency: "EUR", Outcome: domain.OutcomeRefunded, RawType: "charge.refunded",
			},
		},
		{
			name:    "unrelated event",
			body:    `{"type":"customer.created","data":{"object":{"id":"cus_1"}}}`,
			wantErr: ErrIgnoredEvent,
		},
		{
			name:    "missing reservation reference",
			body:    `{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_3","amount_received":100,"currency":"eur"}}}`,
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "not json",
			body:    `{`,
			wantErr: ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Normalize(context.Background(), stripeRequest("whsec_test", now.Unix(), tt.body))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripeAdapter_Signature(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := NewStripeAdapter("whsec_test", 5*time.Minute)
	a.now = func() time.Time { return now }
	body := `{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","amount_received":100,"currency":"eur","metadata":{"reservationId":"1"}}}}`

	t.Run("wrong secret", func(t *testing.T) {
		_, err := a.Normalize(context.Background(), stripeRequest("other", now.Unix(), body))
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("stale timestamp", func(t *testing.T) {
		_, err := a.Normalize(context.Background(), stripeRequest("whsec_test", now.Add(-10*time.Minute).Unix(), body))
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := a.Normalize(context.Background(), WebhookRequest{Header: http.Header{}, Body: []byte(body)})
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("tampered body", func(t *testing.T) {
		req := stripeRequest("whsec_test", now.Unix(), body)
		req.Body = []byte(body + " ")
		_, err := a.Normalize(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}
