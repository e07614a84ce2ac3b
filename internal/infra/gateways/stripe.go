package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

const stripeSignatureHeader = "Stripe-Signature"

// StripeAdapter verifies the Stripe-Signature header (t=<unix>,v1=<hex>) and maps
// checkout / payment_intent / charge events
type StripeAdapter struct {
	secret    string
	tolerance time.Duration
	now       func() time.Time
}

func NewStripeAdapter(secret string, tolerance time.Duration) *StripeAdapter {
	return &StripeAdapter{secret: secret, tolerance: tolerance, now: time.Now}
}

func (a *StripeAdapter) Provider() domain.Provider { return domain.ProviderStripe }

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object stripeObject `json:"object"`
	} `json:"data"`
}

type stripeObject struct {
	ID             string            `json:"id"`
	PaymentIntent  string            `json:"payment_intent"`
	AmountTotal    int64             `json:"amount_total"`
	AmountReceived int64             `json:"amount_received"`
	Amount         int64             `json:"amount"`
	AmountRefunded int64             `json:"amount_refunded"`
	Currency       string            `json:"currency"`
	Metadata       map[string]string `json:"metadata"`
}

func (a *StripeAdapter) Normalize(ctx context.Context, req WebhookRequest) (*domain.NormalizedPaymentEvent, error) {
	if err := a.verify(req.Header.Get(stripeSignatureHeader), req.Body); err != nil {
		return nil, err
	}

	var ev stripeEvent
	if err := json.Unmarshal(req.Body, &ev); err != nil {
		return nil, fmt.Errorf("%w: stripe: %w", ErrMalformedPayload, err)
	}

	obj := ev.Data.Object
	out := &domain.NormalizedPaymentEvent{
		Provider: domain.ProviderStripe,
		Currency: strings.ToUpper(obj.Currency),
		RawType:  ev.Type,
	}

	switch ev.Type {
	case "checkout.session.completed":
		out.Outcome = domain.OutcomeSucceeded
		out.Amount = obj.AmountTotal
		out.ExternalID = firstNonEmpty(obj.PaymentIntent, obj.ID)
	case "checkout.session.expired":
		out.Outcome = domain.OutcomeFailed
		out.ExternalID = firstNonEmpty(obj.PaymentIntent, obj.ID)
	case "payment_intent.succeeded":
		out.Outcome = domain.OutcomeSucceeded
		out.Amount = obj.AmountReceived
		out.ExternalID = obj.ID
	case "payment_intent.payment_failed":
		out.Outcome = domain.OutcomeFailed
		out.ExternalID = obj.ID
	case "charge.refunded":
		out.Outcome = domain.OutcomeRefunded
		out.Amount = obj.AmountRefunded
		out.ExternalID = firstNonEmpty(obj.PaymentIntent, obj.ID)
	default:
		return nil, fmt.Errorf("%w: stripe event type %s", ErrIgnoredEvent, ev.Type)
	}

	if out.ExternalID == "" {
		return nil, fmt.Errorf("%w: stripe: missing object id", ErrMalformedPayload)
	}
	if out.Outcome == domain.OutcomeSucceeded && out.Amount <= 0 {
		return nil, fmt.Errorf("%w: stripe: non-positive amount", ErrMalformedPayload)
	}

	id, err := parseReservationID(obj.Metadata["reservationId"])
	if err != nil {
		return nil, err
	}
	out.ReservationID = id

	return out, nil
}

func (a *StripeAdapter) verify(header string, body []byte) error {
	if header == "" {
		return fmt.Errorf("%w: missing %s header", ErrInvalidSignature, stripeSignatureHeader)
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return fmt.Errorf("%w: stripe: incomplete signature header", ErrInvalidSignature)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: stripe: bad timestamp", ErrInvalidSignature)
	}
	if a.tolerance > 0 {
		age := a.now().Sub(time.Unix(ts, 0))
		if age > a.tolerance || age < -a.tolerance {
			return fmt.Errorf("%w: stripe: timestamp outside tolerance", ErrInvalidSignature)
		}
	}

	signed := append([]byte(timestamp+"."), body...)
	for _, sig := range signatures {
		if verifyHex(a.secret, signed, sig) {
			return nil
		}
	}
	return fmt.Errorf("%w: stripe: no matching v1 signature", ErrInvalidSignature)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
