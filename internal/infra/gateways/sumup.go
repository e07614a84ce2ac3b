package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

const sumupSignatureHeader = "X-Payload-Signature"

// SumUpAdapter hex HMAC-SHA256 of the raw body in X-Payload-Signature
type SumUpAdapter struct {
	secret string
}

func NewSumUpAdapter(secret string) *SumUpAdapter {
	return &SumUpAdapter{secret: secret}
}

func (a *SumUpAdapter) Provider() domain.Provider { return domain.ProviderSumUp }

type sumupEvent struct {
	EventType string `json:"event_type"`
	ID        string `json:"id"`
	Payload   struct {
		CheckoutID        string      `json:"checkout_id"`
		CheckoutReference string      `json:"checkout_reference"`
		Status            string      `json:"status"`
		Amount            json.Number `json:"amount"`
		Currency          string      `json:"currency"`
	} `json:"payload"`
}

func (a *SumUpAdapter) Normalize(ctx context.Context, req WebhookRequest) (*domain.NormalizedPaymentEvent, error) {
	sig := req.Header.Get(sumupSignatureHeader)
	if sig == "" {
		return nil, fmt.Errorf("%w: missing %s header", ErrInvalidSignature, sumupSignatureHeader)
	}
	if !verifyHex(a.secret, req.Body, sig) {
		return nil, fmt.Errorf("%w: sumup: signature mismatch", ErrInvalidSignature)
	}

	var ev sumupEvent
	if err := json.Unmarshal(req.Body, &ev); err != nil {
		return nil, fmt.Errorf("%w: sumup: %w", ErrMalformedPayload, err)
	}
	if ev.EventType != "CHECKOUT_STATUS_CHANGED" {
		return nil, fmt.Errorf("%w: sumup event type %s", ErrIgnoredEvent, ev.EventType)
	}

	p := ev.Payload
	var outcome domain.PaymentOutcome
	switch strings.ToUpper(p.Status) {
	case "PAID":
		outcome = domain.OutcomeSucceeded
	case "FAILED", "EXPIRED":
		outcome = domain.OutcomeFailed
	default:
		return nil, fmt.Errorf("%w: sumup checkout status %s", ErrIgnoredEvent, p.Status)
	}

	externalID := firstNonEmpty(p.CheckoutID, ev.ID)
	if externalID == "" {
		return nil, fmt.Errorf("%w: sumup: missing checkout id", ErrMalformedPayload)
	}

	var amount int64
	if p.Amount != "" {
		v, err := domain.ParseDecimalAmount(p.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("%w: sumup: %w", ErrMalformedPayload, err)
		}
		amount = v
	}
	if outcome == domain.OutcomeSucceeded && amount <= 0 {
		return nil, fmt.Errorf("%w: sumup: non-positive amount", ErrMalformedPayload)
	}

	id, err := parseReservationID(p.CheckoutReference)
	if err != nil {
		return nil, err
	}

	return &domain.NormalizedPaymentEvent{
		ExternalID:    externalID,
		Provider:      domain.ProviderSumUp,
		ReservationID: id,
		Amount:        amount,
		Currency:      strings.ToUpper(p.Currency),
		Outcome:       outcome,
		RawType:       ev.EventType + ":" + strings.ToUpper(p.Status),
	}, nil
}
