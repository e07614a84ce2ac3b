package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

const (
	paypalTransmissionIDHeader   = "Paypal-Transmission-Id"
	paypalTransmissionTimeHeader = "Paypal-Transmission-Time"
	paypalTransmissionSigHeader  = "Paypal-Transmission-Sig"
)

// PayPalAdapter verifies transmission headers against the webhook id and maps capture events.
// The signed string is transmissionId|transmissionTime|webhookId|crc32(body).
type PayPalAdapter struct {
	webhookID string
	secret    string
}

func NewPayPalAdapter(webhookID, secret string) *PayPalAdapter {
	return &PayPalAdapter{webhookID: webhookID, secret: secret}
}

func (a *PayPalAdapter) Provider() domain.Provider { return domain.ProviderPayPal }

type paypalEvent struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	Resource  struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Amount struct {
			Value        string `json:"value"`
			CurrencyCode string `json:"currency_code"`
		} `json:"amount"`
		CustomID string `json:"custom_id"`
	} `json:"resource"`
}

func (a *PayPalAdapter) Normalize(ctx context.Context, req WebhookRequest) (*domain.NormalizedPaymentEvent, error) {
	if err := a.verify(req); err != nil {
		return nil, err
	}

	var ev paypalEvent
	if err := json.Unmarshal(req.Body, &ev); err != nil {
		return nil, fmt.Errorf("%w: paypal: %w", ErrMalformedPayload, err)
	}

	var outcome domain.PaymentOutcome
	switch ev.EventType {
	case "PAYMENT.CAPTURE.COMPLETED":
		outcome = domain.OutcomeSucceeded
	case "PAYMENT.CAPTURE.DENIED", "PAYMENT.CAPTURE.DECLINED":
		outcome = domain.OutcomeFailed
	case "PAYMENT.CAPTURE.REFUNDED":
		outcome = domain.OutcomeRefunded
	default:
		return nil, fmt.Errorf("%w: paypal event type %s", ErrIgnoredEvent, ev.EventType)
	}

	if ev.Resource.ID == "" {
		return nil, fmt.Errorf("%w: paypal: missing resource id", ErrMalformedPayload)
	}

	var amount int64
	if ev.Resource.Amount.Value != "" {
		v, err := domain.ParseDecimalAmount(ev.Resource.Amount.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: paypal: %w", ErrMalformedPayload, err)
		}
		amount = v
	}
	if outcome == domain.OutcomeSucceeded && amount <= 0 {
		return nil, fmt.Errorf("%w: paypal: non-positive amount", ErrMalformedPayload)
	}

	id, err := parseReservationID(ev.Resource.CustomID)
	if err != nil {
		return nil, err
	}

	return &domain.NormalizedPaymentEvent{
		ExternalID:    ev.Resource.ID,
		Provider:      domain.ProviderPayPal,
		ReservationID: id,
		Amount:        amount,
		Currency:      strings.ToUpper(ev.Resource.Amount.CurrencyCode),
		Outcome:       outcome,
		RawType:       ev.EventType,
	}, nil
}

func (a *PayPalAdapter) verify(req WebhookRequest) error {
	transmissionID := req.Header.Get(paypalTransmissionIDHeader)
	transmissionTime := req.Header.Get(paypalTransmissionTimeHeader)
	sig := req.Header.Get(paypalTransmissionSigHeader)
	if transmissionID == "" || transmissionTime == "" || sig == "" {
		return fmt.Errorf("%w: paypal: missing transmission headers", ErrInvalidSignature)
	}

	if !verifyHex(a.secret, []byte(paypalSignedString(transmissionID, transmissionTime, a.webhookID, req.Body)), sig) {
		return fmt.Errorf("%w: paypal: signature mismatch", ErrInvalidSignature)
	}
	return nil
}

func paypalSignedString(transmissionID, transmissionTime, webhookID string, body []byte) string {
	return strings.Join([]string{
		transmissionID,
		transmissionTime,
		webhookID,
		strconv.FormatUint(uint64(crc32.ChecksumIEEE(body)), 10),
	}, "|")
}
