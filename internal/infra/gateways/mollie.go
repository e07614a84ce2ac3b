package gateways

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/integrations/mollie"
)

// MollieAdapter Mollie posts only "id=tr_xxx"; the payment is fetched back with the API key,
// so a forged id yields a 404 instead of a ledger entry
type MollieAdapter struct {
	client MolliePaymentFetcher
}

func NewMollieAdapter(client MolliePaymentFetcher) *MollieAdapter {
	return &MollieAdapter{client: client}
}

func (a *MollieAdapter) Provider() domain.Provider { return domain.ProviderMollie }

func (a *MollieAdapter) Normalize(ctx context.Context, req WebhookRequest) (*domain.NormalizedPaymentEvent, error) {
	form, err := url.ParseQuery(string(req.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: mollie: %w", ErrMalformedPayload, err)
	}
	paymentID := strings.TrimSpace(form.Get("id"))
	if paymentID == "" {
		return nil, fmt.Errorf("%w: mollie: missing id", ErrMalformedPayload)
	}

	payment, err := a.client.GetPayment(ctx, paymentID)
	switch {
	case errors.Is(err, mollie.ErrPaymentNotFound):
		return nil, fmt.Errorf("%w: mollie: unknown payment %s", ErrInvalidSignature, paymentID)
	case err != nil:
		return nil, fmt.Errorf("%w: mollie: %w", ErrUpstream, err)
	}

	out := &domain.NormalizedPaymentEvent{
		ExternalID: payment.ID,
		Provider:   domain.ProviderMollie,
		Currency:   strings.ToUpper(payment.Amount.Currency),
		RawType:    payment.Status,
	}

	refunded := int64(0)
	if payment.AmountRefunded != nil && payment.AmountRefunded.Value != "" {
		refunded, err = domain.ParseDecimalAmount(payment.AmountRefunded.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: mollie: %w", ErrMalformedPayload, err)
		}
	}

	switch {
	case refunded > 0:
		out.Outcome = domain.OutcomeRefunded
		out.Amount = refunded
		out.RawType = "refunded"
	case payment.Status == mollie.StatusPaid:
		out.Outcome = domain.OutcomeSucceeded
		out.Amount, err = domain.ParseDecimalAmount(payment.Amount.Value)
		if err != nil || out.Amount <= 0 {
			return nil, fmt.Errorf("%w: mollie: bad amount %q", ErrMalformedPayload, payment.Amount.Value)
		}
	case payment.Status == mollie.StatusFailed,
		payment.Status == mollie.StatusExpired,
		payment.Status == mollie.StatusCanceled:
		out.Outcome = domain.OutcomeFailed
	default:
		return nil, fmt.Errorf("%w: mollie status %s", ErrIgnoredEvent, payment.Status)
	}

	id, err := parseReservationID(payment.Metadata.ReservationID)
	if err != nil {
		return nil, err
	}
	out.ReservationID = id

	return out, nil
}
