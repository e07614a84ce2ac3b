package gateways

import (
	"context"
	"net/http"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/integrations/mollie"
)

// WebhookRequest raw inbound notification as received by the HTTP layer
type WebhookRequest struct {
	Header http.Header
	Body   []byte
}

// Adapter authenticates one provider's notification and maps it to a NormalizedPaymentEvent.
// Returns ErrInvalidSignature, ErrMalformedPayload or ErrIgnoredEvent when no event can be produced.
type Adapter interface {
	Provider() domain.Provider
	Normalize(ctx context.Context, req WebhookRequest) (*domain.NormalizedPaymentEvent, error)
}

// MolliePaymentFetcher subset of the Mollie API client used by the adapter
type MolliePaymentFetcher interface {
	GetPayment(ctx context.Context, id string) (*mollie.Payment, error)
}
