package reconcile_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingCore/internal/api/handlers"
	"github.com/m04kA/SMC-BookingCore/internal/infra/gateways"
	reconcilePayment "github.com/m04kA/SMC-BookingCore/internal/usecase/reconcile_payment"
)

const (
	msgUnreadableBody   = "could not read request body"
	msgBodyTooLarge     = "request body is too large"
	msgUnknownProvider  = "unknown payment provider"
	msgInvalidSignature = "invalid webhook signature"
	msgMalformedPayload = "malformed webhook payload"
	msgUpstream         = "payment provider is unavailable, retry later"
)

type Handler struct {
	useCase ReconcilePaymentUseCase
	logger  Logger
}

func NewHandler(useCase ReconcilePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /webhooks/{provider}
// The raw body is passed on untouched: adapters verify signatures over the exact bytes.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]

	body, err := io.ReadAll(io.LimitReader(r.Body, handlers.MaxBodyBytes+1))
	if err != nil {
		h.logger.Warn("POST /webhooks/%s - Failed to read body: %v", provider, err)
		handlers.RespondBadRequest(w, msgUnreadableBody)
		return
	}
	if len(body) > handlers.MaxBodyBytes {
		handlers.RespondError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &reconcilePayment.Request{
		Provider: provider,
		Webhook:  gateways.WebhookRequest{Header: r.Header, Body: body},
	})
	if err != nil {
		switch {
		case errors.Is(err, reconcilePayment.ErrUnknownProvider):
			handlers.RespondNotFound(w, msgUnknownProvider)

		case errors.Is(err, reconcilePayment.ErrUnauthorized):
			h.logger.Warn("POST /webhooks/%s - Signature verification failed", provider)
			handlers.RespondUnauthorized(w, msgInvalidSignature)

		case errors.Is(err, reconcilePayment.ErrMalformedPayload):
			handlers.RespondBadRequest(w, msgMalformedPayload)

		case errors.Is(err, reconcilePayment.ErrUpstream):
			h.logger.Warn("POST /webhooks/%s - Provider unavailable: %v", provider, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgUpstream)

		default:
			h.logger.Error("POST /webhooks/%s - Failed to reconcile: %v", provider, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /webhooks/%s - Delivery acknowledged: outcome=%s, external_id=%s",
		provider, result.Outcome, result.ExternalID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResult(result))
}
