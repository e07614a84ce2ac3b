package record_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingCore/internal/api/handlers"
	"github.com/m04kA/SMC-BookingCore/internal/api/middleware"
	recordPayment "github.com/m04kA/SMC-BookingCore/internal/usecase/record_payment"
)

const (
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidReservationID = "invalid reservation id"
	msgNotFound             = "reservation not found"
	msgUnauthorized         = "missing principal"
	msgForbidden            = "payments:record is required, plus loyalty:redeem to redeem"
	msgCancelled            = "reservation is cancelled"
	msgAlreadyPaid          = "reservation is already paid"
	msgInsufficientBalance  = "insufficient loyalty balance"
	msgDiscountTooLarge     = "discount exceeds the amount left to pay"
	msgInvalidInput         = "invalid payment"
)

type Handler struct {
	useCase RecordPaymentUseCase
	logger  Logger
}

func NewHandler(useCase RecordPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/payments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req RecordPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/payments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(principal, reservationID))
	if err != nil {
		switch {
		case errors.Is(err, recordPayment.ErrReservationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, recordPayment.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/payments - Access denied: reservation_id=%d, user_id=%d", reservationID, principal.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, recordPayment.ErrReservationCancelled):
			handlers.RespondConflict(w, msgCancelled)

		case errors.Is(err, recordPayment.ErrAlreadyPaid):
			handlers.RespondConflict(w, msgAlreadyPaid)

		case errors.Is(err, recordPayment.ErrInsufficientLoyaltyBalance):
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInsufficientBalance)

		case errors.Is(err, recordPayment.ErrDiscountExceedsBalance):
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgDiscountTooLarge)

		case errors.Is(err, recordPayment.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /reservations/{id}/payments - Failed to record payment: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/payments - Payment recorded: reservation_id=%d, cash=%d, discount=%d",
		reservationID, result.CashCredited, result.DiscountCredited)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
