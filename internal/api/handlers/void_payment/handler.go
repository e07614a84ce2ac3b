package void_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingCore/internal/api/handlers"
	"github.com/m04kA/SMC-BookingCore/internal/api/middleware"
	voidPayment "github.com/m04kA/SMC-BookingCore/internal/usecase/void_payment"
)

const (
	msgInvalidReservationID = "invalid reservation id"
	msgNotFound             = "reservation not found"
	msgUnauthorized         = "missing principal"
	msgForbidden            = "payments:record is required"
)

type Handler struct {
	useCase VoidPaymentUseCase
	logger  Logger
}

func NewHandler(useCase VoidPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/reservations/{reservationId}/payments
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

	result, err := h.useCase.Execute(r.Context(), &voidPayment.Request{Principal: principal, ReservationID: reservationID})
	if err != nil {
		switch {
		case errors.Is(err, voidPayment.ErrReservationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, voidPayment.ErrAccessDenied):
			h.logger.Warn("DELETE /reservations/{id}/payments - Access denied: reservation_id=%d, user_id=%d", reservationID, principal.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, voidPayment.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidReservationID)

		default:
			h.logger.Error("DELETE /reservations/{id}/payments - Failed to void payment: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /reservations/{id}/payments - Payment voided: reservation_id=%d, voided=%d", reservationID, result.Voided)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
