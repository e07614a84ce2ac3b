package complete_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingCore/internal/api/handlers"
	"github.com/m04kA/SMC-BookingCore/internal/api/middleware"
	completeReservation "github.com/m04kA/SMC-BookingCore/internal/usecase/complete_reservation"
)

const (
	msgInvalidReservationID = "invalid reservation id"
	msgNotFound             = "reservation not found"
	msgUnauthorized         = "missing principal"
	msgForbidden            = "reservations:manage is required"
	msgInvalidTransition    = "only a confirmed reservation can be completed"
)

type Handler struct {
	useCase CompleteReservationUseCase
	logger  Logger
}

func NewHandler(useCase CompleteReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/complete
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

	result, err := h.useCase.Execute(r.Context(), &completeReservation.Request{
		Principal:     principal,
		ReservationID: reservationID,
	})
	if err != nil {
		switch {
		case errors.Is(err, completeReservation.ErrReservationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, completeReservation.ErrAccessDenied):
			h.logger.Warn("PATCH /reservations/{id}/complete - Access denied: reservation_id=%d, user_id=%d", reservationID, principal.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, completeReservation.ErrInvalidTransition):
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, completeReservation.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidReservationID)

		default:
			h.logger.Error("PATCH /reservations/{id}/complete - Failed to complete reservation: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/complete - Reservation completed: reservation_id=%d", reservationID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
