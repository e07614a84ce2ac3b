package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingCore/internal/api/handlers"
	"github.com/m04kA/SMC-BookingCore/internal/api/middleware"
	"github.com/m04kA/SMC-BookingCore/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-BookingCore/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody    = "invalid request body"
	msgInvalidOrganizationID = "invalid organization id"
	msgInvalidDate           = "invalid date, expected YYYY-MM-DD"
	msgInvalidTime           = "invalid start time, expected HH:MM"
	msgUnauthorized          = "missing principal"
	msgForbidden             = "token is not scoped to this organization"
	msgSlotNotAvailable      = "the requested interval is not available"
	msgLocationNotFound      = "location not found"
	msgServiceNotFound       = "service not found"
	msgLocationClosed        = "location is closed on the requested date"
	msgOutsideOpeningHours   = "the reservation does not fit the opening hours"
	msgPastDate              = "the requested start is in the past"
	msgInvalidInput          = "invalid reservation request"
)

var (
	errInvalidDate = errors.New("create_reservation handler: invalid date")
	errInvalidTime = errors.New("create_reservation handler: invalid time")
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/organizations/{organizationId}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	organizationID, err := handlers.PathInt64(r, "organizationId")
	if err != nil {
		h.logger.Warn("POST /reservations - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}
	if organizationID != principal.OrganizationID {
		h.logger.Warn("POST /reservations - Token of organization=%d used for organization=%d", principal.OrganizationID, organizationID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(principal, organizationID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *createReservation.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("POST /reservations - Slot not available: user_id=%d, location_id=%d, next=%s",
				principal.UserID, req.LocationID, conflict.NextAvailableTime)
			handlers.RespondJSON(w, http.StatusConflict, handlers.ErrorResponse{
				Error:             http.StatusText(http.StatusConflict),
				Message:           msgSlotNotAvailable,
				NextAvailableTime: conflict.NextAvailableTime.String(),
			})

		case errors.Is(err, createReservation.ErrSlotNotAvailable):
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createReservation.ErrLocationNotFound):
			h.logger.Warn("POST /reservations - Location not found: organization_id=%d, location_id=%d", organizationID, req.LocationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, createReservation.ErrServiceNotFound):
			h.logger.Warn("POST /reservations - Service not found: location_id=%d", req.LocationID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createReservation.ErrLocationClosed):
			handlers.RespondBadRequest(w, msgLocationClosed)

		case errors.Is(err, createReservation.ErrOutsideOpeningHours):
			handlers.RespondBadRequest(w, msgOutsideOpeningHours)

		case errors.Is(err, createReservation.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, createReservation.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, organization_id=%d, error=%v",
				principal.UserID, organizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, user_id=%d",
		result.ID, principal.UserID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainReservation(result))
}
