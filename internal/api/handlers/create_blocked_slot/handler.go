package create_blocked_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingCore/internal/api/handlers"
	"github.com/m04kA/SMC-BookingCore/internal/api/middleware"
	"github.com/m04kA/SMC-BookingCore/internal/service/blockedslots"
)

const (
	msgInvalidRequestBody    = "invalid request body"
	msgInvalidOrganizationID = "invalid organization id"
	msgInvalidLocationID     = "invalid location id"
	msgInvalidDate           = "invalid date, expected YYYY-MM-DD"
	msgInvalidTime           = "invalid time, expected HH:MM"
	msgUnauthorized          = "missing principal"
	msgForbidden             = "schedule:manage is required for this organization"
	msgLocationNotFound      = "location not found"
	msgInvalidInput          = "invalid blocked slot"
)

type Handler struct {
	service BlockedSlotService
	logger  Logger
}

func NewHandler(service BlockedSlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/organizations/{organizationId}/locations/{locationId}/blocked-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	organizationID, err := handlers.PathInt64(r, "organizationId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}
	locationID, err := handlers.PathInt64(r, "locationId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	var req CreateBlockedSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /blocked-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(organizationID, locationID)
	if err != nil {
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	created, err := h.service.Create(r.Context(), principal, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, blockedslots.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, blockedslots.ErrLocationNotFound):
			handlers.RespondNotFound(w, msgLocationNotFound)
		case errors.Is(err, blockedslots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("POST /blocked-slots - Failed to create blocked slot: location_id=%d, error=%v", locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /blocked-slots - Blocked slot created: id=%d, location_id=%d", created.ID, locationID)
	handlers.RespondJSON(w, http.StatusCreated, created)
}
