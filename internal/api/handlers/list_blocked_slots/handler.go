package list_blocked_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingCore/internal/api/handlers"
	"github.com/m04kA/SMC-BookingCore/internal/api/middleware"
	"github.com/m04kA/SMC-BookingCore/internal/service/blockedslots"
)

const (
	msgInvalidOrganizationID = "invalid organization id"
	msgInvalidLocationID     = "invalid location id"
	msgInvalidDate           = "date is required, expected YYYY-MM-DD"
	msgUnauthorized          = "missing principal"
	msgForbidden             = "schedule:manage is required for this organization"
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

// Handle GET /api/v1/organizations/{organizationId}/locations/{locationId}/blocked-slots?date=YYYY-MM-DD
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
	date, err := handlers.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	list, err := h.service.List(r.Context(), principal, organizationID, locationID, date)
	if err != nil {
		switch {
		case errors.Is(err, blockedslots.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("GET /blocked-slots - Failed to list blocked slots: location_id=%d, error=%v", locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}
