package list_reservations

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/api/handlers"
	"github.com/m04kA/SMC-BookingCore/internal/api/middleware"
	"github.com/m04kA/SMC-BookingCore/internal/service/reservations"
)

const (
	msgInvalidOrganizationID = "invalid organization id"
	msgInvalidLocationID     = "invalid location id"
	msgInvalidDate           = "invalid date, expected YYYY-MM-DD"
	msgInvalidFlag           = "includeCancelled must be true or false"
	msgUnauthorized          = "missing principal"
	msgForbidden             = "reservations:manage is required for this organization"
	msgInvalidInput          = "invalid request"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/organizations/{organizationId}/locations/{locationId}/reservations
// Query params: date (optional, YYYY-MM-DD), includeCancelled (optional, bool)
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

	query := r.URL.Query()
	var date *time.Time
	if raw := query.Get("date"); raw != "" {
		d, err := handlers.ParseDate(raw)
		if err != nil {
			h.logger.Warn("GET /reservations - Invalid date %q: %v", raw, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		date = &d
	}

	includeCancelled := false
	if raw := query.Get("includeCancelled"); raw != "" {
		includeCancelled, err = strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidFlag)
			return
		}
	}

	list, err := h.service.List(r.Context(), principal, organizationID, locationID, date, includeCancelled)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("GET /reservations - Access denied: user_id=%d, organization_id=%d", principal.UserID, organizationID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /reservations - Failed to list reservations: organization_id=%d, location_id=%d, error=%v",
				organizationID, locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}
