package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-BookingCore/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-BookingCore/internal/usecase/get_availability"
)

const (
	msgInvalidOrganizationID = "invalid organization id"
	msgInvalidLocationID     = "invalid location id"
	msgMissingDate           = "date is required"
	msgInvalidDateFormat     = "invalid date, expected YYYY-MM-DD"
	msgInvalidServiceIDs     = "serviceIds must be a comma separated list of positive ids"
	msgPastDate              = "date is in the past"
	msgLocationNotFound      = "location not found"
	msgServiceNotFound       = "service not found"
	msgInvalidInput          = "invalid request"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/organizations/{organizationId}/locations/{locationId}/availability
// Query params: date (required, YYYY-MM-DD), serviceIds (optional, comma separated)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	organizationID, err := handlers.PathInt64(r, "organizationId")
	if err != nil {
		h.logger.Warn("GET /availability - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	locationID, err := handlers.PathInt64(r, "locationId")
	if err != nil {
		h.logger.Warn("GET /availability - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	query := r.URL.Query()
	dateStr := query.Get("date")
	if dateStr == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := handlers.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDateFormat)
		return
	}

	serviceIDs, err := parseIDList(query.Get("serviceIds"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid service IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		OrganizationID: organizationID,
		LocationID:     locationID,
		Date:           date,
		ServiceIDs:     serviceIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrLocationNotFound):
			h.logger.Warn("GET /availability - Location not found: organization_id=%d, location_id=%d", organizationID, locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /availability - Service not found: location_id=%d, services=%v", locationID, serviceIDs)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailability.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /availability - Failed to compute availability: location_id=%d, error=%v", locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func parseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
