package get_loyalty_profile

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-BookingCore/internal/api/handlers"
	"github.com/m04kA/SMC-BookingCore/internal/api/middleware"
	"github.com/m04kA/SMC-BookingCore/internal/service/loyalty"
)

const (
	msgInvalidUserID = "invalid user id"
	msgInvalidLimit  = "limit must be a positive integer"
	msgNotFound      = "loyalty profile not found"
	msgUnauthorized  = "missing principal"
	msgForbidden     = "access denied"
)

type Handler struct {
	service LoyaltyService
	logger  Logger
}

func NewHandler(service LoyaltyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{userId}/loyalty
// Query params: limit (optional, history entries)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
	}

	profile, err := h.service.GetProfile(r.Context(), principal, userID, limit)
	if err != nil {
		switch {
		case errors.Is(err, loyalty.ErrProfileNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, loyalty.ErrAccessDenied):
			h.logger.Warn("GET /users/{id}/loyalty - Access denied: user_id=%d, caller=%d", userID, principal.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, loyalty.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidUserID)

		default:
			h.logger.Error("GET /users/{id}/loyalty - Failed to get profile: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, profile)
}
