package delete_blocked_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingCore/internal/api/handlers"
	"github.com/m04kA/SMC-BookingCore/internal/api/middleware"
	"github.com/m04kA/SMC-BookingCore/internal/service/blockedslots"
)

const (
	msgInvalidOrganizationID = "invalid organization id"
	msgInvalidBlockedSlotID  = "invalid blocked slot id"
	msgUnauthorized          = "missing principal"
	msgForbidden             = "schedule:manage is required for this organization"
	msgNotFound              = "blocked slot not found"
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

// Handle DELETE /api/v1/organizations/{organizationId}/blocked-slots/{blockedSlotId}
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
	id, err := handlers.PathInt64(r, "blockedSlotId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBlockedSlotID)
		return
	}

	if err := h.service.Delete(r.Context(), principal, organizationID, id); err != nil {
		switch {
		case errors.Is(err, blockedslots.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, blockedslots.ErrBlockedSlotNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		default:
			h.logger.Error("DELETE /blocked-slots/{id} - Failed to delete blocked slot: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /blocked-slots/{id} - Blocked slot deleted: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}
