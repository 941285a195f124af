package nutrition

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fdg312/meal-planner/internal/userctx"
)

// Handler handles HTTP requests for nutrition targets.
type Handler struct {
	service *Service
}

// NewHandler creates a new nutrition handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGetTargets handles GET /v1/nutrition/targets
func (h *Handler) HandleGetTargets(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	targets, isDefault, err := h.service.GetOrDefault(r.Context(), ownerUserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get nutrition targets")
		return
	}

	writeJSON(w, http.StatusOK, GetTargetsResponse{Targets: targets, IsDefault: isDefault})
}

// HandleUpsertTargets handles PUT /v1/nutrition/targets
func (h *Handler) HandleUpsertTargets(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req UpsertTargetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	targets, err := h.service.Upsert(r.Context(), ownerUserID, req)
	if err != nil {
		if msg, ok := strings.CutPrefix(err.Error(), "validation failed: "); ok {
			writeError(w, http.StatusBadRequest, "invalid_request", msg)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to upsert nutrition targets")
		return
	}

	writeJSON(w, http.StatusOK, targets)
}

// HandleResetTargets handles DELETE /v1/nutrition/targets
func (h *Handler) HandleResetTargets(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	if err := h.service.Reset(r.Context(), ownerUserID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to reset nutrition targets")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
