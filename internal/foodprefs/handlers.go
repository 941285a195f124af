package foodprefs

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fdg312/meal-planner/internal/userctx"
)

// Handler handles HTTP requests for onboarding preferences.
type Handler struct {
	service *Service
}

// NewHandler creates a new preferences handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGet handles GET /v1/preferences
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	prefs, found, err := h.service.Get(r.Context(), ownerUserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get preferences")
		return
	}

	writeJSON(w, http.StatusOK, GetPreferencesResponse{Preferences: prefs, IsSet: found})
}

// HandlePut handles PUT /v1/preferences
func (h *Handler) HandlePut(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req Preferences
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	prefs, err := h.service.Put(r.Context(), ownerUserID, req)
	if err != nil {
		if msg, ok := strings.CutPrefix(err.Error(), "validation failed: "); ok {
			writeError(w, http.StatusBadRequest, "invalid_request", msg)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to save preferences")
		return
	}

	writeJSON(w, http.StatusOK, prefs)
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
