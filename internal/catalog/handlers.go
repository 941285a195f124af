package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fdg312/meal-planner/internal/userctx"
)

// TasteSource loads the owner's recommendation inputs. found=false means the owner
// has not onboarded yet.
type TasteSource interface {
	Taste(ctx context.Context, ownerUserID string) (Taste, bool, error)
}

// ListResponse is returned by GET /v1/recipes.
type ListResponse struct {
	Recipes     []Recipe `json:"recipes"`
	Total       int      `json:"total"`
	Recommended bool     `json:"recommended"`
}

// Handler handles HTTP requests for the recipe catalog.
type Handler struct {
	tastes TasteSource
}

// NewHandler creates a catalog handler. tastes may be nil, which disables
// recommendations.
func NewHandler(tastes TasteSource) *Handler {
	return &Handler{tastes: tastes}
}

// HandleList handles GET /v1/recipes?search=&diet=&time=&recommended=1
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	diet := q.Get("diet")
	if diet != "" && !IsDiet(diet) {
		writeError(w, http.StatusBadRequest, "invalid_request", "diet must be one of all, vegan, vegetarian, keto, paleo")
		return
	}
	timeCat := q.Get("time")
	switch timeCat {
	case "", TimeAll, TimeQuick, TimeMedium, TimeLong:
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "time must be one of all, quick, medium, long")
		return
	}

	list := Filter(Query{Search: q.Get("search"), Diet: diet, Time: timeCat})
	recommended := false

	if q.Get("recommended") == "1" && h.tastes != nil {
		ownerUserID, _ := userctx.Owner(r.Context())
		taste, found, err := h.tastes.Taste(r.Context(), ownerUserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to load preferences")
			return
		}
		if found {
			list = intersect(Recommend(taste), list)
			recommended = true
		}
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Recipes:     list,
		Total:       len(list),
		Recommended: recommended,
	})
}

// HandleGet handles GET /v1/recipes/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "id must be an integer")
		return
	}

	recipe, err := ByID(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "recipe_not_found", "Recipe not found")
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

// intersect keeps the order of ranked, restricted to ids present in filtered.
func intersect(ranked, filtered []Recipe) []Recipe {
	keep := make(map[int]bool, len(filtered))
	for _, r := range filtered {
		keep[r.ID] = true
	}
	out := []Recipe{}
	for _, r := range ranked {
		if keep[r.ID] {
			out = append(out, r)
		}
	}
	return out
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
