package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fdg312/meal-planner/internal/catalog"
	"github.com/fdg312/meal-planner/internal/notifications"
	"github.com/fdg312/meal-planner/internal/shopping"
	"github.com/fdg312/meal-planner/internal/userctx"
)

// Handler handles HTTP requests for the planner, nutrition views and shopping list.
type Handler struct {
	service *Service
}

// NewHandler creates a new planner handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleWeek handles GET /v1/planner/week?date=
func (h *Handler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	view, err := h.service.Week(r.Context(), ownerUserID, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err, "Failed to get week")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleSetCurrentWeek handles PUT /v1/planner/current-week
func (h *Handler) HandleSetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req SetWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	view, err := h.service.SetCurrentWeek(r.Context(), ownerUserID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to set current week")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleShiftWeek handles POST /v1/planner/current-week/shift
func (h *Handler) HandleShiftWeek(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req ShiftWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	view, err := h.service.ShiftWeek(r.Context(), ownerUserID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to shift week")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleAddMeal handles POST /v1/planner/meals
func (h *Handler) HandleAddMeal(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req AddMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	res, err := h.service.AddMeal(r.Context(), ownerUserID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to add meal")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleRemoveMeal handles DELETE /v1/planner/meals?date=&meal_type=&recipe=&all=
func (h *Handler) HandleRemoveMeal(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	q := r.URL.Query()
	req := SlotRequest{Date: q.Get("date"), MealType: q.Get("meal_type")}
	all := q.Get("all") == "1" || q.Get("all") == "true"

	res, err := h.service.RemoveMeal(r.Context(), ownerUserID, req, strings.TrimSpace(q.Get("recipe")), all)
	if err != nil {
		writeServiceError(w, err, "Failed to remove meal")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleRemoveInstance handles DELETE /v1/planner/meals/{id}?date=&meal_type=
func (h *Handler) HandleRemoveInstance(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	q := r.URL.Query()
	req := SlotRequest{Date: q.Get("date"), MealType: q.Get("meal_type")}

	res, err := h.service.RemoveInstance(r.Context(), ownerUserID, req, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "Failed to remove meal")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleChangeServings handles POST /v1/planner/meals/servings
func (h *Handler) HandleChangeServings(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req ChangeServingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	res, err := h.service.ChangeServings(r.Context(), ownerUserID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to change servings")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleClear handles DELETE /v1/planner
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	if err := h.service.Clear(r.Context(), ownerUserID); err != nil {
		writeServiceError(w, err, "Failed to clear meal plan")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleExport handles GET /v1/planner/export
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	export, err := h.service.Export(r.Context(), ownerUserID)
	if err != nil {
		writeServiceError(w, err, "Failed to export meal plan")
		return
	}

	filename := fmt.Sprintf("meal-plan-%s.json", export.ExportedAt.Format("20060102"))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	writeJSON(w, http.StatusOK, export)
}

// HandleGetSelection handles GET /v1/planner/selection
func (h *Handler) HandleGetSelection(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	slot, err := h.service.Selection(r.Context(), ownerUserID)
	if err != nil {
		writeServiceError(w, err, "Failed to get selection")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"selected_slot": slot})
}

// HandleSelect handles PUT /v1/planner/selection
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req SlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	slot, err := h.service.Select(r.Context(), ownerUserID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to select meal slot")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"selected_slot": slot})
}

// HandleClearSelection handles DELETE /v1/planner/selection
func (h *Handler) HandleClearSelection(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	if err := h.service.ClearSelection(r.Context(), ownerUserID); err != nil {
		writeServiceError(w, err, "Failed to clear selection")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetNotification handles GET /v1/planner/notification
func (h *Handler) HandleGetNotification(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	n, found := h.service.Notification(ownerUserID)
	if !found {
		writeJSON(w, http.StatusOK, map[string]interface{}{"notification": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notification": n})
}

// HandleDismissNotification handles POST /v1/planner/notification/dismiss
func (h *Handler) HandleDismissNotification(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req NotificationActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	if err := h.service.DismissNotification(ownerUserID, req); err != nil {
		writeServiceError(w, err, "Failed to dismiss notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUndo handles POST /v1/planner/notification/undo
func (h *Handler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req NotificationActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	res, err := h.service.Undo(r.Context(), ownerUserID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to undo")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleDayNutrition handles GET /v1/nutrition/day?date=
func (h *Handler) HandleDayNutrition(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	stats, err := h.service.DayNutrition(r.Context(), ownerUserID, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err, "Failed to get nutrition")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleWeekNutrition handles GET /v1/nutrition/week?date=
func (h *Handler) HandleWeekNutrition(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	report, err := h.service.WeekNutrition(r.Context(), ownerUserID, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err, "Failed to get weekly nutrition")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleDashboard handles GET /v1/dashboard?date=
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	d, err := h.service.Dashboard(r.Context(), ownerUserID, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err, "Failed to get dashboard")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HandleShopping handles GET /v1/shopping?date=&scope=week|day&sort=most-used
func (h *Handler) HandleShopping(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	q := r.URL.Query()
	view, err := h.service.Shopping(r.Context(), ownerUserID, q.Get("date"), q.Get("scope"), q.Get("sort") == "most-used")
	if err != nil {
		writeServiceError(w, err, "Failed to get shopping list")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleSetChecked handles PUT /v1/shopping/checked
func (h *Handler) HandleSetChecked(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req CheckItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	checked, err := h.service.SetChecked(r.Context(), ownerUserID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to update shopping list")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"checked_items": checked})
}

// HandleClearChecked handles DELETE /v1/shopping/checked?prune=1
func (h *Handler) HandleClearChecked(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	prune := r.URL.Query().Get("prune") == "1"
	checked, err := h.service.ClearChecked(r.Context(), ownerUserID, prune)
	if err != nil {
		writeServiceError(w, err, "Failed to update shopping list")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"checked_items": checked})
}

// HandleAddExtra handles POST /v1/shopping/items
func (h *Handler) HandleAddExtra(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req shopping.AddExtraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	extra, err := h.service.AddExtra(r.Context(), ownerUserID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to add shopping item")
		return
	}
	writeJSON(w, http.StatusCreated, extra)
}

// HandleRemoveExtra handles DELETE /v1/shopping/items/{id}
func (h *Handler) HandleRemoveExtra(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	if err := h.service.RemoveExtra(r.Context(), ownerUserID, r.PathValue("id")); err != nil {
		writeServiceError(w, err, "Failed to remove shopping item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps service errors onto HTTP responses.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	if msg, ok := strings.CutPrefix(err.Error(), "validation failed: "); ok {
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
		return
	}
	switch {
	case errors.Is(err, catalog.ErrRecipeNotFound):
		writeError(w, http.StatusNotFound, "recipe_not_found", "Recipe not found")
	case errors.Is(err, ErrNoSelectedSlot):
		writeError(w, http.StatusConflict, "no_selected_slot", "Select a meal slot or pass date and meal_type")
	case errors.Is(err, notifications.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, "notification_not_found", "Notification not found or expired")
	case errors.Is(err, notifications.ErrNotUndoable):
		writeError(w, http.StatusConflict, "not_undoable", "Notification cannot be undone")
	case errors.Is(err, ErrExtraNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Shopping item not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
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
