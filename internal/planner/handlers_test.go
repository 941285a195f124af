package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fdg312/meal-planner/internal/userctx"
)

func withUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(userctx.WithOwner(req.Context(), userID))
}

func do(t *testing.T, fn http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	fn(w, withUser(req, "u1"))
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code
}

func TestHandleAddThenRemoveLeavesPlanEmpty(t *testing.T) {
	env := newTestEnv(t, time.Monday)
	h := NewHandler(env.svc)

	body := `{"recipe_id": 2, "date": "2023-04-10", "meal_type": "Lunch"}`
	w := do(t, h.HandleAddMeal, httptest.NewRequest(http.MethodPost, "/v1/planner/meals", strings.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var added MutationResult
	if err := json.NewDecoder(w.Body).Decode(&added); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(added.Groups) != 1 || added.Groups[0].Name != "Greek Salad" {
		t.Fatalf("unexpected groups %+v", added.Groups)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/planner/meals?date=2023-04-10&meal_type=Lunch&recipe=Greek+Salad", nil)
	w = do(t, h.HandleRemoveMeal, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	st, err := env.svc.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !st.Plan.IsEmpty() {
		t.Errorf("expected empty plan, got %+v", st.Plan)
	}
}

func TestHandleRemoveInstanceByID(t *testing.T) {
	env := newTestEnv(t, time.Monday)
	h := NewHandler(env.svc)
	res := addMeal(t, env.svc, 7, "2023-04-10", "Breakfast")
	id := res.Groups[0].Instances[0].ID

	req := httptest.NewRequest(http.MethodDelete, "/v1/planner/meals/"+id+"?date=2023-04-10&meal_type=Breakfast", nil)
	req.SetPathValue("id", id)
	w := do(t, h.HandleRemoveInstance, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var out MutationResult
	json.NewDecoder(w.Body).Decode(&out)
	if len(out.Groups) != 0 {
		t.Errorf("expected empty slot, got %+v", out.Groups)
	}
}

func TestHandleUndoFlow(t *testing.T) {
	env := newTestEnv(t, time.Monday)
	h := NewHandler(env.svc)
	addMeal(t, env.svc, 5, "2023-04-13", "Dinner")

	req := httptest.NewRequest(http.MethodDelete, "/v1/planner/meals?date=2023-04-13&meal_type=dinner&recipe=Vegan+Buddha+Bowl&all=1", nil)
	w := do(t, h.HandleRemoveMeal, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h.HandleGetNotification, httptest.NewRequest(http.MethodGet, "/v1/planner/notification", nil))
	var current struct {
		Notification *struct {
			ID       string `json:"id"`
			Kind     string `json:"kind"`
			Undoable bool   `json:"undoable"`
		} `json:"notification"`
	}
	json.NewDecoder(w.Body).Decode(&current)
	if current.Notification == nil || current.Notification.Kind != "removed" || !current.Notification.Undoable {
		t.Fatalf("expected undoable removal notification, got %+v", current.Notification)
	}

	undo := `{"id": "` + current.Notification.ID + `"}`
	w = do(t, h.HandleUndo, httptest.NewRequest(http.MethodPost, "/v1/planner/notification/undo", strings.NewReader(undo)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h.HandleUndo, httptest.NewRequest(http.MethodPost, "/v1/planner/notification/undo", strings.NewReader(undo)))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on repeated undo, got %d", w.Code)
	}
}

func TestHandleAddMealErrors(t *testing.T) {
	env := newTestEnv(t, time.Monday)
	h := NewHandler(env.svc)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"invalid json", `{"recipe_id":`, http.StatusBadRequest, "invalid_payload"},
		{"validation", `{"recipe_id": 0}`, http.StatusBadRequest, "invalid_request"},
		{"unknown recipe", `{"recipe_id": 42, "date": "2023-04-10", "meal_type": "Lunch"}`, http.StatusNotFound, "recipe_not_found"},
		{"no selection", `{"recipe_id": 1}`, http.StatusConflict, "no_selected_slot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h.HandleAddMeal, httptest.NewRequest(http.MethodPost, "/v1/planner/meals", strings.NewReader(tt.body)))
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if code := errorCode(t, w); code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, code)
			}
		})
	}
}

func TestHandleUnauthorized(t *testing.T) {
	env := newTestEnv(t, time.Monday)
	h := NewHandler(env.svc)

	handlers := map[string]http.HandlerFunc{
		"week":     h.HandleWeek,
		"add":      h.HandleAddMeal,
		"shopping": h.HandleShopping,
		"dash":     h.HandleDashboard,
	}
	for name, fn := range handlers {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			fn(w, httptest.NewRequest(http.MethodGet, "/", nil))
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestHandleSelectionRoundTrip(t *testing.T) {
	env := newTestEnv(t, time.Monday)
	h := NewHandler(env.svc)

	body := bytes.NewBufferString(`{"date": "2023-04-14", "meal_type": "snack"}`)
	w := do(t, h.HandleSelect, httptest.NewRequest(http.MethodPut, "/v1/planner/selection", body))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h.HandleGetSelection, httptest.NewRequest(http.MethodGet, "/v1/planner/selection", nil))
	if !strings.Contains(w.Body.String(), `"meal_type":"Snacks"`) {
		t.Errorf("expected stored selection, got %s", w.Body.String())
	}

	w = do(t, h.HandleClearSelection, httptest.NewRequest(http.MethodDelete, "/v1/planner/selection", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = do(t, h.HandleGetSelection, httptest.NewRequest(http.MethodGet, "/v1/planner/selection", nil))
	if !strings.Contains(w.Body.String(), `"selected_slot":null`) {
		t.Errorf("expected empty selection, got %s", w.Body.String())
	}
}

func TestHandleShoppingAndExtras(t *testing.T) {
	env := newTestEnv(t, time.Monday)
	h := NewHandler(env.svc)
	addMeal(t, env.svc, 8, "2023-04-12", "Dinner")

	w := do(t, h.HandleShopping, httptest.NewRequest(http.MethodGet, "/v1/shopping?scope=day&date=2023-04-12", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var view ShoppingView
	json.NewDecoder(w.Body).Decode(&view)
	if len(view.Items) != 5 || len(view.Categories) == 0 {
		t.Errorf("unexpected list %+v", view)
	}

	w = do(t, h.HandleAddExtra, httptest.NewRequest(http.MethodPost, "/v1/shopping/items", strings.NewReader(`{"name": ""}`)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty name, got %d", w.Code)
	}

	w = do(t, h.HandleAddExtra, httptest.NewRequest(http.MethodPost, "/v1/shopping/items", strings.NewReader(`{"name": "Coffee", "quantity": 2, "unit": "bag"}`)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/shopping/items/missing", nil)
	req.SetPathValue("id", "missing")
	w = do(t, h.HandleRemoveExtra, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleExportSetsAttachment(t *testing.T) {
	env := newTestEnv(t, time.Monday)
	h := NewHandler(env.svc)

	w := do(t, h.HandleExport, httptest.NewRequest(http.MethodGet, "/v1/planner/export", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="meal-plan-20230412.json"` {
		t.Errorf("unexpected Content-Disposition %q", got)
	}
}
