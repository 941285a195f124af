package foodprefs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/fdg312/meal-planner/internal/storage/memory"
	"github.com/fdg312/meal-planner/internal/userctx"
)

func newTestHandler() (*Handler, *memory.StateMemoryStorage) {
	state := memory.NewStateMemoryStorage()
	svc := NewService(state, nil)
	svc.now = func() time.Time { return time.Date(2023, 4, 10, 8, 0, 0, 0, time.UTC) }
	return NewHandler(svc), state
}

func withUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(userctx.WithOwner(req.Context(), userID))
}

func TestHandleGetDefaults(t *testing.T) {
	handler, _ := newTestHandler()

	req := withUser(httptest.NewRequest(http.MethodGet, "/v1/preferences", nil), "user1")
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp GetPreferencesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.IsSet {
		t.Error("expected is_set=false before onboarding")
	}
	if resp.Preferences.Allergies == nil {
		t.Error("allergies must encode as []")
	}
}

func TestHandlePutThenGet(t *testing.T) {
	handler, _ := newTestHandler()

	body := `{"goal":"weightLoss","age":30,"gender":"female","height":165,"weight":60,
		"activity_level":"moderate","diet_type":"vegan","allergies":["nuts"],
		"meals_per_day":3,"cooking_time_per_day":30,"weekly_grocery_budget":75,"budget_priority":"balanced"}`
	req := withUser(httptest.NewRequest(http.MethodPut, "/v1/preferences", bytes.NewBufferString(body)), "user1")
	w := httptest.NewRecorder()
	handler.HandlePut(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	taste, found, err := handler.service.Taste(context.Background(), "user1")
	if err != nil || !found {
		t.Fatalf("expected saved taste, found=%v err=%v", found, err)
	}
	if taste.DietType != "vegan" || len(taste.Allergies) != 1 || taste.CookingTimePerDay != 30 {
		t.Errorf("unexpected taste: %+v", taste)
	}
}

func TestHandlePutValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad diet", `{"diet_type":"carnivore"}`, "diet_type must be one of [noRestrictions vegetarian vegan keto paleo]"},
		{"bad allergy", `{"allergies":["pollen"]}`, "allergies[0] must be one of [gluten nuts soy dairy shellfish eggs]"},
		{"bad cooking time", `{"cooking_time_per_day":20}`, "cooking_time_per_day must be one of [15 30 45 60]"},
		{"too young", `{"age":5}`, "age must be at least 13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestHandler()
			req := withUser(httptest.NewRequest(http.MethodPut, "/v1/preferences", bytes.NewBufferString(tt.body)), "user1")
			w := httptest.NewRecorder()
			handler.HandlePut(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", w.Code)
			}
			var resp struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			json.NewDecoder(w.Body).Decode(&resp)
			if resp.Error.Message != tt.want {
				t.Errorf("expected message %q, got %q", tt.want, resp.Error.Message)
			}
		})
	}
}

func TestGetCorruptStateFallsBack(t *testing.T) {
	handler, state := newTestHandler()
	state.PutState(context.Background(), "user1", storage.KeyUserPreferences, []byte(`[1,2`))

	prefs, found, err := handler.service.Get(context.Background(), "user1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found || prefs.DietType != "" {
		t.Errorf("expected defaults, got %+v found=%v", prefs, found)
	}
}

func TestHandleGetUnauthorized(t *testing.T) {
	handler, _ := newTestHandler()
	w := httptest.NewRecorder()
	handler.HandleGet(w, httptest.NewRequest(http.MethodGet, "/v1/preferences", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}
