package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/userctx"
)

func testConfig(mode string, required bool) *config.Config {
	return &config.Config{
		Env:            "test",
		AuthMode:       mode,
		AuthRequired:   required,
		JWTSecret:      "test-secret-key-for-testing-only",
		JWTIssuer:      "meal-planner-test",
		JWTTTLMinutes:  60,
		DefaultOwnerID: "default",
	}
}

func TestHandleDevAuth(t *testing.T) {
	service := NewService(testConfig(config.AuthModeDev, true))
	handler := NewHandlers(service)

	t.Run("DefaultOwner", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/auth/dev", nil)
		w := httptest.NewRecorder()

		handler.HandleDevAuth(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
		}

		var resp DevAuthResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.AccessToken == "" {
			t.Error("expected access_token not empty")
		}
		if resp.TokenType != "Bearer" {
			t.Errorf("expected token_type Bearer, got %q", resp.TokenType)
		}
		if resp.ExpiresIn != int64(time.Hour.Seconds()) {
			t.Errorf("expected expires_in 3600, got %d", resp.ExpiresIn)
		}
		if resp.OwnerID != "default" {
			t.Errorf("expected owner_id default, got %q", resp.OwnerID)
		}

		sub, err := service.VerifyJWT(resp.AccessToken)
		if err != nil {
			t.Fatal(err)
		}
		if sub != "default" {
			t.Errorf("expected sub default, got %q", sub)
		}
	})

	t.Run("ExplicitOwner", func(t *testing.T) {
		body, _ := json.Marshal(DevAuthRequest{OwnerID: "alice"})
		req := httptest.NewRequest("POST", "/v1/auth/dev", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleDevAuth(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		var resp DevAuthResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.OwnerID != "alice" {
			t.Errorf("expected owner_id alice, got %q", resp.OwnerID)
		}
	})

	t.Run("InvalidOwner", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/auth/dev", bytes.NewBufferString(`{"owner_id":"a/b"}`))
		w := httptest.NewRecorder()

		handler.HandleDevAuth(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/auth/dev", bytes.NewBufferString(`{`))
		w := httptest.NewRecorder()

		handler.HandleDevAuth(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})
}

func TestHandleDevAuthDisabled(t *testing.T) {
	handler := NewHandlers(NewService(testConfig(config.AuthModeNone, false)))

	req := httptest.NewRequest("POST", "/v1/auth/dev", nil)
	w := httptest.NewRecorder()

	handler.HandleDevAuth(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestMiddlewareDevRequired(t *testing.T) {
	cfg := testConfig(config.AuthModeDev, true)
	service := NewService(cfg)
	middleware := NewMiddleware(cfg, service)

	t.Run("ValidToken", func(t *testing.T) {
		token, err := service.generateJWTWithTTL("test_user_123", time.Hour)
		if err != nil {
			t.Fatal(err)
		}

		req := httptest.NewRequest("GET", "/v1/planner/week", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		var calledNext bool
		handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calledNext = true
			userID, ok := userctx.Owner(r.Context())
			if !ok || userID != "test_user_123" {
				t.Errorf("expected user id in context, got %q", userID)
			}
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(w, req)

		if !calledNext {
			t.Error("expected next handler to be called")
		}
		if w.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", w.Code)
		}
	})

	t.Run("MissingToken", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/planner/week", nil)
		w := httptest.NewRecorder()

		handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("should not call next handler")
		}))

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("InvalidToken", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/planner/week", nil)
		req.Header.Set("Authorization", "Bearer invalid_token")
		w := httptest.NewRecorder()

		handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("should not call next handler")
		}))

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		token, err := service.generateJWTWithTTL("test_user_123", -time.Minute)
		if err != nil {
			t.Fatal(err)
		}

		req := httptest.NewRequest("GET", "/v1/planner/week", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("should not call next handler")
		}))

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("DevAuthPathAlwaysAccessible", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/auth/dev", nil)
		w := httptest.NewRecorder()

		var called bool
		handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(w, req)

		if !called || w.Code != http.StatusOK {
			t.Fatalf("expected /v1/auth/dev passthrough, called=%v status=%d", called, w.Code)
		}
	})
}

func TestMiddlewareDefaultOwner(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		required bool
	}{
		{"none mode", config.AuthModeNone, false},
		{"dev mode optional", config.AuthModeDev, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(tt.mode, tt.required)
			middleware := NewMiddleware(cfg, NewService(cfg))

			req := httptest.NewRequest("GET", "/v1/planner/week", nil)
			w := httptest.NewRecorder()

			var got string
			handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = userctx.Owner(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}
			if got != "default" {
				t.Errorf("expected default owner, got %q", got)
			}
		})
	}
}

func TestVerifyJWTRejectsOtherIssuer(t *testing.T) {
	service := NewService(testConfig(config.AuthModeDev, true))
	token, err := service.generateJWTWithTTL("test_user_123", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	other := testConfig(config.AuthModeDev, true)
	other.JWTIssuer = "someone-else"
	if _, err := NewService(other).VerifyJWT(token); err == nil {
		t.Error("expected issuer mismatch to be rejected")
	}
}
