package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/meal-planner/internal/config"
)

func preflight(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/v1/planner/meals", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	return req
}

func TestCORS_PreflightAllowedOrigin(t *testing.T) {
	cfg := &config.Config{
		CORSAllowedOrigins: []string{"https://app.example.com"},
	}

	handler := CORSMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called for preflight")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, preflight("https://app.example.com"))

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("expected Allow-Origin=https://app.example.com, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != corsAllowMethods {
		t.Errorf("expected Allow-Methods=%q, got %q", corsAllowMethods, got)
	}
	if got := rr.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Errorf("expected Max-Age=600, got %q", got)
	}
}

func TestCORS_PreflightDisallowedOrigin(t *testing.T) {
	cfg := &config.Config{
		CORSAllowedOrigins: []string{"https://app.example.com"},
	}

	handler := CORSMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called for preflight")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, preflight("https://evil.com"))

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no Allow-Origin, got %q", got)
	}
}

func TestCORS_SimpleRequests(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		credentials bool
		origin      string
		wantOrigin  string
		wantCreds   string
	}{
		{"allowed", []string{"https://app.example.com"}, false, "https://app.example.com", "https://app.example.com", ""},
		{"disallowed", []string{"https://app.example.com"}, false, "https://evil.com", "", ""},
		{"credentials", []string{"https://app.example.com"}, true, "https://app.example.com", "https://app.example.com", "true"},
		{"wildcard without credentials", []string{"*"}, true, "https://any.example.com", "https://any.example.com", ""},
		{"no origin header", []string{"https://app.example.com"}, false, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				CORSAllowedOrigins:   tt.origins,
				CORSAllowCredentials: tt.credentials,
			}

			innerCalled := false
			handler := CORSMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				innerCalled = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/v1/planner/week", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if !innerCalled {
				t.Fatal("expected inner handler to be called")
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin: expected %q, got %q", tt.wantOrigin, got)
			}
			if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Errorf("Allow-Credentials: expected %q, got %q", tt.wantCreds, got)
			}
			if tt.wantOrigin != "" && rr.Header().Get("Access-Control-Expose-Headers") != corsExposeHeaders {
				t.Error("expected Content-Disposition to be exposed")
			}
		})
	}
}
