package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/userctx"
)

// Middleware - middleware для определения владельца запроса
type Middleware struct {
	config  *config.Config
	service *Service
}

func NewMiddleware(cfg *config.Config, service *Service) *Middleware {
	return &Middleware{
		config:  cfg,
		service: service,
	}
}

// RequireAuth кладет в контекст владельца запроса.
// AUTH_MODE=none: всегда DEFAULT_OWNER_ID.
// AUTH_MODE=dev: владелец из Bearer токена; без токена DEFAULT_OWNER_ID,
// если AUTH_REQUIRED не включен, иначе 401.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ownerID, err := m.resolveOwner(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(userctx.WithOwner(r.Context(), ownerID)))
	})
}

func (m *Middleware) resolveOwner(authHeader string) (string, error) {
	if m.config.AuthMode != config.AuthModeDev {
		return m.config.DefaultOwnerID, nil
	}

	if strings.TrimSpace(authHeader) == "" {
		if m.config.AuthRequired {
			return "", ErrMissingToken
		}
		return m.config.DefaultOwnerID, nil
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || scheme != "Bearer" {
		return "", ErrInvalidToken
	}

	ownerID, err := m.service.VerifyJWT(strings.TrimSpace(token))
	if err != nil {
		return "", err
	}
	if m.config.Env == "local" {
		log.Printf("auth token accepted: sub=%s", ownerID)
	}
	return ownerID, nil
}

func isPublicPath(path string) bool {
	return path == "/healthz" || strings.HasPrefix(path, "/v1/auth/")
}
