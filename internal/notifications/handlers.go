package notifications

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fdg312/meal-planner/internal/userctx"
)

const keepAliveInterval = 25 * time.Second

// Handler serves the SSE stream of notification events.
type Handler struct {
	hub *Hub
}

// NewHandler creates a new notifications handler.
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// HandleStream handles GET /v1/notifications/stream
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	ownerUserID, ok := userctx.Owner(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch, unsubscribe := h.hub.Subscribe(ownerUserID)
	defer unsubscribe()

	_ = writeSSE(w, Event{Type: EventConnected, Timestamp: time.Now().UTC(), Data: map[string]string{"user_id": ownerUserID}})
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.Write([]byte(": keep-alive\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := writeSSE(w, event); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := w.Write([]byte("event: " + event.Type + "\n")); err != nil {
		return err
	}
	if _, err := w.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
		return err
	}
	return nil
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
