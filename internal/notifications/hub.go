package notifications

import (
	"sync"
	"time"
)

// Hub fans events out to every SSE subscriber of an owner.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub создает хаб для SSE-подписок.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe подписывает владельца на события и возвращает канал и функцию отписки.
func (h *Hub) Subscribe(ownerUserID string) (<-chan Event, func()) {
	ch := make(chan Event, 10)

	h.mu.Lock()
	defer h.mu.Unlock()

	ownerSubs, ok := h.subscribers[ownerUserID]
	if !ok {
		ownerSubs = make(map[chan Event]struct{})
		h.subscribers[ownerUserID] = ownerSubs
	}
	ownerSubs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if subs, exists := h.subscribers[ownerUserID]; exists {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.subscribers, ownerUserID)
				}
			}
			close(ch)
		})
	}
}

// Publish отправляет событие всем подписчикам; медленные подписчики пропускают событие.
func (h *Hub) Publish(ownerUserID string, event Event) {
	event.Timestamp = time.Now().UTC()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[ownerUserID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribers returns the number of open streams of an owner.
func (h *Hub) Subscribers(ownerUserID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[ownerUserID])
}

// Registry keeps one coordinator per owner, publishing its changes to the hub.
type Registry struct {
	mu      sync.Mutex
	timeout time.Duration
	hub     *Hub
	coords  map[string]*Coordinator
}

// NewRegistry creates a registry. hub may be nil.
func NewRegistry(timeout time.Duration, hub *Hub) *Registry {
	return &Registry{
		timeout: timeout,
		hub:     hub,
		coords:  make(map[string]*Coordinator),
	}
}

// For returns the owner's coordinator, creating it on first use.
func (r *Registry) For(ownerUserID string) *Coordinator {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.coords[ownerUserID]
	if !ok {
		c = NewCoordinator(r.timeout, r.publisher(ownerUserID))
		r.coords[ownerUserID] = c
	}
	return c
}

// Close stops every pending timer.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.coords {
		c.Stop()
	}
}

func (r *Registry) publisher(ownerUserID string) ChangeFunc {
	if r.hub == nil {
		return nil
	}
	return func(n Notification, active bool) {
		if active {
			r.hub.Publish(ownerUserID, Event{Type: EventNotification, Data: n})
			return
		}
		r.hub.Publish(ownerUserID, Event{Type: EventNotificationCleared, Data: map[string]string{"id": n.ID}})
	}
}
