package notifications

import (
	"sync"
	"time"
)

// ChangeFunc observes the coordinator. active=false means n was cleared.
type ChangeFunc func(n Notification, active bool)

type pending struct {
	n       Notification
	payload *UndoPayload
	timer   *time.Timer
}

// Coordinator holds at most one notification for an owner. A new notification
// replaces the pending one; each expires after the timeout unless dismissed or
// undone first.
type Coordinator struct {
	mu       sync.Mutex
	timeout  time.Duration
	current  *pending
	onChange ChangeFunc
	now      func() time.Time
}

// NewCoordinator creates a coordinator. timeout<=0 uses DefaultTimeout.
func NewCoordinator(timeout time.Duration, onChange ChangeFunc) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Coordinator{timeout: timeout, onChange: onChange, now: time.Now}
}

// Notify shows n, replacing and cancelling any pending notification.
// payload makes the notification undoable.
func (c *Coordinator) Notify(n Notification, payload *UndoPayload) Notification {
	c.mu.Lock()
	now := c.now().UTC()
	n.CreatedAt = now
	n.ExpiresAt = now.Add(c.timeout)
	n.Undoable = payload != nil

	c.stopLocked()
	id := n.ID
	c.current = &pending{
		n:       n,
		payload: payload,
		timer:   time.AfterFunc(c.timeout, func() { c.expire(id) }),
	}
	c.mu.Unlock()

	c.emit(n, true)
	return n
}

// Current returns the visible notification, if any.
func (c *Coordinator) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return Notification{}, false
	}
	return c.current.n, true
}

// Dismiss hides the notification with id.
func (c *Coordinator) Dismiss(id string) error {
	n, _, err := c.take(id)
	if err != nil {
		return err
	}
	c.emit(n, false)
	return nil
}

// Undo consumes the notification with id and returns its removal payload.
// A payload is handed out at most once.
func (c *Coordinator) Undo(id string) (UndoPayload, error) {
	c.mu.Lock()
	if c.current == nil || c.current.n.ID != id {
		c.mu.Unlock()
		return UndoPayload{}, ErrNotificationNotFound
	}
	p := c.current
	if p.payload == nil {
		c.mu.Unlock()
		return UndoPayload{}, ErrNotUndoable
	}
	c.stopLocked()
	c.current = nil
	c.mu.Unlock()

	c.emit(p.n, false)
	return *p.payload, nil
}

// Stop cancels the pending timer without emitting a change.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.current = nil
}

func (c *Coordinator) take(id string) (Notification, *UndoPayload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil || c.current.n.ID != id {
		return Notification{}, nil, ErrNotificationNotFound
	}
	p := c.current
	c.stopLocked()
	c.current = nil
	return p.n, p.payload, nil
}

func (c *Coordinator) expire(id string) {
	c.mu.Lock()
	if c.current == nil || c.current.n.ID != id {
		c.mu.Unlock()
		return
	}
	n := c.current.n
	c.current = nil
	c.mu.Unlock()

	c.emit(n, false)
}

func (c *Coordinator) stopLocked() {
	if c.current != nil && c.current.timer != nil {
		c.current.timer.Stop()
	}
}

func (c *Coordinator) emit(n Notification, active bool) {
	if c.onChange != nil {
		c.onChange(n, active)
	}
}
