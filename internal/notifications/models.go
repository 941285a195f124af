package notifications

import (
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/meal-planner/internal/mealplans"
	"github.com/fdg312/meal-planner/internal/weekdates"
)

// DefaultTimeout is how long a notification stays visible without action.
const DefaultTimeout = 10 * time.Second

type Kind string

const (
	KindAdded   Kind = "added"
	KindRemoved Kind = "removed"
)

// SSE event types.
const (
	EventConnected           = "connected"
	EventNotification        = "notification"
	EventNotificationCleared = "notification_cleared"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotUndoable          = errors.New("notification has no undo")
)

// Notification describes the last add or remove action of an owner.
type Notification struct {
	ID         string         `json:"id"`
	Kind       Kind           `json:"kind"`
	Message    string         `json:"message"`
	Slot       mealplans.Slot `json:"slot"`
	RecipeName string         `json:"recipe_name"`
	Count      int            `json:"count"`
	Undoable   bool           `json:"undoable"`
	CreatedAt  time.Time      `json:"created_at"`
	ExpiresAt  time.Time      `json:"expires_at"`
}

// UndoPayload carries what a removal took out of the plan.
type UndoPayload struct {
	Slot      mealplans.Slot             `json:"slot"`
	Instances []mealplans.RecipeInstance `json:"instances"`
}

// AddedMessage renders "You have added Greek Salad to Lunch for Monday, April 10, 2023".
func AddedMessage(name string, slot mealplans.Slot) string {
	return fmt.Sprintf("You have added %s to %s for %s", name, slot.MealType, weekdates.DisplayKey(slot.Date))
}

// RemovedMessage renders the removal text with the number of servings taken out.
func RemovedMessage(count int, name string, slot mealplans.Slot) string {
	return fmt.Sprintf("You removed (%dx) %s for %s on %s. Would you like to undo?",
		count, name, slot.MealType, weekdates.DisplayKey(slot.Date))
}

// Event is one message of the SSE stream.
type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}
