package planner

import (
	"errors"

	"github.com/fdg312/meal-planner/internal/mealplans"
	"github.com/fdg312/meal-planner/internal/notifications"
	"github.com/fdg312/meal-planner/internal/nutrition"
	"github.com/fdg312/meal-planner/internal/shopping"
	"github.com/fdg312/meal-planner/internal/validation"
)

var (
	ErrNoSelectedSlot = errors.New("no meal slot selected")
	ErrExtraNotFound  = errors.New("shopping item not found")
)

const (
	ScopeWeek = "week"
	ScopeDay  = "day"
)

// WeekPointer is stored under currentWeek.
type WeekPointer struct {
	Date string `json:"date"`
}

// AddMealRequest is the body of POST /v1/planner/meals. Date and meal type
// fall back to the selected slot when both are empty.
type AddMealRequest struct {
	RecipeID int    `json:"recipe_id" validate:"required,min=1"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	MealType string `json:"meal_type" validate:"max=20"`
}

func (r *AddMealRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if (r.Date == "") != (r.MealType == "") {
		return errors.New("date and meal_type must be given together")
	}
	if r.MealType != "" {
		if _, err := mealplans.ParseMealType(r.MealType); err != nil {
			return err
		}
	}
	return nil
}

// SlotRequest addresses a slot in request bodies and query strings.
type SlotRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	MealType string `json:"meal_type" validate:"required,max=20"`
}

func (r *SlotRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	_, err := mealplans.ParseMealType(r.MealType)
	return err
}

// Slot converts a validated request.
func (r SlotRequest) Slot() mealplans.Slot {
	mt, _ := mealplans.ParseMealType(r.MealType)
	return mealplans.Slot{Date: r.Date, MealType: mt}
}

// ChangeServingsRequest is the body of POST /v1/planner/meals/servings.
type ChangeServingsRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	MealType string `json:"meal_type" validate:"required,max=20"`
	Recipe   string `json:"recipe" validate:"required,max=200"`
	Delta    int    `json:"delta" validate:"required,min=-20,max=20"`
}

func (r *ChangeServingsRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	_, err := mealplans.ParseMealType(r.MealType)
	return err
}

func (r ChangeServingsRequest) slot() mealplans.Slot {
	return SlotRequest{Date: r.Date, MealType: r.MealType}.Slot()
}

// SetWeekRequest is the body of PUT /v1/planner/current-week.
type SetWeekRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (r *SetWeekRequest) Validate() error {
	return validation.Struct(r)
}

// ShiftWeekRequest is the body of POST /v1/planner/current-week/shift.
type ShiftWeekRequest struct {
	Weeks int `json:"weeks" validate:"required,min=-52,max=52"`
}

func (r *ShiftWeekRequest) Validate() error {
	return validation.Struct(r)
}

// NotificationActionRequest is the body of dismiss and undo.
type NotificationActionRequest struct {
	ID string `json:"id" validate:"required"`
}

func (r *NotificationActionRequest) Validate() error {
	return validation.Struct(r)
}

// CheckItemRequest is the body of PUT /v1/shopping/checked.
type CheckItemRequest struct {
	Key     string `json:"key" validate:"required,max=200"`
	Checked bool   `json:"checked"`
}

func (r *CheckItemRequest) Validate() error {
	return validation.Struct(r)
}

// MealView is one meal-type row of a day.
type MealView struct {
	MealType mealplans.MealType `json:"meal_type"`
	Groups   []mealplans.Group  `json:"groups"`
}

// DayView is one column of the week grid.
type DayView struct {
	Date    string           `json:"date"`
	Display string           `json:"display"`
	Meals   []MealView       `json:"meals"`
	Totals  nutrition.Totals `json:"totals"`
}

// WeekView is the planner grid for one week window.
type WeekView struct {
	WeekStart string          `json:"week_start"`
	WeekEnd   string          `json:"week_end"`
	Days      []DayView       `json:"days"`
	Selected  *mealplans.Slot `json:"selected_slot"`
}

// MutationResult is returned by plan mutations.
type MutationResult struct {
	Slot         mealplans.Slot              `json:"slot"`
	Groups       []mealplans.Group           `json:"groups"`
	Notification *notifications.Notification `json:"notification,omitempty"`
}

// RecentMeal is one dashboard line.
type RecentMeal struct {
	MealType mealplans.MealType `json:"meal_type"`
	Order    int                `json:"order"`
	Time     string             `json:"time"`
	Name     string             `json:"name"`
	Servings int                `json:"servings"`
	Calories int                `json:"calories"`
}

// Dashboard is the daily overview.
type Dashboard struct {
	Stats       nutrition.DayStats `json:"stats"`
	Targets     nutrition.Targets  `json:"targets"`
	Calories    nutrition.Progress `json:"calories"`
	Protein     nutrition.Progress `json:"protein"`
	RecentMeals []RecentMeal       `json:"recent_meals"`
}

// ShoppingView is the grocery list for a week or a day.
type ShoppingView struct {
	Scope      string                   `json:"scope"`
	Dates      []string                 `json:"dates"`
	Items      []shopping.Item          `json:"items"`
	Categories []shopping.CategoryGroup `json:"categories"`
	Extras     []shopping.Extra         `json:"extras"`
}

// mealTimes are the display times of the dashboard.
var mealTimes = map[mealplans.MealType]string{
	mealplans.Breakfast: "8:00 AM",
	mealplans.Lunch:     "12:00 PM",
	mealplans.Snacks:    "3:00 PM",
	mealplans.Dinner:    "6:00 PM",
}
