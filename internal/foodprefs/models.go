package foodprefs

import (
	"time"

	"github.com/fdg312/meal-planner/internal/catalog"
	"github.com/fdg312/meal-planner/internal/validation"
)

const (
	GoalWeightLoss    = "weightLoss"
	GoalMuscleGain    = "muscleGain"
	GoalMaintenance   = "maintenance"
	GoalGeneralHealth = "generalHealth"
)

// Preferences is the onboarding record. Every field is optional until the
// owner fills it in; empty values are skipped by validation.
type Preferences struct {
	Goal                string    `json:"goal,omitempty" validate:"omitempty,oneof=weightLoss muscleGain maintenance generalHealth"`
	Age                 int       `json:"age,omitempty" validate:"omitempty,min=13,max=120"`
	Gender              string    `json:"gender,omitempty" validate:"omitempty,oneof=male female other preferNotToSay"`
	HeightCM            float64   `json:"height,omitempty" validate:"omitempty,gt=50,lt=280"`
	WeightKG            float64   `json:"weight,omitempty" validate:"omitempty,gt=20,lt=400"`
	ActivityLevel       string    `json:"activity_level,omitempty" validate:"omitempty,oneof=sedentary light moderate veryActive"`
	DietType            string    `json:"diet_type,omitempty" validate:"omitempty,oneof=noRestrictions vegetarian vegan keto paleo"`
	Allergies           []string  `json:"allergies" validate:"max=6,dive,oneof=gluten nuts soy dairy shellfish eggs"`
	MealsPerDay         int       `json:"meals_per_day,omitempty" validate:"omitempty,min=2,max=6"`
	MealPrepFrequency   string    `json:"meal_prep_frequency,omitempty" validate:"omitempty,oneof=weekly sometimes never"`
	CookingTimePerDay   int       `json:"cooking_time_per_day,omitempty" validate:"omitempty,oneof=15 30 45 60"`
	WeeklyGroceryBudget int       `json:"weekly_grocery_budget,omitempty" validate:"omitempty,oneof=25 75 125 200"`
	BudgetPriority      string    `json:"budget_priority,omitempty" validate:"omitempty,oneof=costFocused balanced qualityFocused"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// GetPreferencesResponse is returned by GET /v1/preferences.
type GetPreferencesResponse struct {
	Preferences Preferences `json:"preferences"`
	IsSet       bool        `json:"is_set"`
}

// Validate validates the preference record.
func (p *Preferences) Validate() error {
	return validation.Struct(p)
}

// Taste extracts the fields the recipe catalog ranks by.
func (p Preferences) Taste() catalog.Taste {
	return catalog.Taste{
		DietType:          p.DietType,
		Allergies:         append([]string(nil), p.Allergies...),
		CookingTimePerDay: p.CookingTimePerDay,
	}
}

// HasBodyMetrics reports whether age, height and weight are all known.
func (p Preferences) HasBodyMetrics() bool {
	return p.Age > 0 && p.HeightCM > 0 && p.WeightKG > 0
}
