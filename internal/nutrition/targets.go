package nutrition

import (
	"math"
	"time"

	"github.com/fdg312/meal-planner/internal/foodprefs"
	"github.com/fdg312/meal-planner/internal/validation"
)

const (
	SourceDefault     = "default"
	SourcePreferences = "preferences"
	SourceCustom      = "custom"
)

// Targets are daily nutrition goals.
type Targets struct {
	CaloriesKcal int       `json:"calories_kcal" validate:"min=800,max=6000"`
	ProteinG     int       `json:"protein_g" validate:"min=0,max=400"`
	FatG         int       `json:"fat_g" validate:"min=0,max=400"`
	CarbsG       int       `json:"carbs_g" validate:"min=0,max=800"`
	FiberG       int       `json:"fiber_g" validate:"min=0,max=150"`
	Source       string    `json:"source"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// GetTargetsResponse contains targets and a flag indicating if they were never set.
type GetTargetsResponse struct {
	Targets   Targets `json:"targets"`
	IsDefault bool    `json:"is_default"`
}

// UpsertTargetsRequest is the request body for PUT /v1/nutrition/targets.
type UpsertTargetsRequest struct {
	CaloriesKcal int `json:"calories_kcal" validate:"min=800,max=6000"`
	ProteinG     int `json:"protein_g" validate:"min=0,max=400"`
	FatG         int `json:"fat_g" validate:"min=0,max=400"`
	CarbsG       int `json:"carbs_g" validate:"min=0,max=800"`
	FiberG       int `json:"fiber_g" validate:"min=0,max=150"`
}

// Validate validates the upsert request.
func (r *UpsertTargetsRequest) Validate() error {
	return validation.Struct(r)
}

// DefaultTargets returns reasonable default nutrition targets.
func DefaultTargets() Targets {
	return Targets{
		CaloriesKcal: 2200,
		ProteinG:     120,
		FatG:         70,
		CarbsG:       250,
		FiberG:       30,
		Source:       SourceDefault,
	}
}

// activityMultipliers maps onboarding activity levels to TDEE multipliers.
var activityMultipliers = map[string]float64{
	"sedentary":  1.2,
	"light":      1.375,
	"moderate":   1.55,
	"veryActive": 1.725,
}

// goalAdjustments shifts TDEE by goal, in kcal.
var goalAdjustments = map[string]float64{
	foodprefs.GoalWeightLoss: -500,
	foodprefs.GoalMuscleGain: 300,
}

// TargetsFromPreferences derives goals from body metrics with the
// Mifflin-St Jeor BMR. ok=false when age, height or weight is missing.
func TargetsFromPreferences(p foodprefs.Preferences) (Targets, bool) {
	if !p.HasBodyMetrics() {
		return Targets{}, false
	}

	bmr := 10*p.WeightKG + 6.25*p.HeightCM - 5*float64(p.Age)
	switch p.Gender {
	case "male":
		bmr += 5
	case "female":
		bmr -= 161
	default:
		bmr -= 78
	}

	mult, found := activityMultipliers[p.ActivityLevel]
	if !found {
		mult = activityMultipliers["sedentary"]
	}

	kcal := bmr*mult + goalAdjustments[p.Goal]
	if kcal < 1200 {
		kcal = 1200
	}

	proteinPerKg := 1.6
	if p.Goal == foodprefs.GoalMuscleGain {
		proteinPerKg = 2.0
	}
	protein := p.WeightKG * proteinPerKg
	fat := kcal * 0.30 / 9
	carbs := (kcal - protein*4 - fat*9) / 4
	if carbs < 0 {
		carbs = 0
	}

	return Targets{
		CaloriesKcal: int(math.Round(kcal)),
		ProteinG:     int(math.Round(protein)),
		FatG:         int(math.Round(fat)),
		CarbsG:       int(math.Round(carbs)),
		FiberG:       int(math.Round(kcal / 1000 * 14)),
		Source:       SourcePreferences,
	}, true
}
