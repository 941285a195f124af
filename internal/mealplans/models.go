package mealplans

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MealType is one of the four fixed meal slots of a day.
type MealType string

const (
	Breakfast MealType = "Breakfast"
	Lunch     MealType = "Lunch"
	Dinner    MealType = "Dinner"
	Snacks    MealType = "Snacks"
)

// MealTypes lists meal types in display order.
var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snacks}

// ParseMealType accepts any casing and the singular "snack".
func ParseMealType(s string) (MealType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "breakfast":
		return Breakfast, nil
	case "lunch":
		return Lunch, nil
	case "dinner":
		return Dinner, nil
	case "snack", "snacks":
		return Snacks, nil
	}
	return "", fmt.Errorf("invalid meal_type %q, expected Breakfast, Lunch, Dinner or Snacks", s)
}

// Order returns the 1-based position of the meal type in a day, 0 if unknown.
func (m MealType) Order() int {
	for i, t := range MealTypes {
		if t == m {
			return i + 1
		}
	}
	return 0
}

// Amount is a gram or unit quantity. It decodes from JSON numbers and from
// strings with a unit suffix such as "12g"; anything unparseable becomes 0.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount(lenientNumber(data))
	return nil
}

// Kcal is a calorie count decoded with the same rules as Amount, rounded.
type Kcal int

func (k *Kcal) UnmarshalJSON(data []byte) error {
	*k = Kcal(math.Round(lenientNumber(data)))
	return nil
}

// ParseAmount extracts the leading number from labels like "12g" or "1.5 cups".
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		if c == '-' && end == 0 {
			end++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func lenientNumber(data []byte) float64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0
		}
		return ParseAmount(s)
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return 0
	}
	return f
}

// Nutrition is the per-serving macro breakdown in grams.
type Nutrition struct {
	Protein Amount `json:"protein"`
	Carbs   Amount `json:"carbs"`
	Fat     Amount `json:"fat"`
	Fiber   Amount `json:"fiber"`
}

// Ingredient is one line of a recipe. Quantity 0 means "not specified".
type Ingredient struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Quantity Amount `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

// UnmarshalJSON accepts either a bare ingredient name or an object.
func (in *Ingredient) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*in = Ingredient{Name: name}
		return nil
	}

	type plain Ingredient
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*in = Ingredient(p)
	return nil
}

// RecipeInstance is a catalog recipe placed into a slot.
type RecipeInstance struct {
	ID          string       `json:"id"`
	RecipeID    int          `json:"recipe_id"`
	Name        string       `json:"name"`
	Image       string       `json:"image,omitempty"`
	Calories    Kcal         `json:"calories"`
	Nutrition   Nutrition    `json:"nutrition"`
	PrepTime    string       `json:"prep_time,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	AddedAt     time.Time    `json:"added_at"`
	Servings    int          `json:"servings"`
}

// ServingCount is the instance's multiplier; stored values below 1 count as 1.
func (r RecipeInstance) ServingCount() int {
	if r.Servings < 1 {
		return 1
	}
	return r.Servings
}

func (r RecipeInstance) clone() RecipeInstance {
	c := r
	if r.Ingredients != nil {
		c.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	}
	return c
}

// Plan maps ISO date keys to meal types to the slot's instances.
// A date or meal type is present only while its list is non-empty.
type Plan map[string]map[MealType][]RecipeInstance

// Slot addresses one (date, meal type) cell of the plan.
type Slot struct {
	Date     string   `json:"date"`
	MealType MealType `json:"meal_type"`
}

// Group is a run of same-name instances in a slot, shown as "Nx".
type Group struct {
	Name      string           `json:"name"`
	Servings  int              `json:"servings"`
	Instances []RecipeInstance `json:"instances"`
}

// Clone returns a deep copy of the plan.
func (p Plan) Clone() Plan {
	out := make(Plan, len(p))
	for date, meals := range p {
		m := make(map[MealType][]RecipeInstance, len(meals))
		for mt, list := range meals {
			cp := make([]RecipeInstance, len(list))
			for i, inst := range list {
				cp[i] = inst.clone()
			}
			m[mt] = cp
		}
		out[date] = m
	}
	return out
}

// Slot returns the instances in a cell, or nil when it is empty.
func (p Plan) Slot(dateKey string, mealType MealType) []RecipeInstance {
	return p[dateKey][mealType]
}

// Dates returns the plan's date keys in ascending order.
func (p Plan) Dates() []string {
	dates := make([]string, 0, len(p))
	for d := range p {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// IsEmpty reports whether the plan holds no instances.
func (p Plan) IsEmpty() bool {
	return len(p) == 0
}
