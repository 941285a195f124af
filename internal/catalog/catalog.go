// Package catalog serves the static recipe catalog and its browse filters.
package catalog

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

const (
	DietAll        = "all"
	DietVegan      = "vegan"
	DietVegetarian = "vegetarian"
	DietKeto       = "keto"
	DietPaleo      = "paleo"

	TimeAll    = "all"
	TimeQuick  = "quick"
	TimeMedium = "medium"
	TimeLong   = "long"

	CategoryMeat       = "Meat"
	CategoryVegetables = "Vegetables"
	CategoryFruits     = "Fruits"
	CategoryGrains     = "Grains"
	CategoryDairy      = "Dairy"
	CategoryOther      = "Other"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// Categories lists shopping categories in display order.
var Categories = []string{CategoryMeat, CategoryVegetables, CategoryFruits, CategoryGrains, CategoryDairy, CategoryOther}

// Query filters the catalog. Empty fields match everything.
type Query struct {
	Search string
	Diet   string
	Time   string
}

// Taste is the slice of onboarding preferences that affects recommendations.
type Taste struct {
	DietType          string
	Allergies         []string
	CookingTimePerDay int
}

// All returns a copy of every catalog recipe in id order.
func All() []Recipe {
	out := make([]Recipe, len(recipes))
	for i, r := range recipes {
		out[i] = r.clone()
	}
	return out
}

// ByID looks up a recipe.
func ByID(id int) (Recipe, error) {
	for _, r := range recipes {
		if r.ID == id {
			return r.clone(), nil
		}
	}
	return Recipe{}, ErrRecipeNotFound
}

// Filter applies name search, diet and prep-time filters.
func Filter(q Query) []Recipe {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	diet := strings.ToLower(strings.TrimSpace(q.Diet))
	timeCat := strings.ToLower(strings.TrimSpace(q.Time))

	result := []Recipe{}
	for _, r := range recipes {
		if search != "" && !strings.Contains(strings.ToLower(r.Name), search) {
			continue
		}
		if diet != "" && diet != DietAll && r.Diet != diet {
			continue
		}
		if timeCat != "" && timeCat != TimeAll && TimeCategoryFor(PrepMinutes(r.PrepTime)) != timeCat {
			continue
		}
		result = append(result, r.clone())
	}
	return result
}

// Recommend drops recipes that clash with the diet or allergies and ranks the rest:
// exact diet matches first, then recipes that fit the daily cooking time.
func Recommend(t Taste) []Recipe {
	allergies := make(map[string]bool, len(t.Allergies))
	for _, a := range t.Allergies {
		allergies[strings.ToLower(strings.TrimSpace(a))] = true
	}

	var result []Recipe
	for _, r := range recipes {
		if !dietAllows(t.DietType, r.Diet) {
			continue
		}
		if hasAllergen(r, allergies) {
			continue
		}
		result = append(result, r.clone())
	}

	score := func(r Recipe) int {
		s := 0
		if r.Diet == strings.ToLower(t.DietType) {
			s += 2
		}
		if t.CookingTimePerDay > 0 && PrepMinutes(r.PrepTime) <= t.CookingTimePerDay {
			s++
		}
		return s
	}
	sort.SliceStable(result, func(i, j int) bool {
		return score(result[i]) > score(result[j])
	})
	return result
}

// PrepMinutes extracts the leading number of a label like "25 mins".
func PrepMinutes(label string) int {
	digits := strings.TrimLeftFunc(label, unicode.IsSpace)
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(digits[:end])
	if err != nil {
		return 0
	}
	return n
}

// TimeCategoryFor buckets prep minutes: quick <= 15, medium 16-30, long > 30.
func TimeCategoryFor(minutes int) string {
	switch {
	case minutes <= 15:
		return TimeQuick
	case minutes <= 30:
		return TimeMedium
	default:
		return TimeLong
	}
}

// CategoryFor returns the shopping category of an ingredient name.
func CategoryFor(ingredient string) string {
	if c, ok := ingredientCategories[strings.ToLower(strings.TrimSpace(ingredient))]; ok {
		return c
	}
	return CategoryOther
}

// IsDiet reports whether d is a known diet filter value.
func IsDiet(d string) bool {
	switch d {
	case DietAll, DietVegan, DietVegetarian, DietKeto, DietPaleo:
		return true
	}
	return false
}

func dietAllows(preference, recipeDiet string) bool {
	switch strings.ToLower(preference) {
	case DietVegan:
		return recipeDiet == DietVegan
	case DietVegetarian:
		return recipeDiet == DietVegetarian || recipeDiet == DietVegan
	case DietKeto, DietPaleo:
		return recipeDiet == strings.ToLower(preference)
	default:
		return true
	}
}

func hasAllergen(r Recipe, allergies map[string]bool) bool {
	for _, a := range r.Allergens {
		if allergies[a] {
			return true
		}
	}
	return false
}

func (r Recipe) clone() Recipe {
	r.Ingredients = append([]string(nil), r.Ingredients...)
	r.Allergens = append([]string(nil), r.Allergens...)
	return r
}
