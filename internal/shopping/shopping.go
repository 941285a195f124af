// Package shopping derives a grocery list from a meal plan.
package shopping

import (
	"math"
	"sort"
	"strings"

	"github.com/fdg312/meal-planner/internal/catalog"
	"github.com/fdg312/meal-planner/internal/mealplans"
)

// DefaultUnit is used for ingredients listed without a unit.
const DefaultUnit = "unit"

// Item is one deduplicated ingredient line.
type Item struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	Category string   `json:"category"`
	Recipes  []string `json:"recipes"`
	Checked  bool     `json:"checked"`
}

// Filter selects the dates whose slots feed the list, in iteration order.
type Filter struct {
	Dates []string
}

// WholeWeek covers every date of a week window.
func WholeWeek(dateKeys []string) Filter {
	return Filter{Dates: append([]string(nil), dateKeys...)}
}

// SingleDay covers one date.
func SingleDay(dateKey string) Filter {
	return Filter{Dates: []string{dateKey}}
}

// Key normalises an ingredient name into a list key.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Generate folds every ingredient of the matched slots into one item per
// lowercased name. Dates follow the filter, meal types their fixed order and
// instances their slot order; the result keeps first-encounter order.
func Generate(p mealplans.Plan, f Filter) []Item {
	items := []Item{}
	index := make(map[string]int)

	for _, date := range f.Dates {
		for _, mt := range mealplans.MealTypes {
			for _, inst := range p.Slot(date, mt) {
				servings := float64(inst.ServingCount())
				for _, ing := range inst.Ingredients {
					key := Key(ing.Name)
					if key == "" {
						continue
					}
					qty := float64(ing.Quantity)
					if qty <= 0 {
						qty = 1
					}
					qty *= servings

					i, ok := index[key]
					if !ok {
						unit := ing.Unit
						if unit == "" {
							unit = DefaultUnit
						}
						category := ing.Category
						if category == "" {
							category = catalog.CategoryFor(ing.Name)
						}
						index[key] = len(items)
						items = append(items, Item{
							Key:      key,
							Name:     strings.TrimSpace(ing.Name),
							Quantity: round2(qty),
							Unit:     unit,
							Category: category,
							Recipes:  []string{inst.Name},
						})
						continue
					}

					items[i].Quantity = round2(items[i].Quantity + qty)
					if !contains(items[i].Recipes, inst.Name) {
						items[i].Recipes = append(items[i].Recipes, inst.Name)
					}
				}
			}
		}
	}
	return items
}

// SortMostUsed returns a copy ordered by quantity descending; ties keep
// first-encounter order.
func SortMostUsed(items []Item) []Item {
	out := append([]Item(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity > out[j].Quantity
	})
	return out
}

// Apply joins check marks onto a freshly generated list.
func Apply(items []Item, checked map[string]bool) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		it.Checked = checked[it.Key]
		out[i] = it
	}
	return out
}

// Prune keeps only marks whose key is still present in items or extras.
func Prune(checked map[string]bool, items []Item, extras []Extra) map[string]bool {
	live := make(map[string]bool, len(items)+len(extras))
	for _, it := range items {
		live[it.Key] = true
	}
	for _, e := range extras {
		live[e.Key()] = true
	}

	out := make(map[string]bool)
	for k, v := range checked {
		if v && live[k] {
			out[k] = true
		}
	}
	return out
}

// CategoryGroup is one section of the list.
type CategoryGroup struct {
	Category string `json:"category"`
	Items    []Item `json:"items"`
}

// GroupByCategory splits items into sections in catalog.Categories order,
// skipping empty ones. Unknown categories land in Other.
func GroupByCategory(items []Item) []CategoryGroup {
	byCat := make(map[string][]Item)
	for _, it := range items {
		cat := it.Category
		if !knownCategory(cat) {
			cat = catalog.CategoryOther
		}
		byCat[cat] = append(byCat[cat], it)
	}

	groups := []CategoryGroup{}
	for _, cat := range catalog.Categories {
		if len(byCat[cat]) == 0 {
			continue
		}
		groups = append(groups, CategoryGroup{Category: cat, Items: byCat[cat]})
	}
	return groups
}

func knownCategory(cat string) bool {
	for _, c := range catalog.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
