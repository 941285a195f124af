package shopping

import (
	"reflect"
	"testing"
	"time"

	"github.com/fdg312/meal-planner/internal/catalog"
	"github.com/fdg312/meal-planner/internal/mealplans"
)

func recipe(name string, servings int, ingredients ...mealplans.Ingredient) mealplans.RecipeInstance {
	return mealplans.RecipeInstance{ID: name, Name: name, Servings: servings, Ingredients: ingredients}
}

func ing(name string, qty float64, unit string) mealplans.Ingredient {
	return mealplans.Ingredient{Name: name, Quantity: mealplans.Amount(qty), Unit: unit}
}

var week = []string{"2023-04-10", "2023-04-11", "2023-04-12", "2023-04-13", "2023-04-14", "2023-04-15", "2023-04-16"}

func TestGenerateMergesSharedIngredient(t *testing.T) {
	p := mealplans.Plan{
		"2023-04-10": {mealplans.Breakfast: {recipe("Omelette", 1, ing("Eggs", 2, "pcs"))}},
		"2023-04-11": {mealplans.Lunch: {recipe("Egg Muffins", 1, ing("eggs", 3, "pcs"))}},
	}

	items := Generate(p, WholeWeek(week))
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %+v", items)
	}
	got := items[0]
	if got.Key != "eggs" || got.Name != "Eggs" || got.Quantity != 5 || got.Unit != "pcs" {
		t.Errorf("unexpected item: %+v", got)
	}
	if !reflect.DeepEqual(got.Recipes, []string{"Omelette", "Egg Muffins"}) {
		t.Errorf("unexpected recipes: %v", got.Recipes)
	}
	if got.Category != catalog.CategoryDairy {
		t.Errorf("expected catalog category for eggs, got %s", got.Category)
	}
}

func TestGenerateBareNamesAndServings(t *testing.T) {
	p := mealplans.Plan{
		"2023-04-10": {
			mealplans.Dinner: {
				recipe("Stir Fry", 2, mealplans.Ingredient{Name: "Tofu"}),
				recipe("Stir Fry", 1, mealplans.Ingredient{Name: "Tofu"}),
			},
		},
	}

	items := Generate(p, SingleDay("2023-04-10"))
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Quantity != 3 || items[0].Unit != DefaultUnit {
		t.Errorf("unexpected item: %+v", items[0])
	}
	if len(items[0].Recipes) != 1 {
		t.Errorf("recipe names must be listed once, got %v", items[0].Recipes)
	}
}

func TestGenerateOrderFollowsDatesAndMealTypes(t *testing.T) {
	p := mealplans.Plan{
		"2023-04-11": {mealplans.Breakfast: {recipe("B", 1, ing("Oats", 1, ""))}},
		"2023-04-10": {
			mealplans.Snacks:    {recipe("S", 1, ing("Dates", 1, ""))},
			mealplans.Breakfast: {recipe("A", 1, ing("Bread", 1, ""))},
		},
	}

	items := Generate(p, WholeWeek(week))
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	if !reflect.DeepEqual(names, []string{"Bread", "Dates", "Oats"}) {
		t.Errorf("unexpected order: %v", names)
	}
}

func TestGenerateSingleDayFilter(t *testing.T) {
	p := mealplans.Plan{
		"2023-04-10": {mealplans.Lunch: {recipe("A", 1, ing("Rice", 1, "cup"))}},
		"2023-04-11": {mealplans.Lunch: {recipe("B", 1, ing("Beans", 1, "cup"))}},
	}
	items := Generate(p, SingleDay("2023-04-11"))
	if len(items) != 1 || items[0].Key != "beans" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestGenerateEmptyAndIdempotent(t *testing.T) {
	if items := Generate(mealplans.Plan{}, WholeWeek(week)); items == nil || len(items) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", items)
	}

	p := mealplans.Plan{
		"2023-04-10": {mealplans.Lunch: {recipe("A", 1, ing("Rice", 1, "cup"), ing("Beans", 2, "cup"))}},
	}
	first := Generate(p, WholeWeek(week))
	second := Generate(p, WholeWeek(week))
	if !reflect.DeepEqual(first, second) {
		t.Error("generate must be deterministic")
	}
}

func TestSortMostUsedIsStable(t *testing.T) {
	items := []Item{
		{Key: "a", Quantity: 1},
		{Key: "b", Quantity: 3},
		{Key: "c", Quantity: 1},
		{Key: "d", Quantity: 3},
	}
	got := SortMostUsed(items)

	var keys []string
	for _, it := range got {
		keys = append(keys, it.Key)
	}
	if !reflect.DeepEqual(keys, []string{"b", "d", "a", "c"}) {
		t.Errorf("unexpected order: %v", keys)
	}
	if items[0].Key != "a" {
		t.Error("input must not be reordered")
	}
}

func TestApplyAndPrune(t *testing.T) {
	items := []Item{{Key: "eggs"}, {Key: "milk"}}
	checked := map[string]bool{"eggs": true, "flour": true, "extra:1": true}

	applied := Apply(items, checked)
	if !applied[0].Checked || applied[1].Checked {
		t.Errorf("unexpected checks: %+v", applied)
	}

	pruned := Prune(checked, items, []Extra{{ID: "1"}})
	if !reflect.DeepEqual(pruned, map[string]bool{"eggs": true, "extra:1": true}) {
		t.Errorf("unexpected pruned map: %v", pruned)
	}
}

func TestGroupByCategory(t *testing.T) {
	items := []Item{
		{Key: "milk", Category: catalog.CategoryDairy},
		{Key: "salmon", Category: catalog.CategoryMeat},
		{Key: "salt", Category: "Spices"},
		{Key: "cheese", Category: catalog.CategoryDairy},
	}

	groups := GroupByCategory(items)
	var cats []string
	for _, g := range groups {
		cats = append(cats, g.Category)
	}
	if !reflect.DeepEqual(cats, []string{catalog.CategoryMeat, catalog.CategoryDairy, catalog.CategoryOther}) {
		t.Errorf("unexpected categories: %v", cats)
	}
	if len(groups[1].Items) != 2 || groups[1].Items[0].Key != "milk" {
		t.Errorf("unexpected dairy group: %+v", groups[1])
	}
}

func TestExtras(t *testing.T) {
	req := AddExtraRequest{Name: "  Paper towels "}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := NewExtra(req, "x1", time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC))
	if e.Name != "Paper towels" || e.Quantity != 1 || e.Unit != DefaultUnit || e.Category != catalog.CategoryOther {
		t.Errorf("unexpected extra: %+v", e)
	}

	bad := AddExtraRequest{Name: "Milk", Category: "Snacks"}
	if err := bad.Validate(); err == nil {
		t.Error("expected category validation error")
	}

	applied := ApplyExtras([]Extra{e}, map[string]bool{"extra:x1": true})
	if !applied[0].Checked {
		t.Error("expected extra to be checked")
	}

	rest, found := RemoveExtra([]Extra{e}, "x1")
	if !found || len(rest) != 0 {
		t.Errorf("unexpected remove result: %v %v", rest, found)
	}
}
