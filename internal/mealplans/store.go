package mealplans

import (
	"time"

	"github.com/fdg312/meal-planner/internal/catalog"
)

// NewInstance turns a catalog recipe into a plan instance. Nutrition strings such
// as "12g" are parsed here once so the rest of the engine only sees numbers.
func NewInstance(r catalog.Recipe, id string, now time.Time) RecipeInstance {
	ingredients := make([]Ingredient, 0, len(r.Ingredients))
	for _, name := range r.Ingredients {
		ingredients = append(ingredients, Ingredient{
			Name:     name,
			Category: catalog.CategoryFor(name),
		})
	}

	return RecipeInstance{
		ID:       id,
		RecipeID: r.ID,
		Name:     r.Name,
		Image:    r.Image,
		Calories: Kcal(r.Calories),
		Nutrition: Nutrition{
			Protein: Amount(ParseAmount(r.Nutrition.Protein)),
			Carbs:   Amount(ParseAmount(r.Nutrition.Carbs)),
			Fat:     Amount(ParseAmount(r.Nutrition.Fat)),
			Fiber:   Amount(ParseAmount(r.Nutrition.Fiber)),
		},
		PrepTime:    r.PrepTime,
		Ingredients: ingredients,
		AddedAt:     now.UTC(),
		Servings:    1,
	}
}

// AddRecipe appends inst to the slot with servings reset to 1.
// Adding the same recipe twice yields two entries.
func AddRecipe(p Plan, dateKey string, mealType MealType, inst RecipeInstance) Plan {
	out := p.Clone()
	inst = inst.clone()
	inst.Servings = 1
	appendTo(out, dateKey, mealType, inst)
	return out
}

// RemoveRecipe removes one serving from the named group: the group's last
// instance loses a serving and is dropped when none remain. The removed
// serving is returned for undo. Unknown slots or names leave the plan as is.
func RemoveRecipe(p Plan, dateKey string, mealType MealType, name string) (Plan, []RecipeInstance) {
	list := p.Slot(dateKey, mealType)
	idx := lastIndexOf(list, name)
	if idx < 0 {
		return p, nil
	}

	out := p.Clone()
	list = out[dateKey][mealType]
	target := list[idx]

	if target.ServingCount() > 1 {
		list[idx].Servings = target.ServingCount() - 1
		removed := target.clone()
		removed.Servings = 1
		return out, []RecipeInstance{removed}
	}

	out[dateKey][mealType] = append(list[:idx:idx], list[idx+1:]...)
	prune(out, dateKey, mealType)
	return out, []RecipeInstance{target}
}

// RemoveGroup removes every instance sharing name from the slot.
func RemoveGroup(p Plan, dateKey string, mealType MealType, name string) (Plan, []RecipeInstance) {
	if lastIndexOf(p.Slot(dateKey, mealType), name) < 0 {
		return p, nil
	}

	out := p.Clone()
	var kept, removed []RecipeInstance
	for _, inst := range out[dateKey][mealType] {
		if inst.Name == name {
			removed = append(removed, inst)
			continue
		}
		kept = append(kept, inst)
	}
	out[dateKey][mealType] = kept
	prune(out, dateKey, mealType)
	return out, removed
}

// RemoveInstance removes the instance with the given id.
func RemoveInstance(p Plan, dateKey string, mealType MealType, id string) (Plan, []RecipeInstance) {
	list := p.Slot(dateKey, mealType)
	idx := -1
	for i, inst := range list {
		if inst.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return p, nil
	}

	out := p.Clone()
	list = out[dateKey][mealType]
	removed := list[idx]
	out[dateKey][mealType] = append(list[:idx:idx], list[idx+1:]...)
	prune(out, dateKey, mealType)
	return out, []RecipeInstance{removed}
}

// ChangeServings grows or shrinks the named group by delta servings.
// Growth appends copies of the group's last instance with ids from newID;
// shrinking repeats RemoveRecipe and stops once the group is gone.
// Growing a group that does not exist is a no-op.
func ChangeServings(p Plan, dateKey string, mealType MealType, name string, delta int, newID func() string, now time.Time) (Plan, []RecipeInstance) {
	switch {
	case delta > 0:
		list := p.Slot(dateKey, mealType)
		idx := lastIndexOf(list, name)
		if idx < 0 {
			return p, nil
		}
		out := p.Clone()
		template := list[idx]
		for i := 0; i < delta; i++ {
			inst := template.clone()
			inst.ID = newID()
			inst.AddedAt = now.UTC()
			inst.Servings = 1
			appendTo(out, dateKey, mealType, inst)
		}
		return out, nil

	case delta < 0:
		var removed []RecipeInstance
		out := p
		for i := 0; i < -delta; i++ {
			var r []RecipeInstance
			out, r = RemoveRecipe(out, dateKey, mealType, name)
			if len(r) == 0 {
				break
			}
			removed = append(removed, r...)
		}
		return out, removed
	}
	return p, nil
}

// Restore puts previously removed instances back. A serving taken from an
// instance that is still in the slot is merged into it by id; anything else
// is re-appended as it was.
func Restore(p Plan, dateKey string, mealType MealType, instances []RecipeInstance) Plan {
	if len(instances) == 0 {
		return p
	}
	out := p.Clone()
	for _, inst := range instances {
		list := out.Slot(dateKey, mealType)
		merged := false
		for i := range list {
			if inst.ID != "" && list[i].ID == inst.ID {
				list[i].Servings = list[i].ServingCount() + inst.ServingCount()
				merged = true
				break
			}
		}
		if !merged {
			appendTo(out, dateKey, mealType, inst.clone())
		}
	}
	return out
}

// ClearAll returns an empty plan.
func ClearAll() Plan {
	return Plan{}
}

// Groups folds a slot's instances into serving groups in first-encounter order.
func Groups(instances []RecipeInstance) []Group {
	groups := []Group{}
	index := make(map[string]int)
	for _, inst := range instances {
		i, ok := index[inst.Name]
		if !ok {
			i = len(groups)
			index[inst.Name] = i
			groups = append(groups, Group{Name: inst.Name})
		}
		groups[i].Servings += inst.ServingCount()
		groups[i].Instances = append(groups[i].Instances, inst)
	}
	return groups
}

// ServingCount returns the size of the named group in a slot, 0 if absent.
func ServingCount(p Plan, dateKey string, mealType MealType, name string) int {
	n := 0
	for _, inst := range p.Slot(dateKey, mealType) {
		if inst.Name == name {
			n += inst.ServingCount()
		}
	}
	return n
}

// Normalize drops empty containers and unknown meal types from a decoded plan.
func Normalize(p Plan) Plan {
	if p == nil {
		return Plan{}
	}
	out := p.Clone()
	for date, meals := range out {
		for mt := range meals {
			if mt.Order() == 0 {
				delete(meals, mt)
				continue
			}
			prune(out, date, mt)
		}
		if len(meals) == 0 {
			delete(out, date)
		}
	}
	return out
}

func appendTo(p Plan, dateKey string, mealType MealType, inst RecipeInstance) {
	meals, ok := p[dateKey]
	if !ok {
		meals = make(map[MealType][]RecipeInstance)
		p[dateKey] = meals
	}
	meals[mealType] = append(meals[mealType], inst)
}

func lastIndexOf(list []RecipeInstance, name string) int {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Name == name {
			return i
		}
	}
	return -1
}

// prune deletes the slot when empty and the date when it has no slots left.
func prune(p Plan, dateKey string, mealType MealType) {
	meals, ok := p[dateKey]
	if !ok {
		return
	}
	if len(meals[mealType]) == 0 {
		delete(meals, mealType)
	}
	if len(meals) == 0 {
		delete(p, dateKey)
	}
}
