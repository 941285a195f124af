package nutrition

import (
	"math"

	"github.com/fdg312/meal-planner/internal/mealplans"
)

// Totals are summed nutrition values; grams are rounded to one decimal.
type Totals struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

func (t Totals) add(o Totals) Totals {
	return Totals{
		Calories: t.Calories + o.Calories,
		Protein:  t.Protein + o.Protein,
		Carbs:    t.Carbs + o.Carbs,
		Fat:      t.Fat + o.Fat,
		Fiber:    t.Fiber + o.Fiber,
	}
}

func (t Totals) rounded() Totals {
	return Totals{
		Calories: t.Calories,
		Protein:  round1(t.Protein),
		Carbs:    round1(t.Carbs),
		Fat:      round1(t.Fat),
		Fiber:    round1(t.Fiber),
	}
}

// DayTotals is one day's entry of a week aggregate.
type DayTotals struct {
	Date   string `json:"date"`
	Meals  int    `json:"meals"`
	Totals Totals `json:"totals"`
}

// WeekTotals holds per-day totals in window order and their sum.
type WeekTotals struct {
	Days  []DayTotals `json:"days"`
	Total Totals      `json:"total"`
}

// DayStats is the dashboard summary of a single day.
type DayStats struct {
	Date       string `json:"date"`
	TotalMeals int    `json:"total_meals"`
	Totals     Totals `json:"totals"`
}

// Aggregate sums calories and macros times servings over every meal type of
// dateKey. A date missing from the plan yields zero totals.
func Aggregate(p mealplans.Plan, dateKey string) Totals {
	var t Totals
	for _, mt := range mealplans.MealTypes {
		for _, inst := range p.Slot(dateKey, mt) {
			n := float64(inst.ServingCount())
			t.Calories += int(inst.Calories) * inst.ServingCount()
			t.Protein += float64(inst.Nutrition.Protein) * n
			t.Carbs += float64(inst.Nutrition.Carbs) * n
			t.Fat += float64(inst.Nutrition.Fat) * n
			t.Fiber += float64(inst.Nutrition.Fiber) * n
		}
	}
	return t.rounded()
}

// AggregateWeek aggregates each date key in order and sums the results.
func AggregateWeek(p mealplans.Plan, dateKeys []string) WeekTotals {
	week := WeekTotals{Days: make([]DayTotals, 0, len(dateKeys))}
	var total Totals
	for _, key := range dateKeys {
		day := Aggregate(p, key)
		week.Days = append(week.Days, DayTotals{Date: key, Meals: mealCount(p, key), Totals: day})
		total = total.add(day)
	}
	week.Total = total.rounded()
	return week
}

// Stats returns the dashboard numbers for dateKey.
func Stats(p mealplans.Plan, dateKey string) DayStats {
	return DayStats{
		Date:       dateKey,
		TotalMeals: mealCount(p, dateKey),
		Totals:     Aggregate(p, dateKey),
	}
}

// mealCount counts servings, so a "2x" group counts twice.
func mealCount(p mealplans.Plan, dateKey string) int {
	n := 0
	for _, mt := range mealplans.MealTypes {
		for _, inst := range p.Slot(dateKey, mt) {
			n += inst.ServingCount()
		}
	}
	return n
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
