package nutrition

import (
	"testing"

	"github.com/fdg312/meal-planner/internal/mealplans"
)

func inst(name string, kcal int, protein float64, servings int) mealplans.RecipeInstance {
	return mealplans.RecipeInstance{
		ID:        name,
		Name:      name,
		Calories:  mealplans.Kcal(kcal),
		Nutrition: mealplans.Nutrition{Protein: mealplans.Amount(protein), Carbs: 10, Fat: 5, Fiber: 1},
		Servings:  servings,
	}
}

func TestAggregateMultipliesServings(t *testing.T) {
	p := mealplans.Plan{
		"2023-04-10": {
			mealplans.Breakfast: {inst("R1", 350, 12, 2)},
			mealplans.Dinner:    {inst("R2", 250, 8, 1)},
		},
	}

	got := Aggregate(p, "2023-04-10")
	if got.Calories != 950 {
		t.Errorf("expected 950 kcal, got %d", got.Calories)
	}
	if got.Protein != 32 || got.Carbs != 30 || got.Fat != 15 || got.Fiber != 3 {
		t.Errorf("unexpected macros: %+v", got)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(mealplans.Plan{}, "2023-04-10"); got != (Totals{}) {
		t.Errorf("expected zero totals, got %+v", got)
	}
}

func TestAggregateWeekSumsDays(t *testing.T) {
	p := mealplans.Plan{
		"2023-04-10": {mealplans.Lunch: {inst("A", 300, 10, 1)}},
		"2023-04-12": {mealplans.Lunch: {inst("B", 200, 5, 3)}},
		"2023-04-20": {mealplans.Lunch: {inst("C", 999, 5, 1)}},
	}
	keys := []string{"2023-04-10", "2023-04-11", "2023-04-12", "2023-04-13", "2023-04-14", "2023-04-15", "2023-04-16"}

	week := AggregateWeek(p, keys)
	if len(week.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(week.Days))
	}
	if week.Total.Calories != 900 {
		t.Errorf("expected 900 kcal, got %d", week.Total.Calories)
	}
	if week.Days[2].Meals != 3 || week.Days[1].Meals != 0 {
		t.Errorf("unexpected meal counts: %+v", week.Days)
	}
}

func TestStats(t *testing.T) {
	p := mealplans.Plan{
		"2023-04-10": {
			mealplans.Breakfast: {inst("A", 100, 1, 1), inst("A", 100, 1, 1)},
			mealplans.Snacks:    {inst("B", 50, 1, 1)},
		},
	}
	stats := Stats(p, "2023-04-10")
	if stats.TotalMeals != 3 || stats.Totals.Calories != 250 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestNewProgress(t *testing.T) {
	tests := []struct {
		avg, goal float64
		percent   int
		status    string
	}{
		{2200, 2200, 100, StatusGreen},
		{1800, 2000, 90, StatusYellow},
		{1600, 2000, 80, StatusYellow},
		{1000, 2000, 50, StatusRed},
		{10, 0, 0, StatusRed},
	}
	for _, tt := range tests {
		got := NewProgress(tt.avg, tt.goal)
		if got.Percent != tt.percent || got.Status != tt.status {
			t.Errorf("NewProgress(%v, %v) = %+v, want %d%% %s", tt.avg, tt.goal, got, tt.percent, tt.status)
		}
	}
}

func TestBuildWeeklyReportAveragesActiveDays(t *testing.T) {
	p := mealplans.Plan{
		"2023-04-10": {mealplans.Lunch: {inst("A", 2000, 100, 1)}},
		"2023-04-11": {mealplans.Lunch: {inst("B", 2400, 140, 1)}},
	}
	keys := []string{"2023-04-10", "2023-04-11", "2023-04-12"}

	r := BuildWeeklyReport(AggregateWeek(p, keys), DefaultTargets())
	if r.ActiveDays != 2 {
		t.Fatalf("expected 2 active days, got %d", r.ActiveDays)
	}
	if r.Average.Calories != 2200 || r.Average.Protein != 120 {
		t.Errorf("unexpected averages: %+v", r.Average)
	}
	if r.Calories.Status != StatusGreen {
		t.Errorf("expected green calories, got %+v", r.Calories)
	}
	if r.WeekStart != "2023-04-10" || r.WeekEnd != "2023-04-12" {
		t.Errorf("unexpected bounds %s..%s", r.WeekStart, r.WeekEnd)
	}
}
