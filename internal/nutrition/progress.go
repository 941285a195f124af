package nutrition

import "math"

const (
	StatusGreen  = "green"
	StatusYellow = "yellow"
	StatusRed    = "red"
)

// Progress compares an average against its goal.
type Progress struct {
	Average float64 `json:"average"`
	Goal    float64 `json:"goal"`
	Percent int     `json:"percent"`
	Status  string  `json:"status"`
}

// NewProgress computes percent of goal: >=100 green, >=80 yellow, else red.
// A zero goal reports 0 percent.
func NewProgress(average, goal float64) Progress {
	p := Progress{Average: round1(average), Goal: goal}
	if goal > 0 {
		p.Percent = int(math.Round(average / goal * 100))
	}
	switch {
	case p.Percent >= 100:
		p.Status = StatusGreen
	case p.Percent >= 80:
		p.Status = StatusYellow
	default:
		p.Status = StatusRed
	}
	return p
}

// WeeklyReport is the averages-versus-goals view of one week.
type WeeklyReport struct {
	WeekStart  string     `json:"week_start"`
	WeekEnd    string     `json:"week_end"`
	Week       WeekTotals `json:"week"`
	ActiveDays int        `json:"active_days"`
	Average    Totals     `json:"average"`
	Calories   Progress   `json:"calories"`
	Protein    Progress   `json:"protein"`
	Carbs      Progress   `json:"carbs"`
	Fat        Progress   `json:"fat"`
}

// BuildWeeklyReport averages over days that have at least one meal, so an
// empty day does not drag the averages down.
func BuildWeeklyReport(week WeekTotals, targets Targets) WeeklyReport {
	r := WeeklyReport{Week: week}
	if len(week.Days) > 0 {
		r.WeekStart = week.Days[0].Date
		r.WeekEnd = week.Days[len(week.Days)-1].Date
	}

	var sum Totals
	for _, d := range week.Days {
		if d.Meals == 0 {
			continue
		}
		r.ActiveDays++
		sum = sum.add(d.Totals)
	}

	if r.ActiveDays > 0 {
		n := float64(r.ActiveDays)
		r.Average = Totals{
			Calories: int(math.Round(float64(sum.Calories) / n)),
			Protein:  sum.Protein / n,
			Carbs:    sum.Carbs / n,
			Fat:      sum.Fat / n,
			Fiber:    sum.Fiber / n,
		}.rounded()
	}

	r.Calories = NewProgress(float64(r.Average.Calories), float64(targets.CaloriesKcal))
	r.Protein = NewProgress(r.Average.Protein, float64(targets.ProteinG))
	r.Carbs = NewProgress(r.Average.Carbs, float64(targets.CarbsG))
	r.Fat = NewProgress(r.Average.Fat, float64(targets.FatG))
	return r
}
