package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/fdg312/meal-planner/internal/nutrition"
	"github.com/fdg312/meal-planner/internal/shopping"
	"github.com/fdg312/meal-planner/internal/weekdates"
)

// Source provides the planner data a report is built from.
type Source interface {
	WeeklyReport(ctx context.Context, ownerUserID string, ref time.Time) (nutrition.WeeklyReport, error)
	WeekShopping(ctx context.Context, ownerUserID string, ref time.Time) ([]shopping.Item, []shopping.Extra, error)
}

// Generator renders weekly nutrition and shopping reports as PDF or CSV.
type Generator struct {
	source    Source
	weekStart time.Weekday
}

// NewGenerator creates a new report generator.
func NewGenerator(source Source, weekStart time.Weekday) *Generator {
	return &Generator{source: source, weekStart: weekStart}
}

// Generate builds the report file of kind for the week containing ref.
func (g *Generator) Generate(ctx context.Context, ownerUserID, kind, format string, ref time.Time) ([]byte, string, string, error) {
	keys := weekdates.WeekKeys(ref, g.weekStart)
	from, to := keys[0], keys[len(keys)-1]

	switch kind {
	case KindNutrition:
		report, err := g.source.WeeklyReport(ctx, ownerUserID, ref)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to load weekly nutrition: %w", err)
		}
		var data []byte
		if format == FormatCSV {
			data, err = NutritionCSV(report)
		} else {
			data, err = NutritionPDF(report)
		}
		return data, from, to, err

	case KindShopping:
		items, extras, err := g.source.WeekShopping(ctx, ownerUserID, ref)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to load shopping list: %w", err)
		}
		var data []byte
		if format == FormatCSV {
			data, err = ShoppingCSV(items, extras)
		} else {
			data, err = ShoppingPDF(from, to, items, extras)
		}
		return data, from, to, err
	}
	return nil, "", "", fmt.Errorf("unsupported report kind: %s", kind)
}

// NutritionCSV writes one row per day followed by total, average and goal rows.
func NutritionCSV(r nutrition.WeeklyReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{{"date", "meals", "calories", "protein_g", "carbs_g", "fat_g", "fiber_g"}}
	for _, d := range r.Week.Days {
		rows = append(rows, totalsRow(d.Date, strconv.Itoa(d.Meals), d.Totals))
	}
	rows = append(rows,
		totalsRow("total", "", r.Week.Total),
		totalsRow("average", strconv.Itoa(r.ActiveDays), r.Average),
		[]string{"goal", "",
			formatNumber(r.Calories.Goal), formatNumber(r.Protein.Goal),
			formatNumber(r.Carbs.Goal), formatNumber(r.Fat.Goal), ""},
	)

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func totalsRow(label, meals string, t nutrition.Totals) []string {
	return []string{
		label,
		meals,
		strconv.Itoa(t.Calories),
		formatNumber(t.Protein),
		formatNumber(t.Carbs),
		formatNumber(t.Fat),
		formatNumber(t.Fiber),
	}
}

// ShoppingCSV writes derived items first and manual items after them.
func ShoppingCSV(items []shopping.Item, extras []shopping.Extra) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{{"category", "item", "quantity", "unit", "recipes", "checked"}}
	for _, it := range items {
		rows = append(rows, []string{
			it.Category, it.Name, formatNumber(it.Quantity), it.Unit,
			strings.Join(it.Recipes, "; "), strconv.FormatBool(it.Checked),
		})
	}
	for _, e := range extras {
		rows = append(rows, []string{
			e.Category, e.Name, formatNumber(e.Quantity), e.Unit,
			"", strconv.FormatBool(e.Checked),
		})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// NutritionPDF renders averages against goals and a per-day table.
func NutritionPDF(r nutrition.WeeklyReport) ([]byte, error) {
	pdf, tr := newDocument()

	heading(pdf, tr, "Weekly Nutrition Report")
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Week: %s - %s", weekdates.DisplayKey(r.WeekStart), weekdates.DisplayKey(r.WeekEnd))))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Averages vs goals")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Days with meals: %d", r.ActiveDays)))
	pdf.Ln(6)
	for _, line := range []struct {
		label string
		unit  string
		p     nutrition.Progress
	}{
		{"Calories", "kcal", r.Calories},
		{"Protein", "g", r.Protein},
		{"Carbs", "g", r.Carbs},
		{"Fat", "g", r.Fat},
	} {
		pdf.Cell(0, 6, tr(fmt.Sprintf("%s: %s / %s %s (%d%%, %s)",
			line.label, formatNumber(line.p.Average), formatNumber(line.p.Goal), line.unit, line.p.Percent, line.p.Status)))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Daily totals")
	pdf.Ln(8)

	widths := []float64{50, 18, 24, 24, 24, 24, 24}
	header := []string{"Date", "Meals", "Kcal", "Protein", "Carbs", "Fat", "Fiber"}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, d := range r.Week.Days {
		row := []string{
			weekdates.DisplayKey(d.Date),
			strconv.Itoa(d.Meals),
			strconv.Itoa(d.Totals.Calories),
			formatNumber(d.Totals.Protein),
			formatNumber(d.Totals.Carbs),
			formatNumber(d.Totals.Fat),
			formatNumber(d.Totals.Fiber),
		}
		for i, v := range row {
			align := "C"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, tr(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	return output(pdf)
}

// ShoppingPDF renders the list by category with check boxes.
func ShoppingPDF(weekStart, weekEnd string, items []shopping.Item, extras []shopping.Extra) ([]byte, error) {
	pdf, tr := newDocument()

	heading(pdf, tr, "Shopping List")
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Week: %s - %s", weekdates.DisplayKey(weekStart), weekdates.DisplayKey(weekEnd))))
	pdf.Ln(12)

	if len(items) == 0 && len(extras) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.Cell(0, 8, "No meals planned for this week.")
		pdf.Ln(8)
	}

	for _, group := range shopping.GroupByCategory(items) {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, tr(group.Category))
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		for _, it := range group.Items {
			checkLine(pdf, tr, it.Checked, fmt.Sprintf("%s - %s %s", it.Name, formatNumber(it.Quantity), it.Unit),
				strings.Join(it.Recipes, ", "))
		}
		pdf.Ln(3)
	}

	if len(extras) > 0 {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, "Other items")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		for _, e := range extras {
			checkLine(pdf, tr, e.Checked, fmt.Sprintf("%s - %s %s", e.Name, formatNumber(e.Quantity), e.Unit), e.Category)
		}
	}

	return output(pdf)
}

// newDocument uses the core Arial font; tr maps UTF-8 text onto cp1252.
func newDocument() (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Meal Planner", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func heading(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(10)
}

func checkLine(pdf *gofpdf.Fpdf, tr func(string) string, checked bool, text, note string) {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	pdf.CellFormat(10, 6, box, "", 0, "L", false, 0, "")
	pdf.CellFormat(90, 6, tr(text), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 6, tr(note), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// formatNumber drops a trailing ".0": 12 -> "12", 12.5 -> "12.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
