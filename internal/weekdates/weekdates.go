// Package weekdates computes week windows and the two date encodings used by the
// planner: ISO keys for lookups and long-form strings for display.
package weekdates

import (
	"fmt"
	"strings"
	"time"
)

const (
	// KeyLayout is the canonical date key format (YYYY-MM-DD).
	KeyLayout     = "2006-01-02"
	displayLayout = "Monday, January 2, 2006"

	DaysPerWeek = 7
)

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekStart returns midnight of the first day of the 7-day window containing ref.
func WeekStart(ref time.Time, firstDay time.Weekday) time.Time {
	day := Midnight(ref)
	back := (int(day.Weekday()) - int(firstDay) + DaysPerWeek) % DaysPerWeek
	return day.AddDate(0, 0, -back)
}

// WeekDates returns the seven consecutive dates of the window containing ref.
func WeekDates(ref time.Time, firstDay time.Weekday) []time.Time {
	start := WeekStart(ref, firstDay)
	dates := make([]time.Time, DaysPerWeek)
	for i := range dates {
		// AddDate keeps month/year boundaries and DST days correct.
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// WeekKeys is WeekDates encoded with FormatKey.
func WeekKeys(ref time.Time, firstDay time.Weekday) []string {
	dates := WeekDates(ref, firstDay)
	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = FormatKey(d)
	}
	return keys
}

// ShiftWeeks moves ref by n whole weeks (negative n goes back).
func ShiftWeeks(ref time.Time, n int) time.Time {
	return ref.AddDate(0, 0, n*DaysPerWeek)
}

// FormatKey renders t as a plan key, e.g. "2023-04-10".
func FormatKey(t time.Time) string {
	return t.Format(KeyLayout)
}

// FormatDisplay renders t for people, e.g. "Monday, April 10, 2023".
func FormatDisplay(t time.Time) string {
	return t.Format(displayLayout)
}

// ParseKey parses a YYYY-MM-DD key as a UTC date.
func ParseKey(key string) (time.Time, error) {
	t, err := time.Parse(KeyLayout, strings.TrimSpace(key))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", key)
	}
	return t, nil
}

// DisplayKey formats a plan key for display, falling back to the raw key when it
// does not parse.
func DisplayKey(key string) string {
	t, err := ParseKey(key)
	if err != nil {
		return key
	}
	return FormatDisplay(t)
}

// ParseWeekday accepts English weekday names ("monday", "Sun") case-insensitively.
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return time.Monday, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, true
		}
	}
	return time.Monday, false
}
