package core

import (
	"fmt"
	"time"
)

// FrenchHolidays are the fixed public holidays observed by default.
// Movable holidays (Easter-linked) are deliberately not modeled.
var FrenchHolidays = []string{
	"01-01", // Jour de l'an
	"05-01", // Fête du travail
	"05-08", // Victoire 1945
	"07-14", // Fête nationale
	"08-15", // Assomption
	"11-01", // Toussaint
	"11-11", // Armistice 1918
	"12-25", // Noël
}

// FrenchWeekdayNames is indexed by time.Weekday (Sunday first).
var FrenchWeekdayNames = [7]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}

// FrenchMonthNames is indexed by month-1.
var FrenchMonthNames = [12]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// Calendar provides month iteration, working-day defaults and localized
// display names. Locale tables and the holiday list are injected so tests
// can run against alternate configurations.
type Calendar struct {
	weekdayNames [7]string
	monthNames   [12]string
	holidays     map[string]bool
}

// NewCalendar builds a calendar over the given fixed-holiday list
// (entries in "MM-DD" form) and locale name tables.
func NewCalendar(holidays []string, weekdayNames [7]string, monthNames [12]string) *Calendar {
	set := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		set[h] = true
	}
	return &Calendar{
		weekdayNames: weekdayNames,
		monthNames:   monthNames,
		holidays:     set,
	}
}

// DefaultCalendar returns the French calendar used by the report UI.
func DefaultCalendar() *Calendar {
	return NewCalendar(FrenchHolidays, FrenchWeekdayNames, FrenchMonthNames)
}

// DaysOfMonth returns every calendar day of the given month in ascending
// order, from the first to the last day inclusive.
func (c *Calendar) DaysOfMonth(year, month int) []time.Time {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := first.AddDate(0, 1, 0)

	days := make([]time.Time, 0, 31)
	for d := first; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func (c *Calendar) IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsFixedHoliday reports whether t's month-day matches a configured holiday.
func (c *Calendar) IsFixedHoliday(t time.Time) bool {
	return c.holidays[t.Format("01-02")]
}

// DefaultUnits returns the default worked units for a day as canonical
// numeric text: "0" for weekends and fixed holidays, "1" otherwise.
func (c *Calendar) DefaultUnits(t time.Time) string {
	if c.IsWeekend(t) || c.IsFixedHoliday(t) {
		return "0"
	}
	return "1"
}

// WeekdayName returns the localized weekday name for t.
func (c *Calendar) WeekdayName(t time.Time) string {
	return c.weekdayNames[int(t.Weekday())]
}

// MonthName returns the localized name of month (1-12).
func (c *Calendar) MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return c.monthNames[month-1]
}

// MonthTitle formats a period heading such as "février 2024".
func (c *Calendar) MonthTitle(p Period) string {
	return fmt.Sprintf("%s %d", c.MonthName(p.Month), p.Year)
}
