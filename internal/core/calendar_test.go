package core

import (
	"testing"
	"time"
)

func TestDaysOfMonth(t *testing.T) {
	cal := DefaultCalendar()
	cases := []struct {
		year, month, days int
	}{
		{2024, 2, 29}, // leap year
		{2023, 2, 28},
		{2024, 1, 31},
		{2024, 4, 30},
		{2024, 12, 31},
	}
	for _, tc := range cases {
		got := cal.DaysOfMonth(tc.year, tc.month)
		if len(got) != tc.days {
			t.Fatalf("%d-%02d: got %d days, want %d", tc.year, tc.month, len(got), tc.days)
		}
		for i, d := range got {
			if d.Year() != tc.year || int(d.Month()) != tc.month {
				t.Fatalf("%d-%02d: day %d outside month: %v", tc.year, tc.month, i, d)
			}
			if d.Day() != i+1 {
				t.Fatalf("%d-%02d: days out of order at index %d: %v", tc.year, tc.month, i, d)
			}
		}
	}
}

func TestDefaultUnits(t *testing.T) {
	cal := DefaultCalendar()
	cases := []struct {
		date string
		want string
	}{
		{"2024-02-01", "1"}, // Thursday
		{"2024-02-03", "0"}, // Saturday
		{"2024-02-04", "0"}, // Sunday
		{"2024-07-14", "0"}, // Bastille Day (a Sunday too)
		{"2024-12-25", "0"}, // Christmas, a Wednesday
		{"2024-05-01", "0"}, // Labour Day
		{"2024-05-02", "1"},
		{"2025-11-11", "0"}, // Armistice Day
	}
	for _, tc := range cases {
		d, err := time.Parse(DayFormat, tc.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := cal.DefaultUnits(d); got != tc.want {
			t.Errorf("DefaultUnits(%s) = %q, want %q", tc.date, got, tc.want)
		}
		wantZero := cal.IsWeekend(d) || cal.IsFixedHoliday(d)
		if (tc.want == "0") != wantZero {
			t.Errorf("%s: default %q inconsistent with weekend/holiday=%v", tc.date, tc.want, wantZero)
		}
	}
}

func TestCalendarCustomHolidays(t *testing.T) {
	cal := NewCalendar([]string{"06-02"}, FrenchWeekdayNames, FrenchMonthNames)
	d := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC) // a Monday
	if !cal.IsFixedHoliday(d) {
		t.Fatal("expected configured holiday to match")
	}
	if cal.DefaultUnits(d) != "0" {
		t.Fatal("holiday should default to 0 units")
	}
	if DefaultCalendar().IsFixedHoliday(d) {
		t.Fatal("default calendar should not know 06-02")
	}
}

func TestLocalizedNames(t *testing.T) {
	cal := DefaultCalendar()
	d := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if got := cal.WeekdayName(d); got != "jeudi" {
		t.Errorf("WeekdayName = %q, want jeudi", got)
	}
	if got := cal.MonthTitle(Period{Month: 2, Year: 2024}); got != "février 2024" {
		t.Errorf("MonthTitle = %q", got)
	}
}
