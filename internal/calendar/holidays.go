package calendar

import (
	"time"

	"github.com/pguetschow/rostercore/internal/model"
)

// builtinHolidays hand-curates three years: 2024, 2025, and 2026. Any other
// year fails fast with InvalidInput unless the caller's
// CompanyPolicy.HolidayTable supplies an explicit entry for it — no silent
// guessing past the curated years.
//
// Dates follow a nationwide-holiday set, including a Gauss Easter-Sunday
// computation for the movable feasts, reduced to a single fixed calendar
// rather than a per-state table since this core has no locale dimension.
var builtinHolidays = buildBuiltinHolidays()

func buildBuiltinHolidays() map[int]map[model.MonthDay]string {
	table := make(map[int]map[model.MonthDay]string, 3)
	for _, year := range []int{2024, 2025, 2026} {
		table[year] = yearHolidays(year)
	}
	return table
}

func yearHolidays(year int) map[model.MonthDay]string {
	easter := easterSunday(year)
	add := func(m map[model.MonthDay]string, date time.Time, name string) {
		m[model.MonthDay{Month: date.Month(), Day: date.Day()}] = name
	}
	fixed := func(m map[model.MonthDay]string, month time.Month, day int, name string) {
		m[model.MonthDay{Month: month, Day: day}] = name
	}

	out := make(map[model.MonthDay]string, 9)
	fixed(out, time.January, 1, "New Year's Day")
	add(out, easter.AddDate(0, 0, -2), "Good Friday")
	add(out, easter.AddDate(0, 0, 1), "Easter Monday")
	fixed(out, time.May, 1, "Labour Day")
	add(out, easter.AddDate(0, 0, 39), "Ascension Day")
	add(out, easter.AddDate(0, 0, 50), "Whit Monday")
	fixed(out, time.October, 3, "Unity Day")
	fixed(out, time.December, 25, "Christmas Day")
	fixed(out, time.December, 26, "Boxing Day")
	return out
}

// easterSunday computes the Gregorian Easter Sunday date for a given year
// using the standard Gauss algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
