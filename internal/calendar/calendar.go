// Package calendar implements working-day classification, holiday tables,
// and the expected-hours formulas that feed both the KPI evaluator and the
// ILP's monthly/yearly constraints.
//
// Every function here is a pure computation over (Date, CompanyPolicy) or
// (Employee, Date, CompanyPolicy) — no hidden state.
package calendar

import (
	"math"
	"time"

	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/rostererr"
)

// weekdayIndex returns a Monday=0..Sunday=6 index, since workweek-size
// reasoning is naturally Monday-first rather than Go's Sunday=0.
func weekdayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// IsHoliday reports whether date falls on a holiday for its year, consulting
// the policy's explicit HolidayTable first and falling back to the built-in
// 2024-2026 tables. Years outside both fail fast.
func IsHoliday(date model.Date, policy model.CompanyPolicy) (bool, error) {
	if policy.HolidayTable != nil {
		if table, ok := policy.HolidayTable[date.Year]; ok {
			_, isHoliday := table[date.MonthDay()]
			return isHoliday, nil
		}
	}
	table, ok := builtinHolidays[date.Year]
	if !ok {
		return false, rostererr.InvalidInput("year", "no holiday table for year outside 2024-2026; supply policy.HolidayTable")
	}
	_, isHoliday := table[date.MonthDay()]
	return isHoliday, nil
}

// IsNonWorking reports whether date is a holiday, or a Sunday when the
// policy marks Sundays off.
func IsNonWorking(date model.Date, policy model.CompanyPolicy) (bool, error) {
	holiday, err := IsHoliday(date, policy)
	if err != nil {
		return false, err
	}
	if holiday {
		return true, nil
	}
	if date.Weekday() == time.Sunday && !policy.SundayIsWorkday {
		return true, nil
	}
	return false, nil
}

// WorkingDays returns every date in r that is not non-working, in order.
func WorkingDays(r model.DateRange, policy model.CompanyPolicy) ([]model.Date, error) {
	dates := r.Dates()
	out := make([]model.Date, 0, len(dates))
	for _, d := range dates {
		nonWorking, err := IsNonWorking(d, policy)
		if err != nil {
			return nil, err
		}
		if !nonWorking {
			out = append(out, d)
		}
	}
	return out, nil
}

// IsBlocked reports whether employee cannot be assigned on date: the date
// is non-working company-wide, is one of the policy's ExtraBlockedDates, or
// the employee is individually absent.
func IsBlocked(emp *model.Employee, date model.Date, policy model.CompanyPolicy) (bool, error) {
	nonWorking, err := IsNonWorking(date, policy)
	if err != nil {
		return false, err
	}
	if nonWorking {
		return true, nil
	}
	if _, blocked := policy.ExtraBlockedDates[date]; blocked {
		return true, nil
	}
	return emp.IsAbsent(date), nil
}

// ISOWeekGroups buckets a horizon's dates by (iso_year, iso_week).
func ISOWeekGroups(horizon model.PlanningHorizon) map[model.ISOWeekKey][]model.Date {
	groups := make(map[model.ISOWeekKey][]model.Date)
	for _, d := range horizon.Dates() {
		year, week := d.ISOWeek()
		key := model.ISOWeekKey{Year: year, Week: week}
		groups[key] = append(groups[key], d)
	}
	return groups
}

// workweekDays returns the set of weekday indices (Monday=0) that make up
// the company's contractual workweek, used only by ExpectedMonthHours'
// workday count — distinct from IsNonWorking's broader Sunday-policy check.
func workweekDays(policy model.CompanyPolicy) map[int]struct{} {
	size := policy.WorkweekSize
	if size <= 0 || size > 7 {
		size = 5
	}
	days := make(map[int]struct{}, size)
	for i := 0; i < size; i++ {
		days[i] = struct{}{}
	}
	return days
}

// workdaysInMonth counts dates in (year, month) whose weekday falls in the
// company workweek and which are not non-working.
func workdaysInMonth(year int, month time.Month, policy model.CompanyPolicy) (int, error) {
	workweek := workweekDays(policy)
	first := model.NewDate(year, month, 1)
	last := model.NewDate(year, month+1, 0) // day 0 of next month = last day of this month
	count := 0
	for d := first; !d.After(last); d = d.AddDays(1) {
		if _, inWorkweek := workweek[weekdayIndex(d.Weekday())]; !inWorkweek {
			continue
		}
		nonWorking, err := IsNonWorking(d, policy)
		if err != nil {
			return 0, err
		}
		if !nonWorking {
			count++
		}
	}
	return count, nil
}

// ExpectedMonthHours computes the contractual hours an employee is expected
// to work in (year, month) after deducting holidays, non-workweek days, and
// the employee's own absences that fall on company working days that month.
func ExpectedMonthHours(emp *model.Employee, year int, month time.Month, policy model.CompanyPolicy) (int, error) {
	if emp.WeeklyHoursCap%8 != 0 {
		return 0, rostererr.InvalidInput("weekly_hours_cap", "must be a multiple of 8")
	}
	shiftsPerWeek := emp.WeeklyHoursCap / 8

	workweekSize := policy.WorkweekSize
	if workweekSize <= 0 || workweekSize > 7 {
		workweekSize = 5
	}

	workdays, err := workdaysInMonth(year, month, policy)
	if err != nil {
		return 0, err
	}

	first := model.NewDate(year, month, 1)
	last := model.NewDate(year, month+1, 0)
	workweek := workweekDays(policy)
	absencesThisMonth := 0
	for d := first; !d.After(last); d = d.AddDays(1) {
		if !emp.IsAbsent(d) {
			continue
		}
		if _, inWorkweek := workweek[weekdayIndex(d.Weekday())]; !inWorkweek {
			continue
		}
		nonWorking, err := IsNonWorking(d, policy)
		if err != nil {
			return 0, err
		}
		if !nonWorking {
			absencesThisMonth++
		}
	}

	expectedShiftsRaw := float64(workdays) * float64(shiftsPerWeek) / float64(workweekSize)
	expectedShifts := math.Round(expectedShiftsRaw) - float64(absencesThisMonth)
	expectedHours := expectedShifts * 8
	expectedHours = math.Round(expectedHours/8) * 8
	if expectedHours < 0 {
		expectedHours = 0
	}
	return int(expectedHours), nil
}

// ExpectedYearHours sums the twelve monthly values for year.
func ExpectedYearHours(emp *model.Employee, year int, policy model.CompanyPolicy) (int, error) {
	total := 0
	for m := time.January; m <= time.December; m++ {
		monthHours, err := ExpectedMonthHours(emp, year, m, policy)
		if err != nil {
			return 0, err
		}
		total += monthHours
	}
	return total, nil
}
