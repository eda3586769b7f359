package kpi

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pguetschow/rostercore/internal/calendar"
	"github.com/pguetschow/rostercore/internal/model"
)

var (
	hundred = decimal.NewFromInt(100)
	sixty   = decimal.NewFromInt(60)
)

// ShiftHoursInRange returns the portion of shift's clock interval on date
// that falls within r, in hours, accounting for midnight wrap.
func ShiftHoursInRange(shift model.ShiftTemplate, date model.Date, r model.DateRange) decimal.Decimal {
	start := shift.StartTime(date)
	end := shift.EndTime(date)

	rangeStart := r.Start.Time()
	rangeEnd := r.End.AddDays(1).Time() // exclusive upper bound, end-of-day

	if end.Before(rangeStart) || !start.Before(rangeEnd) {
		return decimal.Zero
	}
	if start.Before(rangeStart) {
		start = rangeStart
	}
	if end.After(rangeEnd) {
		end = rangeEnd
	}
	minutes := end.Sub(start).Minutes()
	if minutes < 0 {
		minutes = 0
	}
	return decimal.NewFromFloat(minutes).Div(sixty)
}

// EmployeeHours sums every entry's shift duration within r, keyed by
// employee id.
func EmployeeHours(schedule model.Schedule, problem *model.Problem, r model.DateRange) map[model.EmployeeID]decimal.Decimal {
	out := make(map[model.EmployeeID]decimal.Decimal)
	for _, entry := range schedule.Entries {
		if !r.Contains(entry.Date) {
			continue
		}
		shift, ok := problem.ShiftByID(entry.ShiftID)
		if !ok {
			continue
		}
		hours := ShiftHoursInRange(*shift, entry.Date, r)
		out[entry.EmployeeID] = out[entry.EmployeeID].Add(hours)
	}
	return out
}

// WeeklyHours buckets each employee's hours by ISO (year, week) within r.
func WeeklyHours(schedule model.Schedule, problem *model.Problem, r model.DateRange) map[model.EmployeeID]map[model.ISOWeekKey]decimal.Decimal {
	out := make(map[model.EmployeeID]map[model.ISOWeekKey]decimal.Decimal)
	for _, entry := range schedule.Entries {
		if !r.Contains(entry.Date) {
			continue
		}
		shift, ok := problem.ShiftByID(entry.ShiftID)
		if !ok {
			continue
		}
		year, week := entry.Date.ISOWeek()
		key := model.ISOWeekKey{Year: year, Week: week}
		hours := ShiftHoursInRange(*shift, entry.Date, r)

		weeks, ok := out[entry.EmployeeID]
		if !ok {
			weeks = make(map[model.ISOWeekKey]decimal.Decimal)
			out[entry.EmployeeID] = weeks
		}
		weeks[key] = weeks[key].Add(hours)
	}
	return out
}

// weeklyLimit computes the reporting-tolerance ceiling for a weekly cap:
// round(cap*1.15/8)*8 + 2.
func weeklyLimit(cap int) decimal.Decimal {
	raw := decimal.NewFromInt(int64(cap)).Mul(decimal.NewFromFloat(1.15)).Div(decimal.NewFromInt(8))
	rounded := raw.Round(0).Mul(decimal.NewFromInt(8))
	return rounded.Add(decimal.NewFromInt(2))
}

// WeeklyViolations returns every employee-week whose hours exceed the
// reporting-tolerance limit, in stable (employee id, then week) order.
func WeeklyViolations(schedule model.Schedule, problem *model.Problem, r model.DateRange) []WeeklyViolation {
	weekly := WeeklyHours(schedule, problem, r)

	empIDs := make([]model.EmployeeID, 0, len(weekly))
	for id := range weekly {
		empIDs = append(empIDs, id)
	}
	sort.Slice(empIDs, func(i, j int) bool { return empIDs[i] < empIDs[j] })

	var out []WeeklyViolation
	for _, empID := range empIDs {
		emp, ok := problem.EmployeeByID(empID)
		if !ok {
			continue
		}
		limit := weeklyLimit(emp.WeeklyHoursCap)

		weeks := weekly[empID]
		keys := make([]model.ISOWeekKey, 0, len(weeks))
		for k := range weeks {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Year != keys[j].Year {
				return keys[i].Year < keys[j].Year
			}
			return keys[i].Week < keys[j].Week
		})

		for _, key := range keys {
			actual := weeks[key]
			if actual.GreaterThan(limit) {
				out = append(out, WeeklyViolation{
					EmployeeID:  empID,
					ISOYear:     key.Year,
					ISOWeek:     key.Week,
					ActualHours: actual,
					LimitHours:  limit,
					ExcessHours: actual.Sub(limit),
				})
			}
		}
	}
	return out
}

const restRequirementHours = 11

// RestViolations returns every pair of consecutive-day entries for the same
// employee whose real-world gap fell under 11 hours, in stable
// (employee id, then date) order.
func RestViolations(schedule model.Schedule, problem *model.Problem, r model.DateRange) []RestViolation {
	byEmployee := make(map[model.EmployeeID][]model.ScheduleEntry)
	for _, entry := range schedule.Entries {
		if !r.Contains(entry.Date) {
			continue
		}
		byEmployee[entry.EmployeeID] = append(byEmployee[entry.EmployeeID], entry)
	}

	empIDs := make([]model.EmployeeID, 0, len(byEmployee))
	for id := range byEmployee {
		empIDs = append(empIDs, id)
	}
	sort.Slice(empIDs, func(i, j int) bool { return empIDs[i] < empIDs[j] })

	var out []RestViolation
	for _, empID := range empIDs {
		entries := byEmployee[empID]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })

		for i := 0; i+1 < len(entries); i++ {
			first, second := entries[i], entries[i+1]
			if second.Date.AddDays(-1) != first.Date && second.Date != first.Date {
				continue
			}
			firstShift, ok1 := problem.ShiftByID(first.ShiftID)
			secondShift, ok2 := problem.ShiftByID(second.ShiftID)
			if !ok1 || !ok2 {
				continue
			}
			firstEnd := firstShift.EndTime(first.Date)
			secondStart := secondShift.StartTime(second.Date)
			gapHours := decimal.NewFromFloat(secondStart.Sub(firstEnd).Hours())
			if gapHours.LessThan(decimal.NewFromInt(restRequirementHours)) {
				out = append(out, RestViolation{
					EmployeeID:    empID,
					FirstDate:     first.Date,
					SecondDate:    second.Date,
					FirstShiftID:  first.ShiftID,
					SecondShiftID: second.ShiftID,
					GapHours:      gapHours,
				})
			}
		}
	}
	return out
}

// CoverageStats reports, for each shift (in id order), the average staffing
// per working day over r, the coverage percent against max_staff, and a
// status classification.
func CoverageStats(schedule model.Schedule, problem *model.Problem, r model.DateRange, policy model.CompanyPolicy) ([]ShiftCoverage, error) {
	workingDays, err := calendar.WorkingDays(r, policy)
	if err != nil {
		return nil, err
	}
	numDays := decimal.NewFromInt(int64(len(workingDays)))

	staffCount := make(map[model.ShiftID]int)
	for _, entry := range schedule.Entries {
		if !r.Contains(entry.Date) {
			continue
		}
		staffCount[entry.ShiftID]++
	}

	shiftIDs := make([]model.ShiftID, 0, len(problem.Shifts))
	for _, s := range problem.Shifts {
		shiftIDs = append(shiftIDs, s.ID)
	}
	sort.Slice(shiftIDs, func(i, j int) bool { return shiftIDs[i] < shiftIDs[j] })

	out := make([]ShiftCoverage, 0, len(shiftIDs))
	for _, id := range shiftIDs {
		shift, _ := problem.ShiftByID(id)
		var avgStaff decimal.Decimal
		if numDays.GreaterThan(decimal.Zero) {
			avgStaff = decimal.NewFromInt(int64(staffCount[id])).Div(numDays)
		}

		var coveragePct decimal.Decimal
		if shift.MaxStaff > 0 {
			coveragePct = avgStaff.Div(decimal.NewFromInt(int64(shift.MaxStaff))).Mul(hundred)
		}

		status := CoverageOptimal
		avgFloat, _ := avgStaff.Float64()
		switch {
		case avgFloat < float64(shift.MinStaff):
			status = CoverageUnderstaffed
		case avgFloat > float64(shift.MaxStaff):
			status = CoverageOverstaffed
		}

		out = append(out, ShiftCoverage{
			ShiftID:     id,
			AvgStaff:    avgStaff,
			CoveragePct: coveragePct,
			Status:      status,
		})
	}
	return out, nil
}

// Gini computes the classic Gini coefficient of a nonnegative distribution,
// shifting by the minimum when any value is negative. Returns 0 for n <= 1
// or a zero total.
func Gini(values []decimal.Decimal) decimal.Decimal {
	n := len(values)
	if n <= 1 {
		return decimal.Zero
	}

	adjusted := make([]decimal.Decimal, n)
	minVal := values[0]
	for _, v := range values {
		if v.LessThan(minVal) {
			minVal = v
		}
	}
	shift := decimal.Zero
	if minVal.IsNegative() {
		shift = minVal.Neg()
	}
	for i, v := range values {
		adjusted[i] = v.Add(shift)
	}

	sort.Slice(adjusted, func(i, j int) bool { return adjusted[i].LessThan(adjusted[j]) })

	total := decimal.Zero
	for _, v := range adjusted {
		total = total.Add(v)
	}
	if total.IsZero() {
		return decimal.Zero
	}

	weightedSum := decimal.Zero
	for i, v := range adjusted {
		weightedSum = weightedSum.Add(decimal.NewFromInt(int64(i + 1)).Mul(v))
	}
	nDec := decimal.NewFromInt(int64(n))
	numerator := decimal.NewFromInt(2).Mul(weightedSum).Sub(nDec.Add(decimal.NewFromInt(1)).Mul(total))
	return numerator.Div(nDec.Mul(total))
}

// JainIndex computes (Σx)² / (n·Σx²), 0 when Σx² = 0.
func JainIndex(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	sumSquares := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
		sumSquares = sumSquares.Add(v.Mul(v))
	}
	if sumSquares.IsZero() {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(len(values)))
	return sum.Mul(sum).Div(n.Mul(sumSquares))
}

// Utilization returns 100*actual/expected, or 0 when expected <= 0.
func Utilization(actual, expected decimal.Decimal) decimal.Decimal {
	if expected.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return actual.Div(expected).Mul(hundred)
}

// sqrtDecimal approximates a square root via float64; variance/stddev are
// inherently irrational so this is the one place decimal precision yields
// to math.Sqrt.
func sqrtDecimal(d decimal.Decimal) decimal.Decimal {
	f, _ := d.Float64()
	if f < 0 {
		f = 0
	}
	return decimal.NewFromFloat(math.Sqrt(f))
}
