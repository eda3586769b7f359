package kpi

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pguetschow/rostercore/internal/calendar"
	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/rostererr"
)

func monthRange(year int, month time.Month) model.DateRange {
	first := model.NewDate(year, month, 1)
	last := model.NewDate(year, month+1, 0)
	return model.DateRange{Start: first, End: last}
}

// EmployeeStatisticsFor computes one employee's statistics record for
// (year, month).
func EmployeeStatisticsFor(schedule model.Schedule, problem *model.Problem, empID model.EmployeeID, year int, month time.Month, policy model.CompanyPolicy) (EmployeeStatistics, error) {
	emp, ok := problem.EmployeeByID(empID)
	if !ok {
		return EmployeeStatistics{}, rostererr.InvalidInput("employee_id", "unknown employee id")
	}

	r := monthRange(year, month)
	hoursByEmp := EmployeeHours(schedule, problem, r)
	hoursWorked := hoursByEmp[empID]

	expectedInt, err := calendar.ExpectedMonthHours(emp, year, month, policy)
	if err != nil {
		return EmployeeStatistics{}, err
	}
	expected := decimal.NewFromInt(int64(expectedInt))

	overtime := decimal.Zero
	undertime := decimal.Zero
	if hoursWorked.GreaterThan(expected) {
		overtime = hoursWorked.Sub(expected)
	} else {
		undertime = expected.Sub(hoursWorked)
	}

	absenceDays := 0
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		if emp.IsAbsent(d) {
			absenceDays++
		}
	}

	return EmployeeStatistics{
		EmployeeID:     empID,
		Year:           year,
		Month:          int(month),
		HoursWorked:    hoursWorked,
		ExpectedHours:  expected,
		OvertimeHours:  overtime,
		UndertimeHours: undertime,
		UtilizationPct: Utilization(hoursWorked, expected),
		AbsenceDays:    absenceDays,
	}, nil
}

// CompanyAnalyticsFor aggregates employee-hours fairness and totals for
// (year, month) across every employee in problem.
func CompanyAnalyticsFor(schedule model.Schedule, problem *model.Problem, year int, month time.Month) CompanyAnalytics {
	r := monthRange(year, month)
	hoursByEmp := EmployeeHours(schedule, problem, r)

	empIDs := make([]model.EmployeeID, 0, len(problem.Employees))
	for _, e := range problem.Employees {
		empIDs = append(empIDs, e.ID)
	}
	sort.Slice(empIDs, func(i, j int) bool { return empIDs[i] < empIDs[j] })

	values := make([]decimal.Decimal, 0, len(empIDs))
	for _, id := range empIDs {
		values = append(values, hoursByEmp[id])
	}

	n := decimal.NewFromInt(int64(len(values)))
	total := decimal.Zero
	minVal, maxVal := decimal.Zero, decimal.Zero
	for i, v := range values {
		total = total.Add(v)
		if i == 0 || v.LessThan(minVal) {
			minVal = v
		}
		if i == 0 || v.GreaterThan(maxVal) {
			maxVal = v
		}
	}

	mean := decimal.Zero
	if n.GreaterThan(decimal.Zero) {
		mean = total.Div(n)
	}

	variance := decimal.Zero
	if n.GreaterThan(decimal.Zero) {
		sumSq := decimal.Zero
		for _, v := range values {
			diff := v.Sub(mean)
			sumSq = sumSq.Add(diff.Mul(diff))
		}
		variance = sumSq.Div(n)
	}
	stdDev := sqrtDecimal(variance)

	cv := decimal.Zero
	if mean.GreaterThan(decimal.Zero) {
		cv = stdDev.Div(mean).Mul(hundred)
	}

	return CompanyAnalytics{
		Year:                   year,
		Month:                  int(month),
		TotalHours:             total,
		MeanHours:              mean,
		StdDevHours:            stdDev,
		CoefficientOfVariation: cv,
		Gini:                   Gini(values),
		JainIndex:              JainIndex(values),
		MinHours:               minVal,
		MaxHours:               maxVal,
	}
}
