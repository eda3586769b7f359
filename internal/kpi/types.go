// Package kpi implements the deterministic KPI/fairness evaluator: pure
// functions over (Schedule, Problem, CompanyPolicy) producing hours,
// utilization, violation, and fairness reports. No function here holds
// state between calls — repeated evaluation of the same inputs reproduces
// every field bit-for-bit. Every hours/fairness quantity is a
// decimal.Decimal rather than float64, so summing in a different order
// never perturbs the result.
package kpi

import (
	"github.com/shopspring/decimal"

	"github.com/pguetschow/rostercore/internal/model"
)

// WeeklyViolation records one employee-week whose worked hours exceeded the
// tolerance limit used for reporting (not a feasibility constraint).
type WeeklyViolation struct {
	EmployeeID  model.EmployeeID
	ISOYear     int
	ISOWeek     int
	ActualHours decimal.Decimal
	LimitHours  decimal.Decimal
	ExcessHours decimal.Decimal
}

// RestViolation records one pair of consecutive-day entries for the same
// employee whose real-world gap fell under the 11-hour rest requirement.
type RestViolation struct {
	EmployeeID    model.EmployeeID
	FirstDate     model.Date
	SecondDate    model.Date
	FirstShiftID  model.ShiftID
	SecondShiftID model.ShiftID
	GapHours      decimal.Decimal
}

// CoverageStatus classifies a shift's average staffing against its bounds.
type CoverageStatus string

const (
	CoverageUnderstaffed CoverageStatus = "understaffed"
	CoverageOptimal      CoverageStatus = "optimal"
	CoverageOverstaffed  CoverageStatus = "overstaffed"
)

// ShiftCoverage reports one shift's average staffing over a range.
type ShiftCoverage struct {
	ShiftID     model.ShiftID
	AvgStaff    decimal.Decimal
	CoveragePct decimal.Decimal
	Status      CoverageStatus
}

// EmployeeStatistics bundles one employee's hours/expected/overtime metrics
// for a single month.
type EmployeeStatistics struct {
	EmployeeID     model.EmployeeID
	Year           int
	Month          int
	HoursWorked    decimal.Decimal
	ExpectedHours  decimal.Decimal
	OvertimeHours  decimal.Decimal
	UndertimeHours decimal.Decimal
	UtilizationPct decimal.Decimal
	AbsenceDays    int
}

// CompanyAnalytics aggregates company-wide fairness and totals for one
// (year, month).
type CompanyAnalytics struct {
	Year                   int
	Month                  int
	TotalHours             decimal.Decimal
	MeanHours              decimal.Decimal
	StdDevHours            decimal.Decimal
	CoefficientOfVariation decimal.Decimal
	Gini                   decimal.Decimal
	JainIndex              decimal.Decimal
	MinHours               decimal.Decimal
	MaxHours               decimal.Decimal
}
