package problem_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/obslog"
	"github.com/pguetschow/rostercore/internal/problem"
	"github.com/pguetschow/rostercore/internal/rostererr"
)

func validProblem() model.Problem {
	morning := model.NewShiftTemplate(1, "Morning", 8*60, 16*60, 1, 2)
	return model.Problem{
		Employees: []model.Employee{
			{ID: 1, Name: "Alice", WeeklyHoursCap: 40, AbsenceDates: map[model.Date]struct{}{}, PreferredShifts: map[model.ShiftID]struct{}{}},
			{ID: 2, Name: "Bob", WeeklyHoursCap: 40, AbsenceDates: map[model.Date]struct{}{}, PreferredShifts: map[model.ShiftID]struct{}{}},
		},
		Shifts:    []model.ShiftTemplate{morning},
		Horizon:   model.NewPlanningHorizon(model.NewDate(2026, time.March, 2), model.NewDate(2026, time.March, 8)),
		Policy:    model.CompanyPolicy{WorkweekSize: 5},
		Algorithm: model.AlgorithmSA,
		Config:    model.DefaultConfig(),
	}
}

func TestSolve_RejectsEmptyEmployees(t *testing.T) {
	p := validProblem()
	p.Employees = nil
	_, err := problem.Solve(&p, obslog.Discard())
	requireInvalidField(t, err, "employees")
}

func TestSolve_RejectsEmptyShifts(t *testing.T) {
	p := validProblem()
	p.Shifts = nil
	_, err := problem.Solve(&p, obslog.Discard())
	requireInvalidField(t, err, "shifts")
}

func TestSolve_RejectsEndBeforeStart(t *testing.T) {
	p := validProblem()
	p.Horizon = model.NewPlanningHorizon(model.NewDate(2026, time.March, 8), model.NewDate(2026, time.March, 2))
	_, err := problem.Solve(&p, obslog.Discard())
	requireInvalidField(t, err, "end_date")
}

func TestSolve_RejectsNonMultipleOf8WeeklyCap(t *testing.T) {
	p := validProblem()
	p.Employees[0].WeeklyHoursCap = 37
	_, err := problem.Solve(&p, obslog.Discard())
	requireInvalidField(t, err, "weekly_hours_cap")
}

func TestSolve_RejectsNegativeWeeklyCap(t *testing.T) {
	p := validProblem()
	p.Employees[0].WeeklyHoursCap = -8
	_, err := problem.Solve(&p, obslog.Discard())
	requireInvalidField(t, err, "weekly_hours_cap")
}

func TestSolve_RejectsMinStaffExceedingMaxStaff(t *testing.T) {
	p := validProblem()
	p.Shifts[0].MinStaff = 5
	_, err := problem.Solve(&p, obslog.Discard())
	requireInvalidField(t, err, "min_staff")
}

func TestSolve_RejectsNegativeMinStaff(t *testing.T) {
	p := validProblem()
	p.Shifts[0].MinStaff = -1
	_, err := problem.Solve(&p, obslog.Discard())
	requireInvalidField(t, err, "min_staff")
}

func TestSolve_RejectsZeroDurationShift(t *testing.T) {
	p := validProblem()
	p.Shifts[0].DurationHours = p.Shifts[0].DurationHours.Sub(p.Shifts[0].DurationHours) // force zero
	_, err := problem.Solve(&p, obslog.Discard())
	requireInvalidField(t, err, "shift_duration")
}

func TestSolve_RejectsUnknownAlgorithm(t *testing.T) {
	p := validProblem()
	p.Algorithm = "QUANTUM"
	_, err := problem.Solve(&p, obslog.Discard())
	requireInvalidField(t, err, "algorithm")
}

func TestSolve_StampsRunID(t *testing.T) {
	p := validProblem()
	p.Config.SA.MaxIters = 5
	result, err := problem.Solve(&p, obslog.Discard())
	require.NoError(t, err)
	runID, ok := result.Diagnostics["run_id"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, runID)
}

func requireInvalidField(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	rerr, ok := err.(*rostererr.Error)
	require.True(t, ok, "expected *rostererr.Error, got %T", err)
	assert.Equal(t, rostererr.KindInvalidInput, rerr.Kind)
	assert.Equal(t, field, rerr.Field)
}
