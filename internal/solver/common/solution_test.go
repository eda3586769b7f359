package common_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/solver/common"
)

func newProblem() *model.Problem {
	morning := model.NewShiftTemplate(1, "Morning", 8*60, 16*60, 1, 2)
	night := model.NewShiftTemplate(2, "Night", 22*60, 6*60, 1, 1)
	p := &model.Problem{
		Employees: []model.Employee{
			{ID: 1, Name: "Alice", WeeklyHoursCap: 40, AbsenceDates: map[model.Date]struct{}{}, PreferredShifts: map[model.ShiftID]struct{}{1: {}}},
			{ID: 2, Name: "Bob", WeeklyHoursCap: 40, AbsenceDates: map[model.Date]struct{}{}, PreferredShifts: map[model.ShiftID]struct{}{}},
		},
		Shifts:  []model.ShiftTemplate{morning, night},
		Horizon: model.NewPlanningHorizon(model.NewDate(2026, time.March, 2), model.NewDate(2026, time.March, 8)),
		Policy:  model.CompanyPolicy{WorkweekSize: 5},
	}
	p.Index()
	return p
}

func TestWorkingSlots_OneEntryPerWorkingDayShiftPair(t *testing.T) {
	p := newProblem()
	slots, err := common.WorkingSlots(p)
	require.NoError(t, err)
	// Mon-Sat (Sunday excluded by policy, no holidays this week) x 2 shifts = 12 slots.
	assert.Len(t, slots, 12)
}

func TestSolution_CloneIsIndependent(t *testing.T) {
	sol := common.Solution{
		{Date: model.NewDate(2026, time.March, 2), ShiftID: 1}: {1, 2},
	}
	clone := sol.Clone()
	clone[common.SlotKey{Date: model.NewDate(2026, time.March, 2), ShiftID: 1}][0] = 99
	assert.Equal(t, model.EmployeeID(1), sol[common.SlotKey{Date: model.NewDate(2026, time.March, 2), ShiftID: 1}][0])
}

func TestSolution_ToSchedule_StableOrder(t *testing.T) {
	day := model.NewDate(2026, time.March, 2)
	sol := common.Solution{
		{Date: day, ShiftID: 2}: {2},
		{Date: day, ShiftID: 1}: {1},
	}
	schedule := sol.ToSchedule()
	require.Len(t, schedule.Entries, 2)
	assert.Equal(t, model.ShiftID(1), schedule.Entries[0].ShiftID)
	assert.Equal(t, model.ShiftID(2), schedule.Entries[1].ShiftID)
}

func TestIsEligible_RejectsWeeklyOverrun(t *testing.T) {
	p := newProblem()
	p.Employees[0].WeeklyHoursCap = 8
	sol := common.Solution{
		{Date: model.NewDate(2026, time.March, 2), ShiftID: 1}: {1},
	}
	eligible, err := common.IsEligible(sol, &p.Employees[0], model.NewDate(2026, time.March, 3), 1, p, p.Policy)
	require.NoError(t, err)
	assert.False(t, eligible)
}

func TestIsEligible_RejectsDoubleBookingSameDay(t *testing.T) {
	p := newProblem()
	sol := common.Solution{
		{Date: model.NewDate(2026, time.March, 2), ShiftID: 1}: {1},
	}
	eligible, err := common.IsEligible(sol, &p.Employees[0], model.NewDate(2026, time.March, 2), 2, p, p.Policy)
	require.NoError(t, err)
	assert.False(t, eligible)
}

func TestIsEligible_RejectsRestViolation(t *testing.T) {
	p := newProblem()
	day1 := model.NewDate(2026, time.March, 2)
	day2 := day1.AddDays(1)
	// Night shift 22:00-06:00 on day1 ends at 06:00 day2; Morning shift
	// 08:00 day2 only gives a 2-hour gap.
	sol := common.Solution{
		{Date: day1, ShiftID: 2}: {1},
	}
	eligible, err := common.IsEligible(sol, &p.Employees[0], day2, 1, p, p.Policy)
	require.NoError(t, err)
	assert.False(t, eligible)
}

func TestCreatesRestViolation_ShortGapAgainstPriorDayIsViolation(t *testing.T) {
	p := newProblem()
	day1 := model.NewDate(2026, time.March, 2)
	day2 := day1.AddDays(1)
	sol := common.Solution{
		{Date: day1, ShiftID: 2}: {1}, // night 22:00-06:00, ends 06:00 on day2
	}
	// Morning shift on day2 starts 08:00, only a 2-hour gap after the night shift ends.
	assert.True(t, common.CreatesRestViolation(sol, 1, day2, 1, p))
}

func TestCreatesRestViolation_NoPriorAssignmentIsFine(t *testing.T) {
	p := newProblem()
	day := model.NewDate(2026, time.March, 2)
	assert.False(t, common.CreatesRestViolation(common.Solution{}, 1, day, 1, p))
}

func TestCandidates_PreferredEmployeeRanksFirst(t *testing.T) {
	p := newProblem()
	day := model.NewDate(2026, time.March, 2)
	candidates, err := common.Candidates(common.Solution{}, day, 1, p, p.Policy)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, model.EmployeeID(1), candidates[0].ID) // Alice prefers shift 1
}

func TestWeeklyHoursSoFar_SumsAcrossSlots(t *testing.T) {
	p := newProblem()
	day := model.NewDate(2026, time.March, 2)
	sol := common.Solution{
		{Date: day, ShiftID: 1}: {1},
	}
	hours := common.WeeklyHoursSoFar(sol, 1, day, p)
	assert.Equal(t, 8.0, hours)
}
