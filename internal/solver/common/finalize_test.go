package common_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/solver/common"
)

// smallProblem builds a single-shift, two-day problem where two employees'
// weekly capacity is never in question, isolating the fill behavior from
// weekly-cap exhaustion.
func smallProblem() *model.Problem {
	morning := model.NewShiftTemplate(1, "Morning", 8*60, 16*60, 1, 2)
	p := &model.Problem{
		Employees: []model.Employee{
			{ID: 1, Name: "Alice", WeeklyHoursCap: 40, AbsenceDates: map[model.Date]struct{}{}, PreferredShifts: map[model.ShiftID]struct{}{}},
			{ID: 2, Name: "Bob", WeeklyHoursCap: 40, AbsenceDates: map[model.Date]struct{}{}, PreferredShifts: map[model.ShiftID]struct{}{}},
		},
		Shifts:  []model.ShiftTemplate{morning},
		Horizon: model.NewPlanningHorizon(model.NewDate(2026, time.March, 2), model.NewDate(2026, time.March, 3)),
		Policy:  model.CompanyPolicy{WorkweekSize: 5},
	}
	p.Index()
	return p
}

func TestFinalize_FillsUnderstaffedSlots(t *testing.T) {
	p := smallProblem()
	sol := common.Solution{}

	finalized, err := common.Finalize(sol, p)
	require.NoError(t, err)

	slots, _, err := common.UnderstaffedSlots(finalized, p)
	require.NoError(t, err)
	assert.Empty(t, slots) // two employees easily cover two days of a single min_staff=1 shift
}

func TestFinalize_TrimsOverstaffedSlots(t *testing.T) {
	p := newProblem()
	slots, err := common.WorkingSlots(p)
	require.NoError(t, err)

	sol := common.Solution{}
	for _, s := range slots {
		if s.ShiftID == 2 { // night shift, max_staff=1
			sol[s] = []model.EmployeeID{1, 2}
		}
	}

	finalized, err := common.Finalize(sol, p)
	require.NoError(t, err)
	for _, s := range slots {
		if s.ShiftID != 2 {
			continue
		}
		assert.LessOrEqual(t, len(finalized[s]), 1)
	}
}
