package common_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/solver/common"
)

func TestCost_PenalizesUnderstaffing(t *testing.T) {
	p := newProblem()
	empty := common.Solution{}
	cost, err := common.Cost(empty, p)
	require.NoError(t, err)
	assert.Greater(t, cost, 0.0) // every slot is below min_staff with nobody assigned
}

func TestCost_LowerWhenCovered(t *testing.T) {
	p := newProblem()
	slots, err := common.WorkingSlots(p)
	require.NoError(t, err)

	empty := common.Solution{}
	emptyCost, err := common.Cost(empty, p)
	require.NoError(t, err)

	// Split coverage across employees by shift so neither blows past its
	// weekly cap badly enough to swamp the understaffing savings.
	covered := common.Solution{}
	for _, s := range slots {
		if s.ShiftID == 1 {
			covered[s] = []model.EmployeeID{1}
		} else {
			covered[s] = []model.EmployeeID{2}
		}
	}
	coveredCost, err := common.Cost(covered, p)
	require.NoError(t, err)

	assert.Less(t, coveredCost, emptyCost)
}

func TestFitnessCost_PenalizesLowCoverageBeyondBase(t *testing.T) {
	p := newProblem()
	empty := common.Solution{}
	base, err := common.Cost(empty, p)
	require.NoError(t, err)
	fitness, err := common.FitnessCost(empty, p)
	require.NoError(t, err)
	assert.Greater(t, fitness, base)
}

func TestUnderstaffedSlots_GapMatchesMinStaff(t *testing.T) {
	p := newProblem()
	slots, gaps, err := common.UnderstaffedSlots(common.Solution{}, p)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	for _, s := range slots {
		shift, ok := p.ShiftByID(s.ShiftID)
		require.True(t, ok)
		assert.Equal(t, shift.MinStaff, gaps[s])
	}
}

func TestUnderstaffedSlots_NoneWhenMinStaffMet(t *testing.T) {
	p := newProblem()
	day := model.NewDate(2026, time.March, 2)
	sol := common.Solution{
		{Date: day, ShiftID: 1}: {1},
		{Date: day, ShiftID: 2}: {2},
	}
	slots, _, err := common.UnderstaffedSlots(sol, p)
	require.NoError(t, err)
	for _, s := range slots {
		assert.NotEqual(t, day, s.Date)
	}
}
