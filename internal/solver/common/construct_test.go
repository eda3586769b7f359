package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pguetschow/rostercore/internal/solver/common"
)

func TestAggressiveGreedyConstruct_NeverExceedsMaxStaff(t *testing.T) {
	p := newProblem()
	rng := common.NewRNG(p, "construct-test")

	sol, err := common.AggressiveGreedyConstruct(rng, p, true)
	require.NoError(t, err)

	slots, err := common.WorkingSlots(p)
	require.NoError(t, err)
	for _, slot := range slots {
		shift, ok := p.ShiftByID(slot.ShiftID)
		require.True(t, ok)
		assert.LessOrEqual(t, len(sol[slot]), shift.MaxStaff)
	}
}

func TestStaffingTarget_AggressiveAlwaysAtLeastConservative(t *testing.T) {
	p := newProblem()
	shift := p.Shifts[0]
	shift.MinStaff, shift.MaxStaff = 1, 10 // wide enough that the ratio bands never collide

	for i := 0; i < 20; i++ {
		rng := common.NewRNG(p, "staffing-target")
		aggressive := common.StaffingTarget(rng, &shift, true)
		conservative := common.StaffingTarget(rng, &shift, false)
		assert.GreaterOrEqual(t, aggressive, conservative)
	}
}

func TestAggressiveGreedyConstruct_DeterministicForSameSeed(t *testing.T) {
	p := newProblem()
	seed := uint64(42)
	p.Seed = &seed

	sol1, err := common.AggressiveGreedyConstruct(common.NewRNG(p, "seedtest"), p, true)
	require.NoError(t, err)
	sol2, err := common.AggressiveGreedyConstruct(common.NewRNG(p, "seedtest"), p, true)
	require.NoError(t, err)

	assert.Equal(t, sol1, sol2)
}
