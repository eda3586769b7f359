package ga

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/solver/common"
)

func TestMutationWeights_EarlyGenerationSumsToOne(t *testing.T) {
	ops := mutationWeights(0.1)
	total := 0.0
	for _, op := range ops {
		total += op.weight
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestMutationWeights_LateGenerationFavorsFillGaps(t *testing.T) {
	earlyOps := mutationWeights(0.1)
	lateOps := mutationWeights(0.9)
	// fillGapsMutation is always last in the slice; its weight should grow
	// as generations progress.
	assert.Greater(t, lateOps[len(lateOps)-1].weight, earlyOps[len(earlyOps)-1].weight)
}

func TestMutate_ReturnsValidSolution(t *testing.T) {
	p := testProblem()
	rng := common.NewRNG(p, "mutate-test")

	base, err := common.AggressiveGreedyConstruct(rng, p, true)
	require.NoError(t, err)

	mutated, err := mutate(rng, base, p, 0.5)
	require.NoError(t, err)

	slots, err := common.WorkingSlots(p)
	require.NoError(t, err)
	for _, slot := range slots {
		shift, ok := p.ShiftByID(slot.ShiftID)
		require.True(t, ok)
		assert.LessOrEqual(t, len(mutated[slot]), shift.MaxStaff+1) // one mutation adds at most one employee; reassignMutation does not check max_staff
	}
}

func TestRemoveID_RemovesOnlyFirstMatch(t *testing.T) {
	roster := []model.EmployeeID{1, 2, 1, 3}
	out := removeID(roster, 1)
	assert.Equal(t, []model.EmployeeID{2, 1, 3}, out)
}
