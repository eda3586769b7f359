package ga

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/solver/common"
)

func TestCrossover_ChildOnlyContainsSlotsFromParents(t *testing.T) {
	p := testProblem()
	rng := common.NewRNG(p, "crossover-test")

	parent1, err := common.AggressiveGreedyConstruct(rng, p, true)
	require.NoError(t, err)
	parent2, err := common.AggressiveGreedyConstruct(rng, p, false)
	require.NoError(t, err)

	child, err := crossover(rng, parent1, parent2, p)
	require.NoError(t, err)

	for slot, roster := range child {
		fromParent1 := equalRosters(roster, parent1[slot])
		fromParent2 := equalRosters(roster, parent2[slot])
		assert.True(t, fromParent1 || fromParent2, "child slot must come from exactly one parent")
	}
}

func TestCrossover_DeterministicForSameRNGState(t *testing.T) {
	p := testProblem()

	rngA := common.NewRNG(p, "crossover-determinism")
	parent1, err := common.AggressiveGreedyConstruct(rngA, p, true)
	require.NoError(t, err)
	parent2, err := common.AggressiveGreedyConstruct(rngA, p, false)
	require.NoError(t, err)
	childA, err := crossover(rngA, parent1, parent2, p)
	require.NoError(t, err)

	rngB := common.NewRNG(p, "crossover-determinism")
	parent1B, err := common.AggressiveGreedyConstruct(rngB, p, true)
	require.NoError(t, err)
	parent2B, err := common.AggressiveGreedyConstruct(rngB, p, false)
	require.NoError(t, err)
	childB, err := crossover(rngB, parent1B, parent2B, p)
	require.NoError(t, err)

	assert.Equal(t, childA, childB)
}

func TestCoverageRatio_ZeroMaxStaff(t *testing.T) {
	shift := model.ShiftTemplate{MaxStaff: 0}
	assert.Equal(t, 0.0, coverageRatio([]model.EmployeeID{1}, &shift))
}

func equalRosters(a, b []model.EmployeeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
