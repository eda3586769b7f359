package ga

import (
	"math/rand"

	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/solver/common"
)

// crossover builds a child by inheriting each (date, shift) slot from
// parent1 or parent2, weighted by each parent's local coverage ratio for
// that slot (higher coverage -> more likely to be inherited).
func crossover(rng *rand.Rand, parent1, parent2 common.Solution, problem *model.Problem) (common.Solution, error) {
	slots, err := common.WorkingSlots(problem)
	if err != nil {
		return nil, err
	}

	child := make(common.Solution, len(slots))
	for _, slot := range slots {
		shift, ok := problem.ShiftByID(slot.ShiftID)
		if !ok {
			continue
		}
		cov1 := coverageRatio(parent1[slot], shift)
		cov2 := coverageRatio(parent2[slot], shift)
		total := cov1 + cov2
		pick1 := true
		if total > 0 {
			pick1 = rng.Float64() < cov1/total
		} else {
			pick1 = rng.Float64() < 0.5
		}
		if pick1 {
			child[slot] = cloneRoster(parent1[slot])
		} else {
			child[slot] = cloneRoster(parent2[slot])
		}
	}
	return child, nil
}

func coverageRatio(roster []model.EmployeeID, shift *model.ShiftTemplate) float64 {
	if shift.MaxStaff == 0 {
		return 0
	}
	return float64(len(roster)) / float64(shift.MaxStaff)
}

func cloneRoster(roster []model.EmployeeID) []model.EmployeeID {
	if roster == nil {
		return nil
	}
	out := make([]model.EmployeeID, len(roster))
	copy(out, roster)
	return out
}
