package ga

import (
	"math/rand"

	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/solver/common"
)

type mutationOp struct {
	weight float64
	apply  func(rng *rand.Rand, sol common.Solution, problem *model.Problem) (common.Solution, error)
}

// mutationWeights returns the adaptive mutation-operator weights for
// generation progress p = g/G: early generations favor swap/reassign,
// late generations favor fill-gaps.
func mutationWeights(p float64) []mutationOp {
	switch {
	case p < 0.3:
		return []mutationOp{
			{0.3, swapMutation},
			{0.3, reassignMutation},
			{0.3, adjustStaffMutation},
			{0.1, fillGapsMutation},
		}
	case p < 0.7:
		return []mutationOp{
			{0.2, swapMutation},
			{0.2, reassignMutation},
			{0.3, adjustStaffMutation},
			{0.3, fillGapsMutation},
		}
	default:
		return []mutationOp{
			{0.1, swapMutation},
			{0.1, reassignMutation},
			{0.3, adjustStaffMutation},
			{0.5, fillGapsMutation},
		}
	}
}

func mutate(rng *rand.Rand, sol common.Solution, problem *model.Problem, progress float64) (common.Solution, error) {
	ops := mutationWeights(progress)
	r := rng.Float64()
	cum := 0.0
	for _, op := range ops {
		cum += op.weight
		if r <= cum {
			return op.apply(rng, sol, problem)
		}
	}
	return ops[len(ops)-1].apply(rng, sol, problem)
}

// swapMutation exchanges one employee between two random shifts on a
// random working day, if the swap keeps both sides feasible.
func swapMutation(rng *rand.Rand, sol common.Solution, problem *model.Problem) (common.Solution, error) {
	slots, err := common.WorkingSlots(problem)
	if err != nil {
		return sol, err
	}
	if len(slots) < 2 {
		return sol, nil
	}
	a := slots[rng.Intn(len(slots))]
	b := slots[rng.Intn(len(slots))]
	if a == b {
		return sol, nil
	}
	rosterA, rosterB := sol[a], sol[b]
	if len(rosterA) == 0 || len(rosterB) == 0 {
		return sol, nil
	}
	empA := rosterA[rng.Intn(len(rosterA))]
	empB := rosterB[rng.Intn(len(rosterB))]
	if empA == empB {
		return sol, nil
	}

	trial := sol.Clone()
	trial[a] = removeID(trial[a], empA)
	trial[b] = removeID(trial[b], empB)

	empAPtr, _ := problem.EmployeeByID(empA)
	empBPtr, _ := problem.EmployeeByID(empB)
	okA, err := common.IsEligible(trial, empBPtr, a.Date, a.ShiftID, problem, problem.Policy)
	if err != nil {
		return sol, err
	}
	okB, err := common.IsEligible(trial, empAPtr, b.Date, b.ShiftID, problem, problem.Policy)
	if err != nil {
		return sol, err
	}
	if !okA || !okB {
		return sol, nil
	}
	trial[a] = append(trial[a], empB)
	trial[b] = append(trial[b], empA)
	return trial, nil
}

// reassignMutation removes a random employee from a random slot and tries
// to place it into a different eligible slot.
func reassignMutation(rng *rand.Rand, sol common.Solution, problem *model.Problem) (common.Solution, error) {
	slots, err := common.WorkingSlots(problem)
	if err != nil {
		return sol, err
	}
	var occupied []common.SlotKey
	for _, s := range slots {
		if len(sol[s]) > 0 {
			occupied = append(occupied, s)
		}
	}
	if len(occupied) == 0 {
		return sol, nil
	}
	from := occupied[rng.Intn(len(occupied))]
	roster := sol[from]
	emp := roster[rng.Intn(len(roster))]
	empPtr, ok := problem.EmployeeByID(emp)
	if !ok {
		return sol, nil
	}

	trial := sol.Clone()
	trial[from] = removeID(trial[from], emp)

	candidates := append([]common.SlotKey(nil), slots...)
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	for _, to := range candidates {
		if to == from {
			continue
		}
		eligible, err := common.IsEligible(trial, empPtr, to.Date, to.ShiftID, problem, problem.Policy)
		if err != nil {
			return sol, err
		}
		if eligible {
			trial[to] = append(trial[to], emp)
			return trial, nil
		}
	}
	return sol, nil
}

// adjustStaffMutation either adds a feasible candidate to an understaffed
// slot or trims one employee from an overstaffed slot.
func adjustStaffMutation(rng *rand.Rand, sol common.Solution, problem *model.Problem) (common.Solution, error) {
	slots, err := common.WorkingSlots(problem)
	if err != nil {
		return sol, err
	}
	if len(slots) == 0 {
		return sol, nil
	}
	slot := slots[rng.Intn(len(slots))]
	shift, ok := problem.ShiftByID(slot.ShiftID)
	if !ok {
		return sol, nil
	}
	headcount := len(sol[slot])

	trial := sol.Clone()
	switch {
	case headcount < shift.MinStaff:
		candidates, err := common.Candidates(trial, slot.Date, slot.ShiftID, problem, problem.Policy)
		if err != nil {
			return sol, err
		}
		if len(candidates) == 0 {
			return sol, nil
		}
		trial[slot] = append(trial[slot], candidates[0].ID)
	case headcount > shift.MaxStaff:
		trial[slot] = trial[slot][:len(trial[slot])-1]
	default:
		return sol, nil
	}
	return trial, nil
}

// fillGapsMutation fills one random understaffed slot with a feasible
// candidate.
func fillGapsMutation(rng *rand.Rand, sol common.Solution, problem *model.Problem) (common.Solution, error) {
	_, gaps, err := common.UnderstaffedSlots(sol, problem)
	if err != nil {
		return sol, err
	}
	var keys []common.SlotKey
	for k := range gaps {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return sol, nil
	}
	slot := keys[rng.Intn(len(keys))]
	candidates, err := common.Candidates(sol, slot.Date, slot.ShiftID, problem, problem.Policy)
	if err != nil {
		return sol, err
	}
	if len(candidates) == 0 {
		return sol, nil
	}
	trial := sol.Clone()
	trial[slot] = append(trial[slot], candidates[0].ID)
	return trial, nil
}

func removeID(roster []model.EmployeeID, id model.EmployeeID) []model.EmployeeID {
	out := make([]model.EmployeeID, 0, len(roster))
	removed := false
	for _, e := range roster {
		if e == id && !removed {
			removed = true
			continue
		}
		out = append(out, e)
	}
	return out
}
