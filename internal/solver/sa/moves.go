package sa

import (
	"math/rand"

	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/solver/common"
)

// moveWeight pairs a move function with its selection weight.
type moveWeight struct {
	weight float64
	apply  func(rng *rand.Rand, sol common.Solution, problem *model.Problem) (common.Solution, error)
}

var moves = []moveWeight{
	{0.30, fillGap},
	{0.20, maximizeShift},
	{0.15, redistribute},
	{0.10, swapForCoverage},
	{0.15, restPeriodRepair},
	{0.10, utilizationBoost},
}

// applyMove samples one neighborhood move by weight and applies it,
// returning a cloned, possibly-modified solution. A move that finds
// nothing to do returns the input unchanged.
func applyMove(rng *rand.Rand, sol common.Solution, problem *model.Problem) (common.Solution, error) {
	r := rng.Float64()
	cum := 0.0
	for _, m := range moves {
		cum += m.weight
		if r <= cum {
			return m.apply(rng, sol, problem)
		}
	}
	return moves[len(moves)-1].apply(rng, sol, problem)
}

func allSlots(problem *model.Problem) ([]common.SlotKey, error) {
	return common.WorkingSlots(problem)
}

// fillGap picks a random understaffed slot and adds one feasible candidate.
func fillGap(rng *rand.Rand, sol common.Solution, problem *model.Problem) (common.Solution, error) {
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
	out := sol.Clone()
	out[slot] = append(out[slot], candidates[0].ID)
	return out, nil
}

// maximizeShift picks a random shift below max_staff on a random day and
// adds the top-ranked feasible candidate.
func maximizeShift(rng *rand.Rand, sol common.Solution, problem *model.Problem) (common.Solution, error) {
	slots, err := allSlots(problem)
	if err != nil {
		return sol, err
	}
	var below []common.SlotKey
	for _, slot := range slots {
		shift, ok := problem.ShiftByID(slot.ShiftID)
		if ok && len(sol[slot]) < shift.MaxStaff {
			below = append(below, slot)
		}
	}
	if len(below) == 0 {
		return sol, nil
	}
	slot := below[rng.Intn(len(below))]

	candidates, err := common.Candidates(sol, slot.Date, slot.ShiftID, problem, problem.Policy)
	if err != nil {
		return sol, err
	}
	if len(candidates) == 0 {
		return sol, nil
	}
	// Candidates are sorted by descending score (remaining weekly capacity
	// plus the preference bonus), so the first one has the most remaining
	// capacity that week unless a preference bonus ranks another ahead.
	out := sol.Clone()
	out[slot] = append(out[slot], candidates[0].ID)
	return out, nil
}

// redistribute moves an employee from a full shift to a deficient one on
// the same day, if feasible.
func redistribute(rng *rand.Rand, sol common.Solution, problem *model.Problem) (common.Solution, error) {
	days, err := workingDaysOf(problem)
	if err != nil {
		return sol, err
	}
	if len(days) == 0 {
		return sol, nil
	}
	day := days[rng.Intn(len(days))]

	var fullSlot, deficientSlot common.SlotKey
	foundFull, foundDeficient := false, false
	for _, s := range problem.Shifts {
		slot := common.SlotKey{Date: day, ShiftID: s.ID}
		headcount := len(sol[slot])
		if headcount >= s.MaxStaff && !foundFull {
			fullSlot = slot
			foundFull = true
		}
		if headcount < s.MinStaff && !foundDeficient {
			deficientSlot = slot
			foundDeficient = true
		}
	}
	if !foundFull || !foundDeficient {
		return sol, nil
	}

	roster := sol[fullSlot]
	if len(roster) == 0 {
		return sol, nil
	}
	candidate := roster[rng.Intn(len(roster))]
	emp, ok := problem.EmployeeByID(candidate)
	if !ok {
		return sol, nil
	}

	trial := sol.Clone()
	trial[fullSlot] = removeEmployee(trial[fullSlot], candidate)
	eligible, err := common.IsEligible(trial, emp, deficientSlot.Date, deficientSlot.ShiftID, problem, problem.Policy)
	if err != nil {
		return sol, err
	}
	if !eligible {
		return sol, nil
	}
	trial[deficientSlot] = append(trial[deficientSlot], candidate)
	return trial, nil
}

// swapForCoverage swaps one random employee between two random shifts on
// the same day when both employees stay eligible. The swap leaves every
// headcount unchanged; the deficit of either shift is not consulted.
func swapForCoverage(rng *rand.Rand, sol common.Solution, problem *model.Problem) (common.Solution, error) {
	days, err := workingDaysOf(problem)
	if err != nil {
		return sol, err
	}
	if len(days) == 0 || len(problem.Shifts) < 2 {
		return sol, nil
	}
	day := days[rng.Intn(len(days))]

	i := rng.Intn(len(problem.Shifts))
	j := rng.Intn(len(problem.Shifts))
	if i == j {
		return sol, nil
	}
	slotA := common.SlotKey{Date: day, ShiftID: problem.Shifts[i].ID}
	slotB := common.SlotKey{Date: day, ShiftID: problem.Shifts[j].ID}
	rosterA, rosterB := sol[slotA], sol[slotB]
	if len(rosterA) == 0 || len(rosterB) == 0 {
		return sol, nil
	}
	empA := rosterA[rng.Intn(len(rosterA))]
	empB := rosterB[rng.Intn(len(rosterB))]
	if empA == empB {
		return sol, nil
	}

	trial := sol.Clone()
	trial[slotA] = removeEmployee(trial[slotA], empA)
	trial[slotB] = removeEmployee(trial[slotB], empB)

	empAPtr, _ := problem.EmployeeByID(empA)
	empBPtr, _ := problem.EmployeeByID(empB)
	okA, err := common.IsEligible(trial, empBPtr, slotA.Date, slotA.ShiftID, problem, problem.Policy)
	if err != nil {
		return sol, err
	}
	okB, err := common.IsEligible(trial, empAPtr, slotB.Date, slotB.ShiftID, problem, problem.Policy)
	if err != nil {
		return sol, err
	}
	if !okA || !okB {
		return sol, nil
	}
	trial[slotA] = append(trial[slotA], empB)
	trial[slotB] = append(trial[slotB], empA)
	return trial, nil
}

// restPeriodRepair scans for rest violations, picks one at random, and
// tries to move the offending employee to a different eligible shift the
// same day; if no other shift is eligible, it removes the employee from the
// violating slot. No swap with another employee is attempted, and headcounts
// of the two conflicting slots are not compared.
func restPeriodRepair(rng *rand.Rand, sol common.Solution, problem *model.Problem) (common.Solution, error) {
	violations, err := findRestViolations(sol, problem)
	if err != nil {
		return sol, err
	}
	if len(violations) == 0 {
		return sol, nil
	}
	v := violations[rng.Intn(len(violations))]

	emp, ok := problem.EmployeeByID(v.empID)
	if !ok {
		return sol, nil
	}

	for _, s := range problem.Shifts {
		if s.ID == v.shiftID {
			continue
		}
		trial := sol.Clone()
		trial[v.slot] = removeEmployee(trial[v.slot], v.empID)
		altSlot := common.SlotKey{Date: v.date, ShiftID: s.ID}
		eligible, err := common.IsEligible(trial, emp, v.date, s.ID, problem, problem.Policy)
		if err != nil {
			return sol, err
		}
		if eligible {
			trial[altSlot] = append(trial[altSlot], v.empID)
			return trial, nil
		}
	}

	trial := sol.Clone()
	trial[v.slot] = removeEmployee(trial[v.slot], v.empID)
	return trial, nil
}

// utilizationBoost picks the least-utilized employee and attempts up to
// three feasible additions.
func utilizationBoost(rng *rand.Rand, sol common.Solution, problem *model.Problem) (common.Solution, error) {
	if len(problem.Employees) == 0 {
		return sol, nil
	}
	totalHours := totalHoursByEmployee(sol, problem)

	var least *model.Employee
	leastUtil := 0.0
	for i := range problem.Employees {
		emp := &problem.Employees[i]
		if emp.WeeklyHoursCap == 0 {
			continue
		}
		util := totalHours[emp.ID] / float64(emp.WeeklyHoursCap)
		if least == nil || util < leastUtil {
			least = emp
			leastUtil = util
		}
	}
	if least == nil {
		return sol, nil
	}

	slots, err := allSlots(problem)
	if err != nil {
		return sol, err
	}
	rng.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })

	out := sol.Clone()
	added := 0
	for _, slot := range slots {
		if added >= 3 {
			break
		}
		eligible, err := common.IsEligible(out, least, slot.Date, slot.ShiftID, problem, problem.Policy)
		if err != nil {
			return sol, err
		}
		if eligible {
			out[slot] = append(out[slot], least.ID)
			added++
		}
	}
	return out, nil
}

func totalHoursByEmployee(sol common.Solution, problem *model.Problem) map[model.EmployeeID]float64 {
	out := make(map[model.EmployeeID]float64)
	for slot, roster := range sol {
		shift, ok := problem.ShiftByID(slot.ShiftID)
		if !ok {
			continue
		}
		durationHours, _ := shift.DurationHours.Float64()
		for _, empID := range roster {
			out[empID] += durationHours
		}
	}
	return out
}

func removeEmployee(roster []model.EmployeeID, id model.EmployeeID) []model.EmployeeID {
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

func workingDaysOf(problem *model.Problem) ([]model.Date, error) {
	slots, err := allSlots(problem)
	if err != nil {
		return nil, err
	}
	seen := make(map[model.Date]struct{})
	var days []model.Date
	for _, s := range slots {
		if _, ok := seen[s.Date]; !ok {
			seen[s.Date] = struct{}{}
			days = append(days, s.Date)
		}
	}
	return days, nil
}

type restViolation struct {
	empID   model.EmployeeID
	date    model.Date
	shiftID model.ShiftID
	slot    common.SlotKey
}

func findRestViolations(sol common.Solution, problem *model.Problem) ([]restViolation, error) {
	var out []restViolation
	for slot, roster := range sol {
		for _, empID := range roster {
			if common.CreatesRestViolation(sol, empID, slot.Date, slot.ShiftID, problem) {
				out = append(out, restViolation{empID: empID, date: slot.Date, shiftID: slot.ShiftID, slot: slot})
			}
		}
	}
	return out, nil
}
