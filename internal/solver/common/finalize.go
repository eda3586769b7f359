package common

import "github.com/pguetschow/rostercore/internal/model"

// Finalize runs the shared post-processing pass used by both SA and GA: a
// greedy fill of every still-understaffed slot (largest gap first,
// respecting all hard constraints), followed by a trim of any slot left
// over max_staff.
func Finalize(sol Solution, problem *model.Problem) (Solution, error) {
	out := sol.Clone()

	gapSlots, gaps, err := UnderstaffedSlots(out, problem)
	if err != nil {
		return nil, err
	}
	for {
		if len(gapSlots) == 0 {
			break
		}
		progressed := false
		for _, slot := range gapSlots {
			if gaps[slot] <= 0 {
				continue
			}
			candidates, err := Candidates(out, slot.Date, slot.ShiftID, problem, problem.Policy)
			if err != nil {
				return nil, err
			}
			already := make(map[model.EmployeeID]struct{}, len(out[slot]))
			for _, id := range out[slot] {
				already[id] = struct{}{}
			}
			for _, c := range candidates {
				if gaps[slot] <= 0 {
					break
				}
				if _, skip := already[c.ID]; skip {
					continue
				}
				out[slot] = append(out[slot], c.ID)
				gaps[slot]--
				progressed = true
			}
		}
		if !progressed {
			break
		}
		gapSlots, gaps, err = UnderstaffedSlots(out, problem)
		if err != nil {
			return nil, err
		}
	}

	slots, err := WorkingSlots(problem)
	if err != nil {
		return nil, err
	}
	for _, slot := range slots {
		shift, ok := problem.ShiftByID(slot.ShiftID)
		if !ok {
			continue
		}
		if len(out[slot]) > shift.MaxStaff {
			out[slot] = out[slot][:shift.MaxStaff]
		}
	}

	return out, nil
}
