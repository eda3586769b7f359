package common

import (
	"math/rand"
	"sort"

	"github.com/pguetschow/rostercore/internal/model"
)

// StaffingTarget picks a headcount target for a shift's max_staff under a
// construction style: "aggressive" targets 90-100%, "conservative" targets
// 70-85%, both honoring min_staff as a floor.
func StaffingTarget(rng *rand.Rand, shift *model.ShiftTemplate, aggressive bool) int {
	var ratio float64
	if aggressive {
		ratio = 0.9 + rng.Float64()*0.1
	} else {
		ratio = 0.7 + rng.Float64()*0.15
	}
	target := int(ratio * float64(shift.MaxStaff))
	if target < shift.MinStaff {
		target = shift.MinStaff
	}
	if target > shift.MaxStaff {
		target = shift.MaxStaff
	}
	return target
}

// shiftPriority is the greedy ordering key for a shift: its staffing range
// (max_staff - min_staff, larger first), then its overlap count with
// sibling shifts, then duration (longer first), then id. The key does not
// depend on the date or on staffing already assigned; no monthly rolling
// average is consulted.
type shiftPriority struct {
	shiftID  model.ShiftID
	deficit  float64
	overlap  int
	duration float64
}

func computeShiftPriorities(date model.Date, problem *model.Problem) []shiftPriority {
	priorities := make([]shiftPriority, 0, len(problem.Shifts))
	for i := range problem.Shifts {
		s := &problem.Shifts[i]
		overlap := 0
		for j := range problem.Shifts {
			if i == j {
				continue
			}
			if shiftsOverlap(s, &problem.Shifts[j]) {
				overlap++
			}
		}
		durationHours, _ := s.DurationHours.Float64()
		deficit := float64(s.MaxStaff - s.MinStaff)
		priorities = append(priorities, shiftPriority{
			shiftID:  s.ID,
			deficit:  deficit,
			overlap:  overlap,
			duration: durationHours,
		})
	}
	sort.Slice(priorities, func(i, j int) bool {
		if priorities[i].deficit != priorities[j].deficit {
			return priorities[i].deficit > priorities[j].deficit
		}
		if priorities[i].overlap != priorities[j].overlap {
			return priorities[i].overlap > priorities[j].overlap
		}
		if priorities[i].duration != priorities[j].duration {
			return priorities[i].duration > priorities[j].duration
		}
		return priorities[i].shiftID < priorities[j].shiftID
	})
	return priorities
}

func shiftsOverlap(a, b *model.ShiftTemplate) bool {
	if a.ID == b.ID {
		return false
	}
	aStart, aEnd := a.StartMinutes, a.StartMinutes+minutesDuration(a)
	bStart, bEnd := b.StartMinutes, b.StartMinutes+minutesDuration(b)
	return aStart < bEnd && bStart < aEnd
}

func minutesDuration(s *model.ShiftTemplate) int {
	if s.CrossesMidnight() {
		return (1440 - s.StartMinutes) + s.EndMinutes
	}
	return s.EndMinutes - s.StartMinutes
}

// AggressiveGreedyConstruct builds a feasible Solution for problem using
// the "aggressive greedy" heuristic: iterate working days, order shifts by
// priority, assign the top-scoring eligible candidates up to a staffing
// target for each. Used both as the SA initializer/restart seed and as the
// GA population-seeding routine (with aggressive=false for the conservative
// fraction of the population).
func AggressiveGreedyConstruct(rng *rand.Rand, problem *model.Problem, aggressive bool) (Solution, error) {
	sol := make(Solution)
	days, err := workingDays(problem)
	if err != nil {
		return nil, err
	}

	for _, day := range days {
		priorities := computeShiftPriorities(day, problem)
		for _, p := range priorities {
			shift, ok := problem.ShiftByID(p.shiftID)
			if !ok {
				continue
			}
			target := StaffingTarget(rng, shift, aggressive)

			candidates, err := Candidates(sol, day, p.shiftID, problem, problem.Policy)
			if err != nil {
				return nil, err
			}
			n := target
			if n > len(candidates) {
				n = len(candidates)
			}
			if n < shift.MinStaff && len(candidates) >= shift.MinStaff {
				n = shift.MinStaff
			}
			key := SlotKey{Date: day, ShiftID: p.shiftID}
			for i := 0; i < n; i++ {
				sol[key] = append(sol[key], candidates[i].ID)
			}
		}
	}
	return sol, nil
}

func workingDays(problem *model.Problem) ([]model.Date, error) {
	slots, err := WorkingSlots(problem)
	if err != nil {
		return nil, err
	}
	seen := make(map[model.Date]struct{})
	var days []model.Date
	for _, slot := range slots {
		if _, ok := seen[slot.Date]; !ok {
			seen[slot.Date] = struct{}{}
			days = append(days, slot.Date)
		}
	}
	return days, nil
}
