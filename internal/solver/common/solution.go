// Package common holds the working-state representation, feasibility
// checks, and objective-weight constants shared by the SA and GA solvers —
// the two metaheuristics that mutate an evolving Schedule in place rather
// than delegating to a MIP engine like the ILP solver does.
package common

import (
	"sort"

	"github.com/pguetschow/rostercore/internal/calendar"
	"github.com/pguetschow/rostercore/internal/model"
)

// SlotKey identifies one (date, shift) working-day slot.
type SlotKey struct {
	Date    model.Date
	ShiftID model.ShiftID
}

// Solution is the SA/GA chromosome: an ordered roster per working-day slot.
// Only slots for working days are ever present as keys.
type Solution map[SlotKey][]model.EmployeeID

// Clone deep-copies the solution so mutation operators never alias shared
// slices between parent and offspring/neighbor states.
func (s Solution) Clone() Solution {
	out := make(Solution, len(s))
	for k, roster := range s {
		cp := make([]model.EmployeeID, len(roster))
		copy(cp, roster)
		out[k] = cp
	}
	return out
}

// ToSchedule flattens the solution into the shared model.Schedule contract.
func (s Solution) ToSchedule() model.Schedule {
	keys := make([]SlotKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Date != keys[j].Date {
			return keys[i].Date.Before(keys[j].Date)
		}
		return keys[i].ShiftID < keys[j].ShiftID
	})

	var entries []model.ScheduleEntry
	for _, k := range keys {
		for _, empID := range s[k] {
			entries = append(entries, model.ScheduleEntry{EmployeeID: empID, Date: k.Date, ShiftID: k.ShiftID})
		}
	}
	return model.Schedule{Entries: entries}
}

// WorkingSlots enumerates every (date, shift) key that a Solution may hold
// for horizon/policy, in (date, then shift id) order.
func WorkingSlots(problem *model.Problem) ([]SlotKey, error) {
	days, err := calendar.WorkingDays(problem.Horizon.DateRange, problem.Policy)
	if err != nil {
		return nil, err
	}
	shiftIDs := make([]model.ShiftID, 0, len(problem.Shifts))
	for _, s := range problem.Shifts {
		shiftIDs = append(shiftIDs, s.ID)
	}
	sort.Slice(shiftIDs, func(i, j int) bool { return shiftIDs[i] < shiftIDs[j] })

	out := make([]SlotKey, 0, len(days)*len(shiftIDs))
	for _, d := range days {
		for _, sid := range shiftIDs {
			out = append(out, SlotKey{Date: d, ShiftID: sid})
		}
	}
	return out, nil
}

// IsAssignedOnDay reports whether emp already holds any shift on date
// within the solution.
func IsAssignedOnDay(sol Solution, emp model.EmployeeID, date model.Date, problem *model.Problem) bool {
	for _, s := range problem.Shifts {
		for _, id := range sol[SlotKey{Date: date, ShiftID: s.ID}] {
			if id == emp {
				return true
			}
		}
	}
	return false
}

// WeeklyHoursSoFar sums emp's committed hours in the ISO week containing
// date, across the whole solution.
func WeeklyHoursSoFar(sol Solution, emp model.EmployeeID, date model.Date, problem *model.Problem) float64 {
	year, week := date.ISOWeek()
	total := 0.0
	for key, roster := range sol {
		ky, kw := key.Date.ISOWeek()
		if ky != year || kw != week {
			continue
		}
		for _, id := range roster {
			if id != emp {
				continue
			}
			shift, ok := problem.ShiftByID(key.ShiftID)
			if !ok {
				continue
			}
			durationHours, _ := shift.DurationHours.Float64()
			total += durationHours
		}
	}
	return total
}

// CreatesRestViolation reports whether assigning emp to (date, shiftID)
// would put it under an 11-hour rest gap against any entry it already
// holds on the immediately adjacent calendar days.
func CreatesRestViolation(sol Solution, emp model.EmployeeID, date model.Date, shiftID model.ShiftID, problem *model.Problem) bool {
	shift, ok := problem.ShiftByID(shiftID)
	if !ok {
		return false
	}
	candStart := shift.StartTime(date)
	candEnd := shift.EndTime(date)

	check := func(neighborDate model.Date) bool {
		for _, s := range problem.Shifts {
			roster := sol[SlotKey{Date: neighborDate, ShiftID: s.ID}]
			for _, id := range roster {
				if id != emp {
					continue
				}
				otherStart := s.StartTime(neighborDate)
				otherEnd := s.EndTime(neighborDate)
				var gapHours float64
				if otherEnd.Before(candStart) || otherEnd.Equal(candStart) {
					gapHours = candStart.Sub(otherEnd).Hours()
				} else if candEnd.Before(otherStart) || candEnd.Equal(otherStart) {
					gapHours = otherStart.Sub(candEnd).Hours()
				} else {
					return true // overlapping intervals: zero rest
				}
				if gapHours < 11 {
					return true
				}
			}
		}
		return false
	}

	return check(date.AddDays(-1)) || check(date.AddDays(1))
}

// IsEligible reports whether emp may be added to (date, shiftID) in sol:
// not blocked/absent, not already on another shift that day, remaining
// weekly capacity accommodates the shift's duration, and no new rest
// violation is created.
func IsEligible(sol Solution, emp *model.Employee, date model.Date, shiftID model.ShiftID, problem *model.Problem, policy model.CompanyPolicy) (bool, error) {
	blocked, err := calendar.IsBlocked(emp, date, policy)
	if err != nil {
		return false, err
	}
	if blocked {
		return false, nil
	}
	if IsAssignedOnDay(sol, emp.ID, date, problem) {
		return false, nil
	}
	shift, ok := problem.ShiftByID(shiftID)
	if !ok {
		return false, nil
	}
	durationHours, _ := shift.DurationHours.Float64()
	if WeeklyHoursSoFar(sol, emp.ID, date, problem)+durationHours > float64(emp.WeeklyHoursCap) {
		return false, nil
	}
	if CreatesRestViolation(sol, emp.ID, date, shiftID, problem) {
		return false, nil
	}
	return true, nil
}

// RemainingWeeklyCapacity returns how many more hours emp may work in the
// ISO week containing date before hitting its cap.
func RemainingWeeklyCapacity(sol Solution, emp *model.Employee, date model.Date, problem *model.Problem) float64 {
	return float64(emp.WeeklyHoursCap) - WeeklyHoursSoFar(sol, emp.ID, date, problem)
}

// PreferenceBonus is the score contribution for an employee's shift
// preference, used to rank and to weight the objective.
const PreferenceBonus = 100.0

// CandidateScore scores emp as a candidate for (date, shiftID): remaining
// weekly capacity plus a preference bonus when the employee favors this
// shift.
func CandidateScore(sol Solution, emp *model.Employee, date model.Date, shiftID model.ShiftID, problem *model.Problem) float64 {
	score := RemainingWeeklyCapacity(sol, emp, date, problem)
	if emp.Prefers(shiftID) {
		score += PreferenceBonus
	}
	return score
}

// Candidates returns every eligible employee for (date, shiftID), sorted by
// descending CandidateScore (then by id for determinism).
func Candidates(sol Solution, date model.Date, shiftID model.ShiftID, problem *model.Problem, policy model.CompanyPolicy) ([]*model.Employee, error) {
	var out []*model.Employee
	for i := range problem.Employees {
		emp := &problem.Employees[i]
		eligible, err := IsEligible(sol, emp, date, shiftID, problem, policy)
		if err != nil {
			return nil, err
		}
		if eligible {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		si := CandidateScore(sol, out[i], date, shiftID, problem)
		sj := CandidateScore(sol, out[j], date, shiftID, problem)
		if si != sj {
			return si > sj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
