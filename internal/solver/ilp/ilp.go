// Package ilp implements the exact solver (C3) on top of
// github.com/nextmv-io/sdk/mip: one boolean decision variable per feasible
// (employee, date, shift) triple, the full coverage/rest/monthly/yearly/
// fairness constraint set, and the weighted linear objective that scores
// slack rather than forcing the model infeasible on unmet demand.
package ilp

import (
	"math"
	"runtime"
	"time"

	"github.com/nextmv-io/sdk/mip"
	"github.com/shopspring/decimal"

	"github.com/pguetschow/rostercore/internal/calendar"
	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/obslog"
)

// Objective weights, pinned to the reference magnitudes: larger penalties
// for coverage slack than for monthly/yearly hour slack, a small fairness-
// band weight, and small preference/utilization nudges.
const (
	weightUnder  = 1_000_000.0  // 1e6
	weightOver   = 10_000_000.0 // 1e7
	weightOptDev = 100_000.0    // 1e5
	weightOT     = 50_000.0     // 5e4
	weightUT     = 25_000.0     // 2.5e4
	weightMuFair = 50_000.0     // 5e4
	weightFair   = 75_000.0     // 7.5e4
	weightPref   = -5.0
	weightUtil   = -50.0
)

// assignVar keys one decision variable by the (employee, date, shift)
// triple it represents.
type assignVar struct {
	EmployeeID model.EmployeeID
	Date       model.Date
	ShiftID    model.ShiftID
}

// monthKey groups an employee's working days into calendar months for the
// monthly-hours equation/floor/ceiling constraints.
type monthKey struct {
	Year  int
	Month time.Month
}

// workerCount returns all CPUs minus two, floored at one. Solve reports it
// in its start event; it is not passed to the MIP engine.
func workerCount() int {
	n := runtime.NumCPU() - 2
	if n < 1 {
		n = 1
	}
	return n
}

// Solve builds and solves the ILP model for problem.
func Solve(problem *model.Problem, log obslog.Sink) (model.SolveResult, error) {
	cfg := problem.Config.ILP

	days, err := calendar.WorkingDays(problem.Horizon.DateRange, problem.Policy)
	if err != nil {
		return model.SolveResult{}, err
	}

	m := mip.NewModel()
	m.Objective().SetMinimize()

	x := make(map[assignVar]mip.Bool)

	// One boolean per feasible triple: skip employees blocked that day and
	// assignments the caller's policy already excludes.
	for i := range problem.Employees {
		emp := &problem.Employees[i]
		for _, d := range days {
			blocked, err := calendar.IsBlocked(emp, d, problem.Policy)
			if err != nil {
				return model.SolveResult{}, err
			}
			if blocked {
				continue
			}
			for _, s := range problem.Shifts {
				x[assignVar{EmployeeID: emp.ID, Date: d, ShiftID: s.ID}] = m.NewBool()
			}
		}
	}

	// Constraint 2, coverage with slack: under/over absorb any shortfall or
	// excess instead of the model ever proving infeasible on demand alone;
	// dev tracks absolute deviation from the (min+max)/2 midpoint.
	for _, d := range days {
		for _, s := range problem.Shifts {
			var vars []mip.Bool
			for i := range problem.Employees {
				if v, ok := x[assignVar{EmployeeID: problem.Employees[i].ID, Date: d, ShiftID: s.ID}]; ok {
					vars = append(vars, v)
				}
			}

			under := m.NewFloat(0, math.MaxFloat64)
			over := m.NewFloat(0, math.MaxFloat64)
			dev := m.NewFloat(0, math.MaxFloat64)

			underConstraint := m.NewConstraint(mip.GreaterThanOrEqual, float64(s.MinStaff))
			underConstraint.NewTerm(1.0, under)
			for _, v := range vars {
				underConstraint.NewTerm(1.0, v)
			}

			overConstraint := m.NewConstraint(mip.LessThanOrEqual, float64(s.MaxStaff))
			overConstraint.NewTerm(-1.0, over)
			for _, v := range vars {
				overConstraint.NewTerm(1.0, v)
			}

			midpoint := float64(s.MinStaff+s.MaxStaff) / 2.0
			devLow := m.NewConstraint(mip.GreaterThanOrEqual, -midpoint)
			devLow.NewTerm(1.0, dev)
			for _, v := range vars {
				devLow.NewTerm(-1.0, v)
			}
			devHigh := m.NewConstraint(mip.GreaterThanOrEqual, midpoint)
			devHigh.NewTerm(1.0, dev)
			for _, v := range vars {
				devHigh.NewTerm(1.0, v)
			}

			m.Objective().NewTerm(weightUnder, under)
			m.Objective().NewTerm(weightOver, over)
			m.Objective().NewTerm(weightOptDev, dev)
		}
	}

	// Constraint 1, at most one shift per day.
	for i := range problem.Employees {
		emp := &problem.Employees[i]
		for _, d := range days {
			var vars []mip.Bool
			for _, s := range problem.Shifts {
				if v, ok := x[assignVar{EmployeeID: emp.ID, Date: d, ShiftID: s.ID}]; ok {
					vars = append(vars, v)
				}
			}
			if len(vars) <= 1 {
				continue
			}
			c := m.NewConstraint(mip.LessThanOrEqual, 1.0)
			for _, v := range vars {
				c.NewTerm(1.0, v)
			}
		}
	}

	// Weekly cap: sum of durations per ISO week <= weekly_hours_cap.
	weekOf := func(d model.Date) model.ISOWeekKey {
		y, w := d.ISOWeek()
		return model.ISOWeekKey{Year: y, Week: w}
	}
	for i := range problem.Employees {
		emp := &problem.Employees[i]
		weeks := make(map[model.ISOWeekKey][]model.Date)
		for _, d := range days {
			k := weekOf(d)
			weeks[k] = append(weeks[k], d)
		}
		for _, weekDays := range weeks {
			c := m.NewConstraint(mip.LessThanOrEqual, float64(emp.WeeklyHoursCap))
			for _, d := range weekDays {
				for _, s := range problem.Shifts {
					v, ok := x[assignVar{EmployeeID: emp.ID, Date: d, ShiftID: s.ID}]
					if !ok {
						continue
					}
					durationHours, _ := s.DurationHours.Float64()
					c.NewTerm(durationHours, v)
				}
			}
		}
	}

	// Constraint 3, rest period: forbid pairs of (day, day+1) assignments
	// whose gap is under 11 hours.
	for i := range problem.Employees {
		emp := &problem.Employees[i]
		for _, d := range days {
			next := d.AddDays(1)
			for _, s1 := range problem.Shifts {
				v1, ok1 := x[assignVar{EmployeeID: emp.ID, Date: d, ShiftID: s1.ID}]
				if !ok1 {
					continue
				}
				for _, s2 := range problem.Shifts {
					v2, ok2 := x[assignVar{EmployeeID: emp.ID, Date: next, ShiftID: s2.ID}]
					if !ok2 {
						continue
					}
					gap := s2.StartTime(next).Sub(s1.EndTime(d)).Hours()
					if gap < 11 {
						c := m.NewConstraint(mip.LessThanOrEqual, 1.0)
						c.NewTerm(1.0, v1)
						c.NewTerm(1.0, v2)
					}
				}
			}
		}
	}

	// Constraints 4-6, monthly hours equation/floor/ceiling, one ot/ut/
	// mu_def triple per (employee, calendar month) touched by the horizon.
	for i := range problem.Employees {
		emp := &problem.Employees[i]
		months := make(map[monthKey][]model.Date)
		for _, d := range days {
			k := monthKey{Year: d.Year, Month: d.Month}
			months[k] = append(months[k], d)
		}
		for mk, monthDays := range months {
			expected, err := calendar.ExpectedMonthHours(emp, mk.Year, mk.Month, problem.Policy)
			if err != nil {
				return model.SolveResult{}, err
			}
			expectedF := float64(expected)

			type monthTerm struct {
				hours float64
				v     mip.Bool
			}
			var terms []monthTerm
			for _, d := range monthDays {
				for _, s := range problem.Shifts {
					v, ok := x[assignVar{EmployeeID: emp.ID, Date: d, ShiftID: s.ID}]
					if !ok {
						continue
					}
					durationHours, _ := s.DurationHours.Float64()
					terms = append(terms, monthTerm{hours: durationHours, v: v})
				}
			}

			otUB := math.Floor(expectedF*cfg.MonthlyOvertimeCap/8) * 8
			ot := m.NewFloat(0, otUB)
			ut := m.NewFloat(0, math.MaxFloat64)
			muDef := m.NewFloat(0, math.MaxFloat64)

			// Monthly hours equation: worked = expected - ut + ot.
			equation := m.NewConstraint(mip.Equal, expectedF)
			for _, t := range terms {
				equation.NewTerm(t.hours, t.v)
			}
			equation.NewTerm(-1.0, ot)
			equation.NewTerm(1.0, ut)

			// Monthly floor: worked + mu_def >= expected * MinUtilFactor.
			floor := m.NewConstraint(mip.GreaterThanOrEqual, expectedF*cfg.MinUtilFactor)
			for _, t := range terms {
				floor.NewTerm(t.hours, t.v)
			}
			floor.NewTerm(1.0, muDef)

			// Monthly ceiling: worked <= expected * (1 + MonthlyOvertimeCap).
			ceiling := m.NewConstraint(mip.LessThanOrEqual, expectedF*(1+cfg.MonthlyOvertimeCap))
			for _, t := range terms {
				ceiling.NewTerm(t.hours, t.v)
			}

			m.Objective().NewTerm(weightOT, ot)
			m.Objective().NewTerm(weightUT, ut)
			m.Objective().NewTerm(weightMuFair, muDef)
		}
	}

	// Constraints 7-8, yearly totals and the fairness band. expected_year
	// totals sum every calendar year the horizon touches, matching the
	// documented year-boundary edge case; the fairness scalars alpha_min/
	// alpha_max are shared across every employee.
	yearSet := make(map[int]struct{})
	for _, d := range days {
		yearSet[d.Year] = struct{}{}
	}

	alphaMin := m.NewFloat(0, 1)
	alphaMax := m.NewFloat(0, 1)
	fairnessSpread := m.NewConstraint(mip.GreaterThanOrEqual, 0)
	fairnessSpread.NewTerm(1.0, alphaMax)
	fairnessSpread.NewTerm(-1.0, alphaMin)
	m.Objective().NewTerm(weightFair, alphaMax)
	m.Objective().NewTerm(-weightFair, alphaMin)

	for i := range problem.Employees {
		emp := &problem.Employees[i]

		expectedYearTotal := 0.0
		for y := range yearSet {
			yearHours, err := calendar.ExpectedYearHours(emp, y, problem.Policy)
			if err != nil {
				return model.SolveResult{}, err
			}
			expectedYearTotal += float64(yearHours)
		}

		totalHours := m.NewFloat(0, math.MaxFloat64)
		totalEquation := m.NewConstraint(mip.Equal, 0)
		totalEquation.NewTerm(-1.0, totalHours)
		for _, d := range days {
			for _, s := range problem.Shifts {
				v, ok := x[assignVar{EmployeeID: emp.ID, Date: d, ShiftID: s.ID}]
				if !ok {
					continue
				}
				durationHours, _ := s.DurationHours.Float64()
				totalEquation.NewTerm(durationHours, v)
			}
		}

		yearCeiling := m.NewConstraint(mip.LessThanOrEqual, expectedYearTotal*(1+cfg.YearlyOvertimeCap))
		yearCeiling.NewTerm(1.0, totalHours)
		yearFloor := m.NewConstraint(mip.GreaterThanOrEqual, 0.85*expectedYearTotal)
		yearFloor.NewTerm(1.0, totalHours)

		possibleHours := 0.0
		for _, d := range days {
			blocked, err := calendar.IsBlocked(emp, d, problem.Policy)
			if err != nil {
				return model.SolveResult{}, err
			}
			if blocked {
				continue
			}
			for _, s := range problem.Shifts {
				durationHours, _ := s.DurationHours.Float64()
				possibleHours += durationHours
			}
		}

		if possibleHours > 0 {
			fairLow := m.NewConstraint(mip.GreaterThanOrEqual, 0)
			fairLow.NewTerm(1.0, totalHours)
			fairLow.NewTerm(-possibleHours, alphaMin)

			fairHigh := m.NewConstraint(mip.LessThanOrEqual, 0)
			fairHigh.NewTerm(1.0, totalHours)
			fairHigh.NewTerm(-possibleHours, alphaMax)
		}

		if expectedYearTotal > 0 {
			m.Objective().NewTerm(-weightUtil/expectedYearTotal, totalHours)
		}
	}

	// Preference bonus: reward matched assignments in the objective.
	for key, v := range x {
		emp, ok := problem.EmployeeByID(key.EmployeeID)
		if ok && emp.Prefers(key.ShiftID) {
			m.Objective().NewTerm(weightPref, v)
		}
	}

	solveOptions := mip.NewSolveOptions()
	if cfg.TimeLimitSeconds > 0 {
		solveOptions.SetMaximumDuration(time.Duration(cfg.TimeLimitSeconds) * time.Second)
	}
	solveOptions.SetMIPGapRelative(cfg.RelGap)

	solver, err := mip.NewSolver(mip.Highs, m)
	if err != nil {
		return model.SolveResult{}, err
	}

	log.Event("ilp_solve_start", map[string]any{"workers": workerCount(), "variables": len(x)})
	solution, err := solver.Solve(solveOptions)
	if err != nil {
		return model.SolveResult{}, err
	}

	if !solution.IsOptimal() && !solution.IsSubOptimal() {
		return model.SolveResult{
			Schedule:  model.Schedule{},
			Status:    model.StatusInfeasible,
			Objective: decimal.Zero,
		}, nil
	}

	var entries []model.ScheduleEntry
	for key, v := range x {
		if solution.Value(v) >= 0.9 {
			entries = append(entries, model.ScheduleEntry{EmployeeID: key.EmployeeID, Date: key.Date, ShiftID: key.ShiftID})
		}
	}

	status := model.StatusFeasible
	if solution.IsOptimal() {
		status = model.StatusOptimal
	}

	return model.SolveResult{
		Schedule:  model.Schedule{Entries: entries},
		Status:    status,
		Objective: decimal.NewFromFloat(solution.ObjectiveValue()),
	}, nil
}
