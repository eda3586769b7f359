// Package problem implements the top-level solve façade: input validation
// plus dispatch to the chosen solver kernel.
package problem

import (
	"github.com/google/uuid"

	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/obslog"
	"github.com/pguetschow/rostercore/internal/rostererr"
	"github.com/pguetschow/rostercore/internal/solver/ga"
	"github.com/pguetschow/rostercore/internal/solver/ilp"
	"github.com/pguetschow/rostercore/internal/solver/sa"
)

// Solve validates p and delegates to the solver named by p.Algorithm,
// returning InvalidInput on a validation failure.
func Solve(p *model.Problem, log obslog.Sink) (model.SolveResult, error) {
	if err := validate(p); err != nil {
		return model.SolveResult{}, err
	}
	p.Index()

	var result model.SolveResult
	var err error
	switch p.Algorithm {
	case model.AlgorithmILP:
		result, err = ilp.Solve(p, log)
	case model.AlgorithmSA:
		result, err = sa.Solve(p, log)
	case model.AlgorithmGA:
		result, err = ga.Solve(p, log)
	default:
		return model.SolveResult{}, rostererr.InvalidInput("algorithm", "must be one of ILP, SA, GA")
	}
	if err != nil {
		return model.SolveResult{}, err
	}
	if result.Diagnostics == nil {
		result.Diagnostics = make(map[string]any)
	}
	result.Diagnostics["run_id"] = uuid.NewString()
	return result, nil
}

func validate(p *model.Problem) error {
	if len(p.Employees) == 0 {
		return rostererr.InvalidInput("employees", "must not be empty")
	}
	if len(p.Shifts) == 0 {
		return rostererr.InvalidInput("shifts", "must not be empty")
	}
	if p.Horizon.End.Before(p.Horizon.Start) {
		return rostererr.InvalidInput("end_date", "must not precede start_date")
	}
	for _, emp := range p.Employees {
		if emp.WeeklyHoursCap%8 != 0 {
			return rostererr.InvalidInput("weekly_hours_cap", "must be a multiple of 8")
		}
		if emp.WeeklyHoursCap < 0 {
			return rostererr.InvalidInput("weekly_hours_cap", "must not be negative")
		}
	}
	for _, s := range p.Shifts {
		if s.MinStaff > s.MaxStaff {
			return rostererr.InvalidInput("min_staff", "must not exceed max_staff")
		}
		if s.MinStaff < 0 {
			return rostererr.InvalidInput("min_staff", "must not be negative")
		}
		if !s.DurationHours.IsPositive() {
			return rostererr.InvalidInput("shift_duration", "must be positive after midnight-wrap normalization")
		}
	}
	return nil
}
