// Package sa implements the simulated-annealing solver (C4): aggressive-
// greedy construction, a shared SA/GA objective, six weighted neighborhood
// moves under a Metropolis acceptance rule, and three cooling schedules.
package sa

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/obslog"
	"github.com/pguetschow/rostercore/internal/solver/common"
)

const nonImprovingRestartThreshold = 300

// Solve runs simulated annealing over problem and returns the best schedule
// found.
func Solve(problem *model.Problem, log obslog.Sink) (model.SolveResult, error) {
	cfg := problem.Config.SA
	rng := common.NewRNG(problem, "sa")

	current, err := common.AggressiveGreedyConstruct(rng, problem, true)
	if err != nil {
		return model.SolveResult{}, err
	}
	currentCost, err := common.Cost(current, problem)
	if err != nil {
		return model.SolveResult{}, err
	}

	best := current.Clone()
	bestCost := currentCost

	temp := cfg.InitialTemp
	nonImproving := 0
	status := model.StatusFeasible

	for k := 0; k < cfg.MaxIters; k++ {
		if k%100 == 0 && problem.Cancel != nil && problem.Cancel.Cancelled() {
			status = model.StatusCancelled
			break
		}
		if temp <= cfg.FinalTemp {
			break
		}

		neighbor, err := applyMove(rng, current, problem)
		if err != nil {
			return model.SolveResult{}, err
		}
		neighborCost, err := common.Cost(neighbor, problem)
		if err != nil {
			return model.SolveResult{}, err
		}

		delta := neighborCost - currentCost
		if delta < 0 || rng.Float64() < math.Exp(-delta/temp) {
			current = neighbor
			currentCost = neighborCost
			if currentCost < bestCost {
				best = current.Clone()
				bestCost = currentCost
				nonImproving = 0
			} else {
				nonImproving++
			}
		} else {
			nonImproving++
		}

		if nonImproving >= nonImprovingRestartThreshold {
			current, err = common.AggressiveGreedyConstruct(rng, problem, true)
			if err != nil {
				return model.SolveResult{}, err
			}
			currentCost, err = common.Cost(current, problem)
			if err != nil {
				return model.SolveResult{}, err
			}
			temp = 0.3 * cfg.InitialTemp
			nonImproving = 0
			log.Event("sa_restart", map[string]any{"iteration": k, "temp": temp})
		}

		temp = cool(cfg, k)
	}

	finalized, err := common.Finalize(best, problem)
	if err != nil {
		return model.SolveResult{}, err
	}
	finalCost, err := common.Cost(finalized, problem)
	if err != nil {
		return model.SolveResult{}, err
	}

	return model.SolveResult{
		Schedule:  finalized.ToSchedule(),
		Status:    status,
		Objective: decimal.NewFromFloat(finalCost),
		Diagnostics: map[string]any{
			"iterations": cfg.MaxIters,
		},
	}, nil
}

// cool computes the temperature at iteration k using the configured
// schedule. The exponential schedule applies the adaptive multipliers
// (x1.0 first 30%, x0.7 30-70%, x0.3 last 30%) on top of the base curve;
// linear and logarithmic are both rescaled to land on final_temp at k=K.
func cool(cfg model.SAConfig, k int) float64 {
	progress := float64(k) / float64(cfg.MaxIters)
	switch cfg.Cooling {
	case model.CoolingLinear:
		return cfg.InitialTemp - (cfg.InitialTemp-cfg.FinalTemp)*progress
	case model.CoolingLogarithmic:
		raw := 1 / (1 + math.Log(1+progress*float64(cfg.MaxIters)))
		rawAtEnd := 1 / (1 + math.Log(1+float64(cfg.MaxIters)))
		span := cfg.InitialTemp - cfg.FinalTemp
		// Rescale so raw=1 (k=0) maps to InitialTemp and raw=rawAtEnd (k=K)
		// maps to FinalTemp.
		frac := (1 - raw) / (1 - rawAtEnd)
		return cfg.InitialTemp - span*frac
	default: // exponential
		ratio := cfg.FinalTemp / cfg.InitialTemp
		t := cfg.InitialTemp * math.Pow(ratio, progress)
		multiplier := 1.0
		switch {
		case progress < 0.3:
			multiplier = 1.0
		case progress < 0.7:
			multiplier = 0.7
		default:
			multiplier = 0.3
		}
		return t * multiplier
	}
}
