// Package benchmark runs every solver algorithm over one Problem and
// reports the cross-solver comparison used both as a CLI reporting helper
// and as the harness for the "benchmark sanity" property: when ILP proves
// Optimal, SA/GA's objective should land within 2x of it.
package benchmark

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/obslog"
	"github.com/pguetschow/rostercore/internal/problem"
)

// Result bundles one algorithm's outcome for comparison.
type Result struct {
	Algorithm model.Algorithm
	SolveResult model.SolveResult
	Err       error
}

// Report is the cross-solver comparison over one Problem.
type Report struct {
	Results []Result
}

// Run solves base once per algorithm in ILP, SA, GA order, copying the
// Problem value but swapping in each algorithm, and returns a Report.
func Run(base model.Problem, log obslog.Sink) Report {
	algorithms := []model.Algorithm{model.AlgorithmILP, model.AlgorithmSA, model.AlgorithmGA}
	var results []Result
	for _, alg := range algorithms {
		p := base
		p.Algorithm = alg
		res, err := problem.Solve(&p, log)
		results = append(results, Result{Algorithm: alg, SolveResult: res, Err: err})
	}
	return Report{Results: results}
}

// SanityCheck reports whether SA and GA's objective values fall within 2x
// of ILP's, when ILP solved to Optimal. A nil error means the relation
// holds (or ILP did not reach Optimal, in which case there is nothing to
// check); a non-nil error names which algorithm violated it.
func (r Report) SanityCheck() error {
	var ilpResult *Result
	for i := range r.Results {
		if r.Results[i].Algorithm == model.AlgorithmILP {
			ilpResult = &r.Results[i]
		}
	}
	if ilpResult == nil || ilpResult.Err != nil || ilpResult.SolveResult.Status != model.StatusOptimal {
		return nil
	}
	ilpObjective := ilpResult.SolveResult.Objective.Abs()
	if ilpObjective.IsZero() {
		return nil
	}

	twiceILP := ilpObjective.Mul(decimal.NewFromInt(2))
	for _, res := range r.Results {
		if res.Algorithm == model.AlgorithmILP || res.Err != nil {
			continue
		}
		if res.SolveResult.Objective.Abs().GreaterThan(twiceILP) {
			return fmt.Errorf("%s objective %s exceeds 2x ILP's %s", res.Algorithm, res.SolveResult.Objective, ilpResult.SolveResult.Objective)
		}
	}
	return nil
}
