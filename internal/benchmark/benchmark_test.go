package benchmark_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pguetschow/rostercore/internal/benchmark"
	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/obslog"
)

func smallBase() model.Problem {
	morning := model.NewShiftTemplate(1, "Morning", 8*60, 16*60, 1, 2)
	seed := uint64(7)
	cfg := model.DefaultConfig()
	cfg.SA.MaxIters = 20
	cfg.GA.Generations = 5
	cfg.GA.Population = 8
	cfg.ILP.TimeLimitSeconds = 5
	return model.Problem{
		Employees: []model.Employee{
			{ID: 1, Name: "Alice", WeeklyHoursCap: 40, AbsenceDates: map[model.Date]struct{}{}, PreferredShifts: map[model.ShiftID]struct{}{}},
			{ID: 2, Name: "Bob", WeeklyHoursCap: 40, AbsenceDates: map[model.Date]struct{}{}, PreferredShifts: map[model.ShiftID]struct{}{}},
		},
		Shifts:  []model.ShiftTemplate{morning},
		Horizon: model.NewPlanningHorizon(model.NewDate(2026, time.March, 2), model.NewDate(2026, time.March, 8)),
		Policy:  model.CompanyPolicy{WorkweekSize: 5},
		Config:  cfg,
		Seed:    &seed,
	}
}

func TestRun_SolvesEveryAlgorithm(t *testing.T) {
	report := benchmark.Run(smallBase(), obslog.Discard())
	require.Len(t, report.Results, 3)
	algorithms := map[model.Algorithm]bool{}
	for _, res := range report.Results {
		algorithms[res.Algorithm] = true
	}
	assert.True(t, algorithms[model.AlgorithmILP])
	assert.True(t, algorithms[model.AlgorithmSA])
	assert.True(t, algorithms[model.AlgorithmGA])
}

func TestReport_SanityCheck_PassesWhenWithinBounds(t *testing.T) {
	report := benchmark.Report{Results: []benchmark.Result{
		{Algorithm: model.AlgorithmILP, SolveResult: model.SolveResult{Status: model.StatusOptimal, Objective: decimal.NewFromInt(100)}},
		{Algorithm: model.AlgorithmSA, SolveResult: model.SolveResult{Objective: decimal.NewFromInt(150)}},
		{Algorithm: model.AlgorithmGA, SolveResult: model.SolveResult{Objective: decimal.NewFromInt(180)}},
	}}
	assert.NoError(t, report.SanityCheck())
}

func TestReport_SanityCheck_FlagsExcessiveDeviation(t *testing.T) {
	report := benchmark.Report{Results: []benchmark.Result{
		{Algorithm: model.AlgorithmILP, SolveResult: model.SolveResult{Status: model.StatusOptimal, Objective: decimal.NewFromInt(100)}},
		{Algorithm: model.AlgorithmSA, SolveResult: model.SolveResult{Objective: decimal.NewFromInt(500)}},
	}}
	err := report.SanityCheck()
	require.Error(t, err)
}

func TestReport_SanityCheck_SkipsWhenILPNotOptimal(t *testing.T) {
	report := benchmark.Report{Results: []benchmark.Result{
		{Algorithm: model.AlgorithmILP, SolveResult: model.SolveResult{Status: model.StatusFeasible, Objective: decimal.NewFromInt(100)}},
		{Algorithm: model.AlgorithmSA, SolveResult: model.SolveResult{Objective: decimal.NewFromInt(10000)}},
	}}
	assert.NoError(t, report.SanityCheck())
}

func TestReport_SanityCheck_SkipsFailedAlgorithms(t *testing.T) {
	report := benchmark.Report{Results: []benchmark.Result{
		{Algorithm: model.AlgorithmILP, SolveResult: model.SolveResult{Status: model.StatusOptimal, Objective: decimal.NewFromInt(100)}},
		{Algorithm: model.AlgorithmSA, Err: assertError{}},
	}}
	assert.NoError(t, report.SanityCheck())
}

type assertError struct{}

func (assertError) Error() string { return "solve failed" }
