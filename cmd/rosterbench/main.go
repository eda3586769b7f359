// Command rosterbench is a thin CLI driver around the rostering core: it
// assembles a synthetic Problem from its environment-driven config, runs
// either a single algorithm or the full cross-solver benchmark, and logs
// each solve's status and objective. It is a collaborator of the core, not part of
// it — the core never imports this package.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/pguetschow/rostercore/internal/benchmark"
	"github.com/pguetschow/rostercore/internal/config"
	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/obslog"
	"github.com/pguetschow/rostercore/internal/problem"
)

func main() {
	cfg := config.Load()

	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		level = parsed
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
	sink := obslog.NewSink(logger)

	p := sampleProblem(cfg)

	if cfg.Algorithm == "BENCHMARK" {
		report := benchmark.Run(p, sink)
		for _, res := range report.Results {
			if res.Err != nil {
				logger.Error().Str("algorithm", string(res.Algorithm)).Err(res.Err).Msg("solve failed")
				continue
			}
			logger.Info().
				Str("algorithm", string(res.Algorithm)).
				Str("status", string(res.SolveResult.Status)).
				Str("objective", res.SolveResult.Objective.String()).
				Msg("solved")
		}
		if err := report.SanityCheck(); err != nil {
			logger.Warn().Err(err).Msg("benchmark sanity check failed")
		}
		return
	}

	p.Algorithm = model.Algorithm(cfg.Algorithm)
	result, err := problem.Solve(&p, sink)
	if err != nil {
		logger.Fatal().Err(err).Msg("solve failed")
	}
	logger.Info().
		Str("status", string(result.Status)).
		Str("objective", result.Objective.String()).
		Int("entries", len(result.Schedule.Entries)).
		Msg("solved")
}

// sampleProblem builds a small illustrative Problem for manual exercise of
// the core; real callers assemble their own Problem from their workforce
// data.
func sampleProblem(cfg *config.Config) model.Problem {
	morning := model.NewShiftTemplate(1, "Morning", 8*60, 16*60, 2, 4)
	night := model.NewShiftTemplate(2, "Night", 22*60, 6*60, 1, 2)

	employees := make([]model.Employee, 0, 6)
	for i := 1; i <= 6; i++ {
		employees = append(employees, model.Employee{
			ID:              model.EmployeeID(i),
			Name:            "Employee",
			WeeklyHoursCap:  40,
			AbsenceDates:    map[model.Date]struct{}{},
			PreferredShifts: map[model.ShiftID]struct{}{},
		})
	}

	start := model.NewDate(2026, time.January, 1)
	end := model.NewDate(2026, time.January, 31)

	seed := cfg.Seed
	return model.Problem{
		Employees: employees,
		Shifts:    []model.ShiftTemplate{morning, night},
		Horizon:   model.NewPlanningHorizon(start, end),
		Policy:    model.CompanyPolicy{WorkweekSize: 5},
		Algorithm: model.Algorithm(cfg.Algorithm),
		Config:    model.DefaultConfig(),
		Seed:      &seed,
	}
}
