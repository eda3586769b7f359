// Package ga implements the genetic-algorithm solver (C5): population
// seeding (70% aggressive / 30% conservative), tournament selection,
// coverage-weighted crossover, adaptive mutation, and elitism.
package ga

import (
	"math/rand"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pguetschow/rostercore/internal/model"
	"github.com/pguetschow/rostercore/internal/obslog"
	"github.com/pguetschow/rostercore/internal/solver/common"
)

const tournamentSize = 3

type individual struct {
	sol     common.Solution
	fitness float64
}

// Solve runs the genetic algorithm over problem and returns the best
// schedule found across all generations.
func Solve(problem *model.Problem, log obslog.Sink) (model.SolveResult, error) {
	cfg := problem.Config.GA
	rng := common.NewRNG(problem, "ga")

	population, err := seedPopulation(rng, problem, cfg.Population)
	if err != nil {
		return model.SolveResult{}, err
	}

	status := model.StatusFeasible
	var best individual
	haveBest := false

	for gen := 0; gen < cfg.Generations; gen++ {
		if gen%10 == 0 && problem.Cancel != nil && problem.Cancel.Cancelled() {
			status = model.StatusCancelled
			break
		}

		sort.Slice(population, func(i, j int) bool { return population[i].fitness < population[j].fitness })
		if !haveBest || population[0].fitness < best.fitness {
			best = population[0]
			haveBest = true
		}

		progress := float64(gen) / float64(cfg.Generations)
		next := make([]individual, 0, cfg.Population)
		next = append(next, population[:min(cfg.Elitism, len(population))]...)

		for len(next) < cfg.Population {
			parent1 := tournamentSelect(rng, population)
			parent2 := tournamentSelect(rng, population)

			var childSol common.Solution
			if rng.Float64() < cfg.CrossoverRate {
				childSol, err = crossover(rng, parent1.sol, parent2.sol, problem)
				if err != nil {
					return model.SolveResult{}, err
				}
			} else {
				childSol = parent1.sol.Clone()
			}

			if rng.Float64() < cfg.MutationRate {
				childSol, err = mutate(rng, childSol, problem, progress)
				if err != nil {
					return model.SolveResult{}, err
				}
			}
			if rng.Float64() < 0.3 {
				childSol, err = mutate(rng, childSol, problem, progress)
				if err != nil {
					return model.SolveResult{}, err
				}
			}
			if rng.Float64() < 0.1 {
				childSol, err = mutate(rng, childSol, problem, progress)
				if err != nil {
					return model.SolveResult{}, err
				}
			}

			fitness, err := common.FitnessCost(childSol, problem)
			if err != nil {
				return model.SolveResult{}, err
			}
			next = append(next, individual{sol: childSol, fitness: fitness})
		}

		population = next
		log.Event("ga_generation", map[string]any{"generation": gen, "best_fitness": best.fitness})
	}

	sort.Slice(population, func(i, j int) bool { return population[i].fitness < population[j].fitness })
	if !haveBest || population[0].fitness < best.fitness {
		best = population[0]
	}

	finalized, err := common.Finalize(best.sol, problem)
	if err != nil {
		return model.SolveResult{}, err
	}
	finalFitness, err := common.FitnessCost(finalized, problem)
	if err != nil {
		return model.SolveResult{}, err
	}

	return model.SolveResult{
		Schedule:  finalized.ToSchedule(),
		Status:    status,
		Objective: decimal.NewFromFloat(finalFitness),
		Diagnostics: map[string]any{
			"generations": cfg.Generations,
		},
	}, nil
}

func seedPopulation(rng *rand.Rand, problem *model.Problem, size int) ([]individual, error) {
	aggressiveCount := int(0.7 * float64(size))
	out := make([]individual, 0, size)
	for i := 0; i < size; i++ {
		aggressive := i < aggressiveCount
		sol, err := common.AggressiveGreedyConstruct(rng, problem, aggressive)
		if err != nil {
			return nil, err
		}
		fitness, err := common.FitnessCost(sol, problem)
		if err != nil {
			return nil, err
		}
		out = append(out, individual{sol: sol, fitness: fitness})
	}
	return out, nil
}

func tournamentSelect(rng *rand.Rand, population []individual) individual {
	best := population[rng.Intn(len(population))]
	for i := 1; i < tournamentSize; i++ {
		candidate := population[rng.Intn(len(population))]
		if candidate.fitness < best.fitness {
			best = candidate
		}
	}
	return best
}
