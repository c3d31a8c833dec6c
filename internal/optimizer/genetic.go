package optimizer

import (
	"context"
	"math/rand/v2"
	"sort"

	"github.com/agriview/fertilizer-optimizer/internal/config"
	"github.com/agriview/fertilizer-optimizer/internal/model"
)

// geneticStrategy evolves a population of rate vectors. Fitness is total
// profit with a penalty for joint-constraint violations; crossover is
// uniform per gene, mutation is Gaussian clipped to [0, upper], and elitism
// retains the top half each generation. The seed (request seed, falling
// back to the configured one) makes runs reproducible. Context cancellation
// stops evolution and returns the best individual found so far.
type geneticStrategy struct {
	params config.GeneticParams
}

func (s *geneticStrategy) Method() model.OptimizationMethod {
	return model.MethodGeneticAlgorithm
}

type individual struct {
	genes   []float64
	fitness float64
}

func (s *geneticStrategy) Solve(ctx context.Context, prob *Problem) ([]float64, error) {
	seed := s.params.Seed
	if prob.seed != 0 {
		seed = prob.seed
	}
	rng := rand.New(rand.NewPCG(seed, seed*0x9e3779b97f4a7c15+1))

	popSize := s.params.PopulationSize
	pop := make([]individual, popSize)
	for k := range pop {
		genes := make([]float64, prob.n)
		if k > 0 {
			// Individual zero stays at the origin so "apply nothing"
			// is always represented.
			for i := range genes {
				genes[i] = rng.Float64() * prob.upper[i]
			}
		}
		pop[k] = individual{genes: genes, fitness: s.fitness(prob, genes)}
	}

	elite := popSize / 2
	for gen := 0; gen < s.params.Generations; gen++ {
		if ctx.Err() != nil {
			break
		}
		sort.SliceStable(pop, func(a, b int) bool { return pop[a].fitness > pop[b].fitness })
		for k := elite; k < popSize; k++ {
			p1 := pop[rng.IntN(elite)]
			p2 := pop[rng.IntN(elite)]
			genes := pop[k].genes
			for i := range genes {
				if rng.Float64() < 0.5 {
					genes[i] = p1.genes[i]
				} else {
					genes[i] = p2.genes[i]
				}
				if rng.Float64() < s.params.MutationRate {
					genes[i] += rng.NormFloat64() * s.params.MutationSigma * prob.upper[i]
				}
				if genes[i] < 0 {
					genes[i] = 0
				} else if genes[i] > prob.upper[i] {
					genes[i] = prob.upper[i]
				}
			}
			pop[k].fitness = s.fitness(prob, genes)
		}
	}

	sort.SliceStable(pop, func(a, b int) bool { return pop[a].fitness > pop[b].fitness })
	best := make([]float64, prob.n)
	copy(best, pop[0].genes)
	prob.projectFeasible(best)
	return best, nil
}

// fitness is profit minus a stiff penalty for leaving the feasible region.
func (s *geneticStrategy) fitness(prob *Problem, genes []float64) float64 {
	return prob.objective(genes) - 100*prob.violation(genes)
}
