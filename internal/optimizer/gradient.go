package optimizer

import (
	"context"
	"math"

	"github.com/agriview/fertilizer-optimizer/internal/config"
	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/pkg/mathutil"
)

// gradientStrategy climbs the true profit objective with a central
// finite-difference gradient and a fixed learning rate, projecting every
// iterate back onto the feasible set. It stops on the convergence tolerance,
// the iteration cap, or context cancellation; cancellation returns the best
// iterate so far rather than an error.
type gradientStrategy struct {
	params config.GradientParams
}

func (s *gradientStrategy) Method() model.OptimizationMethod {
	return model.MethodGradientDescent
}

func (s *gradientStrategy) Solve(ctx context.Context, prob *Problem) ([]float64, error) {
	x := make([]float64, prob.n)
	for i := range x {
		x[i] = prob.upper[i] / 4
	}
	prob.projectFeasible(x)

	h := s.params.FiniteDiffStep
	grad := make([]float64, prob.n)
	probe := make([]float64, prob.n)
	prev := make([]float64, prob.n)

	for iter := 0; iter < s.params.MaxIterations; iter++ {
		if iter%16 == 0 && ctx.Err() != nil {
			break
		}
		copy(prev, x)

		for i := range grad {
			if prob.upper[i] <= 0 {
				grad[i] = 0
				continue
			}
			copy(probe, x)
			probe[i] = x[i] + h
			up := prob.objective(probe)
			probe[i] = math.Max(0, x[i]-h)
			down := prob.objective(probe)
			denom := x[i] + h - probe[i]
			if denom <= 0 {
				grad[i] = 0
				continue
			}
			grad[i] = (up - down) / denom
		}

		for i := range x {
			x[i] += s.params.LearningRate * grad[i]
		}
		prob.projectFeasible(x)

		delta := make([]float64, len(x))
		for i := range x {
			delta[i] = x[i] - prev[i]
		}
		if mathutil.Norm2(delta) < s.params.Tolerance {
			break
		}
	}

	for i := range x {
		if math.IsNaN(x[i]) {
			return nil, &errSolver{method: s.Method(), reason: "non-finite iterate"}
		}
	}
	return x, nil
}
