package optimizer

import (
	"context"
	"math"

	"github.com/agriview/fertilizer-optimizer/internal/config"
	"github.com/agriview/fertilizer-optimizer/internal/model"
)

// quadraticStrategy maximizes a concave revenue model with a
// diminishing-returns quadratic penalty: f(x) = Σ cᵢxᵢ - (cᵢ/2uᵢ)xᵢ², so the
// marginal value of each rate decays linearly to zero at its bound. The
// concave program is solved by projected gradient ascent with the analytic
// gradient, projecting each iterate onto the feasible set.
type quadraticStrategy struct {
	params config.QuadraticParams
}

func (s *quadraticStrategy) Method() model.OptimizationMethod {
	return model.MethodQuadraticProgramming
}

func (s *quadraticStrategy) Solve(ctx context.Context, prob *Problem) ([]float64, error) {
	x := make([]float64, prob.n)
	// Start from the midpoint of each bound so the first gradient is
	// informative on every coordinate.
	for i := range x {
		x[i] = prob.upper[i] / 2
	}
	prob.projectFeasible(x)

	grad := make([]float64, prob.n)
	prev := make([]float64, prob.n)

	for iter := 0; iter < s.params.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			break
		}
		copy(prev, x)
		for i := range grad {
			c := prob.coeffs[i]
			if c <= 0 || prob.upper[i] <= 0 {
				grad[i] = math.Min(c, 0)
				continue
			}
			grad[i] = c * (1 - x[i]/prob.upper[i])
		}
		for i := range x {
			x[i] += s.params.StepSize * grad[i] * math.Max(prob.upper[i], 1)
		}
		prob.projectFeasible(x)

		var step float64
		for i := range x {
			step += (x[i] - prev[i]) * (x[i] - prev[i])
		}
		if math.Sqrt(step) < s.params.Tolerance {
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
