package optimizer

import (
	"context"
	"fmt"

	"github.com/agriview/fertilizer-optimizer/internal/model"
)

// Strategy is one solver for the single-objective rate allocation. Solve
// returns a rate vector indexed like the Problem's variables, or an error when the
// solver is infeasible or fails to converge; the caller recovers with the
// greedy fallback.
type Strategy interface {
	Method() model.OptimizationMethod
	Solve(ctx context.Context, prob *Problem) ([]float64, error)
}

// errSolver wraps solver-internal failures so the service can distinguish
// them from input validation.
type errSolver struct {
	method model.OptimizationMethod
	reason string
}

func (e *errSolver) Error() string {
	return fmt.Sprintf("%s solver failed: %s", e.method, e.reason)
}
