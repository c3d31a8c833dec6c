package optimizer

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/pkg/constants"
)

// linearStrategy maximizes the linearized profit with a simplex solver. The
// objective coefficient per variable is the marginal profit per lb of
// product; every constraint is a linear inequality converted to standard
// form with one slack variable per row.
type linearStrategy struct{}

func (s *linearStrategy) Method() model.OptimizationMethod {
	return model.MethodLinearProgramming
}

func (s *linearStrategy) Solve(_ context.Context, prob *Problem) ([]float64, error) {
	rows, rhs := s.constraintRows(prob)
	m := len(rows)
	n := prob.n

	// Standard form: minimize cᵀy s.t. Ay = b, y >= 0, with
	// y = [rates | slacks] and A = [C | I].
	c := make([]float64, n+m)
	for i, coeff := range prob.coeffs {
		c[i] = -coeff
	}
	a := mat.NewDense(m, n+m, nil)
	b := make([]float64, m)
	for r, row := range rows {
		for i, v := range row {
			a.Set(r, i, v)
		}
		a.Set(r, n+r, 1)
		b[r] = rhs[r]
	}

	_, y, err := lp.Simplex(c, a, b, constants.SimplexTolerance, nil)
	if err != nil {
		return nil, &errSolver{method: s.Method(), reason: err.Error()}
	}
	x := make([]float64, n)
	copy(x, y[:n])
	for i := range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) {
			return nil, &errSolver{method: s.Method(), reason: "non-finite solution component"}
		}
	}
	// Simplex tolerances can leave rates a hair outside the box.
	prob.clampToBox(x)
	return x, nil
}

// constraintRows assembles the inequality rows Cx <= b over the rate
// variables: per-variable bounds, shared nutrient ceilings per field,
// per-acre and per-field spending caps, and the total budget.
func (s *linearStrategy) constraintRows(prob *Problem) ([][]float64, []float64) {
	var rows [][]float64
	var rhs []float64

	addRow := func(row []float64, bound float64) {
		rows = append(rows, row)
		rhs = append(rhs, bound)
	}

	for i := 0; i < prob.n; i++ {
		row := make([]float64, prob.n)
		row[i] = 1
		addRow(row, prob.upper[i])
	}

	for f, field := range prob.fields {
		for symbol, ceiling := range prob.cons.MaxNutrientRates {
			if ceiling <= 0 {
				continue
			}
			row := make([]float64, prob.n)
			relevant := false
			for j, product := range prob.products {
				content := product.Nutrients[symbol]
				if content <= 0 {
					continue
				}
				row[prob.varIndex(f, j)] = content / constants.PercentDivisor
				relevant = true
			}
			if relevant {
				addRow(row, ceiling)
			}
		}

		if limit := prob.perAcreCostLimit(); limit > 0 {
			row := make([]float64, prob.n)
			for j, product := range prob.products {
				row[prob.varIndex(f, j)] = product.PricePerUnit
			}
			addRow(row, limit)
		}

		if b := prob.cons.Budget; b != nil && b.PerFieldLimit > 0 {
			row := make([]float64, prob.n)
			for j, product := range prob.products {
				row[prob.varIndex(f, j)] = product.PricePerUnit * field.Acres
			}
			addRow(row, b.PerFieldLimit)
		}
	}

	if b := prob.cons.Budget; b != nil {
		row := make([]float64, prob.n)
		for f, field := range prob.fields {
			for j, product := range prob.products {
				row[prob.varIndex(f, j)] = product.PricePerUnit * field.Acres
			}
		}
		addRow(row, b.TotalLimit)
	}

	return rows, rhs
}
