package optimizer

import (
	"math"
	"sort"

	"github.com/agriview/fertilizer-optimizer/pkg/constants"
)

// greedyFallback produces a deterministic constraint-respecting allocation
// without a solver: variables are taken in order of descending marginal
// profit and assigned the largest rate the remaining constraint headroom
// permits. It is used when a solver strategy reports infeasibility or
// non-convergence.
func greedyFallback(prob *Problem) []float64 {
	type candidate struct {
		idx      int
		fieldIdx int
		prodIdx  int
	}
	var candidates []candidate
	for f := range prob.fields {
		for j := range prob.products {
			i := prob.varIndex(f, j)
			if prob.coeffs[i] > 0 && prob.upper[i] > 0 {
				candidates = append(candidates, candidate{idx: i, fieldIdx: f, prodIdx: j})
			}
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := prob.coeffs[candidates[a].idx], prob.coeffs[candidates[b].idx]
		if ca != cb {
			return ca > cb
		}
		return candidates[a].idx < candidates[b].idx
	})

	x := make([]float64, prob.n)

	budgetLeft := math.Inf(1)
	if prob.cons.Budget != nil {
		budgetLeft = prob.cons.Budget.TotalLimit
	}
	fieldBudgetLeft := make([]float64, len(prob.fields))
	fieldCostLeft := make([]float64, len(prob.fields))
	nutrientLeft := make([]map[string]float64, len(prob.fields))
	for f := range prob.fields {
		fieldBudgetLeft[f] = math.Inf(1)
		if b := prob.cons.Budget; b != nil && b.PerFieldLimit > 0 {
			fieldBudgetLeft[f] = b.PerFieldLimit
		}
		fieldCostLeft[f] = math.Inf(1)
		if limit := prob.perAcreCostLimit(); limit > 0 {
			fieldCostLeft[f] = limit
		}
		nutrientLeft[f] = make(map[string]float64, len(prob.cons.MaxNutrientRates))
		for symbol, ceiling := range prob.cons.MaxNutrientRates {
			if ceiling > 0 {
				nutrientLeft[f][symbol] = ceiling
			}
		}
	}

	for _, c := range candidates {
		field := prob.fields[c.fieldIdx]
		product := prob.products[c.prodIdx]
		rate := prob.upper[c.idx]

		for symbol, left := range nutrientLeft[c.fieldIdx] {
			content := product.Nutrients[symbol]
			if content <= 0 {
				continue
			}
			rate = math.Min(rate, left/(content/constants.PercentDivisor))
		}
		if product.PricePerUnit > 0 {
			rate = math.Min(rate, fieldCostLeft[c.fieldIdx]/product.PricePerUnit)
			if field.Acres > 0 {
				rate = math.Min(rate, fieldBudgetLeft[c.fieldIdx]/(product.PricePerUnit*field.Acres))
				rate = math.Min(rate, budgetLeft/(product.PricePerUnit*field.Acres))
			}
		}
		if rate <= constants.RateTolerance {
			continue
		}

		x[c.idx] = rate
		cost := rate * product.PricePerUnit
		budgetLeft -= cost * field.Acres
		fieldBudgetLeft[c.fieldIdx] -= cost * field.Acres
		fieldCostLeft[c.fieldIdx] -= cost
		for symbol := range nutrientLeft[c.fieldIdx] {
			content := product.Nutrients[symbol]
			if content > 0 {
				nutrientLeft[c.fieldIdx][symbol] -= rate * content / constants.PercentDivisor
			}
		}
	}

	return x
}
