package optimizer

import (
	"math"

	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/pkg/agronomy"
	"github.com/agriview/fertilizer-optimizer/pkg/constants"
)

// Problem is the solver-facing form of an optimization request: one decision
// variable per (field, product) pair holding an application rate in lb/acre.
type Problem struct {
	fields   []model.FieldData
	products []model.FertilizerProduct
	cons     model.OptimizationConstraints

	n      int       // number of decision variables
	coeffs []float64 // marginal profit per lb of product at zero rate
	upper  []float64 // per-variable rate bound
	seed   uint64
}

// NewProblem indexes a request into decision variables with their marginal
// profit coefficients and rate bounds.
func NewProblem(req *model.OptimizationRequest) *Problem {
	p := &Problem{
		fields:   req.Fields,
		products: req.Products,
		cons:     req.Constraints,
		n:        len(req.Fields) * len(req.Products),
		seed:     req.Seed,
	}
	p.coeffs = make([]float64, p.n)
	p.upper = make([]float64, p.n)

	for f, field := range p.fields {
		for j, product := range p.products {
			i := p.varIndex(f, j)
			if !product.Available {
				continue
			}
			p.coeffs[i] = agronomy.MarginalYieldResponse(field, product)*field.CropPrice - product.PricePerUnit
			p.upper[i] = p.rateBound(field, product)
		}
	}
	return p
}

func (p *Problem) varIndex(fieldIdx, productIdx int) int {
	return fieldIdx*len(p.products) + productIdx
}

// rateBound combines the agronomic saturation rate with every single-variable
// consequence of the declared constraints. Joint constraints (shared nutrient
// ceilings, per-acre cost across products, the total budget) are enforced
// separately by each strategy.
func (p *Problem) rateBound(field model.FieldData, product model.FertilizerProduct) float64 {
	bound := agronomy.SaturationRate(field, product)
	for symbol, ceiling := range p.cons.MaxNutrientRates {
		content := product.Nutrients[symbol]
		if content <= 0 || ceiling <= 0 {
			continue
		}
		bound = math.Min(bound, ceiling/(content/constants.PercentDivisor))
	}
	if limit := p.perAcreCostLimit(); limit > 0 && product.PricePerUnit > 0 {
		bound = math.Min(bound, limit/product.PricePerUnit)
	}
	if b := p.cons.Budget; b != nil && product.PricePerUnit > 0 && field.Acres > 0 {
		bound = math.Min(bound, b.TotalLimit/(product.PricePerUnit*field.Acres))
		if b.PerFieldLimit > 0 {
			bound = math.Min(bound, b.PerFieldLimit/(product.PricePerUnit*field.Acres))
		}
	}
	return math.Max(0, bound)
}

// perAcreCostLimit returns the effective per-acre spending cap, zero when
// unconstrained.
func (p *Problem) perAcreCostLimit() float64 {
	limit := p.cons.MaxCostPerAcre
	if b := p.cons.Budget; b != nil && b.PerAcreLimit > 0 {
		if limit == 0 || b.PerAcreLimit < limit {
			limit = b.PerAcreLimit
		}
	}
	return limit
}

// rates converts a solution vector into the result allocation map, dropping
// negligible rates.
func (p *Problem) rates(x []float64) model.RateAllocation {
	alloc := make(model.RateAllocation, len(p.fields))
	for f, field := range p.fields {
		for j, product := range p.products {
			rate := x[p.varIndex(f, j)]
			if rate > constants.RateTolerance {
				alloc.Set(field.ID, product.ID, rate)
			}
		}
	}
	return alloc
}

// objective is the true (capped, piecewise-linear) profit of a rate vector,
// shared by the iterative strategies and the evaluator.
func (p *Problem) objective(x []float64) float64 {
	var profit float64
	for f, field := range p.fields {
		responseCap := constants.MaxResponseFraction * field.TargetYield
		var response, costPerAcre float64
		for j, product := range p.products {
			rate := x[p.varIndex(f, j)]
			if rate <= 0 {
				continue
			}
			response += agronomy.YieldResponse(field, product, rate)
			costPerAcre += rate * product.PricePerUnit
		}
		response = math.Min(response, responseCap)
		profit += (response*field.CropPrice - costPerAcre) * field.Acres
	}
	return profit
}

// clampToBox projects x onto [0, upper] in place.
func (p *Problem) clampToBox(x []float64) {
	for i := range x {
		if x[i] < 0 || math.IsNaN(x[i]) {
			x[i] = 0
		} else if x[i] > p.upper[i] {
			x[i] = p.upper[i]
		}
	}
}

// projectFeasible scales x in place until the joint constraints hold:
// per-field nutrient ceilings, the per-acre cost cap, per-field budgets, and
// the total budget. Uniform down-scaling preserves the box bounds.
func (p *Problem) projectFeasible(x []float64) {
	p.clampToBox(x)

	for f, field := range p.fields {
		// Shared nutrient ceilings across products.
		for symbol, ceiling := range p.cons.MaxNutrientRates {
			if ceiling <= 0 {
				continue
			}
			var applied float64
			for j, product := range p.products {
				applied += x[p.varIndex(f, j)] * product.Nutrients[symbol] / constants.PercentDivisor
			}
			if applied > ceiling {
				p.scaleField(x, f, ceiling/applied)
			}
		}
		// Per-acre spending cap.
		if limit := p.perAcreCostLimit(); limit > 0 {
			if cost := p.fieldCostPerAcre(x, f); cost > limit {
				p.scaleField(x, f, limit/cost)
			}
		}
		// Per-field budget.
		if b := p.cons.Budget; b != nil && b.PerFieldLimit > 0 {
			if cost := p.fieldCostPerAcre(x, f) * field.Acres; cost > b.PerFieldLimit {
				p.scaleField(x, f, b.PerFieldLimit/cost)
			}
		}
	}

	if b := p.cons.Budget; b != nil {
		if total := p.totalCost(x); total > b.TotalLimit {
			scale := b.TotalLimit / total
			for i := range x {
				x[i] *= scale
			}
		}
	}
}

func (p *Problem) scaleField(x []float64, fieldIdx int, scale float64) {
	for j := range p.products {
		x[p.varIndex(fieldIdx, j)] *= scale
	}
}

func (p *Problem) fieldCostPerAcre(x []float64, fieldIdx int) float64 {
	var cost float64
	for j, product := range p.products {
		cost += x[p.varIndex(fieldIdx, j)] * product.PricePerUnit
	}
	return cost
}

func (p *Problem) totalCost(x []float64) float64 {
	var total float64
	for f, field := range p.fields {
		total += p.fieldCostPerAcre(x, f) * field.Acres
	}
	return total
}

// N returns the number of decision variables.
func (p *Problem) N() int { return p.n }

// UpperBound returns the rate bound of variable i.
func (p *Problem) UpperBound(i int) float64 { return p.upper[i] }

// Rates converts a solution vector into an allocation map.
func (p *Problem) Rates(x []float64) model.RateAllocation { return p.rates(x) }

// ProjectFeasible projects x onto the feasible set in place.
func (p *Problem) ProjectFeasible(x []float64) { p.projectFeasible(x) }

// Objective returns the true profit of a rate vector.
func (p *Problem) Objective(x []float64) float64 { return p.objective(x) }

// violation measures how far x sits outside the joint constraints, in
// dollars-equivalent units, for penalty-based strategies.
func (p *Problem) violation(x []float64) float64 {
	var v float64
	for f, field := range p.fields {
		for symbol, ceiling := range p.cons.MaxNutrientRates {
			if ceiling <= 0 {
				continue
			}
			var applied float64
			for j, product := range p.products {
				applied += x[p.varIndex(f, j)] * product.Nutrients[symbol] / constants.PercentDivisor
			}
			if applied > ceiling {
				v += (applied - ceiling) * 10
			}
		}
		if limit := p.perAcreCostLimit(); limit > 0 {
			if cost := p.fieldCostPerAcre(x, f); cost > limit {
				v += (cost - limit) * field.Acres
			}
		}
		if b := p.cons.Budget; b != nil && b.PerFieldLimit > 0 {
			if cost := p.fieldCostPerAcre(x, f) * field.Acres; cost > b.PerFieldLimit {
				v += cost - b.PerFieldLimit
			}
		}
	}
	if b := p.cons.Budget; b != nil {
		if total := p.totalCost(x); total > b.TotalLimit {
			v += total - b.TotalLimit
		}
	}
	return v
}
