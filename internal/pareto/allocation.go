package pareto

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/pkg/mathutil"
)

// allocateBudget splits the total budget across fields. When reallocation
// is allowed the split follows a priority score combining target yield,
// crop price, acreage, and historical yield; otherwise fields receive equal
// shares. Per-field and per-acre ceilings clip each allocation, and with
// reallocation enabled the clipped remainder is redistributed within the
// flexibility headroom.
func (s *Service) allocateBudget(ctx context.Context, req *model.OptimizationRequest) []model.BudgetAllocationResult {
	budget := req.Constraints.Budget
	fields := req.Fields

	priorities := fieldPriorities(fields)
	shares := make([]float64, len(fields))
	if budget.ReallocationAllowed {
		var sum float64
		for _, p := range priorities {
			sum += p
		}
		for i, p := range priorities {
			shares[i] = budget.TotalLimit * mathutil.SafeDivide(p, sum, 1/float64(len(fields)))
		}
	} else {
		for i := range shares {
			shares[i] = budget.TotalLimit / float64(len(fields))
		}
	}

	flexLimit := budget.TotalLimit * (1 + budget.FlexibilityPercent/100)
	allocated := make([]float64, len(fields))
	var spent, headroomWeight float64
	for i, field := range fields {
		allocated[i] = clipAllocation(shares[i], field, budget)
		spent += allocated[i]
		if allocated[i] >= shares[i] {
			headroomWeight += priorities[i]
		}
	}

	// Redistribute what the clips freed, staying inside the flexibility
	// headroom and each field's own ceilings.
	if budget.ReallocationAllowed && spent < budget.TotalLimit {
		remainder := math.Min(budget.TotalLimit-spent, flexLimit-spent)
		for i, field := range fields {
			if remainder <= 0 || headroomWeight <= 0 {
				break
			}
			extra := remainder * mathutil.SafeDivide(priorities[i], headroomWeight, 0)
			grown := clipAllocation(allocated[i]+extra, field, budget)
			remainder -= grown - allocated[i]
			allocated[i] = grown
		}
	}

	results := make([]model.BudgetAllocationResult, 0, len(fields))
	for i, field := range fields {
		target := shares[i]
		result := model.BudgetAllocationResult{
			FieldID:             field.ID,
			AllocatedBudget:     mathutil.Round(allocated[i]),
			UtilizationPercent:  mathutil.Percentage(allocated[i], target),
			NutrientAllocations: s.splitByNutrient(req, allocated[i]),
			ProductAllocations:  s.splitByProduct(req, allocated[i]),
			ExpectedROIPercent:  s.expectedROI(ctx, req, field, allocated[i]),
			PriorityScore:       priorities[i],
		}
		if budget.PerAcreLimit > 0 && allocated[i]/field.Acres > budget.PerAcreLimit+1e-9 {
			result.ConstraintViolations = append(result.ConstraintViolations,
				fmt.Sprintf("per-acre budget %.2f exceeds limit %.2f", allocated[i]/field.Acres, budget.PerAcreLimit))
		}
		if budget.PerFieldLimit > 0 && allocated[i] > budget.PerFieldLimit+1e-9 {
			result.ConstraintViolations = append(result.ConstraintViolations,
				fmt.Sprintf("field budget %.2f exceeds limit %.2f", allocated[i], budget.PerFieldLimit))
		}
		results = append(results, result)
	}
	return results
}

// fieldPriorities scores each field by a weighted combination of target
// yield, crop price, acreage, and historical yield, each normalized to the
// cohort maximum. Fields with no history get a neutral half weight there.
func fieldPriorities(fields []model.FieldData) []float64 {
	var maxYield, maxPrice, maxAcres, maxHist float64
	for _, f := range fields {
		maxYield = math.Max(maxYield, f.TargetYield)
		maxPrice = math.Max(maxPrice, f.CropPrice)
		maxAcres = math.Max(maxAcres, f.Acres)
		maxHist = math.Max(maxHist, f.HistoricalYield)
	}
	priorities := make([]float64, len(fields))
	for i, f := range fields {
		hist := 0.5
		if maxHist > 0 && f.HistoricalYield > 0 {
			hist = f.HistoricalYield / maxHist
		}
		priorities[i] = 0.35*mathutil.SafeDivide(f.TargetYield, maxYield, 0) +
			0.30*mathutil.SafeDivide(f.CropPrice, maxPrice, 0) +
			0.20*mathutil.SafeDivide(f.Acres, maxAcres, 0) +
			0.15*hist
	}
	return priorities
}

func clipAllocation(amount float64, field model.FieldData, budget *model.BudgetConstraint) float64 {
	if budget.PerFieldLimit > 0 {
		amount = math.Min(amount, budget.PerFieldLimit)
	}
	if budget.PerAcreLimit > 0 {
		amount = math.Min(amount, budget.PerAcreLimit*field.Acres)
	}
	return amount
}

// splitByNutrient derives nutrient sub-allocations from the declared budget
// shares, defaulting to an equal split across the nutrients the available
// products supply.
func (s *Service) splitByNutrient(req *model.OptimizationRequest, amount float64) map[string]float64 {
	shares := req.Constraints.Budget.NutrientShares
	if len(shares) == 0 {
		symbols := make(map[string]bool)
		for _, product := range req.Products {
			if !product.Available {
				continue
			}
			for symbol, content := range product.Nutrients {
				if content > 0 {
					symbols[symbol] = true
				}
			}
		}
		if len(symbols) == 0 {
			return map[string]float64{}
		}
		shares = make(map[string]float64, len(symbols))
		for symbol := range symbols {
			shares[symbol] = 1 / float64(len(symbols))
		}
	}
	return scaleShares(shares, amount)
}

// splitByProduct derives product sub-allocations from the declared budget
// shares, defaulting to an equal split across available products.
func (s *Service) splitByProduct(req *model.OptimizationRequest, amount float64) map[string]float64 {
	shares := req.Constraints.Budget.ProductShares
	if len(shares) == 0 {
		var available []string
		for _, product := range req.Products {
			if product.Available {
				available = append(available, product.ID)
			}
		}
		if len(available) == 0 {
			return map[string]float64{}
		}
		shares = make(map[string]float64, len(available))
		for _, id := range available {
			shares[id] = 1 / float64(len(available))
		}
	}
	return scaleShares(shares, amount)
}

func scaleShares(shares map[string]float64, amount float64) map[string]float64 {
	var sum float64
	for _, share := range shares {
		sum += share
	}
	out := make(map[string]float64, len(shares))
	for key, share := range shares {
		out[key] = amount * mathutil.SafeDivide(share, sum, 0)
	}
	return out
}

// expectedROI estimates the return a field can generate from its allocated
// budget by running the single-objective optimizer on the field alone.
func (s *Service) expectedROI(ctx context.Context, req *model.OptimizationRequest, field model.FieldData, allocated float64) float64 {
	if allocated <= 0 {
		return 0
	}
	single := &model.OptimizationRequest{
		Fields:   []model.FieldData{field},
		Products: req.Products,
		Constraints: model.OptimizationConstraints{
			MaxNutrientRates: req.Constraints.MaxNutrientRates,
			MaxCostPerAcre:   req.Constraints.MaxCostPerAcre,
			Budget: &model.BudgetConstraint{
				TotalLimit:         allocated,
				PerAcreLimit:       req.Constraints.Budget.PerAcreLimit,
				FlexibilityPercent: req.Constraints.Budget.FlexibilityPercent,
				UtilizationTarget:  req.Constraints.Budget.UtilizationTarget,
			},
		},
		Goals:  req.Goals,
		Method: model.MethodLinearProgramming,
	}
	result, err := s.opt.Optimize(ctx, single)
	if err != nil {
		s.logger.Warn("per-field ROI estimate failed",
			zap.String("op", "pareto.expectedROI"),
			zap.String("field", field.ID),
			zap.Error(err),
		)
		return 0
	}
	return result.ROIPercent
}
