package breakeven

import (
	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/pkg/mathutil"
)

// sensitivityVariables are perturbed one at a time by +-10%.
var sensitivityVariables = []string{
	"crop_price",
	"fertilizer_cost",
	"yield",
	"fixed_costs",
	"variable_costs",
}

// sensitivityAnalysis perturbs each input variable by +-10% holding the
// rest fixed and reports the break-even response. For price and cost
// variables the metric is break-even yield per acre; for the yield
// variable it is break-even price, since yield cancels out of its own
// break-even yield.
func (s *Service) sensitivityAnalysis(base baseEconomics) []model.SensitivityAnalysis {
	rates := base.rates
	analyses := make([]model.SensitivityAnalysis, 0, len(sensitivityVariables))
	for _, variable := range sensitivityVariables {
		var baseValue float64
		switch variable {
		case "crop_price":
			baseValue = base.cropPrice
		case "fertilizer_cost":
			baseValue = base.fertilizerCost
		case "yield":
			baseValue = base.yieldPerAcre
		case "fixed_costs":
			baseValue = rates.FixedPerAcre * base.totalAcres
		case "variable_costs":
			baseValue = rates.VariablePerAcre * base.totalAcres
		}

		analysis := model.SensitivityAnalysis{
			Variable:        variable,
			BaseValue:       baseValue,
			LowValue:        baseValue * 0.9,
			HighValue:       baseValue * 1.1,
			BreakEvenAtLow:  s.breakEvenMetric(base, variable, 0.9),
			BreakEvenAtBase: s.breakEvenMetric(base, variable, 1.0),
			BreakEvenAtHigh: s.breakEvenMetric(base, variable, 1.1),
		}
		if analysis.BreakEvenAtBase != 0 {
			analysis.Elasticity = ((analysis.BreakEvenAtHigh - analysis.BreakEvenAtLow) / analysis.BreakEvenAtBase) / 0.2
		}
		analyses = append(analyses, analysis)
	}
	return analyses
}

// breakEvenMetric recomputes the break-even metric with one variable
// scaled by the given multiplier.
func (s *Service) breakEvenMetric(base baseEconomics, variable string, multiplier float64) float64 {
	rates := base.rates
	price := base.cropPrice
	fertilizerCost := base.fertilizerCost
	fixedCosts := rates.FixedPerAcre * base.totalAcres
	variableCosts := rates.VariablePerAcre * base.totalAcres
	remainingCosts := (rates.ApplicationPerAcre + rates.OpportunityPerAcre) * base.totalAcres
	totalYield := base.totalYield

	switch variable {
	case "crop_price":
		price *= multiplier
	case "fertilizer_cost":
		fertilizerCost *= multiplier
	case "yield":
		totalYield *= multiplier
	case "fixed_costs":
		fixedCosts *= multiplier
	case "variable_costs":
		variableCosts *= multiplier
	}

	totalCost := fixedCosts + variableCosts + fertilizerCost + remainingCosts
	if variable == "yield" {
		return mathutil.SafeDivide(totalCost, totalYield, 0)
	}
	return mathutil.SafeDivide(totalCost, base.totalAcres*price, 0)
}
