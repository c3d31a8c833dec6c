package pareto

import (
	"context"
	"fmt"

	"github.com/agriview/fertilizer-optimizer/internal/config"
	"github.com/agriview/fertilizer-optimizer/internal/model"
)

// analyzeRelaxations probes what loosening each binding constraint would
// buy: total budget +20%, each nutrient ceiling +25%, and the per-acre cost
// cap +30%. Each probe re-solves the pure-profit scenario with that one
// constraint relaxed and compares it against the recommended scenario.
func (s *Service) analyzeRelaxations(ctx context.Context, req *model.OptimizationRequest, recommended *model.ParetoFrontierPoint) []model.ConstraintRelaxationAnalysis {
	if recommended == nil {
		return nil
	}
	policy := s.cfg.Policy

	var analyses []model.ConstraintRelaxationAnalysis

	budget := req.Constraints.Budget
	relaxedBudget := budget.TotalLimit * (1 + policy.BudgetRelaxFactor)
	probe := cloneRequest(req)
	probe.Constraints.Budget.TotalLimit = relaxedBudget
	analyses = append(analyses, s.relaxationProbe(ctx, probe, recommended,
		"total_budget", budget.TotalLimit, relaxedBudget))

	for symbol, ceiling := range req.Constraints.MaxNutrientRates {
		if ceiling <= 0 {
			continue
		}
		relaxed := ceiling * (1 + policy.NutrientRelaxFactor)
		probe := cloneRequest(req)
		probe.Constraints.MaxNutrientRates[symbol] = relaxed
		analyses = append(analyses, s.relaxationProbe(ctx, probe, recommended,
			"nutrient_ceiling:"+symbol, ceiling, relaxed))
	}

	if req.Constraints.MaxCostPerAcre > 0 {
		relaxed := req.Constraints.MaxCostPerAcre * (1 + policy.CostPerAcreRelaxFactor)
		probe := cloneRequest(req)
		probe.Constraints.MaxCostPerAcre = relaxed
		analyses = append(analyses, s.relaxationProbe(ctx, probe, recommended,
			"max_cost_per_acre", req.Constraints.MaxCostPerAcre, relaxed))
	}

	return analyses
}

func (s *Service) relaxationProbe(ctx context.Context, probe *model.OptimizationRequest, recommended *model.ParetoFrontierPoint, constraintType string, original, relaxed float64) model.ConstraintRelaxationAnalysis {
	pureProfit := config.WeightTriple{Profit: 1, Label: "pure profit"}
	point := s.solveWeighted(ctx, probe, pureProfit, "relaxation_probe")

	roiDelta := point.ROIPercent - recommended.ROIPercent
	analysis := model.ConstraintRelaxationAnalysis{
		ConstraintType: constraintType,
		OriginalValue:  original,
		RelaxedValue:   relaxed,
		Impact: map[string]float64{
			"roi_delta":           roiDelta,
			"cost_delta":          point.Cost - recommended.Cost,
			"environmental_delta": point.EnvironmentalScore - recommended.EnvironmentalScore,
			"yield_delta":         point.YieldTargetAchievementPercent - recommended.YieldTargetAchievementPercent,
		},
		CostOfRelaxation:    point.Cost - recommended.Cost,
		BenefitOfRelaxation: point.Profit() - recommended.Profit(),
	}

	switch {
	case roiDelta > s.cfg.Policy.RelaxROIThreshold:
		analysis.Recommendation = fmt.Sprintf("relax %s: ROI improves by %.1f points", constraintType, roiDelta)
	case roiDelta > s.cfg.Policy.EvaluateROIThreshold:
		analysis.Recommendation = fmt.Sprintf("evaluate trade-off for %s: ROI improves by %.1f points", constraintType, roiDelta)
	default:
		analysis.Recommendation = fmt.Sprintf("relaxing %s is not recommended: ROI change %.1f points", constraintType, roiDelta)
	}
	return analysis
}

// cloneRequest copies a request deeply enough that constraint mutations in
// a probe never leak into the caller's request.
func cloneRequest(req *model.OptimizationRequest) *model.OptimizationRequest {
	out := *req
	out.Constraints.MaxNutrientRates = make(map[string]float64, len(req.Constraints.MaxNutrientRates))
	for symbol, ceiling := range req.Constraints.MaxNutrientRates {
		out.Constraints.MaxNutrientRates[symbol] = ceiling
	}
	if req.Constraints.Budget != nil {
		budget := *req.Constraints.Budget
		out.Constraints.Budget = &budget
	}
	return &out
}
