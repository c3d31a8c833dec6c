package pareto

import (
	"github.com/agriview/fertilizer-optimizer/internal/model"
)

// dominates reports whether a is at least as good as b on every objective
// and strictly better on at least one. Higher profit and environmental
// score are better; lower risk is better.
func dominates(a, b model.ParetoFrontierPoint) bool {
	if a.Profit() < b.Profit() || a.EnvironmentalScore < b.EnvironmentalScore || a.RiskScore > b.RiskScore {
		return false
	}
	return a.Profit() > b.Profit() || a.EnvironmentalScore > b.EnvironmentalScore || a.RiskScore < b.RiskScore
}

// filterFrontier removes every dominated point, preserving sweep order.
func filterFrontier(points []model.ParetoFrontierPoint) []model.ParetoFrontierPoint {
	frontier := make([]model.ParetoFrontierPoint, 0, len(points))
	for i, p := range points {
		dominated := false
		for j, q := range points {
			if i != j && dominates(q, p) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, p)
		}
	}
	return frontier
}

// recommend selects the frontier point maximizing a goal-weighted score
// derived from the request's priority weights and risk tolerance. Ties keep
// the earlier scenario.
func (s *Service) recommend(req *model.OptimizationRequest, frontier []model.ParetoFrontierPoint) *model.ParetoFrontierPoint {
	if len(frontier) == 0 {
		return nil
	}

	var maxROI float64
	for _, p := range frontier {
		if p.ROIPercent > maxROI {
			maxROI = p.ROIPercent
		}
	}

	riskWeight := s.riskWeight(req.Goals.RiskTolerance)
	best := 0
	bestScore := -1.0
	for i, p := range frontier {
		roiNorm := 0.0
		if maxROI > 0 {
			roiNorm = p.ROIPercent / maxROI
		}
		score := 0.5*roiNorm +
			req.Goals.YieldWeight*p.YieldTargetAchievementPercent/100 +
			req.Goals.EnvironmentWeight*p.EnvironmentalScore/100 +
			req.Goals.CostWeight*(1-p.BudgetUtilizationPercent/100) +
			riskWeight*(1-p.RiskScore/100)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	chosen := frontier[best]
	return &chosen
}

func (s *Service) riskWeight(tolerance model.RiskTolerance) float64 {
	switch tolerance {
	case model.RiskConservative:
		return s.cfg.Policy.RiskWeightConservative
	case model.RiskAggressive:
		return s.cfg.Policy.RiskWeightAggressive
	default:
		return s.cfg.Policy.RiskWeightModerate
	}
}
