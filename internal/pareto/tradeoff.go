package pareto

import (
	"fmt"
	"math"

	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/pkg/stats"
)

// analyzeTradeOffs computes pairwise correlations between the profit,
// environment, and risk objectives across the frontier, flags correlated
// pairs as trade-offs, and scores each point's composite efficiency.
func (s *Service) analyzeTradeOffs(req *model.OptimizationRequest, frontier []model.ParetoFrontierPoint) model.TradeOffAnalysis {
	analysis := model.TradeOffAnalysis{
		Correlations:     make(map[string]float64, 3),
		EfficiencyScores: make(map[string]float64, len(frontier)),
	}
	if len(frontier) == 0 {
		return analysis
	}

	profit := make([]float64, len(frontier))
	environment := make([]float64, len(frontier))
	risk := make([]float64, len(frontier))
	for i, p := range frontier {
		profit[i] = p.Profit()
		environment[i] = p.EnvironmentalScore
		risk[i] = p.RiskScore
	}

	pairs := []struct {
		name string
		x, y []float64
	}{
		{"profit_vs_environment", profit, environment},
		{"profit_vs_risk", profit, risk},
		{"environment_vs_risk", environment, risk},
	}
	for _, pair := range pairs {
		r := stats.Correlation(pair.x, pair.y)
		analysis.Correlations[pair.name] = r
		if math.Abs(r) <= s.cfg.Policy.TradeOffCorrelation {
			continue
		}
		severity := "moderate"
		if math.Abs(r) >= s.cfg.Policy.HighTradeOffCorrelation {
			severity = "high"
		}
		analysis.TradeOffs = append(analysis.TradeOffs, model.TradeOffPair{
			Objectives:  pair.name,
			Correlation: r,
			Severity:    severity,
			Description: fmt.Sprintf("%s objectives move together with correlation %.2f across the frontier", pair.name, r),
		})
	}

	var maxROI float64
	for _, p := range frontier {
		maxROI = math.Max(maxROI, p.ROIPercent)
	}
	bestScenario := frontier[0].ScenarioID
	bestScore := -1.0
	for _, p := range frontier {
		roiNorm := 0.0
		if maxROI > 0 {
			roiNorm = p.ROIPercent / maxROI
		}
		efficiency := (roiNorm + p.EnvironmentalScore/100 + (1 - p.RiskScore/100)) / 3
		analysis.EfficiencyScores[p.ScenarioID] = efficiency
		if efficiency > bestScore {
			bestScore = efficiency
			bestScenario = p.ScenarioID
		}
	}
	analysis.MostEfficientScenario = bestScenario

	analysis.Guidance = s.guidance(req, analysis)
	return analysis
}

// guidance emits goal-aware, deterministic advisory text.
func (s *Service) guidance(req *model.OptimizationRequest, analysis model.TradeOffAnalysis) []string {
	var guidance []string
	guidance = append(guidance,
		fmt.Sprintf("scenario %s offers the best composite efficiency across profit, environment, and risk", analysis.MostEfficientScenario))
	for _, t := range analysis.TradeOffs {
		if t.Severity == "high" {
			guidance = append(guidance,
				fmt.Sprintf("high trade-off between %s: improving one objective will materially cost the other", t.Objectives))
		}
	}
	switch {
	case req.Goals.EnvironmentWeight >= 0.5:
		guidance = append(guidance, "environment priority is high: prefer frontier points with environmental score above 80 even at reduced ROI")
	case req.Goals.RiskTolerance == model.RiskConservative:
		guidance = append(guidance, "conservative risk tolerance: prefer frontier points with risk score below 40")
	case req.Goals.CostWeight >= 0.5:
		guidance = append(guidance, "cost priority is high: prefer frontier points with lower budget utilization")
	default:
		guidance = append(guidance, "profit-oriented goals: the recommended scenario maximizes goal-weighted return")
	}
	return guidance
}
