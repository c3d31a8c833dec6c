package breakeven

import (
	"github.com/agriview/fertilizer-optimizer/internal/config"
	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/pkg/mathutil"
)

// scenarioAnalysis evaluates the four fixed scenarios from the policy
// table, each a (price, yield, cost) multiplier triple with a prior
// probability.
func (s *Service) scenarioAnalysis(base baseEconomics) []model.BreakEvenScenario {
	scenarios := make([]model.BreakEvenScenario, 0, len(s.cfg.Policy.Scenarios))
	for _, spec := range s.cfg.Policy.Scenarios {
		price := base.cropPrice * spec.PriceMultiplier
		yieldPerAcre := base.yieldPerAcre * spec.YieldMultiplier
		totalYield := base.totalYield * spec.YieldMultiplier
		totalCost := base.totalCost * spec.CostMultiplier
		revenue := totalYield * price

		scenario := model.BreakEvenScenario{
			Type:                  model.ScenarioType(spec.Name),
			CropPrice:             price,
			YieldPerAcre:          yieldPerAcre,
			TotalCost:             totalCost,
			BreakEvenYieldPerAcre: mathutil.SafeDivide(totalCost, base.totalAcres*price, 0),
			BreakEvenPrice:        mathutil.SafeDivide(totalCost, totalYield, 0),
			BreakEvenCost:         revenue,
			Probability:           spec.Probability,
		}
		if totalCost > 0 {
			scenario.SafetyMarginPercent = (revenue - totalCost) / totalCost * 100
		}
		scenario.RiskLevel = classifyScenarioRisk(s.cfg.Policy, scenario, yieldPerAcre)
		scenarios = append(scenarios, scenario)
	}
	return scenarios
}

// classifyScenarioRisk maps the scenario's safety margin and yield cover
// onto an ordinal risk level using the policy margin thresholds.
func classifyScenarioRisk(p config.Policy, scenario model.BreakEvenScenario, yieldPerAcre float64) model.RiskLevel {
	level := model.RiskLevelCritical
	switch {
	case scenario.SafetyMarginPercent >= p.ScenarioMarginLow:
		level = model.RiskLevelLow
	case scenario.SafetyMarginPercent >= p.ScenarioMarginMedium:
		level = model.RiskLevelMedium
	case scenario.SafetyMarginPercent >= p.ScenarioMarginHigh:
		level = model.RiskLevelHigh
	}
	// Yield failing to cover the break-even requirement is at least high
	// risk whatever the margin says.
	if yieldPerAcre < scenario.BreakEvenYieldPerAcre && riskRank(level) < riskRank(model.RiskLevelHigh) {
		level = model.RiskLevelHigh
	}
	return level
}

func riskRank(level model.RiskLevel) int {
	switch level {
	case model.RiskLevelLow:
		return 0
	case model.RiskLevelMedium:
		return 1
	case model.RiskLevelHigh:
		return 2
	default:
		return 3
	}
}
