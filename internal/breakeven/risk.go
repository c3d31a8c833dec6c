package breakeven

import (
	"fmt"
	"math"

	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/pkg/mathutil"
)

// assessRisk accumulates an additive risk score from the safety margin,
// the profitability probability, and, when available, the Monte Carlo
// tail metrics, then maps it onto an ordinal level with named factors
// and mitigations. The bands, cap, and level bounds come from the
// policy table.
func (s *Service) assessRisk(basic model.BasicBreakEven, mc *model.MonteCarloResult, base baseEconomics) model.RiskAssessment {
	p := s.cfg.Policy
	score := 0
	var factors []string
	var mitigations []string

	switch {
	case basic.SafetyMarginPercent < p.RiskMarginNegative:
		score += 3
		factors = append(factors, fmt.Sprintf("operating below break-even: safety margin %.1f%%", basic.SafetyMarginPercent))
		mitigations = append(mitigations, "reduce input costs or renegotiate crop price before committing the plan")
	case basic.SafetyMarginPercent < p.RiskMarginThin:
		score += 2
		factors = append(factors, fmt.Sprintf("thin safety margin of %.1f%%", basic.SafetyMarginPercent))
		mitigations = append(mitigations, "lock in crop prices on a portion of expected production")
	case basic.SafetyMarginPercent < p.RiskMarginModerate:
		score++
		factors = append(factors, fmt.Sprintf("moderate safety margin of %.1f%%", basic.SafetyMarginPercent))
	}

	switch {
	case basic.ProfitabilityProbability < p.RiskProbabilityLow:
		score += 3
		factors = append(factors, fmt.Sprintf("low profitability probability of %.0f%%", basic.ProfitabilityProbability*100))
		mitigations = append(mitigations, "consider crop insurance covering yield shortfalls")
	case basic.ProfitabilityProbability < p.RiskProbabilityUncertain:
		score += 2
		factors = append(factors, fmt.Sprintf("uncertain profitability at %.0f%% probability", basic.ProfitabilityProbability*100))
		mitigations = append(mitigations, "hedge a share of expected revenue with forward contracts")
	case basic.ProfitabilityProbability < p.RiskProbabilityModerate:
		score++
	}

	if mc != nil && mc.Iterations > 0 {
		profitable := mc.Probabilities["profitable"]
		switch {
		case profitable < p.RiskSimulatedLow:
			score += 2
			factors = append(factors, fmt.Sprintf("simulation shows only %.0f%% of outcomes profitable", profitable*100))
			mitigations = append(mitigations, "scale back fertilizer spend toward the highest-response fields")
		case profitable < p.RiskSimulatedModerate:
			score++
			factors = append(factors, fmt.Sprintf("simulation shows %.0f%% of outcomes profitable", profitable*100))
		}
		if valueAtRisk := mc.RiskMetrics["value_at_risk_5"]; base.revenue > 0 && valueAtRisk > p.RiskVaRRevenueShare*base.revenue {
			score += 2
			factors = append(factors, fmt.Sprintf("value at risk of $%.0f exceeds %.0f%% of expected revenue", valueAtRisk, p.RiskVaRRevenueShare*100))
			mitigations = append(mitigations, "split applications across the season to keep exit options open")
		}
	}

	if score > p.RiskScoreCap {
		score = p.RiskScoreCap
	}
	if len(factors) == 0 {
		factors = append(factors, "economics comfortably above break-even under current assumptions")
	}

	level := model.RiskLevelCritical
	switch {
	case score <= p.RiskScoreLowMax:
		level = model.RiskLevelLow
	case score <= p.RiskScoreMediumMax:
		level = model.RiskLevelMedium
	case score <= p.RiskScoreHighMax:
		level = model.RiskLevelHigh
	}
	if level == model.RiskLevelCritical {
		mitigations = append(mitigations, "re-plan with a reduced budget before any purchase commitments")
	}

	return model.RiskAssessment{
		Score:       score,
		Level:       level,
		Factors:     factors,
		Mitigations: mitigations,
	}
}

// recommendations emits deterministic, rule-based advisory text from the
// deterministic metrics and whatever optional analyses ran.
func (s *Service) recommendations(basic model.BasicBreakEven, bundle *model.BreakEvenBundle) []string {
	var out []string

	switch {
	case basic.SafetyMarginPercent >= 20:
		out = append(out, fmt.Sprintf("plan is robust: revenue exceeds total cost by %.1f%%", basic.SafetyMarginPercent))
	case basic.SafetyMarginPercent >= 0:
		out = append(out, fmt.Sprintf("plan breaks even with %.1f%% headroom: monitor prices closely", basic.SafetyMarginPercent))
	default:
		out = append(out, fmt.Sprintf("plan does not break even at expected prices: shortfall %.1f%%", -basic.SafetyMarginPercent))
	}

	out = append(out, fmt.Sprintf("break-even requires %.1f bu/acre at $%.2f/bu, or $%.2f/bu at expected yield",
		basic.BreakEvenYieldPerAcre,
		mathutil.SafeDivide(basic.TotalRevenue, basic.TotalYield, 0),
		basic.BreakEvenPrice,
	))

	if bundle.Optimization != nil && bundle.Optimization.UsedFallback {
		out = append(out, "fertilizer rates came from the greedy fallback: review the constraint set for infeasibility")
	}

	if mc := bundle.MonteCarlo; mc != nil && mc.Iterations > 0 {
		if ci, ok := mc.ConfidenceIntervals["profit"]; ok {
			out = append(out, fmt.Sprintf("90%% of simulated outcomes land between $%.0f and $%.0f profit", ci.Lower, ci.Upper))
		}
		if mc.Probabilities["margin_above_20"] >= 0.5 {
			out = append(out, "most simulated outcomes clear a 20% margin: the plan tolerates normal price swings")
		}
	}

	for _, scenario := range bundle.Scenarios {
		if scenario.Type == model.ScenarioStressTest && scenario.RiskLevel == model.RiskLevelCritical {
			out = append(out, "stress scenario is critical: hold a cash reserve covering one season of fixed costs")
			break
		}
	}

	var mostSensitive *model.SensitivityAnalysis
	for i := range bundle.Sensitivities {
		candidate := &bundle.Sensitivities[i]
		if mostSensitive == nil || math.Abs(candidate.Elasticity) > math.Abs(mostSensitive.Elasticity) {
			mostSensitive = candidate
		}
	}
	if mostSensitive != nil {
		out = append(out, fmt.Sprintf("break-even is most sensitive to %s (elasticity %.2f): prioritize managing it",
			mostSensitive.Variable, mostSensitive.Elasticity))
	}

	return out
}
