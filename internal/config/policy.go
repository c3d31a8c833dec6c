package config

// Policy is the table of hand-tuned heuristics used across the analyzers:
// the profitability-probability formula, scenario multipliers and priors,
// risk-score rules, relaxation factors, and the Pareto weight sweep. The
// constants reproduce the calibrated thresholds; treat them as policy, not
// derived quantities.
type Policy struct {
	// Profitability probability = clamp(Base + margin/100*Slope, Min, Max).
	ProfitabilityBase  float64
	ProfitabilitySlope float64
	ProfitabilityMin   float64
	ProfitabilityMax   float64

	// Normalization denominators for the multi-objective weighted sum.
	ProfitNormalization      float64 // profit/N, capped at 1
	EnvironmentNormalization float64 // 1 - impact/N
	RiskNormalization        float64 // 1 - risk/N

	// Constraint relaxation probe factors.
	BudgetRelaxFactor      float64 // total budget +20%
	NutrientRelaxFactor    float64 // nutrient ceilings +25%
	CostPerAcreRelaxFactor float64 // max per-acre cost +30%

	// ROI-improvement thresholds (percentage points) classifying a
	// relaxation as recommended / worth evaluating.
	RelaxROIThreshold    float64
	EvaluateROIThreshold float64

	// Trade-off correlation thresholds.
	TradeOffCorrelation     float64 // flag when |r| exceeds this
	HighTradeOffCorrelation float64 // severity high at or above this

	// Risk-score accumulation bands for the break-even risk assessment.
	// Margins are percentages, probabilities fractions.
	RiskMarginNegative float64 // margin below this adds 3 points
	RiskMarginThin     float64 // margin below this adds 2 points
	RiskMarginModerate float64 // margin below this adds 1 point

	RiskProbabilityLow       float64 // probability below this adds 3 points
	RiskProbabilityUncertain float64 // probability below this adds 2 points
	RiskProbabilityModerate  float64 // probability below this adds 1 point

	RiskSimulatedLow      float64 // simulated profitable share below this adds 2 points
	RiskSimulatedModerate float64 // simulated profitable share below this adds 1 point
	RiskVaRRevenueShare   float64 // VaR above this share of revenue adds 2 points

	// Risk score cap and the score-to-level upper bounds.
	RiskScoreCap       int
	RiskScoreLowMax    int
	RiskScoreMediumMax int
	RiskScoreHighMax   int

	// Scenario risk classification margin thresholds (percentage points).
	ScenarioMarginLow    float64 // margin at or above this is low risk
	ScenarioMarginMedium float64 // margin at or above this is medium risk
	ScenarioMarginHigh   float64 // margin at or above this is high risk

	// Scenario table for the break-even scenario analysis.
	Scenarios []ScenarioSpec

	// WeightTriples spans the Pareto sweep from pure profit to pure risk
	// minimization.
	WeightTriples []WeightTriple

	// Risk tolerance weights applied to the risk axis when scoring
	// frontier points for recommendation.
	RiskWeightConservative float64
	RiskWeightModerate     float64
	RiskWeightAggressive   float64
}

// ScenarioSpec fixes the multipliers and prior probability of one named
// break-even scenario.
type ScenarioSpec struct {
	Name            string
	PriceMultiplier float64
	YieldMultiplier float64
	CostMultiplier  float64
	Probability     float64
}

// WeightTriple is one (profit, environment, risk) objective weighting.
type WeightTriple struct {
	Profit      float64
	Environment float64
	Risk        float64
	Label       string
}

// DefaultPolicy returns the calibrated policy table.
func DefaultPolicy() Policy {
	return Policy{
		ProfitabilityBase:  0.5,
		ProfitabilitySlope: 0.3,
		ProfitabilityMin:   0.05,
		ProfitabilityMax:   0.95,

		ProfitNormalization:      100000,
		EnvironmentNormalization: 1000,
		RiskNormalization:        100,

		BudgetRelaxFactor:      0.20,
		NutrientRelaxFactor:    0.25,
		CostPerAcreRelaxFactor: 0.30,

		RelaxROIThreshold:    5.0,
		EvaluateROIThreshold: 2.0,

		TradeOffCorrelation:     0.3,
		HighTradeOffCorrelation: 0.6,

		RiskMarginNegative: 0,
		RiskMarginThin:     10,
		RiskMarginModerate: 20,

		RiskProbabilityLow:       0.40,
		RiskProbabilityUncertain: 0.60,
		RiskProbabilityModerate:  0.75,

		RiskSimulatedLow:      0.50,
		RiskSimulatedModerate: 0.70,
		RiskVaRRevenueShare:   0.20,

		RiskScoreCap:       10,
		RiskScoreLowMax:    2,
		RiskScoreMediumMax: 5,
		RiskScoreHighMax:   7,

		ScenarioMarginLow:    20,
		ScenarioMarginMedium: 5,
		ScenarioMarginHigh:   -10,

		Scenarios: []ScenarioSpec{
			{Name: "optimistic", PriceMultiplier: 1.15, YieldMultiplier: 1.10, CostMultiplier: 0.95, Probability: 0.2},
			{Name: "realistic", PriceMultiplier: 1.00, YieldMultiplier: 1.00, CostMultiplier: 1.00, Probability: 0.5},
			{Name: "pessimistic", PriceMultiplier: 0.85, YieldMultiplier: 0.90, CostMultiplier: 1.10, Probability: 0.2},
			{Name: "stress_test", PriceMultiplier: 0.70, YieldMultiplier: 0.75, CostMultiplier: 1.25, Probability: 0.1},
		},

		WeightTriples: []WeightTriple{
			{Profit: 1.00, Environment: 0.00, Risk: 0.00, Label: "pure profit"},
			{Profit: 0.80, Environment: 0.20, Risk: 0.00, Label: "profit-leaning, environment-aware"},
			{Profit: 0.80, Environment: 0.00, Risk: 0.20, Label: "profit-leaning, risk-aware"},
			{Profit: 0.60, Environment: 0.20, Risk: 0.20, Label: "profit-weighted balance"},
			{Profit: 0.50, Environment: 0.30, Risk: 0.20, Label: "balanced, environment tilt"},
			{Profit: 0.50, Environment: 0.20, Risk: 0.30, Label: "balanced, risk tilt"},
			{Profit: 0.34, Environment: 0.33, Risk: 0.33, Label: "equal weights"},
			{Profit: 0.20, Environment: 0.60, Risk: 0.20, Label: "environment-first"},
			{Profit: 0.20, Environment: 0.20, Risk: 0.60, Label: "risk-averse"},
			{Profit: 0.00, Environment: 0.00, Risk: 1.00, Label: "pure risk minimization"},
		},

		RiskWeightConservative: 0.5,
		RiskWeightModerate:     0.3,
		RiskWeightAggressive:   0.1,
	}
}
