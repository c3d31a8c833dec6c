package model

// RateAllocation maps field id to product id to an application rate in
// lb/acre. All rates are non-negative.
type RateAllocation map[string]map[string]float64

// Rate returns the allocated rate for a (field, product) pair, zero when
// absent.
func (r RateAllocation) Rate(fieldID, productID string) float64 {
	if byProduct, ok := r[fieldID]; ok {
		return byProduct[productID]
	}
	return 0
}

// Set records a rate, allocating the inner map on first use.
func (r RateAllocation) Set(fieldID, productID string, rate float64) {
	byProduct, ok := r[fieldID]
	if !ok {
		byProduct = make(map[string]float64)
		r[fieldID] = byProduct
	}
	byProduct[productID] = rate
}

// NutrientRecommendation summarizes the applied amount of one nutrient
// across the allocation.
type NutrientRecommendation struct {
	Nutrient           string
	AverageRatePerAcre float64 // lb nutrient per acre, acre-weighted
	TotalApplied       float64 // lb nutrient across all acres
	CeilingRatePerAcre float64 // 0 when unconstrained
	Note               string
}

// OptimizationResult is the output of the single-objective ROI optimizer.
type OptimizationResult struct {
	Rates                         RateAllocation
	TotalRevenue                  float64
	TotalCost                     float64
	TotalProfit                   float64
	ROIPercent                    float64
	BreakEvenYieldPerAcre         float64
	YieldTargetAchievementPercent float64
	EnvironmentalImpact           float64 // acre-weighted impact score
	RiskScore                     float64 // 0-100, lower is safer
	Recommendations               map[string]NutrientRecommendation
	Method                        OptimizationMethod
	UsedFallback                  bool
}

// ObjectiveWeights is one (profit, environment, risk) weight triple from the
// Pareto sweep.
type ObjectiveWeights struct {
	Profit      float64
	Environment float64
	Risk        float64
}

// ParetoFrontierPoint is one non-dominated scenario on the Pareto frontier.
// EnvironmentalScore is 0-100 with higher meaning cleaner; RiskScore is
// 0-100 with lower meaning safer.
type ParetoFrontierPoint struct {
	ScenarioID                    string
	Weights                       ObjectiveWeights
	Cost                          float64
	Revenue                       float64
	ROIPercent                    float64
	EnvironmentalScore            float64
	RiskScore                     float64
	YieldTargetAchievementPercent float64
	BudgetUtilizationPercent      float64
	TradeOff                      string
	Rates                         RateAllocation
}

// Profit returns the point's absolute profit.
func (p ParetoFrontierPoint) Profit() float64 {
	return p.Revenue - p.Cost
}

// BudgetAllocationResult is the per-field outcome of budget allocation.
type BudgetAllocationResult struct {
	FieldID              string
	AllocatedBudget      float64
	UtilizationPercent   float64
	NutrientAllocations  map[string]float64
	ProductAllocations   map[string]float64
	ExpectedROIPercent   float64
	PriorityScore        float64
	ConstraintViolations []string
}

// ConstraintRelaxationAnalysis reports the effect of loosening one
// constraint. Impact keys: roi_delta, cost_delta, environmental_delta,
// yield_delta.
type ConstraintRelaxationAnalysis struct {
	ConstraintType      string
	OriginalValue       float64
	RelaxedValue        float64
	Impact              map[string]float64
	CostOfRelaxation    float64
	BenefitOfRelaxation float64
	Recommendation      string
}

// TradeOffPair flags a correlated objective pair across the frontier.
type TradeOffPair struct {
	Objectives  string
	Correlation float64
	Severity    string // moderate or high
	Description string
}

// TradeOffAnalysis summarizes objective interactions across the frontier.
type TradeOffAnalysis struct {
	Correlations          map[string]float64
	TradeOffs             []TradeOffPair
	EfficiencyScores      map[string]float64
	MostEfficientScenario string
	Guidance              []string
}

// MultiObjectiveResult is the output of the multi-objective
// budget-constrained optimizer.
type MultiObjectiveResult struct {
	AnalysisID            string
	ParetoFrontier        []ParetoFrontierPoint
	RecommendedScenario   *ParetoFrontierPoint
	BudgetAllocations     []BudgetAllocationResult
	ConstraintRelaxations []ConstraintRelaxationAnalysis
	TradeOffs             TradeOffAnalysis
}

// CostStructure decomposes total cost. The components always sum exactly to
// TotalCosts.
type CostStructure struct {
	FixedCosts       float64
	VariableCosts    float64
	FertilizerCosts  float64
	ApplicationCosts float64
	OpportunityCosts float64
	TotalCosts       float64
}

// BasicBreakEven holds the deterministic break-even metrics.
type BasicBreakEven struct {
	TotalRevenue             float64
	TotalCost                float64
	TotalYield               float64
	BreakEvenYieldPerAcre    float64
	BreakEvenPrice           float64
	SafetyMarginPercent      float64
	ProfitabilityProbability float64
}

// Interval is a two-sided confidence interval (5th/95th percentile).
type Interval struct {
	Lower float64
	Upper float64
}

// MonteCarloResult aggregates the stochastic simulation. Iterations is the
// number actually completed, which may be below the request when the
// context was cancelled mid-run. Probability keys: profitable,
// break_even_achievable, margin_above_20. Risk metric keys: value_at_risk_5,
// expected_shortfall, volatility, sharpe_ratio.
type MonteCarloResult struct {
	Iterations          int
	Probabilities       map[string]float64
	ConfidenceIntervals map[string]Interval
	RiskMetrics         map[string]float64
	Distributions       map[string][]float64
}

// ScenarioType names one of the fixed break-even scenarios.
type ScenarioType string

const (
	ScenarioOptimistic  ScenarioType = "optimistic"
	ScenarioRealistic   ScenarioType = "realistic"
	ScenarioPessimistic ScenarioType = "pessimistic"
	ScenarioStressTest  ScenarioType = "stress_test"
)

// RiskLevel is the ordinal risk classification.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// BreakEvenScenario holds break-even metrics under one fixed scenario.
type BreakEvenScenario struct {
	Type                  ScenarioType
	CropPrice             float64
	YieldPerAcre          float64
	TotalCost             float64
	BreakEvenYieldPerAcre float64
	BreakEvenPrice        float64
	BreakEvenCost         float64
	Probability           float64
	RiskLevel             RiskLevel
	SafetyMarginPercent   float64
}

// SensitivityAnalysis reports the break-even response to a ±10% perturbation
// of one input variable.
type SensitivityAnalysis struct {
	Variable        string
	BaseValue       float64
	LowValue        float64
	HighValue       float64
	BreakEvenAtLow  float64
	BreakEvenAtBase float64
	BreakEvenAtHigh float64
	Elasticity      float64
}

// RiskAssessment accumulates the rule-based risk score.
type RiskAssessment struct {
	Score       int // additive, capped at the policy score cap (10 by default)
	Level       RiskLevel
	Factors     []string
	Mitigations []string
}

// BreakEvenBundle is the output of the stochastic break-even analyzer.
// MonteCarlo, Scenarios, and Sensitivities are nil/empty when the
// corresponding flag was off.
type BreakEvenBundle struct {
	AnalysisID      string
	Costs           CostStructure
	Basic           BasicBreakEven
	MonteCarlo      *MonteCarloResult
	Scenarios       []BreakEvenScenario
	Sensitivities   []SensitivityAnalysis
	Risk            RiskAssessment
	Recommendations []string
	Optimization    *OptimizationResult
}
