// Package model defines the request-scoped value types exchanged with the
// optimization and risk-analysis services, along with their validation.
// All objects are created once per invocation and never mutated after being
// returned.
package model

// OptimizationMethod selects the solver strategy for the single-objective
// ROI optimizer.
type OptimizationMethod string

const (
	MethodLinearProgramming    OptimizationMethod = "linear_programming"
	MethodQuadraticProgramming OptimizationMethod = "quadratic_programming"
	MethodGeneticAlgorithm     OptimizationMethod = "genetic_algorithm"
	MethodGradientDescent      OptimizationMethod = "gradient_descent"
)

// RiskTolerance expresses how much solution risk the caller accepts.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskModerate     RiskTolerance = "moderate"
	RiskAggressive   RiskTolerance = "aggressive"
)

// FieldData describes one field in an optimization request. Soil levels are
// keyed by nutrient symbol (lb/acre available), yields are per acre.
type FieldData struct {
	ID              string             `validate:"required"`
	Acres           float64            `validate:"gt=0"`
	SoilLevels      map[string]float64 `validate:"dive,gte=0"`
	TargetYield     float64            `validate:"gt=0"`
	CropPrice       float64            `validate:"gt=0"`
	HistoricalYield float64            `validate:"gte=0"`
}

// FertilizerProduct describes a purchasable product. Nutrients maps symbol
// to content percent by weight; PricePerUnit is dollars per pound of
// product.
type FertilizerProduct struct {
	ID                string             `validate:"required"`
	Name              string
	Nutrients         map[string]float64 `validate:"dive,gte=0,lte=100"`
	PricePerUnit      float64            `validate:"gt=0"`
	Unit              string
	ApplicationMethod string
	Available         bool
}

// BudgetConstraint bounds total and per-field spending. FlexibilityPercent
// is multiplicative headroom on the total limit during allocation; its
// range and the UtilizationTarget range are checked against the bounds in
// pkg/constants.
type BudgetConstraint struct {
	TotalLimit          float64            `validate:"gt=0"`
	PerFieldLimit       float64            `validate:"gte=0"`
	PerAcreLimit        float64            `validate:"gte=0"`
	NutrientShares      map[string]float64 `validate:"dive,gte=0,lte=1"`
	ProductShares       map[string]float64 `validate:"dive,gte=0,lte=1"`
	FlexibilityPercent  float64
	ReallocationAllowed bool
	UtilizationTarget   float64
}

// OptimizationConstraints bounds the rate allocation. MaxNutrientRates maps
// nutrient symbol to a per-acre application ceiling in lb/acre.
type OptimizationConstraints struct {
	MaxNutrientRates map[string]float64 `validate:"dive,gte=0"`
	Budget           *BudgetConstraint
	MaxCostPerAcre   float64 `validate:"gte=0"`
}

// OptimizationGoals weights the caller's priorities. Weights are in [0,1]
// and need not sum to one.
type OptimizationGoals struct {
	Primary           string
	YieldWeight       float64       `validate:"gte=0,lte=1"`
	CostWeight        float64       `validate:"gte=0,lte=1"`
	EnvironmentWeight float64       `validate:"gte=0,lte=1"`
	RiskTolerance     RiskTolerance `validate:"omitempty,oneof=conservative moderate aggressive"`
}

// OptimizationRequest is the input to the single-objective ROI optimizer
// and, with a budget constraint, to the multi-objective optimizer.
type OptimizationRequest struct {
	Fields      []FieldData
	Products    []FertilizerProduct
	Constraints OptimizationConstraints
	Goals       OptimizationGoals
	Method      OptimizationMethod `validate:"omitempty,oneof=linear_programming quadratic_programming genetic_algorithm gradient_descent"`
	Seed        uint64
}

// CostRateOverrides replaces the configured per-acre cost components for one
// break-even request. Zero components keep the configured rate.
type CostRateOverrides struct {
	FixedPerAcre       float64 `validate:"gte=0"`
	VariablePerAcre    float64 `validate:"gte=0"`
	ApplicationPerAcre float64 `validate:"gte=0"`
	OpportunityPerAcre float64 `validate:"gte=0"`
}

// AnalysisFlags enables the optional stages of the break-even analyzer.
type AnalysisFlags struct {
	MonteCarlo  bool
	Scenarios   bool
	Sensitivity bool
}

// BreakEvenRequest is the input to the stochastic break-even analyzer.
// Iterations applies to the Monte Carlo stage and must be within
// [1000, 100000] when that stage is enabled; zero selects the configured
// default.
type BreakEvenRequest struct {
	Fields        []FieldData
	Products      []FertilizerProduct
	Constraints   OptimizationConstraints
	Goals         OptimizationGoals
	Method        OptimizationMethod `validate:"omitempty,oneof=linear_programming quadratic_programming genetic_algorithm gradient_descent"`
	CostOverrides *CostRateOverrides
	Flags         AnalysisFlags
	Iterations    int
	Seed          uint64
}
