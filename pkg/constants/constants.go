// Package constants provides shared constants for the fertilizer-optimizer
// engine.
package constants

// Nutrient symbols recognized by the engine. Soil tests and product analyses
// are keyed by these symbols.
const (
	NutrientNitrogen   = "N"
	NutrientPhosphorus = "P"
	NutrientPotassium  = "K"
	NutrientSulfur     = "S"
)

// Agronomic constants
const (
	// BaseYieldFraction is the fraction of target yield a field is expected
	// to reach with no fertilizer applied, supplied by residual soil
	// fertility.
	BaseYieldFraction = 0.75

	// MaxResponseFraction caps the total yield response from fertilizer at
	// this fraction of target yield.
	MaxResponseFraction = 0.30

	// PercentDivisor converts a nutrient analysis percentage to a fraction.
	PercentDivisor = 100.0
)

// Numeric tolerances
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal
	// places).
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons.
	CurrencyTolerance = 0.01

	// RateTolerance is the tolerance applied when checking application-rate
	// ceilings.
	RateTolerance = 1e-6
)

// Solver defaults
const (
	// DefaultWorkers is the worker-pool size used when the configuration
	// does not specify one.
	DefaultWorkers = 4

	// DefaultPopulationSize is the default genetic-algorithm population.
	DefaultPopulationSize = 60

	// DefaultGenerations is the default genetic-algorithm generation count.
	DefaultGenerations = 80

	// DefaultLearningRate is the fixed step size for gradient descent.
	DefaultLearningRate = 0.05

	// DefaultGradientIterations caps gradient-descent iterations.
	DefaultGradientIterations = 500

	// DefaultConvergenceTolerance stops iterative solvers once the step
	// norm falls below it.
	DefaultConvergenceTolerance = 1e-4

	// SimplexTolerance is the feasibility tolerance passed to the LP
	// solver.
	SimplexTolerance = 1e-10
)

// Monte Carlo bounds
const (
	// MinMonteCarloIterations is the smallest accepted iteration count.
	MinMonteCarloIterations = 1000

	// MaxMonteCarloIterations is the largest accepted iteration count.
	MaxMonteCarloIterations = 100000

	// DefaultMonteCarloIterations is used when the request does not set an
	// iteration count.
	DefaultMonteCarloIterations = 10000
)

// Budget constraint bounds
const (
	// MinBudgetFlexibilityPercent is the lower bound for budget flexibility.
	MinBudgetFlexibilityPercent = 0.0

	// MaxBudgetFlexibilityPercent is the upper bound for budget flexibility.
	MaxBudgetFlexibilityPercent = 50.0

	// MinUtilizationTarget is the lower bound for the budget utilization
	// target percentage.
	MinUtilizationTarget = 80.0

	// MaxUtilizationTarget is the upper bound for the budget utilization
	// target percentage.
	MaxUtilizationTarget = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format.
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format.
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default engine configuration file name.
	DefaultConfigFile = "config.yaml"

	// DefaultRequestFile is the default analysis request file name.
	DefaultRequestFile = "request.yaml"
)
