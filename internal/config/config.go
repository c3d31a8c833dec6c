// Package config defines the engine configuration and policy tables and
// includes functions for loading and validating them.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/agriview/fertilizer-optimizer/pkg/constants"
)

// EngineConfig holds all tunable parameters for the optimization and
// risk-analysis services. It is read-only after construction; services
// receive it by injection and never mutate it.
type EngineConfig struct {
	// Workers sizes the pool used by the Monte Carlo fan-out and the
	// Pareto weight sweep.
	Workers int

	Genetic    GeneticParams
	Gradient   GradientParams
	Quadratic  QuadraticParams
	MonteCarlo MonteCarloParams
	CostRates  CostRates
	Policy     Policy
	Logging    LoggingConfig
	Output     OutputConfig
}

// GeneticParams tunes the genetic-algorithm strategy. Seed makes runs
// reproducible.
type GeneticParams struct {
	PopulationSize int
	Generations    int
	MutationRate   float64 // per-gene mutation probability
	MutationSigma  float64 // Gaussian sigma as a fraction of the gene's upper bound
	Seed           uint64
}

// GradientParams tunes the gradient-descent strategy.
type GradientParams struct {
	LearningRate   float64
	MaxIterations  int
	Tolerance      float64
	FiniteDiffStep float64
}

// QuadraticParams tunes the quadratic-programming strategy.
type QuadraticParams struct {
	MaxIterations int
	Tolerance     float64
	StepSize      float64
}

// MonteCarloParams holds the stochastic sampling configuration. Sigma
// values are relative (fractions of the base value).
type MonteCarloParams struct {
	DefaultIterations    int
	PriceSigma           float64 // normal, relative to base crop price
	FertilizerPriceSigma float64 // log-normal multiplier sigma
	YieldMin             float64 // triangular multiplier bounds and mode
	YieldMax             float64
	YieldMode            float64
}

// CostRates are the fixed per-acre cost components of the break-even cost
// structure, in dollars per acre.
type CostRates struct {
	FixedPerAcre       float64
	VariablePerAcre    float64
	ApplicationPerAcre float64
	OpportunityPerAcre float64
}

// LoggingConfig holds logging configuration options.
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options.
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Default returns the engine configuration with every parameter at its
// documented default.
func Default() *EngineConfig {
	return &EngineConfig{
		Workers: constants.DefaultWorkers,
		Genetic: GeneticParams{
			PopulationSize: constants.DefaultPopulationSize,
			Generations:    constants.DefaultGenerations,
			MutationRate:   0.15,
			MutationSigma:  0.10,
			Seed:           1,
		},
		Gradient: GradientParams{
			LearningRate:   constants.DefaultLearningRate,
			MaxIterations:  constants.DefaultGradientIterations,
			Tolerance:      constants.DefaultConvergenceTolerance,
			FiniteDiffStep: 0.5,
		},
		Quadratic: QuadraticParams{
			MaxIterations: 400,
			Tolerance:     constants.DefaultConvergenceTolerance,
			StepSize:      0.02,
		},
		MonteCarlo: MonteCarloParams{
			DefaultIterations:    constants.DefaultMonteCarloIterations,
			PriceSigma:           0.15,
			FertilizerPriceSigma: 0.10,
			YieldMin:             0.75,
			YieldMax:             1.15,
			YieldMode:            1.0,
		},
		CostRates: CostRates{
			FixedPerAcre:       150,
			VariablePerAcre:    120,
			ApplicationPerAcre: 15,
			OpportunityPerAcre: 50,
		},
		Policy: DefaultPolicy(),
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// engine configuration there, applying defaults for anything unset.
func LoadConfiguration(configPath string) (*EngineConfig, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	configuration := Default()
	if err := viper.Unmarshal(configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}

	return configuration, nil
}

// Validate checks internal consistency of the configuration.
func (c *EngineConfig) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Genetic.PopulationSize < 2 {
		return fmt.Errorf("genetic population size must be at least 2, got %d", c.Genetic.PopulationSize)
	}
	if c.Genetic.Generations <= 0 {
		return fmt.Errorf("genetic generations must be positive, got %d", c.Genetic.Generations)
	}
	if c.Gradient.LearningRate <= 0 {
		return fmt.Errorf("gradient learning rate must be positive, got %g", c.Gradient.LearningRate)
	}
	if c.MonteCarlo.DefaultIterations < constants.MinMonteCarloIterations ||
		c.MonteCarlo.DefaultIterations > constants.MaxMonteCarloIterations {
		return fmt.Errorf("monte carlo default iterations must be within [%d, %d], got %d",
			constants.MinMonteCarloIterations, constants.MaxMonteCarloIterations, c.MonteCarlo.DefaultIterations)
	}
	if c.MonteCarlo.YieldMax <= c.MonteCarlo.YieldMin {
		return fmt.Errorf("monte carlo yield multiplier bounds inverted: [%g, %g]",
			c.MonteCarlo.YieldMin, c.MonteCarlo.YieldMax)
	}
	if len(c.Policy.WeightTriples) == 0 {
		return fmt.Errorf("policy weight triples must not be empty")
	}
	return nil
}
