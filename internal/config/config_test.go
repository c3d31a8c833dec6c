package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"Zero workers", func(c *EngineConfig) { c.Workers = 0 }},
		{"Population too small", func(c *EngineConfig) { c.Genetic.PopulationSize = 1 }},
		{"Zero generations", func(c *EngineConfig) { c.Genetic.Generations = 0 }},
		{"Zero learning rate", func(c *EngineConfig) { c.Gradient.LearningRate = 0 }},
		{"Monte Carlo iterations below range", func(c *EngineConfig) { c.MonteCarlo.DefaultIterations = 10 }},
		{"Monte Carlo iterations above range", func(c *EngineConfig) { c.MonteCarlo.DefaultIterations = 1000000 }},
		{"Inverted yield bounds", func(c *EngineConfig) { c.MonteCarlo.YieldMin, c.MonteCarlo.YieldMax = 1.2, 0.8 }},
		{"Empty weight triples", func(c *EngineConfig) { c.Policy.WeightTriples = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()

	if len(policy.WeightTriples) != 10 {
		t.Errorf("weight triples = %d, expected 10", len(policy.WeightTriples))
	}
	first := policy.WeightTriples[0]
	if first.Profit != 1 || first.Environment != 0 || first.Risk != 0 {
		t.Errorf("first triple should be pure profit, got %+v", first)
	}
	last := policy.WeightTriples[len(policy.WeightTriples)-1]
	if last.Risk != 1 || last.Profit != 0 {
		t.Errorf("last triple should be pure risk minimization, got %+v", last)
	}

	var total float64
	for _, scenario := range policy.Scenarios {
		total += scenario.Probability
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("scenario priors sum to %v, expected 1", total)
	}

	// Risk-score bands must be ordered and the level bounds must fit
	// inside the cap.
	if !(policy.RiskMarginNegative < policy.RiskMarginThin && policy.RiskMarginThin < policy.RiskMarginModerate) {
		t.Errorf("margin bands out of order: %v %v %v",
			policy.RiskMarginNegative, policy.RiskMarginThin, policy.RiskMarginModerate)
	}
	if !(policy.RiskProbabilityLow < policy.RiskProbabilityUncertain && policy.RiskProbabilityUncertain < policy.RiskProbabilityModerate) {
		t.Errorf("probability bands out of order: %v %v %v",
			policy.RiskProbabilityLow, policy.RiskProbabilityUncertain, policy.RiskProbabilityModerate)
	}
	if !(policy.RiskScoreLowMax < policy.RiskScoreMediumMax && policy.RiskScoreMediumMax < policy.RiskScoreHighMax && policy.RiskScoreHighMax < policy.RiskScoreCap) {
		t.Errorf("score bounds out of order: %d %d %d cap %d",
			policy.RiskScoreLowMax, policy.RiskScoreMediumMax, policy.RiskScoreHighMax, policy.RiskScoreCap)
	}
	if policy.RiskScoreCap != 10 {
		t.Errorf("score cap = %d, expected 10", policy.RiskScoreCap)
	}
	if !(policy.ScenarioMarginLow > policy.ScenarioMarginMedium && policy.ScenarioMarginMedium > policy.ScenarioMarginHigh) {
		t.Errorf("scenario margin thresholds out of order: %v %v %v",
			policy.ScenarioMarginLow, policy.ScenarioMarginMedium, policy.ScenarioMarginHigh)
	}
}

func TestLoadConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("workers: 8\nlogging:\n  level: debug\n  format: console\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error: %v", err)
	}
	if cfg.Workers != 8 {
		t.Errorf("workers = %d, expected 8", cfg.Workers)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, expected debug", cfg.Logging.Level)
	}
	// Unset values keep defaults.
	if cfg.Genetic.PopulationSize != Default().Genetic.PopulationSize {
		t.Errorf("population size = %d, expected default", cfg.Genetic.PopulationSize)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadRequest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "request.yaml")
	content := []byte(`fields:
  - id: field_1
    acres: 100
    targetyield: 180
    cropprice: 5.5
    soillevels:
      N: 20
products:
  - id: urea
    priceperunit: 0.25
    available: true
    nutrients:
      N: 46
constraints:
  maxnutrientrates:
    N: 200
  budget:
    totallimit: 15000
method: linear_programming
seed: 7
flags:
  montecarlo: true
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := LoadRequest(path)
	if err != nil {
		t.Fatalf("LoadRequest() error: %v", err)
	}
	if len(doc.Fields) != 1 || doc.Fields[0].ID != "field_1" {
		t.Fatalf("unexpected fields: %+v", doc.Fields)
	}
	if doc.Fields[0].SoilLevels["N"] != 20 {
		t.Errorf("soil N = %v, expected 20", doc.Fields[0].SoilLevels["N"])
	}
	if doc.Seed != 7 {
		t.Errorf("seed = %d, expected 7", doc.Seed)
	}

	opt := doc.OptimizationRequest()
	if opt.Method != "linear_programming" || opt.Constraints.Budget == nil {
		t.Errorf("optimization projection lost data: %+v", opt)
	}
	be := doc.BreakEvenRequest()
	if !be.Flags.MonteCarlo {
		t.Error("break-even projection lost analysis flags")
	}
}
