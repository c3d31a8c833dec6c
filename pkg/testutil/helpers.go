// Package testutil provides common fixture builders for testing.
package testutil

import (
	"github.com/agriview/fertilizer-optimizer/internal/model"
)

// NewField returns a 100-acre corn field with a 180 bu/acre target at
// $5.50/bu and moderate soil nitrogen.
func NewField(id string) model.FieldData {
	return model.FieldData{
		ID:              id,
		Acres:           100,
		SoilLevels:      map[string]float64{"N": 20, "P": 30, "K": 40},
		TargetYield:     180,
		CropPrice:       5.50,
		HistoricalYield: 165,
	}
}

// NewUreaProduct returns urea (46-0-0) at $0.25/lb.
func NewUreaProduct() model.FertilizerProduct {
	return model.FertilizerProduct{
		ID:           "urea",
		Name:         "Urea 46-0-0",
		Nutrients:    map[string]float64{"N": 46},
		PricePerUnit: 0.25,
		Unit:         "lb",
		Available:    true,
	}
}

// NewMAPProduct returns monoammonium phosphate (11-52-0) at $0.38/lb.
func NewMAPProduct() model.FertilizerProduct {
	return model.FertilizerProduct{
		ID:           "map",
		Name:         "MAP 11-52-0",
		Nutrients:    map[string]float64{"N": 11, "P": 52},
		PricePerUnit: 0.38,
		Unit:         "lb",
		Available:    true,
	}
}

// NewOptimizationRequest returns a feasible single-field urea request with a
// $15,000 budget and a 200 lb/acre nitrogen ceiling.
func NewOptimizationRequest() *model.OptimizationRequest {
	return &model.OptimizationRequest{
		Fields:   []model.FieldData{NewField("field_1")},
		Products: []model.FertilizerProduct{NewUreaProduct()},
		Constraints: model.OptimizationConstraints{
			MaxNutrientRates: map[string]float64{"N": 200},
			Budget:           &model.BudgetConstraint{TotalLimit: 15000},
		},
		Goals: model.OptimizationGoals{
			Primary:       "roi",
			YieldWeight:   0.3,
			RiskTolerance: model.RiskModerate,
		},
		Seed: 1,
	}
}

// NewBreakEvenRequest wraps NewOptimizationRequest with all analysis stages
// enabled at the minimum iteration count.
func NewBreakEvenRequest() *model.BreakEvenRequest {
	opt := NewOptimizationRequest()
	return &model.BreakEvenRequest{
		Fields:      opt.Fields,
		Products:    opt.Products,
		Constraints: opt.Constraints,
		Goals:       opt.Goals,
		Flags:       model.AnalysisFlags{MonteCarlo: true, Scenarios: true, Sensitivity: true},
		Iterations:  1000,
		Seed:        1,
	}
}

// FindFrontierPoint finds a frontier point by scenario id.
// Returns a pointer to the point if found, nil otherwise.
func FindFrontierPoint(frontier []model.ParetoFrontierPoint, scenarioID string) *model.ParetoFrontierPoint {
	for i := range frontier {
		if frontier[i].ScenarioID == scenarioID {
			return &frontier[i]
		}
	}
	return nil
}
