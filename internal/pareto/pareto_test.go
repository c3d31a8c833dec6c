package pareto

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/pkg/testutil"
)

func budgetRequest() *model.OptimizationRequest {
	req := testutil.NewOptimizationRequest()
	req.Fields = append(req.Fields, testutil.NewField("field_2"))
	req.Fields[1].TargetYield = 160
	req.Fields[1].Acres = 60
	req.Fields[1].HistoricalYield = 150
	req.Products = append(req.Products, testutil.NewMAPProduct())
	req.Constraints.Budget = &model.BudgetConstraint{
		TotalLimit:          25000,
		FlexibilityPercent:  10,
		ReallocationAllowed: true,
	}
	return req
}

func TestOptimizeBudgetConstraints(t *testing.T) {
	svc := NewService(nil, nil, nil)
	result, err := svc.OptimizeBudgetConstraints(context.Background(), budgetRequest())
	if err != nil {
		t.Fatalf("OptimizeBudgetConstraints() error: %v", err)
	}

	if result.AnalysisID == "" {
		t.Error("missing analysis id")
	}
	if len(result.ParetoFrontier) == 0 {
		t.Fatal("empty Pareto frontier")
	}
	if len(result.ParetoFrontier) > 10 {
		t.Errorf("frontier has %d points, the sweep only produces 10", len(result.ParetoFrontier))
	}
	if result.RecommendedScenario == nil {
		t.Fatal("no recommended scenario")
	}
	if testutil.FindFrontierPoint(result.ParetoFrontier, result.RecommendedScenario.ScenarioID) == nil {
		t.Error("recommended scenario is not on the frontier")
	}

	for _, point := range result.ParetoFrontier {
		if point.EnvironmentalScore < 0 || point.EnvironmentalScore > 100 {
			t.Errorf("%s environmental score %v outside [0, 100]", point.ScenarioID, point.EnvironmentalScore)
		}
		if point.RiskScore < 0 || point.RiskScore > 100 {
			t.Errorf("%s risk score %v outside [0, 100]", point.ScenarioID, point.RiskScore)
		}
		if point.Cost > 25000+1e-6 {
			t.Errorf("%s cost %v exceeds the budget", point.ScenarioID, point.Cost)
		}
	}
}

func TestFrontierIsNonDominated(t *testing.T) {
	svc := NewService(nil, nil, nil)
	result, err := svc.OptimizeBudgetConstraints(context.Background(), budgetRequest())
	if err != nil {
		t.Fatalf("OptimizeBudgetConstraints() error: %v", err)
	}

	frontier := result.ParetoFrontier
	for i := range frontier {
		for j := range frontier {
			if i != j && dominates(frontier[j], frontier[i]) {
				t.Errorf("%s dominates %s but both survived the filter",
					frontier[j].ScenarioID, frontier[i].ScenarioID)
			}
		}
	}
}

func TestBudgetRequired(t *testing.T) {
	svc := NewService(nil, nil, nil)
	req := testutil.NewOptimizationRequest()
	req.Constraints.Budget = nil

	_, err := svc.OptimizeBudgetConstraints(context.Background(), req)
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Field != "budget" {
		t.Errorf("field = %q, expected budget", verr.Field)
	}
}

func TestAllocateBudgetWithinFlexibility(t *testing.T) {
	svc := NewService(nil, nil, nil)
	req := budgetRequest()
	req.Constraints.Budget.PerFieldLimit = 16000

	allocations := svc.allocateBudget(context.Background(), req)
	if len(allocations) != len(req.Fields) {
		t.Fatalf("allocations = %d, expected one per field", len(allocations))
	}

	var total float64
	limit := req.Constraints.Budget.TotalLimit * (1 + req.Constraints.Budget.FlexibilityPercent/100)
	for _, alloc := range allocations {
		if alloc.AllocatedBudget < 0 {
			t.Errorf("%s allocated negative budget", alloc.FieldID)
		}
		if alloc.AllocatedBudget > 16000+1e-6 {
			t.Errorf("%s allocation %v exceeds the per-field limit", alloc.FieldID, alloc.AllocatedBudget)
		}
		if len(alloc.ConstraintViolations) != 0 {
			t.Errorf("%s reported violations: %v", alloc.FieldID, alloc.ConstraintViolations)
		}
		total += alloc.AllocatedBudget
	}
	if total > limit+1e-6 {
		t.Errorf("total allocation %.2f exceeds flexibility limit %.2f", total, limit)
	}
}

func TestAllocateBudgetEqualSharesWithoutReallocation(t *testing.T) {
	svc := NewService(nil, nil, nil)
	req := budgetRequest()
	req.Constraints.Budget.ReallocationAllowed = false

	allocations := svc.allocateBudget(context.Background(), req)
	expected := req.Constraints.Budget.TotalLimit / 2
	for _, alloc := range allocations {
		if alloc.AllocatedBudget != expected {
			t.Errorf("%s allocation = %v, expected equal share %v", alloc.FieldID, alloc.AllocatedBudget, expected)
		}
	}
}

func TestFieldPrioritiesFavorHigherValueFields(t *testing.T) {
	fields := []model.FieldData{
		{ID: "big", Acres: 200, TargetYield: 200, CropPrice: 6.0, HistoricalYield: 190},
		{ID: "small", Acres: 40, TargetYield: 140, CropPrice: 5.0, HistoricalYield: 120},
	}
	priorities := fieldPriorities(fields)
	if priorities[0] <= priorities[1] {
		t.Errorf("expected the larger, higher-value field to outrank: %v vs %v", priorities[0], priorities[1])
	}
	// The dominant field scores the full weight on every component.
	if math.Abs(priorities[0]-1.0) > 1e-9 {
		t.Errorf("dominant field priority = %v, expected 1.0", priorities[0])
	}
}

func TestAnalyzeRelaxations(t *testing.T) {
	svc := NewService(nil, nil, nil)
	req := budgetRequest()
	req.Constraints.MaxCostPerAcre = 40

	result, err := svc.OptimizeBudgetConstraints(context.Background(), req)
	if err != nil {
		t.Fatalf("OptimizeBudgetConstraints() error: %v", err)
	}

	types := make(map[string]bool)
	for _, relaxation := range result.ConstraintRelaxations {
		types[relaxation.ConstraintType] = true
		if relaxation.RelaxedValue <= relaxation.OriginalValue {
			t.Errorf("%s relaxed value %v not above original %v",
				relaxation.ConstraintType, relaxation.RelaxedValue, relaxation.OriginalValue)
		}
		if relaxation.Recommendation == "" {
			t.Errorf("%s has no recommendation", relaxation.ConstraintType)
		}
		for _, key := range []string{"roi_delta", "cost_delta", "environmental_delta", "yield_delta"} {
			if _, ok := relaxation.Impact[key]; !ok {
				t.Errorf("%s impact missing %s", relaxation.ConstraintType, key)
			}
		}
	}
	if !types["total_budget"] {
		t.Error("missing total_budget relaxation probe")
	}
	if !types["nutrient_ceiling:N"] {
		t.Error("missing nutrient ceiling relaxation probe")
	}
	if !types["max_cost_per_acre"] {
		t.Error("missing per-acre cost relaxation probe")
	}

	// Probes must not mutate the caller's constraints.
	if req.Constraints.Budget.TotalLimit != 25000 {
		t.Errorf("budget mutated to %v", req.Constraints.Budget.TotalLimit)
	}
	if req.Constraints.MaxNutrientRates["N"] != 200 {
		t.Errorf("nutrient ceiling mutated to %v", req.Constraints.MaxNutrientRates["N"])
	}
	if req.Constraints.MaxCostPerAcre != 40 {
		t.Errorf("per-acre cap mutated to %v", req.Constraints.MaxCostPerAcre)
	}
}

func TestTradeOffAnalysis(t *testing.T) {
	svc := NewService(nil, nil, nil)
	result, err := svc.OptimizeBudgetConstraints(context.Background(), budgetRequest())
	if err != nil {
		t.Fatalf("OptimizeBudgetConstraints() error: %v", err)
	}

	trade := result.TradeOffs
	for _, pair := range []string{"profit_vs_environment", "profit_vs_risk", "environment_vs_risk"} {
		r, ok := trade.Correlations[pair]
		if !ok {
			t.Errorf("missing correlation %s", pair)
			continue
		}
		if r < -1 || r > 1 {
			t.Errorf("correlation %s = %v outside [-1, 1]", pair, r)
		}
	}
	if trade.MostEfficientScenario == "" {
		t.Error("no most efficient scenario")
	}
	if _, ok := trade.EfficiencyScores[trade.MostEfficientScenario]; !ok {
		t.Error("most efficient scenario has no efficiency score")
	}
	if len(trade.Guidance) == 0 {
		t.Error("no guidance emitted")
	}
}

func TestDominates(t *testing.T) {
	base := model.ParetoFrontierPoint{Revenue: 1000, Cost: 200, EnvironmentalScore: 70, RiskScore: 30}

	better := base
	better.Revenue = 1200
	if !dominates(better, base) {
		t.Error("strictly better profit should dominate")
	}
	if dominates(base, better) {
		t.Error("dominance is not symmetric")
	}

	tradeoff := base
	tradeoff.Revenue = 1200
	tradeoff.RiskScore = 60
	if dominates(tradeoff, base) || dominates(base, tradeoff) {
		t.Error("points trading profit against risk should be incomparable")
	}

	if dominates(base, base) {
		t.Error("a point must not dominate itself")
	}
}
