// Package output provides utilities for formatting and displaying analysis results.
package output

import (
	"fmt"
	"sort"

	"github.com/agriview/fertilizer-optimizer/internal/model"
)

// PrettyOptimization outputs a human-readable rather than machine-readable table.
func PrettyOptimization(result *model.OptimizationResult) {
	fmt.Printf("--- Optimization result (%s) ---\n", result.Method)
	if result.UsedFallback {
		fmt.Printf("note: solver failed, rates come from the greedy fallback\n")
	}
	fmt.Printf("Revenue:  %s\n", Currency(result.TotalRevenue))
	fmt.Printf("Cost:     %s\n", Currency(result.TotalCost))
	fmt.Printf("Profit:   %s\n", Currency(result.TotalProfit))
	fmt.Printf("ROI:      %.1f%%\n", result.ROIPercent)
	fmt.Printf("Break-even yield: %.1f bu/acre\n", result.BreakEvenYieldPerAcre)
	fmt.Printf("Yield target achievement: %.1f%%\n", result.YieldTargetAchievementPercent)
	fmt.Printf("Environmental impact: %.1f | Risk score: %.1f\n", result.EnvironmentalImpact, result.RiskScore)

	fmt.Printf("\nField      | Product    | Rate (lb/acre)\n")
	fmt.Printf("_____      | _______    | ______________\n")
	for _, fieldID := range sortedKeys(result.Rates) {
		byProduct := result.Rates[fieldID]
		for _, productID := range sortedKeys(byProduct) {
			fmt.Printf("%-10s | %-10s | %.1f\n", fieldID, productID, byProduct[productID])
		}
	}

	if len(result.Recommendations) > 0 {
		fmt.Printf("\nNutrient | Avg rate | Total applied | Note\n")
		for _, nutrient := range sortedKeys(result.Recommendations) {
			rec := result.Recommendations[nutrient]
			fmt.Printf("%-8s | %8.1f | %13.0f | %s\n",
				rec.Nutrient, rec.AverageRatePerAcre, rec.TotalApplied, rec.Note)
		}
	}
}

// CsvOptimization outputs the per-field rates in comma-separated value format.
func CsvOptimization(result *model.OptimizationResult) {
	fmt.Printf("\"field\",\"product\",\"rate_lb_per_acre\"\n")
	for _, fieldID := range sortedKeys(result.Rates) {
		byProduct := result.Rates[fieldID]
		for _, productID := range sortedKeys(byProduct) {
			fmt.Printf("\"%s\",\"%s\",\"%.2f\"\n", fieldID, productID, byProduct[productID])
		}
	}
}

// PrettyMultiObjective outputs the Pareto frontier and the budget allocation.
func PrettyMultiObjective(result *model.MultiObjectiveResult) {
	fmt.Printf("--- Multi-objective analysis %s ---\n", result.AnalysisID)
	fmt.Printf("Scenario    | ROI %%  | Env   | Risk  | Cost         | Trade-off\n")
	fmt.Printf("________    | _____  | ___   | ____  | ____         | _________\n")
	for _, point := range result.ParetoFrontier {
		marker := " "
		if result.RecommendedScenario != nil && point.ScenarioID == result.RecommendedScenario.ScenarioID {
			marker = "*"
		}
		fmt.Printf("%s%-10s | %6.1f | %5.1f | %5.1f | %12s | %s\n",
			marker, point.ScenarioID, point.ROIPercent, point.EnvironmentalScore,
			point.RiskScore, Currency(point.Cost), point.TradeOff)
	}

	if len(result.BudgetAllocations) > 0 {
		fmt.Printf("\nField      | Budget       | Utilization | Expected ROI\n")
		for _, alloc := range result.BudgetAllocations {
			fmt.Printf("%-10s | %12s | %10.1f%% | %.1f%%\n",
				alloc.FieldID, Currency(alloc.AllocatedBudget), alloc.UtilizationPercent, alloc.ExpectedROIPercent)
		}
	}

	for _, relaxation := range result.ConstraintRelaxations {
		fmt.Printf("\n%s: %s\n", relaxation.ConstraintType, relaxation.Recommendation)
	}
	for _, guidance := range result.TradeOffs.Guidance {
		fmt.Printf("- %s\n", guidance)
	}
}

// CsvMultiObjective outputs the frontier in comma-separated value format.
func CsvMultiObjective(result *model.MultiObjectiveResult) {
	fmt.Printf("\"scenario\",\"roi_percent\",\"environmental_score\",\"risk_score\",\"cost\",\"revenue\",\"budget_utilization_percent\"\n")
	for _, point := range result.ParetoFrontier {
		fmt.Printf("\"%s\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\"\n",
			point.ScenarioID, point.ROIPercent, point.EnvironmentalScore, point.RiskScore,
			point.Cost, point.Revenue, point.BudgetUtilizationPercent)
	}
}

// PrettyBreakEven outputs the break-even bundle.
func PrettyBreakEven(bundle *model.BreakEvenBundle) {
	fmt.Printf("--- Break-even analysis %s ---\n", bundle.AnalysisID)
	costs := bundle.Costs
	fmt.Printf("Fixed %s | Variable %s | Fertilizer %s | Application %s | Opportunity %s\n",
		Currency(costs.FixedCosts), Currency(costs.VariableCosts), Currency(costs.FertilizerCosts),
		Currency(costs.ApplicationCosts), Currency(costs.OpportunityCosts))
	fmt.Printf("Total cost: %s | Revenue: %s\n", Currency(costs.TotalCosts), Currency(bundle.Basic.TotalRevenue))
	fmt.Printf("Break-even: %.1f bu/acre at current prices, %s/bu at expected yield\n",
		bundle.Basic.BreakEvenYieldPerAcre, Currency(bundle.Basic.BreakEvenPrice))
	fmt.Printf("Safety margin: %.1f%% | Profitability probability: %.0f%%\n",
		bundle.Basic.SafetyMarginPercent, bundle.Basic.ProfitabilityProbability*100)

	if mc := bundle.MonteCarlo; mc != nil {
		fmt.Printf("\nMonte Carlo (%d iterations)\n", mc.Iterations)
		for _, key := range sortedKeys(mc.Probabilities) {
			fmt.Printf("P(%s) = %.2f\n", key, mc.Probabilities[key])
		}
		for _, key := range sortedKeys(mc.ConfidenceIntervals) {
			interval := mc.ConfidenceIntervals[key]
			fmt.Printf("%s 90%% interval: [%s, %s]\n", key, Currency(interval.Lower), Currency(interval.Upper))
		}
	}

	if len(bundle.Scenarios) > 0 {
		fmt.Printf("\nScenario    | Price   | Margin %% | Risk\n")
		for _, scenario := range bundle.Scenarios {
			fmt.Printf("%-11s | %7s | %8.1f | %s\n",
				scenario.Type, Currency(scenario.CropPrice), scenario.SafetyMarginPercent, scenario.RiskLevel)
		}
	}

	if len(bundle.Sensitivities) > 0 {
		fmt.Printf("\nVariable        | Elasticity\n")
		for _, sensitivity := range bundle.Sensitivities {
			fmt.Printf("%-15s | %.2f\n", sensitivity.Variable, sensitivity.Elasticity)
		}
	}

	fmt.Printf("\nRisk: %s (score %d/10)\n", bundle.Risk.Level, bundle.Risk.Score)
	for _, factor := range bundle.Risk.Factors {
		fmt.Printf("- %s\n", factor)
	}
	for _, recommendation := range bundle.Recommendations {
		fmt.Printf("> %s\n", recommendation)
	}
}

// CsvBreakEven outputs the scenario table in comma-separated value format.
func CsvBreakEven(bundle *model.BreakEvenBundle) {
	fmt.Printf("\"scenario\",\"crop_price\",\"break_even_yield_per_acre\",\"break_even_price\",\"safety_margin_percent\",\"probability\",\"risk_level\"\n")
	if len(bundle.Scenarios) == 0 {
		fmt.Printf("\"realistic\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\",\"1.00\",\"%s\"\n",
			bundle.Basic.TotalRevenue/max(bundle.Basic.TotalYield, 1),
			bundle.Basic.BreakEvenYieldPerAcre, bundle.Basic.BreakEvenPrice,
			bundle.Basic.SafetyMarginPercent, bundle.Risk.Level)
		return
	}
	for _, scenario := range bundle.Scenarios {
		fmt.Printf("\"%s\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\",\"%s\"\n",
			scenario.Type, scenario.CropPrice, scenario.BreakEvenYieldPerAcre, scenario.BreakEvenPrice,
			scenario.SafetyMarginPercent, scenario.Probability, scenario.RiskLevel)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
