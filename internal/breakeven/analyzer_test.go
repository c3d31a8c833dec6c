package breakeven

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriview/fertilizer-optimizer/internal/config"
	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/pkg/testutil"
)

func TestAnalyzeBasicEconomics(t *testing.T) {
	svc := NewService(nil, nil, nil)
	req := testutil.NewBreakEvenRequest()
	req.Flags = model.AnalysisFlags{}

	bundle, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, bundle.AnalysisID)

	costs := bundle.Costs
	sum := costs.FixedCosts + costs.VariableCosts + costs.FertilizerCosts +
		costs.ApplicationCosts + costs.OpportunityCosts
	assert.Equal(t, sum, costs.TotalCosts, "components must sum exactly to the total")

	// 100 acres at the default rates: 150+120+15+50 per acre.
	assert.InDelta(t, 15000, costs.FixedCosts, 1e-9)
	assert.InDelta(t, 12000, costs.VariableCosts, 1e-9)
	assert.InDelta(t, 1500, costs.ApplicationCosts, 1e-9)
	assert.InDelta(t, 5000, costs.OpportunityCosts, 1e-9)
	assert.Positive(t, costs.FertilizerCosts)

	basic := bundle.Basic
	assert.InDelta(t, costs.TotalCosts, basic.TotalCost, 1e-6)
	assert.Positive(t, basic.BreakEvenYieldPerAcre)
	assert.Positive(t, basic.BreakEvenPrice)
	assert.GreaterOrEqual(t, basic.ProfitabilityProbability, 0.05)
	assert.LessOrEqual(t, basic.ProfitabilityProbability, 0.95)

	// Optional stages stay off when their flags are off.
	assert.Nil(t, bundle.MonteCarlo)
	assert.Empty(t, bundle.Scenarios)
	assert.Empty(t, bundle.Sensitivities)

	assert.NotEmpty(t, bundle.Risk.Level)
	assert.NotEmpty(t, bundle.Recommendations)
}

func TestAnalyzeCostOverrides(t *testing.T) {
	svc := NewService(nil, nil, nil)
	req := testutil.NewBreakEvenRequest()
	req.Flags = model.AnalysisFlags{}
	req.CostOverrides = &model.CostRateOverrides{FixedPerAcre: 200, ApplicationPerAcre: 20}

	bundle, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	// Overridden components replace the configured rates; the rest keep
	// their defaults for the 100-acre field.
	assert.InDelta(t, 20000, bundle.Costs.FixedCosts, 1e-9)
	assert.InDelta(t, 2000, bundle.Costs.ApplicationCosts, 1e-9)
	assert.InDelta(t, 12000, bundle.Costs.VariableCosts, 1e-9)
	assert.InDelta(t, 5000, bundle.Costs.OpportunityCosts, 1e-9)

	req.CostOverrides = &model.CostRateOverrides{FixedPerAcre: -1}
	_, err = svc.Analyze(context.Background(), req)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestAnalyzeMonteCarlo(t *testing.T) {
	svc := NewService(nil, nil, nil)
	req := testutil.NewBreakEvenRequest()
	req.Flags = model.AnalysisFlags{MonteCarlo: true}
	req.Iterations = 2000

	bundle, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	mc := bundle.MonteCarlo
	require.NotNil(t, mc)

	assert.Equal(t, 2000, mc.Iterations)
	for _, key := range []string{"profitable", "break_even_achievable", "margin_above_20"} {
		p, ok := mc.Probabilities[key]
		require.True(t, ok, "missing probability %s", key)
		assert.GreaterOrEqual(t, p, 0.0, key)
		assert.LessOrEqual(t, p, 1.0, key)
	}

	profits := mc.Distributions["profit"]
	require.Len(t, profits, 2000)
	ci, ok := mc.ConfidenceIntervals["profit"]
	require.True(t, ok)
	assert.LessOrEqual(t, ci.Lower, ci.Upper)

	// The 5th/95th interval sits inside the sample range.
	minP, maxP := profits[0], profits[0]
	for _, p := range profits {
		if p < minP {
			minP = p
		}
		if p > maxP {
			maxP = p
		}
	}
	assert.GreaterOrEqual(t, ci.Lower, minP)
	assert.LessOrEqual(t, ci.Upper, maxP)

	for _, key := range []string{"value_at_risk_5", "expected_shortfall", "volatility", "sharpe_ratio"} {
		_, ok := mc.RiskMetrics[key]
		assert.True(t, ok, "missing risk metric %s", key)
	}
	assert.GreaterOrEqual(t, mc.RiskMetrics["value_at_risk_5"], 0.0)
	assert.GreaterOrEqual(t, mc.RiskMetrics["volatility"], 0.0)
}

func TestAnalyzeMonteCarloIterationStability(t *testing.T) {
	svc := NewService(nil, nil, nil)

	profitWidth := func(iterations int) float64 {
		req := testutil.NewBreakEvenRequest()
		req.Flags = model.AnalysisFlags{MonteCarlo: true}
		req.Iterations = iterations
		req.Seed = 42
		bundle, err := svc.Analyze(context.Background(), req)
		require.NoError(t, err)
		ci, ok := bundle.MonteCarlo.ConfidenceIntervals["profit"]
		require.True(t, ok)
		return ci.Upper - ci.Lower
	}

	small := profitWidth(1000)
	large := profitWidth(100000)
	require.Positive(t, small)

	// More iterations stabilize the interval estimate: the large-sample
	// width stays close to the small-sample one and does not grow
	// materially.
	assert.InEpsilon(t, small, large, 0.10)
	assert.LessOrEqual(t, large, small*1.05)
}

func TestAnalyzeMonteCarloSeedDeterminism(t *testing.T) {
	svc := NewService(nil, nil, nil)

	run := func(seed uint64) *model.MonteCarloResult {
		req := testutil.NewBreakEvenRequest()
		req.Flags = model.AnalysisFlags{MonteCarlo: true}
		req.Iterations = 1000
		req.Seed = seed
		bundle, err := svc.Analyze(context.Background(), req)
		require.NoError(t, err)
		return bundle.MonteCarlo
	}

	a, b := run(42), run(42)
	assert.Equal(t, a.Probabilities, b.Probabilities, "same seed must reproduce probabilities")
	assert.Equal(t, a.RiskMetrics, b.RiskMetrics, "same seed must reproduce risk metrics")

	c := run(43)
	assert.NotEqual(t, a.Distributions["profit"][0], c.Distributions["profit"][0],
		"different seeds should produce different samples")
}

func TestAnalyzeScenarios(t *testing.T) {
	svc := NewService(nil, nil, nil)
	req := testutil.NewBreakEvenRequest()
	req.Flags = model.AnalysisFlags{Scenarios: true}

	bundle, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, bundle.Scenarios, 4)

	byType := make(map[model.ScenarioType]model.BreakEvenScenario, 4)
	var priorSum float64
	for _, scenario := range bundle.Scenarios {
		byType[scenario.Type] = scenario
		priorSum += scenario.Probability
		assert.NotEmpty(t, scenario.RiskLevel, "%s has no risk level", scenario.Type)
	}
	assert.InDelta(t, 1.0, priorSum, 1e-9)

	optimistic := byType[model.ScenarioOptimistic]
	realistic := byType[model.ScenarioRealistic]
	pessimistic := byType[model.ScenarioPessimistic]
	stress := byType[model.ScenarioStressTest]

	// Margins must be ordered with the scenario severity.
	assert.Greater(t, optimistic.SafetyMarginPercent, realistic.SafetyMarginPercent)
	assert.Greater(t, realistic.SafetyMarginPercent, pessimistic.SafetyMarginPercent)
	assert.Greater(t, pessimistic.SafetyMarginPercent, stress.SafetyMarginPercent)

	// The realistic scenario reproduces the deterministic baseline.
	assert.InDelta(t, bundle.Basic.SafetyMarginPercent, realistic.SafetyMarginPercent, 1e-6)
	assert.InDelta(t, bundle.Basic.BreakEvenYieldPerAcre, realistic.BreakEvenYieldPerAcre, 1e-6)

	// Cheaper crop and lower yield push the break-even requirement up.
	assert.Greater(t, stress.BreakEvenYieldPerAcre, realistic.BreakEvenYieldPerAcre)
}

func TestAnalyzeSensitivity(t *testing.T) {
	svc := NewService(nil, nil, nil)
	req := testutil.NewBreakEvenRequest()
	req.Flags = model.AnalysisFlags{Sensitivity: true}

	bundle, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, bundle.Sensitivities, 5)

	byVariable := make(map[string]model.SensitivityAnalysis, 5)
	for _, sensitivity := range bundle.Sensitivities {
		byVariable[sensitivity.Variable] = sensitivity
	}

	price, ok := byVariable["crop_price"]
	require.True(t, ok)
	// A cheaper crop raises the break-even yield.
	assert.Greater(t, price.BreakEvenAtLow, price.BreakEvenAtBase)
	assert.Less(t, price.BreakEvenAtHigh, price.BreakEvenAtBase)
	assert.Negative(t, price.Elasticity)

	fixed, ok := byVariable["fixed_costs"]
	require.True(t, ok)
	// Higher fixed costs raise the break-even yield.
	assert.Greater(t, fixed.BreakEvenAtHigh, fixed.BreakEvenAtBase)
	assert.Positive(t, fixed.Elasticity)

	yield, ok := byVariable["yield"]
	require.True(t, ok)
	// The yield variable reports break-even price, which falls as yield
	// grows.
	assert.Less(t, yield.BreakEvenAtHigh, yield.BreakEvenAtBase)
	assert.Negative(t, yield.Elasticity)

	for _, sensitivity := range bundle.Sensitivities {
		assert.InDelta(t, sensitivity.BaseValue*0.9, sensitivity.LowValue, 1e-9)
		assert.InDelta(t, sensitivity.BaseValue*1.1, sensitivity.HighValue, 1e-9)
	}
}

func TestAnalyzeRiskAssessment(t *testing.T) {
	svc := NewService(nil, nil, nil)
	req := testutil.NewBreakEvenRequest()
	req.Flags = model.AnalysisFlags{MonteCarlo: true}
	req.Iterations = 1000

	bundle, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	risk := bundle.Risk
	assert.GreaterOrEqual(t, risk.Score, 0)
	assert.LessOrEqual(t, risk.Score, 10)
	assert.Contains(t, []model.RiskLevel{
		model.RiskLevelLow, model.RiskLevelMedium, model.RiskLevelHigh, model.RiskLevelCritical,
	}, risk.Level)
	assert.NotEmpty(t, risk.Factors)
}

func TestAnalyzeIterationRange(t *testing.T) {
	svc := NewService(nil, nil, nil)
	req := testutil.NewBreakEvenRequest()
	req.Flags = model.AnalysisFlags{MonteCarlo: true}
	req.Iterations = 500

	_, err := svc.Analyze(context.Background(), req)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "iterations", verr.Field)
}

func TestAnalyzeCancelledContext(t *testing.T) {
	svc := NewService(nil, nil, nil)
	req := testutil.NewBreakEvenRequest()
	req.Flags = model.AnalysisFlags{MonteCarlo: true}
	req.Iterations = 100000

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context must not panic or error; the Monte Carlo stage
	// covers whatever iterations completed.
	bundle, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, bundle.MonteCarlo)
	assert.LessOrEqual(t, bundle.MonteCarlo.Iterations, 100000)
}

func TestAssessRiskPolicyThresholds(t *testing.T) {
	req := testutil.NewBreakEvenRequest()
	req.Flags = model.AnalysisFlags{}

	// With every score mapped to low, the level cannot leave low whatever
	// the economics accumulate.
	cfg := config.Default()
	cfg.Policy.RiskScoreLowMax = cfg.Policy.RiskScoreCap
	bundle, err := NewService(nil, cfg, nil).Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.RiskLevelLow, bundle.Risk.Level)

	// Pushing the thin-margin band above any attainable margin forces at
	// least two points, so a zero low bound cannot report low.
	cfg = config.Default()
	cfg.Policy.RiskMarginThin = 1e9
	cfg.Policy.RiskScoreLowMax = 0
	bundle, err = NewService(nil, cfg, nil).Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, model.RiskLevelLow, bundle.Risk.Level)
}

func TestClassifyScenarioRiskPolicy(t *testing.T) {
	policy := config.DefaultPolicy()
	scenario := model.BreakEvenScenario{SafetyMarginPercent: 12, BreakEvenYieldPerAcre: 100}

	assert.Equal(t, model.RiskLevelMedium, classifyScenarioRisk(policy, scenario, 150))

	// Lowering the low-risk margin bound reclassifies the same scenario.
	policy.ScenarioMarginLow = 10
	assert.Equal(t, model.RiskLevelLow, classifyScenarioRisk(policy, scenario, 150))

	// Yield below the break-even requirement stays at least high risk.
	assert.Equal(t, model.RiskLevelHigh, classifyScenarioRisk(policy, scenario, 90))
}

func TestRiskLevelOrdering(t *testing.T) {
	assert.Less(t, riskRank(model.RiskLevelLow), riskRank(model.RiskLevelMedium))
	assert.Less(t, riskRank(model.RiskLevelMedium), riskRank(model.RiskLevelHigh))
	assert.Less(t, riskRank(model.RiskLevelHigh), riskRank(model.RiskLevelCritical))
}
