// Package breakeven implements the stochastic break-even analyzer:
// deterministic break-even metrics over an explicit cost structure,
// optional Monte Carlo simulation, fixed scenario analysis, sensitivity
// analysis, and a rule-based risk assessment.
package breakeven

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agriview/fertilizer-optimizer/internal/config"
	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/internal/optimizer"
	"github.com/agriview/fertilizer-optimizer/pkg/mathutil"
)

// Service runs break-even analysis. Stateless across requests and safe for
// concurrent use.
type Service struct {
	logger *zap.Logger
	cfg    *config.EngineConfig
	opt    *optimizer.Service
}

// NewService constructs a Service. The optimizer supplies the fertilizer
// cost and expected yields; a nil one is constructed from the same
// configuration.
func NewService(logger *zap.Logger, cfg *config.EngineConfig, opt *optimizer.Service) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if opt == nil {
		opt = optimizer.NewService(logger, cfg)
	}
	return &Service{logger: logger, cfg: cfg, opt: opt}
}

// baseEconomics carries the deterministic quantities every stochastic and
// scenario computation perturbs.
type baseEconomics struct {
	totalAcres     float64
	totalYield     float64 // bu across all acres
	yieldPerAcre   float64
	cropPrice      float64 // yield-weighted average $/bu
	revenue        float64
	fertilizerCost float64
	otherCosts     float64 // cost structure minus fertilizer
	totalCost      float64
	rates          config.CostRates // effective per-acre rates after overrides
}

// Analyze runs the full break-even analysis for the request.
func (s *Service) Analyze(ctx context.Context, req *model.BreakEvenRequest) (*model.BreakEvenBundle, error) {
	if err := model.ValidateBreakEvenRequest(req); err != nil {
		return nil, err
	}

	optReq := &model.OptimizationRequest{
		Fields:      req.Fields,
		Products:    req.Products,
		Constraints: req.Constraints,
		Goals:       req.Goals,
		Method:      req.Method,
		Seed:        req.Seed,
	}
	optimization, err := s.opt.Optimize(ctx, optReq)
	if err != nil {
		return nil, err
	}

	base := s.baseline(req, optimization)
	costs := s.costStructure(base)
	basic := s.basicBreakEven(base)

	bundle := &model.BreakEvenBundle{
		AnalysisID:   uuid.NewString(),
		Costs:        costs,
		Basic:        basic,
		Optimization: optimization,
	}

	if req.Flags.MonteCarlo {
		iterations := req.Iterations
		if iterations == 0 {
			iterations = s.cfg.MonteCarlo.DefaultIterations
		}
		bundle.MonteCarlo = s.runMonteCarlo(ctx, req.Seed, iterations, base)
	}
	if req.Flags.Scenarios {
		bundle.Scenarios = s.scenarioAnalysis(base)
	}
	if req.Flags.Sensitivity {
		bundle.Sensitivities = s.sensitivityAnalysis(base)
	}

	bundle.Risk = s.assessRisk(basic, bundle.MonteCarlo, base)
	bundle.Recommendations = s.recommendations(basic, bundle)

	s.logger.Info("break-even analysis complete",
		zap.String("op", "breakeven.Analyze"),
		zap.Float64("safetyMarginPercent", basic.SafetyMarginPercent),
		zap.String("riskLevel", string(bundle.Risk.Level)),
	)
	return bundle, nil
}

func (s *Service) baseline(req *model.BreakEvenRequest, optimization *model.OptimizationResult) baseEconomics {
	metrics := optimizer.Evaluate(req.Fields, req.Products, optimization.Rates)

	base := baseEconomics{
		totalAcres:     metrics.TotalAcres,
		totalYield:     metrics.TotalYield,
		revenue:        metrics.Revenue,
		fertilizerCost: metrics.FertilizerCost,
		rates:          s.effectiveRates(req),
	}
	base.yieldPerAcre = mathutil.SafeDivide(base.totalYield, base.totalAcres, 0)
	base.cropPrice = mathutil.SafeDivide(base.revenue, base.totalYield, 0)
	base.otherCosts = (base.rates.FixedPerAcre + base.rates.VariablePerAcre + base.rates.ApplicationPerAcre + base.rates.OpportunityPerAcre) * base.totalAcres
	base.totalCost = base.otherCosts + base.fertilizerCost
	return base
}

// effectiveRates merges request cost-rate overrides over the configured
// defaults. Zero override components keep the configured rate.
func (s *Service) effectiveRates(req *model.BreakEvenRequest) config.CostRates {
	rates := s.cfg.CostRates
	o := req.CostOverrides
	if o == nil {
		return rates
	}
	if o.FixedPerAcre > 0 {
		rates.FixedPerAcre = o.FixedPerAcre
	}
	if o.VariablePerAcre > 0 {
		rates.VariablePerAcre = o.VariablePerAcre
	}
	if o.ApplicationPerAcre > 0 {
		rates.ApplicationPerAcre = o.ApplicationPerAcre
	}
	if o.OpportunityPerAcre > 0 {
		rates.OpportunityPerAcre = o.OpportunityPerAcre
	}
	return rates
}

// costStructure decomposes the baseline cost. TotalCosts is the exact sum
// of the components.
func (s *Service) costStructure(base baseEconomics) model.CostStructure {
	rates := base.rates
	costs := model.CostStructure{
		FixedCosts:       rates.FixedPerAcre * base.totalAcres,
		VariableCosts:    rates.VariablePerAcre * base.totalAcres,
		FertilizerCosts:  base.fertilizerCost,
		ApplicationCosts: rates.ApplicationPerAcre * base.totalAcres,
		OpportunityCosts: rates.OpportunityPerAcre * base.totalAcres,
	}
	costs.TotalCosts = costs.FixedCosts + costs.VariableCosts + costs.FertilizerCosts + costs.ApplicationCosts + costs.OpportunityCosts
	return costs
}

func (s *Service) basicBreakEven(base baseEconomics) model.BasicBreakEven {
	basic := model.BasicBreakEven{
		TotalRevenue:          base.revenue,
		TotalCost:             base.totalCost,
		TotalYield:            base.totalYield,
		BreakEvenYieldPerAcre: mathutil.SafeDivide(base.totalCost, base.totalAcres*base.cropPrice, 0),
		BreakEvenPrice:        mathutil.SafeDivide(base.totalCost, base.totalYield, 0),
	}
	if base.totalCost > 0 {
		basic.SafetyMarginPercent = (base.revenue - base.totalCost) / base.totalCost * 100
	}
	basic.ProfitabilityProbability = s.profitabilityProbability(basic.SafetyMarginPercent)
	return basic
}

// profitabilityProbability maps a safety margin onto a probability via the
// calibrated linear policy, clamped away from certainty on both ends.
func (s *Service) profitabilityProbability(marginPercent float64) float64 {
	p := s.cfg.Policy
	return mathutil.Clamp(p.ProfitabilityBase+marginPercent/100*p.ProfitabilitySlope, p.ProfitabilityMin, p.ProfitabilityMax)
}
