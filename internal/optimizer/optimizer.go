// Package optimizer implements the single-objective ROI optimizer: it
// allocates fertilizer application rates across fields and products to
// maximize profit under agronomic and budget constraints, with a selectable
// solver strategy and a deterministic greedy fallback.
package optimizer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agriview/fertilizer-optimizer/internal/config"
	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/pkg/constants"
	"github.com/agriview/fertilizer-optimizer/pkg/mathutil"
)

// Service runs single-objective rate optimization. It is stateless across
// requests and safe for concurrent use.
type Service struct {
	logger     *zap.Logger
	cfg        *config.EngineConfig
	strategies map[model.OptimizationMethod]Strategy
}

// NewService constructs a Service with one strategy registered per
// optimization method. A nil logger is replaced with a no-op logger; a nil
// configuration uses the defaults.
func NewService(logger *zap.Logger, cfg *config.EngineConfig) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &Service{
		logger: logger,
		cfg:    cfg,
		strategies: map[model.OptimizationMethod]Strategy{
			model.MethodLinearProgramming:    &linearStrategy{},
			model.MethodQuadraticProgramming: &quadraticStrategy{params: cfg.Quadratic},
			model.MethodGeneticAlgorithm:     &geneticStrategy{params: cfg.Genetic},
			model.MethodGradientDescent:      &gradientStrategy{params: cfg.Gradient},
		},
	}
}

// Optimize produces the profit-maximizing rate allocation for the request.
// Solver infeasibility or non-convergence is recovered with the greedy
// fallback; only malformed input returns an error.
func (s *Service) Optimize(ctx context.Context, req *model.OptimizationRequest) (*model.OptimizationResult, error) {
	if err := model.ValidateOptimizationRequest(req); err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = model.MethodLinearProgramming
	}
	strategy, ok := s.strategies[method]
	if !ok {
		return nil, model.NewValidationError("request", "method", fmt.Sprintf("unknown optimization method %q", method))
	}

	prob := NewProblem(req)

	x, err := strategy.Solve(ctx, prob)
	usedFallback := false
	if err != nil {
		s.logger.Warn("solver failed, using greedy fallback",
			zap.String("op", "optimizer.Optimize"),
			zap.String("method", string(method)),
			zap.Error(err),
		)
		x = greedyFallback(prob)
		usedFallback = true
	}
	if x == nil || len(x) != prob.n {
		return nil, &model.ComputationError{Stage: "fallback allocation", Err: fmt.Errorf("no solution produced for method %s", method)}
	}

	result := s.buildResult(req, prob, x, method, usedFallback)
	s.logger.Debug("optimization complete",
		zap.String("op", "optimizer.Optimize"),
		zap.String("method", string(method)),
		zap.Bool("usedFallback", usedFallback),
		zap.Float64("totalProfit", result.TotalProfit),
		zap.Float64("roiPercent", result.ROIPercent),
	)
	return result, nil
}

// buildResult funnels every strategy's rate vector through one
// result-construction step.
func (s *Service) buildResult(req *model.OptimizationRequest, prob *Problem, x []float64, method model.OptimizationMethod, usedFallback bool) *model.OptimizationResult {
	rates := prob.rates(x)
	metrics := Evaluate(req.Fields, req.Products, rates)

	var breakEvenYield float64
	var priceAcres float64
	for _, field := range req.Fields {
		priceAcres += field.CropPrice * field.Acres
	}
	if priceAcres > 0 {
		// Average crop price weighted by acreage.
		avgPrice := priceAcres / metrics.TotalAcres
		breakEvenYield = mathutil.SafeDivide(metrics.FertilizerCost, metrics.TotalAcres*avgPrice, 0)
	}

	return &model.OptimizationResult{
		Rates:                         rates,
		TotalRevenue:                  metrics.Revenue,
		TotalCost:                     metrics.FertilizerCost,
		TotalProfit:                   metrics.Profit,
		ROIPercent:                    metrics.ROIPercent,
		BreakEvenYieldPerAcre:         breakEvenYield,
		YieldTargetAchievementPercent: metrics.YieldTargetAchievementPercent,
		EnvironmentalImpact:           metrics.EnvironmentalImpact,
		RiskScore:                     metrics.RiskScore,
		Recommendations:               s.nutrientRecommendations(req, rates),
		Method:                        method,
		UsedFallback:                  usedFallback,
	}
}

// nutrientRecommendations summarizes applied nutrient mass against the
// declared ceilings.
func (s *Service) nutrientRecommendations(req *model.OptimizationRequest, rates model.RateAllocation) map[string]model.NutrientRecommendation {
	applied := make(map[string]float64)
	var totalAcres float64
	for _, field := range req.Fields {
		totalAcres += field.Acres
		for _, product := range req.Products {
			rate := rates.Rate(field.ID, product.ID)
			if rate <= 0 {
				continue
			}
			for symbol, content := range product.Nutrients {
				if content > 0 {
					applied[symbol] += rate * content / constants.PercentDivisor * field.Acres
				}
			}
		}
	}

	recs := make(map[string]model.NutrientRecommendation, len(applied))
	for symbol, total := range applied {
		avg := mathutil.SafeDivide(total, totalAcres, 0)
		ceiling := req.Constraints.MaxNutrientRates[symbol]
		note := "no ceiling declared"
		if ceiling > 0 {
			if avg >= ceiling*0.95 {
				note = "application near the declared ceiling; consider split applications"
			} else {
				note = "application within the declared ceiling"
			}
		}
		recs[symbol] = model.NutrientRecommendation{
			Nutrient:           symbol,
			AverageRatePerAcre: avg,
			TotalApplied:       total,
			CeilingRatePerAcre: ceiling,
			Note:               note,
		}
	}
	return recs
}
