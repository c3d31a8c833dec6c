// Package pareto implements the multi-objective budget-constrained
// optimizer: it sweeps a fixed table of objective weightings, builds a
// Pareto frontier over (profit, environment, risk), recommends a scenario,
// allocates budget per field, and analyzes constraint relaxation and
// trade-offs.
package pareto

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agriview/fertilizer-optimizer/internal/config"
	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/internal/optimizer"
	"github.com/agriview/fertilizer-optimizer/pkg/mathutil"
)

// Service runs multi-objective optimization. Stateless across requests and
// safe for concurrent use.
type Service struct {
	logger *zap.Logger
	cfg    *config.EngineConfig
	opt    *optimizer.Service
}

// NewService constructs a Service. The optimizer service supplies the
// scenario-evaluation subroutine; a nil one is constructed from the same
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

// OptimizeBudgetConstraints runs the full multi-objective analysis. The
// request must carry a budget constraint.
func (s *Service) OptimizeBudgetConstraints(ctx context.Context, req *model.OptimizationRequest) (*model.MultiObjectiveResult, error) {
	if err := model.ValidateOptimizationRequest(req); err != nil {
		return nil, err
	}
	if err := model.ValidateBudgetRequired(req); err != nil {
		return nil, err
	}

	points := s.sweep(ctx, req)
	frontier := filterFrontier(points)
	recommended := s.recommend(req, frontier)

	allocations := s.allocateBudget(ctx, req)
	relaxations := s.analyzeRelaxations(ctx, req, recommended)
	tradeOffs := s.analyzeTradeOffs(req, frontier)

	s.logger.Info("multi-objective optimization complete",
		zap.String("op", "pareto.OptimizeBudgetConstraints"),
		zap.Int("sweepPoints", len(points)),
		zap.Int("frontierPoints", len(frontier)),
	)

	return &model.MultiObjectiveResult{
		AnalysisID:            uuid.NewString(),
		ParetoFrontier:        frontier,
		RecommendedScenario:   recommended,
		BudgetAllocations:     allocations,
		ConstraintRelaxations: relaxations,
		TradeOffs:             tradeOffs,
	}, nil
}

// sweep solves one weighted scenario per policy triple on the worker pool.
// Scenario order in the output matches the policy table regardless of
// completion order.
func (s *Service) sweep(ctx context.Context, req *model.OptimizationRequest) []model.ParetoFrontierPoint {
	triples := s.cfg.Policy.WeightTriples
	points := make([]model.ParetoFrontierPoint, len(triples))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, triple := range triples {
		g.Go(func() error {
			points[i] = s.solveWeighted(gctx, req, triple, fmt.Sprintf("scenario_%d", i+1))
			return nil
		})
	}
	// Workers only report failure through neutral points, never errors.
	_ = g.Wait()
	return points
}

// solveWeighted maximizes the weighted sum of normalized profit,
// environment, and risk objectives with projected finite-difference ascent.
// A failed solve yields the neutral point for the scenario instead of
// aborting the sweep.
func (s *Service) solveWeighted(ctx context.Context, req *model.OptimizationRequest, triple config.WeightTriple, scenarioID string) model.ParetoFrontierPoint {
	prob := optimizer.NewProblem(req)
	n := prob.N()

	score := func(x []float64) float64 {
		metrics := optimizer.Evaluate(req.Fields, req.Products, prob.Rates(x))
		return triple.Profit*s.normalizedProfit(metrics.Profit) +
			triple.Environment*s.normalizedEnvironment(metrics.EnvironmentalImpact) +
			triple.Risk*s.normalizedRisk(metrics.RiskScore)
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = prob.UpperBound(i) / 4
	}
	prob.ProjectFeasible(x)

	const iterations = 150
	step := s.cfg.Gradient.FiniteDiffStep
	probe := make([]float64, n)
	for iter := 0; iter < iterations; iter++ {
		if ctx.Err() != nil {
			break
		}
		moved := false
		base := score(x)
		for i := 0; i < n; i++ {
			if prob.UpperBound(i) <= 0 {
				continue
			}
			copy(probe, x)
			probe[i] = x[i] + step
			prob.ProjectFeasible(probe)
			up := score(probe)
			copy(probe, x)
			probe[i] = math.Max(0, x[i]-step)
			prob.ProjectFeasible(probe)
			down := score(probe)

			grad := (up - down) / (2 * step)
			if grad == 0 {
				continue
			}
			x[i] += s.cfg.Gradient.LearningRate * grad * math.Max(prob.UpperBound(i), 1)
			moved = true
		}
		prob.ProjectFeasible(x)
		if !moved || math.Abs(score(x)-base) < s.cfg.Gradient.Tolerance/100 {
			break
		}
	}

	for i := range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) {
			s.logger.Warn("weighted scenario solve failed, emitting neutral point",
				zap.String("op", "pareto.solveWeighted"),
				zap.String("scenario", scenarioID),
			)
			return s.neutralPoint(triple, scenarioID)
		}
	}

	return s.pointFromRates(req, triple, scenarioID, prob.Rates(x))
}

func (s *Service) pointFromRates(req *model.OptimizationRequest, triple config.WeightTriple, scenarioID string, rates model.RateAllocation) model.ParetoFrontierPoint {
	metrics := optimizer.Evaluate(req.Fields, req.Products, rates)
	budget := req.Constraints.Budget
	return model.ParetoFrontierPoint{
		ScenarioID:                    scenarioID,
		Weights:                       model.ObjectiveWeights{Profit: triple.Profit, Environment: triple.Environment, Risk: triple.Risk},
		Cost:                          metrics.FertilizerCost,
		Revenue:                       metrics.Revenue,
		ROIPercent:                    metrics.ROIPercent,
		EnvironmentalScore:            s.normalizedEnvironment(metrics.EnvironmentalImpact) * 100,
		RiskScore:                     metrics.RiskScore,
		YieldTargetAchievementPercent: metrics.YieldTargetAchievementPercent,
		BudgetUtilizationPercent:      mathutil.Percentage(metrics.FertilizerCost, budget.TotalLimit),
		TradeOff:                      triple.Label,
		Rates:                         rates,
	}
}

// neutralPoint is the stand-in emitted when a scenario solve fails: zero
// cost and revenue with midpoint environment and risk scores.
func (s *Service) neutralPoint(triple config.WeightTriple, scenarioID string) model.ParetoFrontierPoint {
	return model.ParetoFrontierPoint{
		ScenarioID:         scenarioID,
		Weights:            model.ObjectiveWeights{Profit: triple.Profit, Environment: triple.Environment, Risk: triple.Risk},
		EnvironmentalScore: 50,
		RiskScore:          50,
		TradeOff:           triple.Label,
		Rates:              model.RateAllocation{},
	}
}

func (s *Service) normalizedProfit(profit float64) float64 {
	return mathutil.Clamp(profit/s.cfg.Policy.ProfitNormalization, 0, 1)
}

func (s *Service) normalizedEnvironment(impact float64) float64 {
	return mathutil.Clamp(1-impact/s.cfg.Policy.EnvironmentNormalization, 0, 1)
}

func (s *Service) normalizedRisk(risk float64) float64 {
	return mathutil.Clamp(1-risk/s.cfg.Policy.RiskNormalization, 0, 1)
}
