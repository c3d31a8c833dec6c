package breakeven

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/pkg/mathutil"
	"github.com/agriview/fertilizer-optimizer/pkg/stats"
)

// runMonteCarlo simulates the request's economics under independently
// sampled crop price (normal), fertilizer price multiplier (log-normal),
// and yield multiplier (triangular). Iterations fan out across the worker
// pool; each worker owns a PCG stream derived from the request seed, so a
// fixed seed and worker count reproduce the result exactly. Context
// cancellation stops the workers early and the aggregate covers only the
// completed iterations.
func (s *Service) runMonteCarlo(ctx context.Context, seed uint64, iterations int, base baseEconomics) *model.MonteCarloResult {
	workers := s.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > iterations {
		workers = iterations
	}
	if seed == 0 {
		seed = 1
	}

	type chunkSamples struct {
		profits   []float64
		margins   []float64
		revenues  []float64
		yieldsOK  int
		completed int
	}
	chunks := make([]chunkSamples, workers)
	per := iterations / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		count := per
		if w == workers-1 {
			count = iterations - per*(workers-1)
		}
		g.Go(func() error {
			mc := s.cfg.MonteCarlo
			src := stats.NewSource(seed + uint64(w+1)*0x9e3779b9)
			priceDist := stats.NewNormal(base.cropPrice, mc.PriceSigma*base.cropPrice, src)
			fertDist := stats.NewLogNormalMultiplier(mc.FertilizerPriceSigma, src)
			yieldDist := stats.NewTriangle(mc.YieldMin, mc.YieldMax, mc.YieldMode, src)

			chunk := &chunks[w]
			chunk.profits = make([]float64, 0, count)
			chunk.margins = make([]float64, 0, count)
			chunk.revenues = make([]float64, 0, count)

			for i := 0; i < count; i++ {
				if i%128 == 0 && gctx.Err() != nil {
					break
				}
				price := priceDist.Rand()
				if price < 0 {
					price = 0
				}
				fertMult := fertDist.Rand()
				yieldMult := yieldDist.Rand()

				yield := base.totalYield * yieldMult
				revenue := yield * price
				cost := base.otherCosts + base.fertilizerCost*fertMult
				profit := revenue - cost
				margin := mathutil.Percentage(profit, cost)
				breakEvenYield := mathutil.SafeDivide(cost, base.totalAcres*price, 0)

				chunk.profits = append(chunk.profits, profit)
				chunk.margins = append(chunk.margins, margin)
				chunk.revenues = append(chunk.revenues, revenue)
				if breakEvenYield > 0 && yield/base.totalAcres >= breakEvenYield {
					chunk.yieldsOK++
				}
				chunk.completed++
			}
			return nil
		})
	}
	_ = g.Wait()

	var profits, margins, revenues []float64
	completed := 0
	yieldsOK := 0
	for i := range chunks {
		profits = append(profits, chunks[i].profits...)
		margins = append(margins, chunks[i].margins...)
		revenues = append(revenues, chunks[i].revenues...)
		completed += chunks[i].completed
		yieldsOK += chunks[i].yieldsOK
	}
	if completed == 0 {
		return &model.MonteCarloResult{Iterations: 0}
	}

	result := &model.MonteCarloResult{
		Iterations: completed,
		Probabilities: map[string]float64{
			"profitable":            stats.Proportion(profits, func(v float64) bool { return v > 0 }),
			"break_even_achievable": float64(yieldsOK) / float64(completed),
			"margin_above_20":       stats.Proportion(margins, func(v float64) bool { return v > 20 }),
		},
		ConfidenceIntervals: map[string]model.Interval{
			"profit":  {Lower: stats.Percentile(profits, 0.05), Upper: stats.Percentile(profits, 0.95)},
			"margin":  {Lower: stats.Percentile(margins, 0.05), Upper: stats.Percentile(margins, 0.95)},
			"revenue": {Lower: stats.Percentile(revenues, 0.05), Upper: stats.Percentile(revenues, 0.95)},
		},
		RiskMetrics:   s.riskMetrics(profits),
		Distributions: map[string][]float64{"profit": profits, "margin": margins},
	}
	return result
}

// riskMetrics derives the tail and dispersion measures from the simulated
// profit distribution: value at risk at the 5% level, the expected
// shortfall beyond it, volatility, and a Sharpe-like ratio.
func (s *Service) riskMetrics(profits []float64) map[string]float64 {
	summary := stats.Summarize(profits)
	q5 := stats.Percentile(profits, 0.05)

	valueAtRisk := 0.0
	if q5 < 0 {
		valueAtRisk = -q5
	}

	var tailSum float64
	tailCount := 0
	for _, p := range profits {
		if p <= q5 {
			tailSum += p
			tailCount++
		}
	}
	expectedShortfall := 0.0
	if tailCount > 0 && tailSum < 0 {
		expectedShortfall = -tailSum / float64(tailCount)
	}

	return map[string]float64{
		"value_at_risk_5":    valueAtRisk,
		"expected_shortfall": expectedShortfall,
		"volatility":         summary.StdDev,
		"sharpe_ratio":       mathutil.SafeDivide(summary.Mean, summary.StdDev, 0),
	}
}
