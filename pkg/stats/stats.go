// Package stats provides summary statistics and seeded random samplers for
// the stochastic analysis routines. It wraps gonum's stat and distuv
// packages with the zero-length and zero-variance guards the engine needs.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics for a sample.
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes descriptive statistics for xs. An empty sample yields a
// zero Summary.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	s := Summary{
		Mean: stat.Mean(xs, nil),
		Min:  xs[0],
		Max:  xs[0],
	}
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	for _, x := range xs {
		if x < s.Min {
			s.Min = x
		}
		if x > s.Max {
			s.Max = x
		}
	}
	return s
}

// Percentile returns the p-quantile (p in [0,1]) of xs using the empirical
// distribution. The input does not need to be sorted.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Correlation returns the Pearson correlation of x and y, or zero when the
// sample is too small or either series has no variance.
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	if stat.StdDev(x, nil) == 0 || stat.StdDev(y, nil) == 0 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// Proportion returns the fraction of xs for which pred holds.
func Proportion(xs []float64, pred func(float64) bool) float64 {
	if len(xs) == 0 {
		return 0
	}
	count := 0
	for _, x := range xs {
		if pred(x) {
			count++
		}
	}
	return float64(count) / float64(len(xs))
}
