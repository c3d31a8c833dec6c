package stats

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// NewSource returns a deterministic PCG random source for the given seed.
// Distinct streams (e.g. per Monte Carlo worker) should derive their seeds
// from a base seed plus a stream index.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed*0x9e3779b97f4a7c15+1)
}

// NewNormal returns a seeded normal distribution with the given mean and
// standard deviation.
func NewNormal(mean, sigma float64, src rand.Source) distuv.Normal {
	return distuv.Normal{Mu: mean, Sigma: sigma, Src: src}
}

// NewLogNormalMultiplier returns a seeded log-normal distribution whose
// median is 1, suitable for multiplicative shocks. sigma is the standard
// deviation of the underlying normal (log-space).
func NewLogNormalMultiplier(sigma float64, src rand.Source) distuv.LogNormal {
	return distuv.LogNormal{Mu: 0, Sigma: sigma, Src: src}
}

// NewTriangle returns a seeded triangular distribution on [min, max] with
// the given mode. Degenerate bounds collapse to a point distribution via a
// tiny spread so sampling never panics.
func NewTriangle(min, max, mode float64, src rand.Source) distuv.Triangle {
	if max <= min {
		eps := math.Max(math.Abs(min)*1e-9, 1e-9)
		return distuv.NewTriangle(min-eps, min+eps, min, src)
	}
	if mode < min {
		mode = min
	}
	if mode > max {
		mode = max
	}
	return distuv.NewTriangle(min, max, mode, src)
}
