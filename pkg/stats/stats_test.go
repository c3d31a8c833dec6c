package stats

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		input  []float64
		mean   float64
		stddev float64
		min    float64
		max    float64
	}{
		{"Empty sample", nil, 0, 0, 0, 0},
		{"Single value", []float64{5}, 5, 0, 5, 5},
		{"Symmetric sample", []float64{1, 2, 3, 4, 5}, 3, math.Sqrt(2.5), 1, 5},
		{"Negative values", []float64{-2, 2}, 0, math.Sqrt(8), -2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.input)
			if math.Abs(s.Mean-tt.mean) > 1e-9 {
				t.Errorf("Mean = %v, expected %v", s.Mean, tt.mean)
			}
			if math.Abs(s.StdDev-tt.stddev) > 1e-9 {
				t.Errorf("StdDev = %v, expected %v", s.StdDev, tt.stddev)
			}
			if s.Min != tt.min || s.Max != tt.max {
				t.Errorf("Min/Max = %v/%v, expected %v/%v", s.Min, s.Max, tt.min, tt.max)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	xs := []float64{9, 1, 5, 3, 7}

	p50 := Percentile(xs, 0.5)
	if p50 != 5 {
		t.Errorf("median = %v, expected 5", p50)
	}
	if got := Percentile(xs, 0); got != 1 {
		t.Errorf("0-quantile = %v, expected 1", got)
	}
	if got := Percentile(xs, 1); got != 9 {
		t.Errorf("1-quantile = %v, expected 9", got)
	}
	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("empty sample = %v, expected 0", got)
	}

	// Percentile must not reorder the caller's slice.
	if xs[0] != 9 {
		t.Error("input slice was mutated")
	}
}

func TestCorrelation(t *testing.T) {
	tests := []struct {
		name     string
		x, y     []float64
		expected float64
	}{
		{"Perfect positive", []float64{1, 2, 3}, []float64{2, 4, 6}, 1},
		{"Perfect negative", []float64{1, 2, 3}, []float64{6, 4, 2}, -1},
		{"Constant series", []float64{1, 2, 3}, []float64{5, 5, 5}, 0},
		{"Length mismatch", []float64{1, 2}, []float64{1}, 0},
		{"Too short", []float64{1}, []float64{1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Correlation(tt.x, tt.y)
			if math.Abs(r-tt.expected) > 1e-9 {
				t.Errorf("Correlation = %v, expected %v", r, tt.expected)
			}
		})
	}
}

func TestProportion(t *testing.T) {
	xs := []float64{-1, 2, 3, -4}
	if got := Proportion(xs, func(v float64) bool { return v > 0 }); got != 0.5 {
		t.Errorf("Proportion = %v, expected 0.5", got)
	}
	if got := Proportion(nil, func(v float64) bool { return true }); got != 0 {
		t.Errorf("empty Proportion = %v, expected 0", got)
	}
}
