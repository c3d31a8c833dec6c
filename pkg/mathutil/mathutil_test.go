package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number", -1.235, -1.24},
		{"Zero", 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		val      float64
		lo, hi   float64
		expected float64
	}{
		{"Below range", -5, 0, 10, 0},
		{"Above range", 15, 0, 10, 10},
		{"Inside range", 5, 0, 10, 5},
		{"At lower bound", 0, 0, 10, 0},
		{"At upper bound", 10, 0, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Clamp(tt.val, tt.lo, tt.hi)
			if result != tt.expected {
				t.Errorf("Clamp(%v, %v, %v) = %v, expected %v", tt.val, tt.lo, tt.hi, result, tt.expected)
			}
		})
	}
}

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name     string
		num      float64
		den      float64
		fallback float64
		expected float64
	}{
		{"Normal division", 10, 4, 0, 2.5},
		{"Zero denominator uses fallback", 10, 0, 99, 99},
		{"Zero numerator", 0, 5, 99, 0},
		{"Negative values", -10, 4, 0, -2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SafeDivide(tt.num, tt.den, tt.fallback)
			if result != tt.expected {
				t.Errorf("SafeDivide(%v, %v, %v) = %v, expected %v", tt.num, tt.den, tt.fallback, result, tt.expected)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		total    float64
		expected float64
	}{
		{"Half", 50, 100, 50},
		{"Over total", 150, 100, 150},
		{"Zero total", 50, 0, 0},
		{"Zero value", 0, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Percentage(tt.value, tt.total)
			if result != tt.expected {
				t.Errorf("Percentage(%v, %v) = %v, expected %v", tt.value, tt.total, result, tt.expected)
			}
		})
	}
}

func TestNorm2(t *testing.T) {
	if got := Norm2([]float64{3, 4}); math.Abs(got-5) > 1e-12 {
		t.Errorf("Norm2([3 4]) = %v, expected 5", got)
	}
	if got := Norm2(nil); got != 0 {
		t.Errorf("Norm2(nil) = %v, expected 0", got)
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(1.0, 1.0005, 0.001) {
		t.Error("expected values within tolerance")
	}
	if WithinTolerance(1.0, 1.01, 0.001) {
		t.Error("expected values outside tolerance")
	}
}
