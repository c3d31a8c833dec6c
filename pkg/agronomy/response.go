// Package agronomy provides the pure economics primitives used by every
// optimizer: yield response, environmental impact, and application risk for
// a (field, product, rate) triple. All functions are deterministic and
// side-effect free.
package agronomy

import (
	"math"

	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/pkg/constants"
)

// NutrientCoefficient returns the crop removal coefficient for a nutrient in
// lb per bushel of yield. Unknown symbols return zero and contribute no
// response.
func NutrientCoefficient(symbol string) float64 {
	switch symbol {
	case constants.NutrientNitrogen:
		return 1.1
	case constants.NutrientPhosphorus:
		return 0.45
	case constants.NutrientPotassium:
		return 0.30
	case constants.NutrientSulfur:
		return 0.10
	default:
		return 0
	}
}

// ResponseRate returns the marginal yield response in bu per lb of applied
// nutrient, before the response cap.
func ResponseRate(symbol string) float64 {
	switch symbol {
	case constants.NutrientNitrogen:
		return 0.60
	case constants.NutrientPhosphorus:
		return 0.40
	case constants.NutrientPotassium:
		return 0.25
	case constants.NutrientSulfur:
		return 0.30
	default:
		return 0
	}
}

// leachingPotential ranks how readily a nutrient moves off-field.
func leachingPotential(symbol string) float64 {
	switch symbol {
	case constants.NutrientNitrogen:
		return 0.8
	case constants.NutrientPhosphorus:
		return 0.6
	case constants.NutrientSulfur:
		return 0.4
	case constants.NutrientPotassium:
		return 0.2
	default:
		return 0.3
	}
}

// methodImpactFactor scales environmental impact by application method.
// Incorporated and injected placement loses less to the environment than
// surface broadcast.
func methodImpactFactor(method string) float64 {
	switch method {
	case "broadcast":
		return 1.2
	case "banded":
		return 0.9
	case "injected", "incorporated":
		return 0.7
	case "foliar":
		return 0.8
	case "fertigation":
		return 0.85
	default:
		return 1.0
	}
}

// methodRiskFactor contributes a fixed risk component per application
// method, reflecting loss and timing exposure.
func methodRiskFactor(method string) float64 {
	switch method {
	case "broadcast":
		return 12
	case "foliar":
		return 10
	case "banded":
		return 6
	case "fertigation":
		return 5
	case "injected", "incorporated":
		return 4
	default:
		return 8
	}
}

// NutrientDeficit returns the shortfall between the crop requirement at
// target yield and the measured soil level, in lb/acre. Never negative.
func NutrientDeficit(field model.FieldData, symbol string) float64 {
	coeff := NutrientCoefficient(symbol)
	if coeff == 0 {
		return 0
	}
	required := field.TargetYield * coeff
	return math.Max(0, required-field.SoilLevels[symbol])
}

// YieldResponse returns the expected additional yield in bu/acre from
// applying the product at the given rate (lb product per acre). Response
// accrues only against measured nutrient deficits and is capped at a fixed
// fraction of target yield.
func YieldResponse(field model.FieldData, product model.FertilizerProduct, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	responseCap := constants.MaxResponseFraction * field.TargetYield
	var total float64
	for symbol, content := range product.Nutrients {
		if content <= 0 {
			continue
		}
		deficit := NutrientDeficit(field, symbol)
		if deficit <= 0 {
			continue
		}
		applied := rate * content / constants.PercentDivisor
		effective := math.Min(applied, deficit)
		total += math.Min(effective*ResponseRate(symbol), responseCap)
	}
	return math.Min(total, responseCap)
}

// MarginalYieldResponse returns the initial slope of the yield response in
// bu per lb of product, i.e. the response per unit rate before any deficit
// is satisfied or the cap binds. Nutrients with no deficit contribute
// nothing.
func MarginalYieldResponse(field model.FieldData, product model.FertilizerProduct) float64 {
	var slope float64
	for symbol, content := range product.Nutrients {
		if content <= 0 {
			continue
		}
		if NutrientDeficit(field, symbol) <= 0 {
			continue
		}
		slope += (content / constants.PercentDivisor) * ResponseRate(symbol)
	}
	return slope
}

// SaturationRate returns the product rate in lb/acre beyond which no further
// yield response accrues: every deficient nutrient the product supplies is
// either satisfied or capped. Products that address no deficit return 0.
func SaturationRate(field model.FieldData, product model.FertilizerProduct) float64 {
	responseCap := constants.MaxResponseFraction * field.TargetYield
	var max float64
	for symbol, content := range product.Nutrients {
		if content <= 0 {
			continue
		}
		deficit := NutrientDeficit(field, symbol)
		if deficit <= 0 {
			continue
		}
		binding := deficit
		if rr := ResponseRate(symbol); rr > 0 {
			binding = math.Min(deficit, responseCap/rr)
		}
		rate := binding / (content / constants.PercentDivisor)
		if rate > max {
			max = rate
		}
	}
	return max
}

// EnvironmentalImpact scores the off-field impact of applying the product
// at the given rate on one acre of the field. The score is a weighted sum
// of applied nutrient mass by leaching potential, scaled by application
// method, with a surplus penalty when the soil already covers the crop
// requirement.
func EnvironmentalImpact(product model.FertilizerProduct, rate float64, field model.FieldData) float64 {
	if rate <= 0 {
		return 0
	}
	factor := methodImpactFactor(product.ApplicationMethod)
	var impact float64
	for symbol, content := range product.Nutrients {
		if content <= 0 {
			continue
		}
		applied := rate * content / constants.PercentDivisor
		weight := leachingPotential(symbol)
		if NutrientDeficit(field, symbol) <= 0 {
			// Applying into surplus leaches disproportionately.
			weight *= 1.5
		}
		impact += applied * weight
	}
	return impact * factor
}

// RiskFactor scores the economic and agronomic risk of applying the product
// at the given rate on the field, on a 0-100 scale. Components: rate
// intensity relative to the saturation point, application-method exposure,
// and capital at risk relative to expected crop revenue.
func RiskFactor(product model.FertilizerProduct, rate float64, field model.FieldData) float64 {
	if rate <= 0 {
		return 0
	}
	saturation := SaturationRate(field, product)
	var intensity float64
	if saturation > 0 {
		intensity = math.Min(rate/saturation, 2.0) * 25
	} else {
		// Spending on a product with no agronomic need is pure risk.
		intensity = 50
	}
	capital := rate * product.PricePerUnit
	revenue := field.TargetYield * field.CropPrice
	var exposure float64
	if revenue > 0 {
		exposure = math.Min(capital/revenue, 1.0) * 30
	}
	return math.Min(intensity+methodRiskFactor(product.ApplicationMethod)+exposure, 100)
}
