package optimizer

import (
	"math"

	"github.com/agriview/fertilizer-optimizer/internal/model"
	"github.com/agriview/fertilizer-optimizer/pkg/agronomy"
	"github.com/agriview/fertilizer-optimizer/pkg/constants"
	"github.com/agriview/fertilizer-optimizer/pkg/mathutil"
)

// AllocationMetrics aggregates the economics of one rate allocation. The
// multi-objective optimizer and the break-even analyzer both consume this
// as their scenario-evaluation subroutine.
type AllocationMetrics struct {
	Revenue                       float64
	FertilizerCost                float64
	Profit                        float64
	ROIPercent                    float64
	TotalYield                    float64
	TotalAcres                    float64
	YieldTargetAchievementPercent float64
	EnvironmentalImpact           float64 // acre-weighted impact per acre
	RiskScore                     float64 // acre-weighted, 0-100
	YieldPerField                 map[string]float64
}

// Evaluate computes the deterministic economics of an allocation: expected
// yields (base fertility plus capped fertilizer response), revenue,
// fertilizer spend, and the acre-weighted environmental and risk scores.
func Evaluate(fields []model.FieldData, products []model.FertilizerProduct, rates model.RateAllocation) AllocationMetrics {
	m := AllocationMetrics{YieldPerField: make(map[string]float64, len(fields))}
	var targetYieldAcres float64

	for _, field := range fields {
		responseCap := constants.MaxResponseFraction * field.TargetYield
		var response, costPerAcre, impact, risk float64
		for _, product := range products {
			rate := rates.Rate(field.ID, product.ID)
			if rate <= 0 {
				continue
			}
			response += agronomy.YieldResponse(field, product, rate)
			costPerAcre += rate * product.PricePerUnit
			impact += agronomy.EnvironmentalImpact(product, rate, field)
			risk += agronomy.RiskFactor(product, rate, field)
		}
		response = math.Min(response, responseCap)
		expectedYield := constants.BaseYieldFraction*field.TargetYield + response

		m.YieldPerField[field.ID] = expectedYield
		m.TotalYield += expectedYield * field.Acres
		m.TotalAcres += field.Acres
		m.Revenue += expectedYield * field.Acres * field.CropPrice
		m.FertilizerCost += costPerAcre * field.Acres
		m.EnvironmentalImpact += impact * field.Acres
		m.RiskScore += math.Min(risk, 100) * field.Acres
		targetYieldAcres += field.TargetYield * field.Acres
	}

	if m.TotalAcres > 0 {
		m.EnvironmentalImpact /= m.TotalAcres
		m.RiskScore /= m.TotalAcres
	}
	m.Profit = m.Revenue - m.FertilizerCost
	m.ROIPercent = mathutil.Percentage(m.Profit, m.FertilizerCost)
	m.YieldTargetAchievementPercent = mathutil.Percentage(m.TotalYield, targetYieldAcres)
	return m
}
