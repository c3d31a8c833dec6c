package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/agriview/fertilizer-optimizer/internal/model"
)

// RequestDocument is the YAML request file the CLI loads. It carries the
// superset of the optimization and break-even request fields; the analysis
// flag selects which view the services see.
type RequestDocument struct {
	Fields        []model.FieldData
	Products      []model.FertilizerProduct
	Constraints   model.OptimizationConstraints
	Goals         model.OptimizationGoals
	Method        model.OptimizationMethod
	CostOverrides *model.CostRateOverrides
	Flags         model.AnalysisFlags
	Iterations    int
	Seed          uint64
	Prices        PriceTable
}

// PriceTable optionally supplies prices the request document leaves at zero.
// Crops is keyed by field id, Products by product id.
type PriceTable struct {
	Crops    map[string]float64
	Products map[string]float64
}

// OptimizationRequest projects the document onto an optimization request.
func (d *RequestDocument) OptimizationRequest() *model.OptimizationRequest {
	return &model.OptimizationRequest{
		Fields:      d.Fields,
		Products:    d.Products,
		Constraints: d.Constraints,
		Goals:       d.Goals,
		Method:      d.Method,
		Seed:        d.Seed,
	}
}

// BreakEvenRequest projects the document onto a break-even request.
func (d *RequestDocument) BreakEvenRequest() *model.BreakEvenRequest {
	return &model.BreakEvenRequest{
		Fields:        d.Fields,
		Products:      d.Products,
		Constraints:   d.Constraints,
		Goals:         d.Goals,
		Method:        d.Method,
		CostOverrides: d.CostOverrides,
		Flags:         d.Flags,
		Iterations:    d.Iterations,
		Seed:          d.Seed,
	}
}

// LoadRequest takes a file path as input and loads the YAML-formatted
// request document there. Validation happens in the services, not here.
func LoadRequest(requestPath string) (*RequestDocument, error) {
	v := viper.New()
	v.SetConfigFile(requestPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading request file, %s", err)
	}

	document := &RequestDocument{}
	if err := v.Unmarshal(document); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return document, nil
}
