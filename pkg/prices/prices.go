// Package prices supplies crop and fertilizer price quotes to callers
// assembling optimization requests. The engine itself takes prices from the
// request; a Provider sits in front of it, filling requests from whatever
// source the operator wires up.
package prices

import (
	"context"
	"fmt"
)

// Provider resolves current prices by symbol. Implementations must be safe
// for concurrent use.
type Provider interface {
	// CropPrice returns the expected sale price for a crop in $/bu.
	CropPrice(ctx context.Context, crop string) (float64, error)
	// ProductPrice returns the purchase price for a fertilizer product in
	// $/lb of product.
	ProductPrice(ctx context.Context, productID string) (float64, error)
}

// Static is a fixed price table, useful for configuration-driven runs and
// tests.
type Static struct {
	Crops    map[string]float64
	Products map[string]float64
}

// NewStatic builds a Static provider from the given tables. Nil maps are
// treated as empty.
func NewStatic(crops, products map[string]float64) *Static {
	return &Static{Crops: crops, Products: products}
}

// CropPrice implements Provider.
func (s *Static) CropPrice(_ context.Context, crop string) (float64, error) {
	price, ok := s.Crops[crop]
	if !ok {
		return 0, fmt.Errorf("no price for crop %q", crop)
	}
	return price, nil
}

// ProductPrice implements Provider.
func (s *Static) ProductPrice(_ context.Context, productID string) (float64, error) {
	price, ok := s.Products[productID]
	if !ok {
		return 0, fmt.Errorf("no price for product %q", productID)
	}
	return price, nil
}
