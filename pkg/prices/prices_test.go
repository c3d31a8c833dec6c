package prices

import (
	"context"
	"testing"
)

func TestStaticProvider(t *testing.T) {
	provider := NewStatic(
		map[string]float64{"corn": 5.50},
		map[string]float64{"urea": 0.25},
	)
	ctx := context.Background()

	price, err := provider.CropPrice(ctx, "corn")
	if err != nil {
		t.Fatalf("CropPrice() error: %v", err)
	}
	if price != 5.50 {
		t.Errorf("corn price = %v, expected 5.50", price)
	}

	price, err = provider.ProductPrice(ctx, "urea")
	if err != nil {
		t.Fatalf("ProductPrice() error: %v", err)
	}
	if price != 0.25 {
		t.Errorf("urea price = %v, expected 0.25", price)
	}

	if _, err := provider.CropPrice(ctx, "soybeans"); err == nil {
		t.Error("expected error for unknown crop")
	}
	if _, err := provider.ProductPrice(ctx, "potash"); err == nil {
		t.Error("expected error for unknown product")
	}
}

func TestStaticProviderNilMaps(t *testing.T) {
	provider := NewStatic(nil, nil)
	if _, err := provider.CropPrice(context.Background(), "corn"); err == nil {
		t.Error("expected error from empty provider")
	}
}
