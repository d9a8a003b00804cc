package usecase

import (
	"testing"

	"github.com/offerlens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildRateMap(t *testing.T) {
	product := &domain.Product{
		Prices: domain.ProductPrices{Default: rawRates(map[string]string{
			"rub": `1000`,
			"USD": `"10.5"`,
			"EUR": `"n/a"`,
			"KZT": `null`,
		})},
	}

	rates := BuildRateMap(product)
	assert.Equal(t, map[string]float64{"RUB": 1000, "USD": 10.5}, rates)

	assert.Empty(t, BuildRateMap(nil))
}

func TestModifierValue(t *testing.T) {
	rates := map[string]float64{"RUB": 1000, "USD": 10}

	tests := []struct {
		name     string
		variant  *domain.Variant
		base     float64
		currency string
		want     float64
	}{
		{
			name:     "same currency",
			variant:  &domain.Variant{ModifyType: "RUB", ModifyValue: 150},
			currency: "RUB",
			want:     150,
		},
		{
			name:     "same currency ignores case",
			variant:  &domain.Variant{ModifyType: "rub", ModifyValue: 150},
			currency: "RUB",
			want:     150,
		},
		{
			name:     "untyped modifier",
			variant:  &domain.Variant{ModifyValue: 70},
			currency: "USD",
			want:     70,
		},
		{
			name:     "converted into the target currency",
			variant:  &domain.Variant{ModifyType: "USD", ModifyValue: 5},
			currency: "RUB",
			want:     500,
		},
		{
			name:     "converted back",
			variant:  &domain.Variant{ModifyType: "RUB", ModifyValue: 500},
			currency: "USD",
			want:     5,
		},
		{
			name:     "percent of base price",
			variant:  &domain.Variant{ModifyType: "%", ModifyValue: 10},
			base:     2000,
			currency: "RUB",
			want:     200,
		},
		{
			name:     "named percent type",
			variant:  &domain.Variant{ModifyType: "percent", ModifyValue: 50},
			base:     300,
			currency: "RUB",
			want:     150,
		},
		{
			name:     "unknown currency keeps raw amount",
			variant:  &domain.Variant{ModifyType: "EUR", ModifyValue: 3},
			currency: "RUB",
			want:     3,
		},
		{
			name:     "default modifier wins",
			variant:  &domain.Variant{ModifyType: "RUB", ModifyValue: 100, ModifyValueDefault: flexPtr(80)},
			currency: "RUB",
			want:     80,
		},
		{
			name:     "nil variant",
			currency: "RUB",
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ModifierValue(tt.variant, tt.base, tt.currency, rates)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestModifierValue_CurrencySymmetry(t *testing.T) {
	rates := map[string]float64{"RUB": 9000, "USD": 100, "EUR": 90}

	for _, amount := range []float64{1, 7.5, 120} {
		there := ModifierValue(&domain.Variant{ModifyType: "USD", ModifyValue: domain.Flex(amount)}, 0, "EUR", rates)
		back := ModifierValue(&domain.Variant{ModifyType: "EUR", ModifyValue: domain.Flex(there)}, 0, "USD", rates)
		assert.InDelta(t, amount, back, 1e-9)
	}
}

func TestPriceContextTotal(t *testing.T) {
	prices := priceContext{base: 100, currency: "RUB", rates: map[string]float64{}}

	assert.Equal(t, 100.0, prices.total(nil))
	assert.Equal(t, 130.0, prices.total([]*domain.Variant{{ModifyValue: 50}, {ModifyValue: -20}}))
	// Never below zero
	assert.Equal(t, 0.0, prices.total([]*domain.Variant{{ModifyValue: -500}}))
	assert.Equal(t, 125.0, prices.priceIfSelected(&domain.Variant{ModifyValue: 25}))
}
