package usecase

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/offerlens/backend/internal/domain"
)

// Percent modifier markers used by the marketplace.
var percentModifierTypes = map[string]bool{
	"%":       true,
	"PERCENT": true,
}

// BuildRateMap reads a product's default price block into a currency -> rate
// table. Entries that are not numeric are skipped.
func BuildRateMap(product *domain.Product) map[string]float64 {
	rates := make(map[string]float64)
	if product == nil {
		return rates
	}

	for code, raw := range product.Prices.Default {
		var value interface{}
		if err := json.Unmarshal(raw, &value); err != nil {
			continue
		}
		switch v := value.(type) {
		case float64:
			rates[strings.ToUpper(code)] = v
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				continue
			}
			rates[strings.ToUpper(code)] = f
		}
	}

	return rates
}

// ModifierValue computes the price delta of selecting variant, expressed in
// the target currency.
//
// Same-currency and untyped modifiers are returned as-is; cross-currency
// modifiers are converted through the product's rate table; percent modifiers
// apply to basePrice. Anything else falls back to the raw amount.
func ModifierValue(variant *domain.Variant, basePrice float64, currency string, rates map[string]float64) float64 {
	if variant == nil {
		return 0
	}
	amount := variant.Amount()
	modifyType := strings.ToUpper(strings.TrimSpace(variant.ModifyType))
	target := strings.ToUpper(currency)

	if modifyType == "" || modifyType == target {
		return amount
	}

	from, fromOK := rates[modifyType]
	to, toOK := rates[target]
	if fromOK && toOK && from > 0 {
		return amount * (to / from)
	}

	if percentModifierTypes[modifyType] {
		return basePrice * amount / 100.0
	}

	return amount
}

// priceContext bundles what is needed to price variants of one product.
type priceContext struct {
	base     float64
	currency string
	rates    map[string]float64
}

func newPriceContext(product *domain.Product, basePrice float64, currency string) priceContext {
	return priceContext{
		base:     basePrice,
		currency: currency,
		rates:    BuildRateMap(product),
	}
}

// delta is ModifierValue bound to this product.
func (p priceContext) delta(v *domain.Variant) float64 {
	return ModifierValue(v, p.base, p.currency, p.rates)
}

// total is the base price plus every chosen modifier, floored at zero.
func (p priceContext) total(variants []*domain.Variant) float64 {
	sum := p.base
	for _, v := range variants {
		sum += p.delta(v)
	}
	if sum < 0 {
		return 0
	}
	return sum
}

// priceIfSelected is the price of the product with only v changed from base.
func (p priceContext) priceIfSelected(v *domain.Variant) float64 {
	return p.total([]*domain.Variant{v})
}
