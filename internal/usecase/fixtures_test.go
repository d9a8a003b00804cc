package usecase

import (
	"encoding/json"

	"github.com/offerlens/backend/internal/domain"
)

func flexPtr(v float64) *domain.Flex {
	f := domain.Flex(v)
	return &f
}

// planOptions is a typical subscription listing: a plan choice and a term.
func planOptions() []domain.Option {
	return []domain.Option{
		{
			ID:    1,
			Name:  "plan",
			Label: "Тариф",
			Variants: []domain.Variant{
				{Text: "Plus", Default: 1, ModifyType: "RUB", ModifyValue: 0},
				{Text: "Pro", ModifyType: "RUB", ModifyValue: 9000},
			},
		},
		{
			ID:    2,
			Name:  "term",
			Label: "Срок подписки",
			Variants: []domain.Variant{
				{Text: "1 месяц", Default: 1, ModifyType: "RUB", ModifyValue: 0},
				{Text: "3 месяца", ModifyType: "RUB", ModifyValue: 1500},
				{Text: "12 месяцев", ModifyType: "RUB", ModifyValue: 5000},
			},
		},
	}
}

func planProduct() *domain.Product {
	return &domain.Product{
		ID:      101,
		Name:    "ChatGPT Plus / Pro",
		Price:   1000,
		Options: planOptions(),
	}
}

func planDetail(name string, price float64, sellerID int64, sellerName string) *domain.ProductDetail {
	product := planProduct()
	product.Name = name
	product.Price = domain.Flex(price)
	product.Seller = domain.SellerRef{ID: domain.Flex(sellerID), Name: sellerName}
	return &domain.ProductDetail{Retval: flexPtr(0), Product: product}
}

func rawRates(rates map[string]string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(rates))
	for code, raw := range rates {
		out[code] = json.RawMessage(raw)
	}
	return out
}
