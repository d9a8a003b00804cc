package usecase

import (
	"github.com/offerlens/backend/internal/domain"
)

// ClassifyOffer decides whether a product detail payload is a qualifying offer
// for requestText and returns its title and priced candidates.
//
// It fails closed: a non-zero retval, a missing or unavailable product, an API
// offer title or zero candidates all yield nil.
func ClassifyOffer(detail *domain.ProductDetail, fallbackTitle string, basePrice float64, currency, requestText string, returnAll bool) *domain.Offer {
	if !detail.OK() || detail.Product == nil {
		return nil
	}
	product := detail.Product
	if !product.Available() {
		return nil
	}

	title := CleanText(product.Name)
	if title == "" {
		title = CleanText(fallbackTitle)
	}
	if IsAPIOffer(title) {
		return nil
	}

	pref := ParsePreferences(requestText)
	choices := ResolveChoices(product, basePrice, currency, pref, returnAll)
	if len(choices) == 0 {
		return nil
	}

	return &domain.Offer{Title: title, Choices: choices}
}
