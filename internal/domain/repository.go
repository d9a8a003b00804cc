package domain

import "context"

// SearchParams describes one catalog search page request.
type SearchParams struct {
	Query    string
	Page     int
	PerPage  int
	Currency string
	Lang     string
	Sort     string
}

// CategoryParams describes one category listing page request.
type CategoryParams struct {
	CategoryID    string
	SubcategoryID int
	Page          int
	PerPage       int
	Currency      string
	Lang          string
	Sort          string
}

// MarketplaceClient defines the interface for interacting with the marketplace API
type MarketplaceClient interface {
	SearchProducts(ctx context.Context, params SearchParams) (*SearchPage, error)
	CategoryProducts(ctx context.Context, params CategoryParams) ([]CatalogItem, error)
	ProductData(ctx context.Context, productID int64, currency, lang string) (*ProductDetail, error)
	SellerReviews(ctx context.Context, sellerID int64, lang string) (*ReviewsPayload, error)
	ProductLink(productID int64) string
}
