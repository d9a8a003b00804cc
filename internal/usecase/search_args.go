package usecase

import (
	"github.com/offerlens/backend/internal/domain"
)

// SearchArgs is the flat request shape shared by the HTTP API and the tool
// server. Term lists are single strings split with SplitTerms.
type SearchArgs struct {
	Query            string  `json:"query" form:"query"`
	Preference       string  `json:"preference" form:"preference"`
	Limit            int     `json:"limit" form:"limit"`
	Currency         string  `json:"currency" form:"currency"`
	Lang             string  `json:"lang" form:"lang"`
	MinReviews       int     `json:"min_reviews" form:"min_reviews"`
	MinPositiveRatio float64 `json:"min_positive_ratio" form:"min_positive_ratio"`
	Page             int     `json:"page" form:"page"`
	MaxPages         int     `json:"max_pages" form:"max_pages"`
	PerPage          int     `json:"per_page" form:"per_page"`
	SortBy           string  `json:"sort_by" form:"sort_by"`
	MinPrice         float64 `json:"min_price" form:"min_price"`
	MaxPrice         float64 `json:"max_price" form:"max_price"`
	IncludeTerms     string  `json:"include_terms" form:"include_terms"`
	ExcludeTerms     string  `json:"exclude_terms" form:"exclude_terms"`
	ReturnAll        bool    `json:"return_all" form:"return_all"`
}

// OfferQuery converts the arguments into an engine query.
func (a SearchArgs) OfferQuery() domain.OfferQuery {
	return domain.OfferQuery{
		Query:      a.Query,
		Preference: a.Preference,
		Currency:   a.Currency,
		Lang:       a.Lang,
		Page:       a.Page,
		PerPage:    a.PerPage,
		MaxPages:   a.MaxPages,
		SortBy:     a.SortBy,
		ReturnAll:  a.ReturnAll,
		Limit:      a.Limit,
		Filters: domain.Filters{
			MinReviews:       a.MinReviews,
			MinPositiveRatio: a.MinPositiveRatio,
			MinPrice:         a.MinPrice,
			MaxPrice:         a.MaxPrice,
			IncludeTerms:     SplitTerms(a.IncludeTerms),
			ExcludeTerms:     SplitTerms(a.ExcludeTerms),
		},
	}
}
