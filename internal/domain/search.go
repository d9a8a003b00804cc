package domain

// Sort keys accepted by the ranking layer.
const (
	SortPriceAsc          = "price_asc"
	SortPriceDesc         = "price_desc"
	SortSellerReviewsDesc = "seller_reviews_desc"
	SortReliabilityDesc   = "reliability_desc"
	SortTitleAsc          = "title_asc"
	SortTitleDesc         = "title_desc"
)

// Filters are the buyer-supplied constraints applied after collection.
// Zero values disable the corresponding filter.
type Filters struct {
	MinReviews       int      `json:"min_reviews"`
	MinPositiveRatio float64  `json:"min_positive_ratio"`
	MinPrice         float64  `json:"min_price"`
	MaxPrice         float64  `json:"max_price"`
	IncludeTerms     []string `json:"include_terms"`
	ExcludeTerms     []string `json:"exclude_terms"`
}

// OfferQuery is the input of the offer search engine.
type OfferQuery struct {
	// Query is a bare search term or a marketplace URL.
	Query string
	// Preference is the free-text buyer intent; Query is used when empty.
	Preference string
	Currency   string
	Lang       string
	Page       int
	PerPage    int
	MaxPages   int
	SortBy     string
	// ReturnAll resolves every qualifying candidate per product. Ranking still
	// keeps one row per product, the first one collected.
	ReturnAll bool
	Filters   Filters
	Limit     int
}

// QueryInput is a decomposed search query.
type QueryInput struct {
	ProductQuery string `json:"product_query"`
	CategoryID   string `json:"category_id"`
	SourceURL    string `json:"source_url"`
}

// AppliedFilters echoes the effective parameters of a search.
type AppliedFilters struct {
	SortBy           string   `json:"sort_by"`
	MinReviews       int      `json:"min_reviews"`
	MinPositiveRatio float64  `json:"min_positive_ratio"`
	MinPrice         float64  `json:"min_price"`
	MaxPrice         float64  `json:"max_price"`
	IncludeTerms     []string `json:"include_terms"`
	ExcludeTerms     []string `json:"exclude_terms"`
	MaxPages         int      `json:"max_pages"`
	PerPage          int      `json:"per_page"`
	Currency         string   `json:"currency"`
	Lang             string   `json:"lang"`
}

// OfferResult is the output of the offer search engine.
type OfferResult struct {
	Query           string         `json:"query"`
	NormalizedQuery string         `json:"normalized_query"`
	CategoryID      string         `json:"category_id"`
	SourceURL       string         `json:"source_url"`
	AppliedFilters  AppliedFilters `json:"applied_filters"`
	TotalCandidates int            `json:"total_candidates"`
	Returned        int            `json:"returned"`
	Items           []Row          `json:"items"`
}
