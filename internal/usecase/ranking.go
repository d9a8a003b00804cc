package usecase

import (
	"sort"
	"strings"

	"github.com/offerlens/backend/internal/domain"
)

// Upstream catalog sort values.
const (
	SearchSortPopular   = "popular"
	SearchSortNew       = "new"
	SearchSortPriceAsc  = "price_asc"
	SearchSortPriceDesc = "price_desc"
)

// Local cost orderings used by the scan report.
const (
	CostSortAsc  = "asc"
	CostSortDesc = "desc"
	CostSortNone = "none"
)

var knownSortKeys = map[string]bool{
	domain.SortPriceAsc:          true,
	domain.SortPriceDesc:         true,
	domain.SortSellerReviewsDesc: true,
	domain.SortReliabilityDesc:   true,
	domain.SortTitleAsc:          true,
	domain.SortTitleDesc:         true,
}

var knownSearchSorts = map[string]bool{
	SearchSortPopular:   true,
	SearchSortNew:       true,
	SearchSortPriceAsc:  true,
	SearchSortPriceDesc: true,
}

// NormalizeSortKey lowercases key and falls back to price_asc when unknown.
func NormalizeSortKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	if knownSortKeys[k] {
		return k
	}
	return domain.SortPriceAsc
}

// NormalizeSearchSort maps a requested catalog sort onto a value the search
// API understands; anything unknown becomes "popular".
func NormalizeSearchSort(sortBy string) string {
	s := strings.ToLower(strings.TrimSpace(sortBy))
	if knownSearchSorts[s] {
		return s
	}
	return SearchSortPopular
}

// Rank filters rows, drops repeated listings, orders them by sortKey and
// truncates to limit (at least one row). It also returns how many rows
// survived filtering before truncation.
func Rank(rows []domain.Row, filters domain.Filters, sortKey string, limit int) ([]domain.Row, int) {
	kept := dedupRows(applyFilters(rows, filters))
	SortRows(kept, sortKey)

	total := len(kept)
	if limit < 1 {
		limit = 1
	}
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept, total
}

func applyFilters(rows []domain.Row, f domain.Filters) []domain.Row {
	include := lowerAll(f.IncludeTerms)
	exclude := lowerAll(f.ExcludeTerms)

	out := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		if len(include) > 0 || len(exclude) > 0 {
			haystack := rowSearchText(row)
			if !containsAll(haystack, include) || containsAny(haystack, exclude) {
				continue
			}
		}
		if row.SellerReviews < f.MinReviews {
			continue
		}
		if row.PositiveRatio < f.MinPositiveRatio {
			continue
		}
		if f.MinPrice > 0 && row.PriceValue < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && row.PriceValue > f.MaxPrice {
			continue
		}
		out = append(out, row)
	}
	return out
}

// dedupRows keeps the first row per product id. Collect emits a product's
// candidates cheapest first, so the cheapest surviving choice is kept.
func dedupRows(rows []domain.Row) []domain.Row {
	seen := make(map[int64]bool, len(rows))
	out := rows[:0:0]
	for _, row := range rows {
		if seen[row.ProductID] {
			continue
		}
		seen[row.ProductID] = true
		out = append(out, row)
	}
	return out
}

// rowSearchText is the lowercased title plus every option and variant text.
func rowSearchText(row domain.Row) string {
	parts := []string{row.Title}
	for _, opt := range row.Options {
		parts = append(parts, opt.Name, opt.Label)
		for _, v := range opt.Variants {
			parts = append(parts, v.Text)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// SortRows orders rows in place by sortKey. The sort is stable so equal rows
// keep their collection order.
func SortRows(rows []domain.Row, sortKey string) {
	var less func(a, b domain.Row) bool

	switch NormalizeSortKey(sortKey) {
	case domain.SortPriceDesc:
		less = func(a, b domain.Row) bool {
			if a.PriceValue != b.PriceValue {
				return a.PriceValue > b.PriceValue
			}
			return a.SellerReviews > b.SellerReviews
		}
	case domain.SortSellerReviewsDesc:
		less = func(a, b domain.Row) bool {
			if a.SellerReviews != b.SellerReviews {
				return a.SellerReviews > b.SellerReviews
			}
			if a.PositiveRatio != b.PositiveRatio {
				return a.PositiveRatio > b.PositiveRatio
			}
			return a.PriceValue < b.PriceValue
		}
	case domain.SortReliabilityDesc:
		less = func(a, b domain.Row) bool {
			if a.PositiveRatio != b.PositiveRatio {
				return a.PositiveRatio > b.PositiveRatio
			}
			if a.SellerReviews != b.SellerReviews {
				return a.SellerReviews > b.SellerReviews
			}
			return a.PriceValue < b.PriceValue
		}
	case domain.SortTitleAsc:
		less = func(a, b domain.Row) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case domain.SortTitleDesc:
		less = func(a, b domain.Row) bool {
			return strings.ToLower(a.Title) > strings.ToLower(b.Title)
		}
	default:
		less = func(a, b domain.Row) bool {
			if a.PriceValue != b.PriceValue {
				return a.PriceValue < b.PriceValue
			}
			return a.SellerReviews > b.SellerReviews
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}

// SortByCost orders rows by numeric price for the scan report. "none" keeps
// collection order.
func SortByCost(rows []domain.Row, mode string) {
	switch strings.ToLower(mode) {
	case CostSortAsc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].PriceValue < rows[j].PriceValue })
	case CostSortDesc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].PriceValue > rows[j].PriceValue })
	}
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func containsAll(haystack string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(haystack, t) {
			return false
		}
	}
	return true
}

func containsAny(haystack string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}
