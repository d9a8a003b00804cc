package usecase

import (
	"testing"

	"github.com/offerlens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(id int64, price float64, reviews int) domain.Row {
	return domain.Row{ProductID: id, PriceValue: price, SellerReviews: reviews}
}

func priceValues(rows []domain.Row) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.PriceValue)
	}
	return out
}

func TestNormalizeSortKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"price_asc", domain.SortPriceAsc},
		{" PRICE_DESC ", domain.SortPriceDesc},
		{"reliability_desc", domain.SortReliabilityDesc},
		{"seller_reviews_desc", domain.SortSellerReviewsDesc},
		{"title_desc", domain.SortTitleDesc},
		{"", domain.SortPriceAsc},
		{"cheapest", domain.SortPriceAsc},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSortKey(tt.input))
		})
	}
}

func TestNormalizeSearchSort(t *testing.T) {
	assert.Equal(t, SearchSortPriceDesc, NormalizeSearchSort("Price_Desc"))
	assert.Equal(t, SearchSortNew, NormalizeSearchSort("new"))
	assert.Equal(t, SearchSortPopular, NormalizeSearchSort("rating"))
	assert.Equal(t, SearchSortPopular, NormalizeSearchSort(""))
}

func TestSortRows(t *testing.T) {
	tests := []struct {
		name    string
		sortKey string
		rows    []domain.Row
		wantIDs []int64
	}{
		{
			name:    "price descending",
			sortKey: domain.SortPriceDesc,
			rows:    []domain.Row{row(1, 100, 10), row(2, 300, 5), row(3, 200, 99)},
			wantIDs: []int64{2, 3, 1},
		},
		{
			name:    "price ascending breaks ties by reviews",
			sortKey: domain.SortPriceAsc,
			rows:    []domain.Row{row(1, 200, 1), row(2, 100, 5), row(3, 200, 50)},
			wantIDs: []int64{2, 3, 1},
		},
		{
			name:    "seller reviews then ratio then price",
			sortKey: domain.SortSellerReviewsDesc,
			rows: []domain.Row{
				{ProductID: 1, SellerReviews: 10, PositiveRatio: 0.9, PriceValue: 100},
				{ProductID: 2, SellerReviews: 50, PositiveRatio: 0.5, PriceValue: 100},
				{ProductID: 3, SellerReviews: 10, PositiveRatio: 0.99, PriceValue: 300},
				{ProductID: 4, SellerReviews: 10, PositiveRatio: 0.9, PriceValue: 50},
			},
			wantIDs: []int64{2, 3, 4, 1},
		},
		{
			name:    "reliability then reviews then price",
			sortKey: domain.SortReliabilityDesc,
			rows: []domain.Row{
				{ProductID: 1, SellerReviews: 10, PositiveRatio: 0.9, PriceValue: 100},
				{ProductID: 2, SellerReviews: 500, PositiveRatio: 0.8, PriceValue: 10},
				{ProductID: 3, SellerReviews: 20, PositiveRatio: 0.9, PriceValue: 300},
			},
			wantIDs: []int64{3, 1, 2},
		},
		{
			name:    "title ascending ignores case",
			sortKey: domain.SortTitleAsc,
			rows: []domain.Row{
				{ProductID: 1, Title: "chatgpt"},
				{ProductID: 2, Title: "Adobe"},
				{ProductID: 3, Title: "Bing"},
			},
			wantIDs: []int64{2, 3, 1},
		},
		{
			name:    "title descending",
			sortKey: domain.SortTitleDesc,
			rows: []domain.Row{
				{ProductID: 1, Title: "chatgpt"},
				{ProductID: 2, Title: "Adobe"},
				{ProductID: 3, Title: "Bing"},
			},
			wantIDs: []int64{1, 3, 2},
		},
		{
			name:    "equal rows keep their order",
			sortKey: domain.SortPriceAsc,
			rows:    []domain.Row{row(7, 100, 1), row(8, 100, 1), row(9, 100, 1)},
			wantIDs: []int64{7, 8, 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortRows(tt.rows, tt.sortKey)

			ids := make([]int64, 0, len(tt.rows))
			for _, r := range tt.rows {
				ids = append(ids, r.ProductID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestRank(t *testing.T) {
	options := []domain.OptionView{{
		Name:  "region",
		Label: "Регион",
		Variants: []domain.VariantView{
			{Text: "Turkey"},
			{Text: "Global"},
		},
	}}
	rows := []domain.Row{
		{ProductID: 1, Title: "ChatGPT Plus", PriceValue: 1500, SellerReviews: 300, PositiveRatio: 0.99, ChoiceText: "Plus", Duration: "1 months"},
		{ProductID: 2, Title: "ChatGPT Plus shared", PriceValue: 400, SellerReviews: 5, PositiveRatio: 0.6, ChoiceText: "Plus", Duration: "1 months"},
		{ProductID: 3, Title: "ChatGPT Pro", PriceValue: 20000, SellerReviews: 80, PositiveRatio: 0.95, ChoiceText: "Pro", Duration: "1 months", Options: options},
		{ProductID: 1, Title: "ChatGPT Plus", PriceValue: 1400, SellerReviews: 300, PositiveRatio: 0.99, ChoiceText: "Plus", Duration: "12 months"},
	}

	tests := []struct {
		name      string
		filters   domain.Filters
		sortKey   string
		limit     int
		wantIDs   []int64
		wantTotal int
	}{
		{
			name:      "no filters dedups repeated listings",
			limit:     10,
			wantIDs:   []int64{2, 1, 3},
			wantTotal: 3,
		},
		{
			name:      "minimum reviews",
			filters:   domain.Filters{MinReviews: 50},
			limit:     10,
			wantIDs:   []int64{1, 3},
			wantTotal: 2,
		},
		{
			name:      "minimum positive ratio",
			filters:   domain.Filters{MinPositiveRatio: 0.97},
			limit:     10,
			wantIDs:   []int64{1},
			wantTotal: 1,
		},
		{
			name:      "price bounds",
			filters:   domain.Filters{MinPrice: 500, MaxPrice: 2000},
			limit:     10,
			wantIDs:   []int64{1},
			wantTotal: 1,
		},
		{
			name:      "include terms match option text",
			filters:   domain.Filters{IncludeTerms: []string{"TURKEY"}},
			limit:     10,
			wantIDs:   []int64{3},
			wantTotal: 1,
		},
		{
			name:      "include terms must all match",
			filters:   domain.Filters{IncludeTerms: []string{"chatgpt", "plus"}},
			limit:     10,
			wantIDs:   []int64{2, 1},
			wantTotal: 2,
		},
		{
			name:      "exclude terms",
			filters:   domain.Filters{ExcludeTerms: []string{"shared", "pro"}},
			limit:     10,
			wantIDs:   []int64{1},
			wantTotal: 1,
		},
		{
			name:      "limit truncates after counting",
			sortKey:   domain.SortReliabilityDesc,
			limit:     2,
			wantIDs:   []int64{1, 3},
			wantTotal: 3,
		},
		{
			name:      "limit below one keeps one row",
			limit:     0,
			wantIDs:   []int64{2},
			wantTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := append([]domain.Row(nil), rows...)
			got, total := Rank(input, tt.filters, tt.sortKey, tt.limit)

			ids := make([]int64, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ProductID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantTotal, total)
		})
	}

	t.Run("first of a repeated listing wins", func(t *testing.T) {
		got, _ := Rank(append([]domain.Row(nil), rows...), domain.Filters{}, domain.SortPriceAsc, 10)
		require.Len(t, got, 3)
		assert.Equal(t, 1500.0, got[1].PriceValue)
		assert.Equal(t, "1 months", got[1].Duration)
	})

	t.Run("one row per listing across durations", func(t *testing.T) {
		listing := []domain.Row{
			{ProductID: 7, PriceValue: 100, Duration: "1 months"},
			{ProductID: 7, PriceValue: 500, Duration: "12 months"},
			{ProductID: 8, PriceValue: 300, Duration: "1 months"},
		}

		got, total := Rank(listing, domain.Filters{}, domain.SortPriceAsc, 10)
		require.Len(t, got, 2)
		assert.Equal(t, 2, total)
		assert.Equal(t, []int64{7, 8}, []int64{got[0].ProductID, got[1].ProductID})
		assert.Equal(t, 100.0, got[0].PriceValue)
	})
}

func TestSortByCost(t *testing.T) {
	tests := []struct {
		mode string
		want []float64
	}{
		{CostSortAsc, []float64{100, 200, 300}},
		{CostSortDesc, []float64{300, 200, 100}},
		{CostSortNone, []float64{200, 300, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			rows := []domain.Row{row(1, 200, 0), row(2, 300, 0), row(3, 100, 0)}
			SortByCost(rows, tt.mode)
			assert.Equal(t, tt.want, priceValues(rows))
		})
	}
}
