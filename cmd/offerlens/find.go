package main

import (
	"encoding/json"

	"github.com/offerlens/backend/internal/usecase"
	"github.com/spf13/cobra"
)

var findArgs usecase.SearchArgs

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Resolve ranked offers and print them as JSON",
	Long: `Find accepts a text query ('chatgpt plus') or a Plati URL (/search/<term>,
/games/<slug>/<id>/, /cat/<slug>/<id>/) and prints the ranked result.`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	f := findCmd.Flags()
	f.StringVar(&findArgs.Preference, "preference", "", "buyer intent such as 'pro 12 months' (defaults to the query)")
	f.IntVar(&findArgs.Limit, "limit", usecase.DefaultLimit, "maximum results")
	f.StringVar(&findArgs.Currency, "currency", usecase.DefaultCurrency, "currency code")
	f.StringVar(&findArgs.Lang, "lang", usecase.DefaultLang, "locale")
	f.IntVar(&findArgs.MinReviews, "min-reviews", 0, "minimum seller review count")
	f.Float64Var(&findArgs.MinPositiveRatio, "min-positive-ratio", 0, "minimum seller positive ratio (0..1)")
	f.IntVar(&findArgs.Page, "page", 1, "first catalog page")
	f.IntVar(&findArgs.MaxPages, "max-pages", usecase.DefaultMaxPages, "catalog pages to scan")
	f.IntVar(&findArgs.PerPage, "per-page", usecase.DefaultPerPage, "items per catalog page")
	f.StringVar(&findArgs.SortBy, "sort-by", "price_asc", "result order (price_asc, price_desc, seller_reviews_desc, reliability_desc, title_asc, title_desc)")
	f.Float64Var(&findArgs.MinPrice, "min-price", 0, "minimum price")
	f.Float64Var(&findArgs.MaxPrice, "max-price", 0, "maximum price")
	f.StringVar(&findArgs.IncludeTerms, "include", "", "terms that must appear in title or options")
	f.StringVar(&findArgs.ExcludeTerms, "exclude", "", "terms that must not appear in title or options")
	f.BoolVar(&findArgs.ReturnAll, "return-all", false, "keep every qualifying option combination per listing")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	findArgs.Query = args[0]

	result, err := engine.Search.ResolveOffers(cmd.Context(), findArgs.OfferQuery())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
