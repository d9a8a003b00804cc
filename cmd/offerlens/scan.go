package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/offerlens/backend/internal/render"
	"github.com/offerlens/backend/internal/usecase"
	"github.com/spf13/cobra"
)

const (
	formatHTML = "html"
	formatTUI  = "tui"
)

var scanOpts struct {
	lang        string
	currency    string
	perPage     int
	maxItems    int
	maxPages    int
	sortBy      string
	costSort    string
	format      string
	out         string
	requestText string
	returnAll   bool
}

var scanCmd = &cobra.Command{
	Use:   "scan <search-url>",
	Short: "Scan a Plati search and render a report",
	Long: `Scan pages through a Plati search URL such as https://plati.market/search/chatgpt,
prices every listing for the requested plan and renders an HTML report or a
terminal table.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.StringVar(&scanOpts.lang, "lang", usecase.DefaultLang, "locale for names and API queries")
	f.StringVar(&scanOpts.currency, "curr", usecase.DefaultCurrency, "currency (RUB, USD, EUR, ...)")
	f.IntVar(&scanOpts.perPage, "per-page", usecase.DefaultPerPage, "items per API page")
	f.IntVar(&scanOpts.maxItems, "max-items", 120, "maximum rows to load")
	f.IntVar(&scanOpts.maxPages, "max-pages", 12, "maximum search pages to scan")
	f.StringVar(&scanOpts.sortBy, "sort-by", usecase.SearchSortPopular, "search sort order (popular, price_asc, price_desc, new)")
	f.StringVar(&scanOpts.costSort, "cost-sort", usecase.CostSortAsc, "local sorting by cost (asc, desc, none)")
	f.StringVar(&scanOpts.format, "format", formatHTML, "output format (html, tui)")
	f.StringVar(&scanOpts.out, "out", "plati_report.html", "HTML output file path (used with --format html)")
	f.StringVar(&scanOpts.requestText, "request", "", "buyer intent such as 'pro 12 months' (defaults to the search term)")
	f.BoolVar(&scanOpts.returnAll, "return-all", false, "keep every qualifying option combination per listing")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	searchURL := args[0]
	query, err := usecase.ParseSearchURL(searchURL)
	if err != nil {
		return err
	}

	format := strings.ToLower(scanOpts.format)
	if format != formatHTML && format != formatTUI {
		return fmt.Errorf("unknown format %q, want html or tui", scanOpts.format)
	}
	costSort := strings.ToLower(scanOpts.costSort)
	switch costSort {
	case usecase.CostSortAsc, usecase.CostSortDesc, usecase.CostSortNone:
	default:
		return fmt.Errorf("unknown cost sort %q, want asc, desc or none", scanOpts.costSort)
	}

	requestText := strings.TrimSpace(scanOpts.requestText)
	if requestText == "" {
		requestText = query
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Scanning %q", query)
	s.Writer = os.Stderr
	s.Start()

	rows, err := engine.Search.Collect(cmd.Context(), usecase.CollectPlan{
		Query:       query,
		RequestText: requestText,
		Currency:    strings.ToUpper(scanOpts.currency),
		Lang:        scanOpts.lang,
		StartPage:   1,
		PerPage:     scanOpts.perPage,
		MaxPages:    scanOpts.maxPages,
		MaxItems:    scanOpts.maxItems,
		Sort:        usecase.NormalizeSearchSort(scanOpts.sortBy),
		ReturnAll:   scanOpts.returnAll,
	})
	s.Stop()
	if err != nil {
		return err
	}

	usecase.SortByCost(rows, costSort)

	title := "Plati search: " + searchURL
	if format == formatTUI {
		return render.Table(cmd.OutOrStdout(), rows, title)
	}
	if err := render.WriteHTMLFile(scanOpts.out, rows, title); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "HTML report saved to: %s\n", scanOpts.out)
	return nil
}
