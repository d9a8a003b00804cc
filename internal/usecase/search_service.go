package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/offerlens/backend/internal/domain"
	"github.com/offerlens/backend/internal/infrastructure/cache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Request bounds for ResolveOffers.
const (
	DefaultLimit    = 20
	MaxLimit        = 100
	DefaultMaxPages = 6
	MaxMaxPages     = 30
	DefaultPerPage  = 30
	MinPerPage      = 5
	MaxPerPage      = 100
	DefaultCurrency = "RUB"
	DefaultLang     = "ru-RU"
)

// SearchServiceConfig holds orchestrator defaults.
type SearchServiceConfig struct {
	Currency string
	Lang     string
	PerPage  int
	MaxPages int
	Limit    int
	// DetailWorkers > 1 enables concurrent product detail prefetch per page.
	DetailWorkers int
}

func (c SearchServiceConfig) withDefaults() SearchServiceConfig {
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	if c.Lang == "" {
		c.Lang = DefaultLang
	}
	if c.PerPage <= 0 {
		c.PerPage = DefaultPerPage
	}
	if c.MaxPages <= 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	return c
}

// SearchService pages through the marketplace catalog and turns listings
// into priced rows.
type SearchService struct {
	client domain.MarketplaceClient
	cfg    SearchServiceConfig
	logger zerolog.Logger
}

// NewSearchService creates a new search orchestrator
func NewSearchService(client domain.MarketplaceClient, cfg SearchServiceConfig, logger zerolog.Logger) *SearchService {
	return &SearchService{
		client: client,
		cfg:    cfg.withDefaults(),
		logger: logger.With().Str("component", "search").Logger(),
	}
}

// CollectPlan describes one collection run.
type CollectPlan struct {
	// Query is the catalog search term. Ignored when CategoryID is set.
	Query      string
	CategoryID string
	// RequestText is the buyer intent used to classify offers.
	RequestText string
	Currency    string
	Lang        string
	StartPage   int
	PerPage     int
	MaxPages    int
	// MaxItems bounds the number of rows when positive.
	MaxItems int
	// Sort is the upstream catalog sort.
	Sort           string
	ReturnAll      bool
	IncludeOptions bool
}

// listing is the cached per-product outcome. A nil listing means the product
// is not a qualifying offer.
type listing struct {
	offer      *domain.Offer
	options    []domain.OptionView
	sellerID   int64
	sellerName string
}

// collectRun owns the caches and sort state of one Collect call.
type collectRun struct {
	svc      *SearchService
	plan     CollectPlan
	logger   zerolog.Logger
	products *cache.Memo[int64, *listing]
	sellers  *cache.Memo[int64, domain.ReviewSummary]
	seen     map[int64]bool
	apiSort  string
	warned   bool
	rows     []domain.Row
}

// Collect pages through the catalog and returns one row per qualifying
// candidate, in page and item order.
func (s *SearchService) Collect(ctx context.Context, plan CollectPlan) ([]domain.Row, error) {
	plan = s.normalizePlan(plan)
	if strings.TrimSpace(plan.Query) == "" && plan.CategoryID == "" {
		return nil, fmt.Errorf("%w: empty search query", domain.ErrInvalidRequest)
	}

	run := &collectRun{
		svc:      s,
		plan:     plan,
		logger:   s.logger.With().Str("query", plan.Query).Str("category_id", plan.CategoryID).Logger(),
		products: cache.NewMemo[int64, *listing](),
		sellers:  cache.NewMemo[int64, domain.ReviewSummary](),
		seen:     make(map[int64]bool),
		apiSort:  NormalizeSearchSort(plan.Sort),
	}
	if err := run.collect(ctx); err != nil {
		return nil, err
	}

	run.logger.Info().
		Int("rows", len(run.rows)).
		Int("products", run.products.Size()).
		Int("sellers", run.sellers.Size()).
		Msg("collection finished")
	return run.rows, nil
}

func (s *SearchService) normalizePlan(plan CollectPlan) CollectPlan {
	if plan.Currency == "" {
		plan.Currency = s.cfg.Currency
	}
	plan.Currency = strings.ToUpper(plan.Currency)
	if plan.Lang == "" {
		plan.Lang = s.cfg.Lang
	}
	if plan.StartPage < 1 {
		plan.StartPage = 1
	}
	if plan.PerPage <= 0 {
		plan.PerPage = s.cfg.PerPage
	}
	if plan.MaxPages <= 0 {
		plan.MaxPages = s.cfg.MaxPages
	}
	if plan.RequestText == "" {
		plan.RequestText = plan.Query
	}
	return plan
}

func (r *collectRun) full() bool {
	return r.plan.MaxItems > 0 && len(r.rows) >= r.plan.MaxItems
}

func (r *collectRun) collect(ctx context.Context) error {
	lastPage := r.plan.StartPage + r.plan.MaxPages - 1
	page := r.plan.StartPage

	for page <= lastPage && !r.full() {
		if err := ctx.Err(); err != nil {
			return err
		}

		items, hasNext, err := r.fetchPage(ctx, page)
		if err != nil {
			if domain.IsBadRequest(err) && r.apiSort != SearchSortPopular {
				r.fallbackSort()
				continue
			}
			if domain.IsBadRequest(err) && r.warned {
				return fmt.Errorf("%w: %v", domain.ErrUnsupportedSort, err)
			}
			return err
		}
		if len(items) == 0 {
			break
		}

		r.prefetch(ctx, items)
		for _, item := range items {
			r.addItem(ctx, item)
			if r.full() {
				break
			}
		}

		if !hasNext {
			break
		}
		page++
	}

	return nil
}

// fallbackSort switches the upstream sort to "popular" and warns once.
func (r *collectRun) fallbackSort() {
	if !r.warned {
		r.logger.Warn().
			Str("sort", r.apiSort).
			Msg("marketplace rejected sort, using popular and local cost sort")
		r.warned = true
	}
	r.apiSort = SearchSortPopular
}

func (r *collectRun) fetchPage(ctx context.Context, page int) ([]domain.CatalogItem, bool, error) {
	if r.plan.CategoryID != "" {
		items, err := r.svc.client.CategoryProducts(ctx, domain.CategoryParams{
			CategoryID: r.plan.CategoryID,
			Page:       page,
			PerPage:    r.plan.PerPage,
			Currency:   r.plan.Currency,
			Lang:       r.plan.Lang,
			Sort:       r.apiSort,
		})
		if err != nil {
			return nil, false, err
		}
		return items, len(items) > 0, nil
	}

	result, err := r.svc.client.SearchProducts(ctx, domain.SearchParams{
		Query:    r.plan.Query,
		Page:     page,
		PerPage:  r.plan.PerPage,
		Currency: r.plan.Currency,
		Lang:     r.plan.Lang,
		Sort:     r.apiSort,
	})
	if err != nil {
		return nil, false, err
	}
	return result.Content.Items, result.Content.HasNextPage != 0, nil
}

// prefetch resolves the page's product listings concurrently. The memo keeps
// each product to a single fetch; rows are still built in item order.
func (r *collectRun) prefetch(ctx context.Context, items []domain.CatalogItem) {
	workers := r.svc.cfg.DetailWorkers
	if workers <= 1 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, item := range items {
		item := item
		pid := item.ProductID.Int()
		if pid <= 0 {
			continue
		}
		g.Go(func() error {
			r.listing(gctx, pid, item)
			return nil
		})
	}
	// Fetch failures are cached per product and logged by listing.
	if err := g.Wait(); err != nil {
		r.logger.Debug().Err(err).Msg("detail prefetch interrupted")
	}
}

func (r *collectRun) addItem(ctx context.Context, item domain.CatalogItem) {
	pid := item.ProductID.Int()
	if pid <= 0 || r.seen[pid] {
		return
	}
	r.seen[pid] = true

	l := r.listing(ctx, pid, item)
	if l == nil {
		return
	}

	sellerID := item.SellerID.Int()
	if sellerID <= 0 {
		sellerID = l.sellerID
	}
	reviews := r.sellerReviews(ctx, sellerID)

	sellerName := l.sellerName
	if sellerName == "" {
		sellerName = item.SellerName
	}
	link := item.Link
	if link == "" {
		link = r.svc.client.ProductLink(pid)
	}

	for _, choice := range l.offer.Choices {
		duration := choice.Duration
		if duration == "" {
			duration = ExtractDuration(l.offer.Title)
		}

		row := domain.Row{
			ProductID:      pid,
			Title:          l.offer.Title,
			Price:          FormatPrice(choice.Price, r.plan.Currency),
			PriceValue:     choice.Price,
			Currency:       r.plan.Currency,
			Duration:       duration,
			DurationMonths: choice.Months,
			Seller:         sellerName,
			SellerReviews:  reviews.Total,
			Good:           reviews.Good,
			Bad:            reviews.Bad,
			SellerGoodBad:  fmt.Sprintf("%d/%d", reviews.Good, reviews.Bad),
			PositiveRatio:  roundRatio(reviews.PositiveRatio),
			Link:           link,
			ChoiceText:     choice.ChoiceText,
		}
		if r.plan.IncludeOptions {
			row.Options = l.options
		}

		r.rows = append(r.rows, row)
		if r.full() {
			return
		}
	}
}

// listing fetches and classifies a product once per run. Fetch errors are
// logged and cached as "no offer".
func (r *collectRun) listing(ctx context.Context, pid int64, item domain.CatalogItem) *listing {
	l, err := r.products.Do(pid, func() (*listing, error) {
		detail, err := r.svc.client.ProductData(ctx, pid, r.plan.Currency, r.plan.Lang)
		if err != nil {
			return nil, err
		}
		return r.classify(detail, item), nil
	})
	if err != nil {
		r.logger.Debug().Err(err).Int64("product_id", pid).Msg("product detail skipped")
	}
	return l
}

func (r *collectRun) classify(detail *domain.ProductDetail, item domain.CatalogItem) *listing {
	if detail == nil || detail.Product == nil {
		return nil
	}
	product := detail.Product

	basePrice := product.Price.Float()
	if basePrice <= 0 {
		basePrice = item.Price.Float()
	}
	if basePrice <= 0 {
		return nil
	}

	fallbackTitle := PickName(item.Name, r.plan.Lang)
	offer := ClassifyOffer(detail, fallbackTitle, basePrice, r.plan.Currency, r.plan.RequestText, r.plan.ReturnAll)
	if offer == nil {
		return nil
	}

	l := &listing{
		offer:      offer,
		sellerID:   product.Seller.ID.Int(),
		sellerName: strings.TrimSpace(product.Seller.Name),
	}
	if r.plan.IncludeOptions {
		l.options = OptionViews(product, basePrice, r.plan.Currency)
	}
	return l
}

// sellerReviews fetches the review aggregate once per seller. Errors yield a
// zero aggregate.
func (r *collectRun) sellerReviews(ctx context.Context, sellerID int64) domain.ReviewSummary {
	if sellerID <= 0 {
		return domain.ReviewSummary{}
	}
	summary, err := r.sellers.Do(sellerID, func() (domain.ReviewSummary, error) {
		payload, err := r.svc.client.SellerReviews(ctx, sellerID, r.plan.Lang)
		if err != nil {
			return domain.ReviewSummary{}, err
		}
		return SummarizeReviews(payload), nil
	})
	if err != nil {
		r.logger.Debug().Err(err).Int64("seller_id", sellerID).Msg("seller reviews unavailable")
	}
	return summary
}

// SummarizeReviews converts a reviews payload into counts and a positive ratio.
func SummarizeReviews(payload *domain.ReviewsPayload) domain.ReviewSummary {
	if payload == nil {
		return domain.ReviewSummary{}
	}
	good := int(payload.TotalGood.Int())
	bad := int(payload.TotalBad.Int())

	summary := domain.ReviewSummary{
		Total: int(payload.TotalItems.Int()),
		Good:  good,
		Bad:   bad,
	}
	if good+bad > 0 {
		summary.PositiveRatio = float64(good) / float64(good+bad)
	}
	return summary
}

// OptionViews lists the product's visible options with the price each variant
// would give on its own.
func OptionViews(product *domain.Product, basePrice float64, currency string) []domain.OptionView {
	prices := newPriceContext(product, basePrice, currency)

	var views []domain.OptionView
	for _, ov := range visibleOptions(product) {
		view := domain.OptionView{
			ID:       ov.option.ID.Int(),
			Name:     ov.option.Name,
			Label:    ov.option.Label,
			Type:     ov.option.Type,
			Required: ov.option.Required != 0,
		}
		for _, v := range ov.variants {
			price := prices.priceIfSelected(v)
			view.Variants = append(view.Variants, domain.VariantView{
				Value:              v.Value,
				Text:               CleanText(v.Text),
				Default:            v.IsDefault(),
				ModifyType:         v.ModifyType,
				ModifyValue:        v.Amount(),
				PriceIfSelected:    price,
				PriceIfSelectedFmt: FormatPrice(price, currency),
			})
		}
		views = append(views, view)
	}
	return views
}

func roundRatio(ratio float64) float64 {
	return decimal.NewFromFloat(ratio).Round(4).InexactFloat64()
}

// ResolveOffers is the engine entry point: it interprets the query, collects
// priced rows, then filters, sorts and truncates them.
func (s *SearchService) ResolveOffers(ctx context.Context, q domain.OfferQuery) (*domain.OfferResult, error) {
	input := ParseQueryInput(q.Query)
	if input.ProductQuery == "" && input.CategoryID == "" {
		return nil, fmt.Errorf("%w: empty search query, use /search/<term> or a text query such as 'chatgpt plus'", domain.ErrInvalidRequest)
	}

	currency := strings.ToUpper(strings.TrimSpace(q.Currency))
	if currency == "" {
		currency = s.cfg.Currency
	}
	lang := strings.TrimSpace(q.Lang)
	if lang == "" {
		lang = s.cfg.Lang
	}
	limit := clamp(q.Limit, s.cfg.Limit, 1, MaxLimit)
	maxPages := clamp(q.MaxPages, s.cfg.MaxPages, 1, MaxMaxPages)
	perPage := clamp(q.PerPage, s.cfg.PerPage, MinPerPage, MaxPerPage)
	sortKey := NormalizeSortKey(q.SortBy)

	requestText := strings.TrimSpace(q.Preference)
	if requestText == "" {
		requestText = input.ProductQuery
	}

	rows, err := s.Collect(ctx, CollectPlan{
		Query:          input.ProductQuery,
		CategoryID:     input.CategoryID,
		RequestText:    requestText,
		Currency:       currency,
		Lang:           lang,
		StartPage:      q.Page,
		PerPage:        perPage,
		MaxPages:       maxPages,
		Sort:           SearchSortPopular,
		ReturnAll:      q.ReturnAll,
		IncludeOptions: true,
	})
	if err != nil {
		return nil, err
	}

	items, total := Rank(rows, q.Filters, sortKey, limit)

	return &domain.OfferResult{
		Query:           q.Query,
		NormalizedQuery: input.ProductQuery,
		CategoryID:      input.CategoryID,
		SourceURL:       input.SourceURL,
		AppliedFilters: domain.AppliedFilters{
			SortBy:           sortKey,
			MinReviews:       q.Filters.MinReviews,
			MinPositiveRatio: q.Filters.MinPositiveRatio,
			MinPrice:         q.Filters.MinPrice,
			MaxPrice:         q.Filters.MaxPrice,
			IncludeTerms:     nonNil(q.Filters.IncludeTerms),
			ExcludeTerms:     nonNil(q.Filters.ExcludeTerms),
			MaxPages:         maxPages,
			PerPage:          perPage,
			Currency:         currency,
			Lang:             lang,
		},
		TotalCandidates: total,
		Returned:        len(items),
		Items:           items,
	}, nil
}

// clamp applies def to non-positive values and bounds the result.
func clamp(value, def, lo, hi int) int {
	if value <= 0 {
		value = def
	}
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func nonNil(terms []string) []string {
	if terms == nil {
		return []string{}
	}
	return terms
}
