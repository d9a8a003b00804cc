package plati

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/offerlens/backend/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 8 << 20

// Config holds marketplace endpoints and client limits.
type Config struct {
	SearchURL      string
	ProductURL     string // contains a %d product id placeholder
	ReviewsURL     string
	CategoryURL    string
	LinkURL        string // contains a %d product id placeholder
	OwnerID        string
	UserAgent      string
	SearchTimeout  time.Duration
	DetailTimeout  time.Duration
	ReviewsTimeout time.Duration
	// RequestsPerSecond throttles outbound requests; zero disables throttling.
	RequestsPerSecond float64
	Burst             int
}

// Client handles communication with the Plati/Digiseller marketplace
type Client struct {
	httpClient  *http.Client
	cfg         Config
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates a new marketplace client
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		// Per-request deadlines come from the context; this is a ceiling.
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		cfg:         cfg,
		rateLimiter: limiter,
		logger:      logger.With().Str("component", "plati").Logger(),
	}
}

// FetchJSON GETs url and decodes the JSON body into out. A non-2xx status or
// transport failure is returned as *domain.UpstreamError.
func (c *Client) FetchJSON(ctx context.Context, url string, timeout time.Duration, out interface{}) error {
	body, err := c.fetch(ctx, url, timeout, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.UpstreamError{URL: url, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// FetchText GETs url and returns the body as text.
func (c *Client) FetchText(ctx context.Context, url string, timeout time.Duration) (string, error) {
	body, err := c.fetch(ctx, url, timeout, "text/html,application/xhtml+xml")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// fetch executes one throttled GET request. There are no retries.
func (c *Client) fetch(ctx context.Context, url string, timeout time.Duration, accept string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", accept)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", url).Msg("request failed")
		return nil, &domain.UpstreamError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.UpstreamError{URL: url, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("marketplace response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UpstreamError{StatusCode: resp.StatusCode, URL: url}
	}
	return body, nil
}

// SearchProducts fetches one page of catalog search results
func (c *Client) SearchProducts(ctx context.Context, params domain.SearchParams) (*domain.SearchPage, error) {
	var page domain.SearchPage
	if err := c.FetchJSON(ctx, c.SearchURL(params), c.cfg.SearchTimeout, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CategoryProducts fetches and parses one page of a category listing
func (c *Client) CategoryProducts(ctx context.Context, params domain.CategoryParams) ([]domain.CatalogItem, error) {
	html, err := c.FetchText(ctx, c.CategoryURL(params), c.cfg.SearchTimeout)
	if err != nil {
		return nil, err
	}
	return ParseCategoryBlock(html, params.Lang, c.cfg.LinkURL)
}

// ProductData fetches the product data payload with its option tree
func (c *Client) ProductData(ctx context.Context, productID int64, currency, lang string) (*domain.ProductDetail, error) {
	var detail domain.ProductDetail
	if err := c.FetchJSON(ctx, c.ProductDataURL(productID, currency, lang), c.cfg.DetailTimeout, &detail); err != nil {
		return nil, err
	}
	if detail.Product == nil {
		return &detail, fmt.Errorf("%w: %d", domain.ErrProductNotFound, productID)
	}
	return &detail, nil
}

// SellerReviews fetches a seller's review totals
func (c *Client) SellerReviews(ctx context.Context, sellerID int64, lang string) (*domain.ReviewsPayload, error) {
	var reviews domain.ReviewsPayload
	if err := c.FetchJSON(ctx, c.ReviewsURL(sellerID, lang), c.cfg.ReviewsTimeout, &reviews); err != nil {
		return nil, err
	}
	return &reviews, nil
}
