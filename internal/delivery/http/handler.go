package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/offerlens/backend/internal/domain"
	"github.com/offerlens/backend/internal/observability"
	"github.com/offerlens/backend/internal/usecase"
	"github.com/rs/zerolog"
)

// OfferResolver is the engine behind the search endpoints
type OfferResolver interface {
	ResolveOffers(ctx context.Context, q domain.OfferQuery) (*domain.OfferResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	offers OfferResolver
	logger zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(offers OfferResolver, logger zerolog.Logger) *Handler {
	return &Handler{
		offers: offers,
		logger: logger.With().Str("component", "http").Logger(),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "offerlens-backend",
		"version": "1.0.0",
	})
}

// SearchOffers handles POST offer search requests with a JSON body
func (h *Handler) SearchOffers(c *gin.Context) {
	var args usecase.SearchArgs
	if err := c.ShouldBindJSON(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	h.resolve(c, args)
}

// SearchOffersQuery handles GET offer search requests with query parameters
func (h *Handler) SearchOffersQuery(c *gin.Context) {
	var args usecase.SearchArgs
	if err := c.ShouldBindQuery(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters: " + err.Error()})
		return
	}
	h.resolve(c, args)
}

func (h *Handler) resolve(c *gin.Context, args usecase.SearchArgs) {
	if h.offers == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "offer search is not configured"})
		return
	}

	ctx := c.Request.Context()
	logger := observability.WithRequest(ctx, h.logger)

	result, err := h.offers.ResolveOffers(ctx, args.OfferQuery())
	if err != nil {
		status := statusForError(err)
		logger.Warn().Err(err).Int("status", status).Str("query", args.Query).Msg("offer search failed")
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	logger.Info().
		Str("query", args.Query).
		Int("total_candidates", result.TotalCandidates).
		Int("returned", result.Returned).
		Msg("offer search completed")
	c.JSON(http.StatusOK, result)
}

// statusForError maps engine errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnsupportedSort), errors.Is(err, domain.ErrUpstreamFailure):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
