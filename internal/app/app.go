// Package app wires configuration into the marketplace client and the
// search engine shared by the server and CLI binaries.
package app

import (
	"github.com/offerlens/backend/config"
	"github.com/offerlens/backend/internal/infrastructure/plati"
	"github.com/offerlens/backend/internal/observability"
	"github.com/offerlens/backend/internal/usecase"
	"github.com/rs/zerolog"
)

// ServiceName tags every log entry.
const ServiceName = "offerlens"

// Version is reported by the health check and the tool server.
const Version = "1.0.0"

// Engine bundles the wired components.
type Engine struct {
	Client *plati.Client
	Search *usecase.SearchService
	Logger zerolog.Logger
}

// ClientConfig maps marketplace and rate limit settings onto the client.
func ClientConfig(cfg *config.Config) plati.Config {
	return plati.Config{
		SearchURL:         cfg.Marketplace.SearchURL,
		ProductURL:        cfg.Marketplace.ProductURL,
		ReviewsURL:        cfg.Marketplace.ReviewsURL,
		CategoryURL:       cfg.Marketplace.CategoryURL,
		LinkURL:           cfg.Marketplace.LinkURL,
		OwnerID:           cfg.Marketplace.OwnerID,
		UserAgent:         cfg.Marketplace.UserAgent,
		SearchTimeout:     cfg.Marketplace.SearchTimeout,
		DetailTimeout:     cfg.Marketplace.DetailTimeout,
		ReviewsTimeout:    cfg.Marketplace.ReviewsTimeout,
		RequestsPerSecond: cfg.RateLimit.Marketplace,
		Burst:             cfg.RateLimit.Burst,
	}
}

// SearchConfig maps search defaults onto the orchestrator.
func SearchConfig(cfg *config.Config) usecase.SearchServiceConfig {
	return usecase.SearchServiceConfig{
		Currency:      cfg.Search.Currency,
		Lang:          cfg.Search.Lang,
		PerPage:       cfg.Search.PerPage,
		MaxPages:      cfg.Search.MaxPages,
		Limit:         cfg.Search.Limit,
		DetailWorkers: cfg.Search.DetailWorkers,
	}
}

// NewLogger builds the process logger from the log section.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return observability.NewLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: ServiceName,
	})
}

// New wires the marketplace client and search service.
func New(cfg *config.Config, logger zerolog.Logger) *Engine {
	client := plati.NewClient(ClientConfig(cfg), logger)
	return &Engine{
		Client: client,
		Search: usecase.NewSearchService(client, SearchConfig(cfg), logger),
		Logger: logger,
	}
}
