package services

import (
	"context"

	"hotel-review-graphrag/config"
	"hotel-review-graphrag/database"
	"hotel-review-graphrag/translator"
)

// GraphClient is the full graph dependency surface: query execution plus
// connectivity checks. The websocket Gremlin client satisfies it; it is
// injected rather than constructed here because the client package layers
// above services.
type GraphClient interface {
	GraphExecutor
	Pinger
	Close() error
}

// ServiceContainer holds all service instances
type ServiceContainer struct {
	Translator         *translator.Translator
	TranslationService TranslationService
	RetrievalService   RetrievalService
	GenerationService  *GeminiClient
	EmbeddingService   EmbeddingService

	PostgresStore    *database.PostgresStore
	ReviewRepository *database.ReviewRepository
	Graph            GraphClient

	TranslationCache TranslationCache
	MetricsService   MetricsService
	Logger           Logger
	HealthService    HealthService
}

// ServiceFactory creates and configures all services
type ServiceFactory struct {
	config *config.Config
	logger Logger
}

// NewServiceFactory creates a new service factory
func NewServiceFactory(cfg *config.Config, logger Logger) *ServiceFactory {
	if logger == nil {
		logLevel := ParseLogLevel(cfg.Logging.Level)
		logger = NewStructuredLogger(logLevel, nil)
	}
	return &ServiceFactory{
		config: cfg,
		logger: logger,
	}
}

// CreateServices creates and wires all services together. The graph client is
// required; Postgres is optional and its absence only disables review
// retrieval.
func (f *ServiceFactory) CreateServices(graph GraphClient) (*ServiceContainer, error) {
	logger := f.logger

	var metricsService MetricsService
	if f.config.Performance.MetricsEnabled {
		metricsService = NewInMemoryMetrics()
	}

	var cache TranslationCache
	if f.config.Cache.Enabled {
		cache = NewInMemoryTranslationCache(
			f.config.Cache.MaxSize,
			f.config.Cache.DefaultTTL,
			f.config.Cache.CleanupInterval,
		)
	} else {
		cache = NewNoopTranslationCache()
	}

	healthService := NewHealthService("1.0.0", logger)

	// External service clients.
	geminiClient := NewGeminiClient(&f.config.LLM, logger)
	embeddingService := NewEmbeddingService(&f.config.Embedding)

	// The translator only gets a generator when one is actually usable;
	// otherwise it runs purely on fallback patterns.
	translatorOpts := translator.Options{
		GenerationTimeout: f.config.Translator.GenerationTimeout,
	}
	if geminiClient.Configured() {
		translatorOpts.Generator = geminiClient
	} else {
		logger.Warn("no generation API key configured, translations run on fallback patterns only")
	}
	if metricsService != nil {
		translatorOpts.Metrics = metricsService
	}

	queryTranslator, err := translator.New(translatorOpts)
	if err != nil {
		return nil, err
	}

	// Review retrieval needs Postgres. A missing database keeps the core
	// translation path fully functional.
	var postgresStore *database.PostgresStore
	var reviewRepository *database.ReviewRepository
	var retrievalService RetrievalService

	postgresStore, err = database.NewPostgresStore(&f.config.Database)
	if err != nil {
		logger.Warn("postgres unavailable, review retrieval disabled",
			String("error", err.Error()))
		postgresStore = nil
	} else {
		reviewRepository = database.NewReviewRepository(postgresStore)
		retrievalService = NewRetrievalService(
			reviewRepository,
			embeddingService,
			f.config.Translator.Rag,
			logger,
			metricsService,
		)
	}

	translationService := NewTranslationService(
		queryTranslator,
		cache,
		graph,
		geminiClient,
		retrievalService,
		f.config.Translator,
		logger,
		metricsService,
	)

	healthService.RegisterChecker(NewPingHealthChecker("graph", graph))
	if postgresStore != nil {
		healthService.RegisterChecker(NewPingHealthChecker("database", postgresStore))
	}
	healthService.RegisterChecker(NewGenerationHealthChecker("generation", geminiClient))
	healthService.RegisterChecker(NewCacheHealthChecker("cache", cache))

	return &ServiceContainer{
		Translator:         queryTranslator,
		TranslationService: translationService,
		RetrievalService:   retrievalService,
		GenerationService:  geminiClient,
		EmbeddingService:   embeddingService,
		PostgresStore:      postgresStore,
		ReviewRepository:   reviewRepository,
		Graph:              graph,
		TranslationCache:   cache,
		MetricsService:     metricsService,
		Logger:             logger,
		HealthService:      healthService,
	}, nil
}

// Close releases the container's connections and background workers.
func (c *ServiceContainer) Close() {
	if stoppable, ok := c.TranslationCache.(*InMemoryTranslationCache); ok {
		stoppable.Stop()
	}
	if c.PostgresStore != nil {
		c.PostgresStore.Close()
	}
	if c.Graph != nil {
		c.Graph.Close()
	}
}

// HealthCheck verifies the critical dependencies are reachable.
func (c *ServiceContainer) HealthCheck(ctx context.Context) error {
	return c.Graph.Ping(ctx)
}
