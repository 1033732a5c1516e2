package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"hotel-review-graphrag/config"
	"hotel-review-graphrag/handlers"
	"hotel-review-graphrag/services"
)

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	router     *mux.Router
	httpServer *http.Server
	services   *services.ServiceContainer

	// Handlers
	queryHandler  *handlers.QueryHandler
	reviewHandler *handlers.ReviewHandler
}

// NewServer creates a new server instance. The service container is built by
// the caller so the graph client can be injected before the server starts.
func NewServer(cfg *config.Config, container *services.ServiceContainer) *Server {
	router := mux.NewRouter()

	server := &Server{
		config:        cfg,
		router:        router,
		services:      container,
		queryHandler:  handlers.NewQueryHandler(container.TranslationService),
		reviewHandler: handlers.NewReviewHandler(container.RetrievalService),
		httpServer: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}

	server.setupRoutes()
	server.setupMiddleware()

	return server
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {

	// API version prefix
	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", s.healthCheck).Methods("GET", "OPTIONS")

	// Performance and monitoring endpoints
	if s.config.Performance.MetricsEnabled && s.services.MetricsService != nil {
		api.HandleFunc(s.config.Performance.MetricsEndpoint, s.metricsHandler).Methods("GET")
	}
	api.HandleFunc("/cache/stats", s.cacheStatsHandler).Methods("GET")
	api.HandleFunc("/cache/clear", s.cacheClearHandler).Methods("POST")

	// Query routes
	api.HandleFunc("/ask", s.queryHandler.Ask).Methods("POST", "OPTIONS")
	api.HandleFunc("/translate", s.queryHandler.Translate).Methods("POST", "OPTIONS")
	api.HandleFunc("/schema", s.queryHandler.GetSchema).Methods("GET")
	api.HandleFunc("/analytics", s.queryHandler.Analytics).Methods("GET")
	api.HandleFunc("/analytics/hotels", s.queryHandler.HotelAverages).Methods("GET")
	api.HandleFunc("/analytics/{dimension}", s.queryHandler.Distribution).Methods("GET")

	// Review routes
	api.HandleFunc("/reviews", s.reviewHandler.IndexReview).Methods("POST", "OPTIONS")
	api.HandleFunc("/reviews/filter", s.queryHandler.FilterReviews).Methods("POST", "OPTIONS")
	api.HandleFunc("/reviews/similar", s.reviewHandler.SimilarReviews).Methods("POST", "OPTIONS")
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// CORS must be first to handle preflight requests
	s.router.Use(s.corsMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.contentTypeMiddleware)

	if s.config.Performance.MetricsEnabled && s.services.MetricsService != nil {
		s.router.Use(s.performanceMiddleware)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Starting server on port %s", s.config.Server.Port)

	// Start server in a goroutine
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	return s.Shutdown()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if s.services.HealthService == nil {
		// Fallback to simple health check
		if err := s.services.HealthCheck(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"unhealthy","error":"%s","timestamp":"%s"}`,
				err.Error(), time.Now().Format(time.RFC3339))
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
		return
	}

	systemHealth := s.services.HealthService.CheckHealth(r.Context())

	// Degraded still answers 200: the core translation path works without
	// the optional dependencies.
	statusCode := http.StatusOK
	if systemHealth.Status == services.HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(systemHealth); err != nil {
		log.Printf("Failed to encode health response: %v", err)
	}
}

// metricsHandler handles metrics requests
func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if s.services.MetricsService == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `{"error":"metrics service not available"}`)
		return
	}

	metrics := s.services.MetricsService.GetMetrics()
	metrics["cache"] = s.services.TranslationService.CacheStats()

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(metrics); err != nil {
		log.Printf("Failed to encode metrics: %v", err)
	}
}

// cacheStatsHandler handles cache statistics requests
func (s *Server) cacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	stats := s.services.TranslationService.CacheStats()

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		log.Printf("Failed to encode cache stats: %v", err)
	}
}

// cacheClearHandler handles cache clear requests
func (s *Server) cacheClearHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.services.TranslationCache.Clear()

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"message":"cache cleared successfully","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}
