package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"hotel-review-graphrag/clients"
	"hotel-review-graphrag/config"
	"hotel-review-graphrag/server"
	"hotel-review-graphrag/services"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	cfg := config.LoadConfig()

	// Layer translator tuning from YAML over the defaults
	translatorCfg, err := config.LoadTranslatorConfig(os.Getenv("TRANSLATOR_CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load translator config: %v", err)
	}
	cfg.Translator = translatorCfg

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	logger := services.NewStructuredLogger(services.ParseLogLevel(cfg.Logging.Level), nil)

	// Build services around the graph client
	graphClient := clients.NewGremlinClient(&cfg.Graph, logger)

	factory := services.NewServiceFactory(cfg, logger)
	container, err := factory.CreateServices(graphClient)
	if err != nil {
		log.Fatalf("Failed to create services: %v", err)
	}
	defer container.Close()

	// Best-effort schema setup for local development; production runs
	// migrations separately.
	if container.PostgresStore != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := container.PostgresStore.EnsureSchema(ctx); err != nil {
			logger.Warn("could not ensure review table schema",
				services.String("error", err.Error()))
		}
		cancel()
	}

	// Create and start server
	srv := server.NewServer(cfg, container)

	log.Println("Hotel Review GraphRAG starting...")
	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
