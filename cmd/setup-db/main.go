package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"hotel-review-graphrag/config"
	"hotel-review-graphrag/database"
)

// Creates the review_documents table and its indexes. Intended for local
// development; production deployments run migrations.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.LoadConfig()

	store, err := database.NewPostgresStore(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	log.Println("review_documents schema is ready")
}
