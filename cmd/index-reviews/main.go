package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"hotel-review-graphrag/config"
	"hotel-review-graphrag/database"
	"hotel-review-graphrag/models"
	"hotel-review-graphrag/services"
	"hotel-review-graphrag/translator"
)

// reviewInput is one review document in the input file.
type reviewInput struct {
	HotelName    string  `json:"hotel_name"`
	Text         string  `json:"text"`
	Language     string  `json:"language,omitempty"`
	Score        float64 `json:"score,omitempty"`
	TravelerType string  `json:"traveler_type,omitempty"`
}

// Bulk-indexes review documents from a JSON file into Postgres, generating
// embeddings in batches so the retrieval endpoints can find them.
func main() {
	inputPath := flag.String("input", "", "path to a JSON array of review documents")
	batchSize := flag.Int("batch", 32, "embedding batch size")
	skipEmbeddings := flag.Bool("skip-embeddings", false, "store documents without vectors")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("-input is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.LoadConfig()

	reviews, err := loadReviews(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	if len(reviews) == 0 {
		log.Println("Input file contains no reviews, nothing to do")
		return
	}

	store, err := database.NewPostgresStore(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	repository := database.NewReviewRepository(store)

	var embedder services.EmbeddingService
	if !*skipEmbeddings {
		if cfg.Embedding.APIKey == "" {
			log.Println("No embedding API key configured, storing documents without vectors")
		} else {
			embedder = services.NewEmbeddingService(&cfg.Embedding)
		}
	}

	start := time.Now()
	indexed := 0
	for offset := 0; offset < len(reviews); offset += *batchSize {
		end := offset + *batchSize
		if end > len(reviews) {
			end = len(reviews)
		}
		batch := reviews[offset:end]

		stored, err := buildBatch(ctx, batch, embedder)
		if err != nil {
			log.Fatalf("Failed to prepare batch at offset %d: %v", offset, err)
		}

		if err := repository.BatchInsert(ctx, stored); err != nil {
			log.Fatalf("Failed to insert batch at offset %d: %v", offset, err)
		}
		indexed += len(stored)
		log.Printf("Indexed %d/%d reviews", indexed, len(reviews))
	}

	log.Printf("Done: %d reviews indexed in %v", indexed, time.Since(start).Round(time.Millisecond))
}

func loadReviews(path string) ([]reviewInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var reviews []reviewInput
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func buildBatch(ctx context.Context, batch []reviewInput, embedder services.EmbeddingService) ([]*database.StoredReview, error) {
	var embeddings [][]float64
	if embedder != nil {
		texts := make([]string, len(batch))
		for i, review := range batch {
			texts[i] = review.Text
		}

		var err error
		embeddings, err = embedder.GenerateBatchEmbeddings(ctx, texts)
		if err != nil {
			return nil, err
		}
	}

	stored := make([]*database.StoredReview, len(batch))
	for i, review := range batch {
		language := review.Language
		if language == "" {
			language = string(translator.DetectLanguage(review.Text))
		}

		stored[i] = &database.StoredReview{
			ReviewDocument: models.ReviewDocument{
				HotelName:    review.HotelName,
				Text:         review.Text,
				Language:     language,
				Score:        review.Score,
				TravelerType: review.TravelerType,
			},
		}
		if embeddings != nil {
			stored[i].Embedding = embeddings[i]
		}
	}
	return stored, nil
}
