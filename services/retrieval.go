package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"hotel-review-graphrag/config"
	"hotel-review-graphrag/database"
	"hotel-review-graphrag/errors"
	"hotel-review-graphrag/models"
	"hotel-review-graphrag/translator"
)

// scanCap bounds how many embedded reviews one similarity query scores.
const scanCap = 2000

// ReviewStore is the persistence surface the retrieval service needs.
// *database.ReviewRepository satisfies it.
type ReviewStore interface {
	Insert(ctx context.Context, review *database.StoredReview) error
	ListEmbedded(ctx context.Context, limit int) ([]*database.StoredReview, error)
	Count(ctx context.Context) (int, error)
}

// RetrievalService indexes review documents and retrieves the ones most
// similar to a query.
type RetrievalService interface {
	IndexReview(ctx context.Context, req *models.IndexReviewRequest) (*models.IndexReviewResponse, error)
	FindSimilar(ctx context.Context, query string, topK int) ([]models.ScoredReview, error)
}

// reviewRetrievalService scores stored embeddings against the query vector
// in memory. Fine at the corpus sizes this service sees; a vector index
// takes over if that stops being true.
type reviewRetrievalService struct {
	store    ReviewStore
	embedder EmbeddingService
	cfg      config.RagConfig
	logger   Logger
	metrics  MetricsService
}

// NewRetrievalService creates the review retrieval service.
func NewRetrievalService(store ReviewStore, embedder EmbeddingService, cfg config.RagConfig, logger Logger, metrics MetricsService) RetrievalService {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &reviewRetrievalService{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		logger:   logger.With(String("component", "retrieval_service")),
		metrics:  metrics,
	}
}

// IndexReview embeds and stores one review document. When the embedding API
// is unavailable the review is stored without a vector and stays invisible
// to similarity search until reindexed.
func (s *reviewRetrievalService) IndexReview(ctx context.Context, req *models.IndexReviewRequest) (*models.IndexReviewResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.NewValidationError(
			errors.ErrCodeMissingField,
			"review text is required",
			nil,
		)
	}
	if strings.TrimSpace(req.HotelName) == "" {
		return nil, errors.NewValidationError(
			errors.ErrCodeMissingField,
			"hotel_name is required",
			nil,
		)
	}

	language := req.Language
	if language == "" {
		language = string(translator.DetectLanguage(req.Text))
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, req.Text)
	if err != nil {
		s.logger.Warn("indexing review without embedding",
			String("hotel", req.HotelName),
			String("error", err.Error()))
		embedding = nil
	}

	review := &database.StoredReview{
		ReviewDocument: models.ReviewDocument{
			HotelName:    req.HotelName,
			Text:         req.Text,
			Language:     language,
			Score:        req.Score,
			TravelerType: req.TravelerType,
			CreatedAt:    time.Now(),
		},
		Embedding: embedding,
	}

	if err := s.store.Insert(ctx, review); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementCounter("reviews.indexed.total", map[string]string{
			"embedded": boolTag(len(embedding) > 0),
		})
	}

	return &models.IndexReviewResponse{
		ID:        review.ID,
		IndexedAt: review.CreatedAt,
	}, nil
}

// FindSimilar returns the topK stored reviews most similar to the query,
// filtered by the configured similarity threshold.
func (s *reviewRetrievalService) FindSimilar(ctx context.Context, query string, topK int) ([]models.ScoredReview, error) {
	if !s.cfg.Enabled {
		return nil, nil
	}
	if strings.TrimSpace(query) == "" {
		return nil, errors.NewValidationError(
			errors.ErrCodeMissingField,
			"query is required",
			nil,
		)
	}
	if topK <= 0 {
		topK = s.cfg.TopK
	}

	start := time.Now()

	queryVector, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates, err := s.store.ListEmbedded(ctx, scanCap)
	if err != nil {
		return nil, err
	}

	scored := make([]models.ScoredReview, 0, len(candidates))
	for _, candidate := range candidates {
		similarity := CosineSimilarity(queryVector, candidate.Embedding)
		if similarity < s.cfg.SimilarityThreshold {
			continue
		}
		scored = append(scored, models.ScoredReview{
			Review:     candidate.ReviewDocument,
			Similarity: similarity,
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	if s.metrics != nil {
		s.metrics.RecordDuration("retrieval.duration", time.Since(start), map[string]string{
			"results": boolTag(len(scored) > 0),
		})
	}

	return scored, nil
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
