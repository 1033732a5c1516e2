package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"

	"hotel-review-graphrag/config"
	"hotel-review-graphrag/errors"
)

// EmbeddingService generates vector embeddings for review text and queries.
type EmbeddingService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
	GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float64, error)
}

// embeddingService calls the Hugging Face feature-extraction API.
type embeddingService struct {
	apiKey     string
	endpoint   string
	model      string
	httpClient *http.Client
}

// NewEmbeddingService creates a new embedding service instance
func NewEmbeddingService(cfg *config.EmbeddingConfig) EmbeddingService {
	return &embeddingService{
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// embeddingRequest is the feature-extraction request body. The API returns
// one vector per input.
type embeddingRequest struct {
	Inputs []string `json:"inputs"`
}

// GenerateEmbedding generates vector embedding for a single text
func (s *embeddingService) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	embeddings, err := s.GenerateBatchEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	if len(embeddings) == 0 {
		return nil, errors.NewExternalServiceError(
			errors.ErrCodeEmbeddingServiceFailed,
			"no embedding returned for text",
			nil,
		)
	}

	return embeddings[0], nil
}

// GenerateBatchEmbeddings generates vector embeddings for multiple texts
func (s *embeddingService) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	embeddings, err := errors.ExecuteWithResult(ctx, errors.DefaultRetryConfig(), func() ([][]float64, error) {
		return s.makeRequest(ctx, embeddingRequest{Inputs: texts})
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrTypeExternal,
			errors.ErrCodeEmbeddingServiceFailed, "Failed to generate embeddings")
	}

	if len(embeddings) != len(texts) {
		return nil, errors.NewExternalServiceError(
			errors.ErrCodeEmbeddingServiceFailed,
			fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(embeddings)),
			nil,
		)
	}

	return embeddings, nil
}

// makeRequest performs one HTTP request to the feature-extraction endpoint
func (s *embeddingService) makeRequest(ctx context.Context, request embeddingRequest) ([][]float64, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, errors.NewInternalError(
			errors.ErrCodeSerializationError,
			"Failed to marshal embedding request",
			err,
		)
	}

	url := fmt.Sprintf("%s/models/%s", s.endpoint, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, errors.NewInternalError(
			errors.ErrCodeProcessingError,
			"Failed to create embedding request",
			err,
		)
	}

	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError(
			errors.ErrCodeNetworkConnection,
			"Embedding API request failed",
			err,
		)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError(
			errors.ErrCodeNetworkConnection,
			"Failed to read embedding API response",
			err,
		)
	}

	switch {
	case resp.StatusCode == 429:
		return nil, errors.NewRateLimitError(
			"EMBEDDING_RATE_LIMIT",
			"Embedding API rate limit exceeded",
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, respBody),
		)
	case resp.StatusCode == 503:
		// Model is loading; the API asks clients to retry.
		return nil, errors.NewExternalServiceError(
			errors.ErrCodeEmbeddingServiceFailed,
			"Embedding model is loading",
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, respBody),
		)
	case resp.StatusCode >= 400:
		return nil, errors.NewExternalServiceError(
			errors.ErrCodeEmbeddingServiceFailed,
			"Embedding API returned an error",
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, respBody),
		)
	}

	var embeddings [][]float64
	if err := json.Unmarshal(respBody, &embeddings); err != nil {
		return nil, errors.NewInternalError(
			errors.ErrCodeSerializationError,
			"Failed to unmarshal embedding API response",
			err,
		)
	}

	return embeddings, nil
}

// CosineSimilarity computes similarity between two vectors. Returns 0 for
// mismatched or zero-length vectors.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
