package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-review-graphrag/config"
)

func embeddingTestConfig(endpoint string) *config.EmbeddingConfig {
	return &config.EmbeddingConfig{
		APIKey:   "hf-test-key",
		Endpoint: endpoint,
		Model:    "sentence-transformers/all-MiniLM-L6-v2",
		Timeout:  5 * time.Second,
	}
}

func TestEmbeddingService_GenerateEmbedding(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody embeddingRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode([][]float64{{0.1, 0.2, 0.3}})
	}))
	defer server.Close()

	service := NewEmbeddingService(embeddingTestConfig(server.URL))

	embedding, err := service.GenerateEmbedding(context.Background(), "breakfast was great")
	require.NoError(t, err)

	assert.Equal(t, []float64{0.1, 0.2, 0.3}, embedding)
	assert.Equal(t, "/models/sentence-transformers/all-MiniLM-L6-v2", gotPath)
	assert.Equal(t, "Bearer hf-test-key", gotAuth)
	assert.Equal(t, []string{"breakfast was great"}, gotBody.Inputs)
}

func TestEmbeddingService_GenerateBatchEmbeddings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([][]float64{{1, 0}, {0, 1}})
	}))
	defer server.Close()

	service := NewEmbeddingService(embeddingTestConfig(server.URL))

	embeddings, err := service.GenerateBatchEmbeddings(context.Background(),
		[]string{"first review", "second review"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float64{1, 0}, embeddings[0])
	assert.Equal(t, []float64{0, 1}, embeddings[1])
}

func TestEmbeddingService_EmptyInput(t *testing.T) {
	service := NewEmbeddingService(embeddingTestConfig("http://unused"))

	embeddings, err := service.GenerateBatchEmbeddings(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, embeddings)
}

func TestEmbeddingService_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// One vector for two inputs.
		json.NewEncoder(w).Encode([][]float64{{1, 0}})
	}))
	defer server.Close()

	service := NewEmbeddingService(embeddingTestConfig(server.URL))

	_, err := service.GenerateBatchEmbeddings(context.Background(), []string{"a review", "another"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 embeddings")
}

func TestEmbeddingService_ModelLoadingIsRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error": "Model is currently loading"}`))
			return
		}
		json.NewEncoder(w).Encode([][]float64{{0.5, 0.5}})
	}))
	defer server.Close()

	service := NewEmbeddingService(embeddingTestConfig(server.URL))

	embedding, err := service.GenerateEmbedding(context.Background(), "a review")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, embedding)
	assert.Equal(t, 2, calls)
}
