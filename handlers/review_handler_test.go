package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-review-graphrag/errors"
	"hotel-review-graphrag/models"
)

type stubRetrievalService struct {
	indexResp *models.IndexReviewResponse
	reviews   []models.ScoredReview
	err       error

	gotIndex *models.IndexReviewRequest
	gotQuery string
	gotTopK  int
}

func (s *stubRetrievalService) IndexReview(ctx context.Context, req *models.IndexReviewRequest) (*models.IndexReviewResponse, error) {
	s.gotIndex = req
	return s.indexResp, s.err
}

func (s *stubRetrievalService) FindSimilar(ctx context.Context, query string, topK int) ([]models.ScoredReview, error) {
	s.gotQuery = query
	s.gotTopK = topK
	return s.reviews, s.err
}

func TestReviewHandler_IndexReview(t *testing.T) {
	service := &stubRetrievalService{
		indexResp: &models.IndexReviewResponse{ID: "review-1", IndexedAt: time.Now()},
	}
	handler := NewReviewHandler(service)

	recorder := postJSON(t, handler.IndexReview, models.IndexReviewRequest{
		HotelName: "Grand Palace",
		Text:      "Breakfast buffet was exceptional and the staff were attentive.",
		Score:     4.5,
	})

	assert.Equal(t, http.StatusCreated, recorder.Code)

	var response models.IndexReviewResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "review-1", response.ID)

	require.NotNil(t, service.gotIndex)
	assert.Equal(t, "Grand Palace", service.gotIndex.HotelName)
}

func TestReviewHandler_IndexReview_ValidationError(t *testing.T) {
	service := &stubRetrievalService{
		err: errors.NewValidationError(errors.ErrCodeMissingField, "text is required", nil),
	}
	handler := NewReviewHandler(service)

	recorder := postJSON(t, handler.IndexReview, models.IndexReviewRequest{HotelName: "Grand Palace"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiErr))
	assert.Equal(t, errors.ErrCodeMissingField, apiErr.Code)
}

func TestReviewHandler_IndexReview_Unavailable(t *testing.T) {
	handler := NewReviewHandler(nil)

	recorder := postJSON(t, handler.IndexReview, models.IndexReviewRequest{
		HotelName: "Grand Palace",
		Text:      "a review",
	})

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestReviewHandler_SimilarReviews(t *testing.T) {
	service := &stubRetrievalService{
		reviews: []models.ScoredReview{
			{
				Review:     models.ReviewDocument{ID: "r1", HotelName: "Grand Palace", Text: "Breakfast was great."},
				Similarity: 0.92,
			},
		},
	}
	handler := NewReviewHandler(service)

	recorder := postJSON(t, handler.SimilarReviews, models.SimilarReviewsRequest{
		Query: "how is the breakfast",
		TopK:  3,
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "how is the breakfast", service.gotQuery)
	assert.Equal(t, 3, service.gotTopK)

	var response models.SimilarReviewsResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response.Reviews, 1)
	assert.Equal(t, "r1", response.Reviews[0].Review.ID)
	assert.InDelta(t, 0.92, response.Reviews[0].Similarity, 1e-9)
}

func TestReviewHandler_SimilarReviews_EmptyResultIsNotNull(t *testing.T) {
	handler := NewReviewHandler(&stubRetrievalService{})

	recorder := postJSON(t, handler.SimilarReviews, models.SimilarReviewsRequest{Query: "quiet rooms"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"reviews":[]`)
}

func TestReviewHandler_SimilarReviews_Unavailable(t *testing.T) {
	handler := NewReviewHandler(nil)

	recorder := postJSON(t, handler.SimilarReviews, models.SimilarReviewsRequest{Query: "anything"})

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}
