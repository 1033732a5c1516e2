package handlers

import (
	"net/http"

	"hotel-review-graphrag/models"
	"hotel-review-graphrag/services"
)

// ReviewHandler serves the semantic retrieval surface: indexing review
// documents and finding reviews similar to a query. Retrieval is optional at
// deploy time, so a nil service answers 503 rather than failing at startup.
type ReviewHandler struct {
	retrieval services.RetrievalService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(retrieval services.RetrievalService) *ReviewHandler {
	return &ReviewHandler{retrieval: retrieval}
}

// IndexReview handles POST /reviews: store one review document with its
// embedding for later semantic retrieval.
func (h *ReviewHandler) IndexReview(w http.ResponseWriter, r *http.Request) {
	if h.retrieval == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable,
			"Review retrieval is not available", "database connection is not configured")
		return
	}

	var req models.IndexReviewRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeAppErrorResponse(w, err)
		return
	}

	response, err := h.retrieval.IndexReview(r.Context(), &req)
	if err != nil {
		writeAppErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, response)
}

// SimilarReviews handles POST /reviews/similar: return the reviews closest
// to the query text by embedding similarity.
func (h *ReviewHandler) SimilarReviews(w http.ResponseWriter, r *http.Request) {
	if h.retrieval == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable,
			"Review retrieval is not available", "database connection is not configured")
		return
	}

	var req models.SimilarReviewsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeAppErrorResponse(w, err)
		return
	}

	reviews, err := h.retrieval.FindSimilar(r.Context(), req.Query, req.TopK)
	if err != nil {
		writeAppErrorResponse(w, err)
		return
	}
	if reviews == nil {
		reviews = []models.ScoredReview{}
	}

	writeJSONResponse(w, http.StatusOK, models.SimilarReviewsResponse{
		Query:   req.Query,
		Reviews: reviews,
	})
}
