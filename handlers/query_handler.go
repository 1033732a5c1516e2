package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"hotel-review-graphrag/models"
	"hotel-review-graphrag/services"
)

// QueryHandler serves the natural language query surface: translation,
// end-to-end asking, structured filtering, aspect analytics and the schema
// the traversals run against.
type QueryHandler struct {
	translation services.TranslationService
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(translation services.TranslationService) *QueryHandler {
	return &QueryHandler{translation: translation}
}

// Ask handles POST /ask: translate the question, run it against the graph
// and synthesize an answer from the results.
func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeAppErrorResponse(w, err)
		return
	}

	response, err := h.translation.Ask(r.Context(), &req)
	if err != nil {
		writeAppErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, response)
}

// Translate handles POST /translate: return the generated Gremlin without
// executing it.
func (h *QueryHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req models.TranslateRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeAppErrorResponse(w, err)
		return
	}

	response, err := h.translation.Translate(r.Context(), req.Query, req.Limit)
	if err != nil {
		writeAppErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, response)
}

// FilterReviews handles POST /reviews/filter: query reviews through
// structured filters instead of free text.
func (h *QueryHandler) FilterReviews(w http.ResponseWriter, r *http.Request) {
	var req models.FilterRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeAppErrorResponse(w, err)
		return
	}

	response, err := h.translation.Filter(r.Context(), &req)
	if err != nil {
		writeAppErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, response)
}

// Analytics handles GET /analytics: aggregate aspect sentiment, optionally
// scoped to one hotel via the hotel_name query parameter.
func (h *QueryHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	hotelName := strings.TrimSpace(r.URL.Query().Get("hotel_name"))

	response, err := h.translation.Analytics(r.Context(), hotelName)
	if err != nil {
		writeAppErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, response)
}

// HotelAverages handles GET /analytics/hotels: rank hotels by their average
// review score.
func (h *QueryHandler) HotelAverages(w http.ResponseWriter, r *http.Request) {
	response, err := h.translation.HotelAverages(r.Context())
	if err != nil {
		writeAppErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, response)
}

// Distribution handles GET /analytics/{dimension}: count reviews along one
// dimension, such as languages, source platforms or accommodation types.
// The hotel_name query parameter scopes the counts to one hotel.
func (h *QueryHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	dimension := mux.Vars(r)["dimension"]
	hotelName := strings.TrimSpace(r.URL.Query().Get("hotel_name"))

	response, err := h.translation.Distribution(r.Context(), dimension, hotelName)
	if err != nil {
		writeAppErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, response)
}

// GetSchema handles GET /schema: describe the graph vocabulary clients can
// ask about.
func (h *QueryHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, h.translation.Schema())
}
