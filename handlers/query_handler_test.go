package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-review-graphrag/errors"
	"hotel-review-graphrag/models"
	"hotel-review-graphrag/services"
)

// stubTranslationService records calls and returns canned responses.
type stubTranslationService struct {
	translateResp    *models.TranslateResponse
	askResp          *models.AskResponse
	filterResp       *models.FilterResponse
	analyticsResp    *models.AnalyticsResponse
	distributionResp *models.DistributionResponse
	hotelAvgResp     *models.HotelAveragesResponse
	schemaResp       *models.SchemaResponse
	err              error

	gotQuestion  string
	gotLimit     int
	gotAsk       *models.AskRequest
	gotFilter    *models.FilterRequest
	gotHotelName string
	gotDimension string
}

func (s *stubTranslationService) Translate(ctx context.Context, question string, limit int) (*models.TranslateResponse, error) {
	s.gotQuestion = question
	s.gotLimit = limit
	return s.translateResp, s.err
}

func (s *stubTranslationService) Ask(ctx context.Context, req *models.AskRequest) (*models.AskResponse, error) {
	s.gotAsk = req
	return s.askResp, s.err
}

func (s *stubTranslationService) Filter(ctx context.Context, req *models.FilterRequest) (*models.FilterResponse, error) {
	s.gotFilter = req
	return s.filterResp, s.err
}

func (s *stubTranslationService) Analytics(ctx context.Context, hotelName string) (*models.AnalyticsResponse, error) {
	s.gotHotelName = hotelName
	return s.analyticsResp, s.err
}

func (s *stubTranslationService) HotelAverages(ctx context.Context) (*models.HotelAveragesResponse, error) {
	return s.hotelAvgResp, s.err
}

func (s *stubTranslationService) Distribution(ctx context.Context, dimension, hotelName string) (*models.DistributionResponse, error) {
	s.gotDimension = dimension
	s.gotHotelName = hotelName
	return s.distributionResp, s.err
}

func (s *stubTranslationService) Schema() *models.SchemaResponse {
	return s.schemaResp
}

func (s *stubTranslationService) CacheStats() services.CacheStats {
	return services.CacheStats{}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	handler(recorder, req)
	return recorder
}

func TestQueryHandler_Ask(t *testing.T) {
	service := &stubTranslationService{
		askResp: &models.AskResponse{
			Question: "Which hotels have the best breakfast reviews?",
			Answer:   "Grand Palace leads on breakfast sentiment.",
			Translation: models.TranslationResult{
				QueryText: "g.V().hasLabel('Hotel').valueMap(true).limit(10)",
				Source:    "llm",
			},
		},
	}
	handler := NewQueryHandler(service)

	recorder := postJSON(t, handler.Ask, models.AskRequest{
		Question:       "Which hotels have the best breakfast reviews?",
		IncludeReviews: true,
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var response models.AskResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "Grand Palace leads on breakfast sentiment.", response.Answer)

	require.NotNil(t, service.gotAsk)
	assert.True(t, service.gotAsk.IncludeReviews)
}

func TestQueryHandler_Ask_InvalidJSON(t *testing.T) {
	handler := NewQueryHandler(&stubTranslationService{})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	recorder := httptest.NewRecorder()
	handler.Ask(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiErr))
	assert.Equal(t, errors.ErrCodeInvalidFormat, apiErr.Code)
}

func TestQueryHandler_Ask_ServiceError(t *testing.T) {
	service := &stubTranslationService{
		err: errors.NewExternalServiceError(errors.ErrCodeGremlinConnection, "graph unreachable", nil),
	}
	handler := NewQueryHandler(service)

	recorder := postJSON(t, handler.Ask, models.AskRequest{Question: "anything"})

	assert.Equal(t, http.StatusBadGateway, recorder.Code)

	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiErr))
	assert.Equal(t, errors.ErrCodeGremlinConnection, apiErr.Code)
}

func TestQueryHandler_Translate(t *testing.T) {
	service := &stubTranslationService{
		translateResp: &models.TranslateResponse{
			Question: "Show hotels",
			Translation: models.TranslationResult{
				QueryText:        "g.V().hasLabel('Hotel').valueMap(true).limit(5)",
				Source:           "fallback",
				DetectedLanguage: "en",
			},
		},
	}
	handler := NewQueryHandler(service)

	recorder := postJSON(t, handler.Translate, models.TranslateRequest{Query: "Show hotels", Limit: 5})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Show hotels", service.gotQuestion)
	assert.Equal(t, 5, service.gotLimit)

	var response models.TranslateResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Contains(t, response.Translation.QueryText, "limit(5)")
}

func TestQueryHandler_Translate_ValidationError(t *testing.T) {
	service := &stubTranslationService{
		err: errors.NewValidationError(errors.ErrCodeMissingField, "question is required", nil),
	}
	handler := NewQueryHandler(service)

	recorder := postJSON(t, handler.Translate, models.TranslateRequest{Query: "   "})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestQueryHandler_FilterReviews(t *testing.T) {
	service := &stubTranslationService{
		filterResp: &models.FilterResponse{
			Rows:      []models.GraphRow{{"score": 2.0}},
			QueryText: "g.V().hasLabel('Hotel').out('HAS_REVIEW').has('score', lte(3)).valueMap(true).limit(10)",
		},
	}
	handler := NewQueryHandler(service)

	maxScore := 3.0
	recorder := postJSON(t, handler.FilterReviews, models.FilterRequest{MaxScore: &maxScore})

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, service.gotFilter)
	require.NotNil(t, service.gotFilter.MaxScore)
	assert.Equal(t, 3.0, *service.gotFilter.MaxScore)

	var response models.FilterResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response.Rows, 1)
}

func TestQueryHandler_Analytics(t *testing.T) {
	service := &stubTranslationService{
		analyticsResp: &models.AnalyticsResponse{
			HotelName: "Grand Palace",
			Aspects: []models.AspectStat{
				{Aspect: "cleanliness", ReviewCount: 12, AvgScore: 0.4},
			},
		},
	}
	handler := NewQueryHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/analytics?hotel_name=Grand+Palace", nil)
	recorder := httptest.NewRecorder()
	handler.Analytics(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Grand Palace", service.gotHotelName)

	var response models.AnalyticsResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response.Aspects, 1)
	assert.Equal(t, "cleanliness", response.Aspects[0].Aspect)
}

func TestQueryHandler_HotelAverages(t *testing.T) {
	service := &stubTranslationService{
		hotelAvgResp: &models.HotelAveragesResponse{
			Hotels: []models.HotelScore{
				{HotelName: "Grand Palace", ReviewCount: 42, AvgScore: 4.6},
			},
		},
	}
	handler := NewQueryHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/analytics/hotels", nil)
	recorder := httptest.NewRecorder()
	handler.HotelAverages(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response models.HotelAveragesResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response.Hotels, 1)
	assert.Equal(t, "Grand Palace", response.Hotels[0].HotelName)
}

func TestQueryHandler_Distribution(t *testing.T) {
	service := &stubTranslationService{
		distributionResp: &models.DistributionResponse{
			Dimension: "languages",
			Buckets: []models.DistributionBucket{
				{Key: "en", Count: 120},
				{Key: "tr", Count: 45},
			},
		},
	}
	handler := NewQueryHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/analytics/languages", nil)
	req = mux.SetURLVars(req, map[string]string{"dimension": "languages"})
	recorder := httptest.NewRecorder()
	handler.Distribution(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "languages", service.gotDimension)

	var response models.DistributionResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response.Buckets, 2)
	assert.Equal(t, "en", response.Buckets[0].Key)
}

func TestQueryHandler_Distribution_ScopedToHotel(t *testing.T) {
	service := &stubTranslationService{
		distributionResp: &models.DistributionResponse{
			Dimension: "accommodation",
			HotelName: "Grand Palace",
			Buckets:   []models.DistributionBucket{{Key: "suite", Count: 3}},
		},
	}
	handler := NewQueryHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/analytics/accommodation?hotel_name=Grand+Palace", nil)
	req = mux.SetURLVars(req, map[string]string{"dimension": "accommodation"})
	recorder := httptest.NewRecorder()
	handler.Distribution(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "accommodation", service.gotDimension)
	assert.Equal(t, "Grand Palace", service.gotHotelName)
}

func TestQueryHandler_GetSchema(t *testing.T) {
	service := &stubTranslationService{
		schemaResp: &models.SchemaResponse{
			Vertices: []models.SchemaVertex{{Label: "Hotel", Properties: []string{"hotel_name"}}},
			Edges:    []models.SchemaEdge{{Label: "HAS_REVIEW", From: "Hotel", To: "Review"}},
		},
	}
	handler := NewQueryHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/schema", nil)
	recorder := httptest.NewRecorder()
	handler.GetSchema(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response models.SchemaResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response.Vertices, 1)
	assert.Equal(t, "Hotel", response.Vertices[0].Label)
}
