package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"hotel-review-graphrag/config"
	"hotel-review-graphrag/errors"
	"hotel-review-graphrag/models"
	"hotel-review-graphrag/translator"
)

// GraphExecutor submits Gremlin traversals. The websocket client satisfies it.
type GraphExecutor interface {
	Submit(ctx context.Context, query string) ([]interface{}, error)
}

// TranslationService is the question answering surface of the API: it
// translates natural language into Gremlin, executes it against the review
// graph and optionally synthesizes a natural language answer.
type TranslationService interface {
	Translate(ctx context.Context, question string, limit int) (*models.TranslateResponse, error)
	Ask(ctx context.Context, req *models.AskRequest) (*models.AskResponse, error)
	Filter(ctx context.Context, req *models.FilterRequest) (*models.FilterResponse, error)
	Analytics(ctx context.Context, hotelName string) (*models.AnalyticsResponse, error)
	Distribution(ctx context.Context, dimension, hotelName string) (*models.DistributionResponse, error)
	HotelAverages(ctx context.Context) (*models.HotelAveragesResponse, error)
	Schema() *models.SchemaResponse
	CacheStats() CacheStats
}

type translationService struct {
	translator *translator.Translator
	cache      TranslationCache
	graph      GraphExecutor
	generator  GenerationService
	retrieval  RetrievalService
	cfg        config.TranslatorConfig
	logger     Logger
	metrics    MetricsService
}

// NewTranslationService wires the translation pipeline to its collaborators.
// generator and retrieval may be nil; the respective stages are skipped.
func NewTranslationService(
	t *translator.Translator,
	cache TranslationCache,
	graph GraphExecutor,
	generator GenerationService,
	retrieval RetrievalService,
	cfg config.TranslatorConfig,
	logger Logger,
	metrics MetricsService,
) TranslationService {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	if cache == nil {
		cache = NewNoopTranslationCache()
	}
	return &translationService{
		translator: t,
		cache:      cache,
		graph:      graph,
		generator:  generator,
		retrieval:  retrieval,
		cfg:        cfg,
		logger:     logger.With(String("component", "translation_service")),
		metrics:    metrics,
	}
}

// Translate converts a question to Gremlin without executing it.
func (s *translationService) Translate(ctx context.Context, question string, limit int) (*models.TranslateResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errors.NewValidationError(
			errors.ErrCodeMissingField,
			"question is required",
			nil,
		)
	}

	start := time.Now()
	result, err := s.translateCached(ctx, question, limit)
	if err != nil {
		return nil, err
	}

	return &models.TranslateResponse{
		Question:    question,
		Translation: toTranslationResult(result),
		DurationMS:  time.Since(start).Milliseconds(),
	}, nil
}

// Ask answers a question end to end: translate, execute, retrieve similar
// reviews and synthesize an answer.
func (s *translationService) Ask(ctx context.Context, req *models.AskRequest) (*models.AskResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, errors.NewValidationError(
			errors.ErrCodeMissingField,
			"question is required",
			nil,
		)
	}

	start := time.Now()
	result, err := s.translateCached(ctx, req.Question, req.Limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.graph.Submit(ctx, result.QueryText)
	if err != nil {
		return nil, err
	}

	graphRows := toGraphRows(rows)

	var reviews []models.ScoredReview
	if req.IncludeReviews && s.retrieval != nil {
		reviews, err = s.retrieval.FindSimilar(ctx, req.Question, s.cfg.Answer.MaxReviewDocs)
		if err != nil {
			// Retrieval enriches the answer; its failure does not sink the
			// graph results we already have.
			s.logger.Warn("review retrieval failed",
				String("question", req.Question),
				String("error", err.Error()))
			reviews = nil
		}
	}

	answer := s.synthesizeAnswer(ctx, req.Question, result, graphRows, reviews)

	return &models.AskResponse{
		Question:    req.Question,
		Answer:      answer,
		Translation: toTranslationResult(result),
		GraphRows:   graphRows,
		Reviews:     reviews,
		DurationMS:  time.Since(start).Milliseconds(),
	}, nil
}

// Filter runs a structured review filter, bypassing translation entirely.
func (s *translationService) Filter(ctx context.Context, req *models.FilterRequest) (*models.FilterResponse, error) {
	query, err := buildFilterQuery(req, s.cfg.ClampLimit(req.Limit))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := s.graph.Submit(ctx, query)
	if err != nil {
		return nil, err
	}

	return &models.FilterResponse{
		Rows:       toGraphRows(rows),
		QueryText:  query,
		DurationMS: time.Since(start).Milliseconds(),
	}, nil
}

// Analytics aggregates sentiment per aspect, optionally scoped to one hotel.
func (s *translationService) Analytics(ctx context.Context, hotelName string) (*models.AnalyticsResponse, error) {
	base := "g.V().hasLabel('Hotel')"
	if hotelName != "" {
		base += fmt.Sprintf(".has('hotel_name', '%s')", escapeGremlinString(hotelName))
	}
	base += ".out('HAS_REVIEW').out('HAS_ANALYSIS')"

	avgQuery := base + ".group().by(__.out('ANALYZES_ASPECT').values('name')).by(__.values('sentiment_score').mean())"
	countQuery := base + ".groupCount().by(__.out('ANALYZES_ASPECT').values('name'))"

	avgRows, err := s.graph.Submit(ctx, avgQuery)
	if err != nil {
		return nil, err
	}
	countRows, err := s.graph.Submit(ctx, countQuery)
	if err != nil {
		return nil, err
	}

	averages := toAspectMap(avgRows)
	counts := toAspectMap(countRows)

	response := &models.AnalyticsResponse{HotelName: hotelName}
	for aspect, avg := range averages {
		stat := models.AspectStat{
			Aspect:   aspect,
			AvgScore: toFloat(avg),
		}
		if count, ok := counts[aspect]; ok {
			stat.ReviewCount = int(toFloat(count))
		}
		response.Aspects = append(response.Aspects, stat)
	}
	sort.Slice(response.Aspects, func(i, j int) bool {
		return response.Aspects[i].Aspect < response.Aspects[j].Aspect
	})

	return response, nil
}

// HotelAverages ranks hotels by their average review score.
func (s *translationService) HotelAverages(ctx context.Context) (*models.HotelAveragesResponse, error) {
	avgQuery := "g.V().hasLabel('Hotel').group().by(__.values('hotel_name')).by(__.out('HAS_REVIEW').values('score').mean())"
	countQuery := "g.V().hasLabel('Hotel').group().by(__.values('hotel_name')).by(__.out('HAS_REVIEW').count())"

	avgRows, err := s.graph.Submit(ctx, avgQuery)
	if err != nil {
		return nil, err
	}
	countRows, err := s.graph.Submit(ctx, countQuery)
	if err != nil {
		return nil, err
	}

	averages := toAspectMap(avgRows)
	counts := toAspectMap(countRows)

	response := &models.HotelAveragesResponse{}
	for hotel, avg := range averages {
		score := models.HotelScore{
			HotelName: hotel,
			AvgScore:  toFloat(avg),
		}
		if count, ok := counts[hotel]; ok {
			score.ReviewCount = int(toFloat(count))
		}
		response.Hotels = append(response.Hotels, score)
	}
	sort.Slice(response.Hotels, func(i, j int) bool {
		if response.Hotels[i].AvgScore != response.Hotels[j].AvgScore {
			return response.Hotels[i].AvgScore > response.Hotels[j].AvgScore
		}
		return response.Hotels[i].HotelName < response.Hotels[j].HotelName
	})

	return response, nil
}

// distributionDimensions maps a distribution dimension to its aggregation
// tail. Review-scoped dimensions count Review vertices; the rest aggregate
// directly off Hotel vertices.
var distributionDimensions = map[string]struct {
	reviewScoped bool
	aggregate    string
}{
	"languages":     {reviewScoped: true, aggregate: ".groupCount().by(__.out('WRITTEN_IN').values('code'))"},
	"sources":       {reviewScoped: true, aggregate: ".groupCount().by(__.out('SOURCED_FROM').values('name'))"},
	"accommodation": {reviewScoped: false, aggregate: ".out('OFFERS').groupCount().by(__.values('name'))"},
}

// buildDistributionQuery renders the aggregation traversal for one dimension,
// optionally scoped to a single hotel.
func buildDistributionQuery(dimension, hotelName string) (string, error) {
	spec, ok := distributionDimensions[dimension]
	if !ok {
		return "", errors.NewValidationError(
			errors.ErrCodeInvalidInput,
			fmt.Sprintf("unknown distribution dimension %q", dimension),
			nil,
		)
	}

	var b strings.Builder
	if hotelName != "" || !spec.reviewScoped {
		b.WriteString("g.V().hasLabel('Hotel')")
		if hotelName != "" {
			fmt.Fprintf(&b, ".has('hotel_name', '%s')", escapeGremlinString(hotelName))
		}
		if spec.reviewScoped {
			b.WriteString(".out('HAS_REVIEW')")
		}
	} else {
		b.WriteString("g.V().hasLabel('Review')")
	}
	b.WriteString(spec.aggregate)
	return b.String(), nil
}

// Distribution counts reviews along one dimension: languages, source
// platforms or offered accommodation types. An optional hotel name scopes
// the counts to that hotel.
func (s *translationService) Distribution(ctx context.Context, dimension, hotelName string) (*models.DistributionResponse, error) {
	query, err := buildDistributionQuery(dimension, hotelName)
	if err != nil {
		return nil, err
	}

	rows, err := s.graph.Submit(ctx, query)
	if err != nil {
		return nil, err
	}

	response := &models.DistributionResponse{Dimension: dimension, HotelName: hotelName}
	for key, count := range toAspectMap(rows) {
		response.Buckets = append(response.Buckets, models.DistributionBucket{
			Key:   key,
			Count: int(toFloat(count)),
		})
	}
	sort.Slice(response.Buckets, func(i, j int) bool {
		if response.Buckets[i].Count != response.Buckets[j].Count {
			return response.Buckets[i].Count > response.Buckets[j].Count
		}
		return response.Buckets[i].Key < response.Buckets[j].Key
	})

	return response, nil
}

// Schema describes the graph vocabulary for clients.
func (s *translationService) Schema() *models.SchemaResponse {
	schema := s.translator.Schema()

	response := &models.SchemaResponse{}
	for _, v := range schema.Vertices {
		response.Vertices = append(response.Vertices, models.SchemaVertex{
			Label:      v.Label,
			Properties: strings.Split(v.Properties, ", "),
		})
	}
	for _, e := range schema.Edges {
		response.Edges = append(response.Edges, models.SchemaEdge{
			Label: e.Label,
			From:  e.From,
			To:    e.To,
		})
	}
	return response
}

// CacheStats exposes translation cache statistics.
func (s *translationService) CacheStats() CacheStats {
	return s.cache.GetStats()
}

// translateCached runs translation through the memoization layer. With the
// fallback disabled by configuration, generation failures surface as errors
// instead of degrading to the deterministic patterns.
func (s *translationService) translateCached(ctx context.Context, question string, limit int) (translator.Result, error) {
	limit = s.cfg.ClampLimit(limit)

	if result, ok := s.cache.Get(question, limit); ok {
		if s.metrics != nil {
			s.metrics.IncrementCounter("translation.cache.hits", nil)
		}
		return result, nil
	}

	var result translator.Result
	if s.cfg.FallbackEnabled {
		result = s.translator.Translate(ctx, question, limit)
	} else {
		var err error
		result, err = s.translator.TranslateStrict(ctx, question, limit)
		if err != nil {
			return translator.Result{}, errors.NewExternalServiceError(
				errors.ErrCodeLLMServiceFailed,
				"query generation failed and fallback is disabled",
				err,
			)
		}
	}

	s.cache.Set(question, limit, result)
	return result, nil
}

// synthesizeAnswer asks the generator to phrase graph results as prose.
// Any failure leaves the answer empty; the structured results still go out.
func (s *translationService) synthesizeAnswer(ctx context.Context, question string, result translator.Result, rows []models.GraphRow, reviews []models.ScoredReview) string {
	if !s.cfg.Answer.Enabled || s.generator == nil {
		return ""
	}
	if len(rows) == 0 && len(reviews) == 0 {
		return ""
	}

	prompt := s.composeAnswerPrompt(question, result, rows, reviews)
	answer, err := s.generator.GenerateAnswer(ctx, prompt)
	if err != nil {
		s.logger.Warn("answer synthesis failed",
			String("question", question),
			String("error", err.Error()))
		return ""
	}
	return strings.TrimSpace(answer)
}

func (s *translationService) composeAnswerPrompt(question string, result translator.Result, rows []models.GraphRow, reviews []models.ScoredReview) string {
	var b strings.Builder

	b.WriteString("You are a hotel review assistant. Answer the user's question using ONLY the data below.\n")
	if result.Language == translator.LanguageTurkish {
		b.WriteString("Answer in Turkish.\n")
	} else {
		b.WriteString("Answer in English.\n")
	}
	b.WriteString("Be concise. If the data does not answer the question, say so.\n\n")

	fmt.Fprintf(&b, "Question: %s\n\n", question)

	if len(rows) > 0 {
		capped := rows
		if max := s.cfg.Answer.MaxGraphRows; max > 0 && len(capped) > max {
			capped = capped[:max]
		}
		b.WriteString("Graph query results:\n")
		for _, row := range capped {
			data, err := json.Marshal(row)
			if err != nil {
				continue
			}
			b.Write(data)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(reviews) > 0 {
		b.WriteString("Relevant review excerpts:\n")
		for _, review := range reviews {
			fmt.Fprintf(&b, "- [%s] %s\n", review.Review.HotelName, review.Review.Text)
		}
		b.WriteString("\n")
	}

	b.WriteString("Answer:")
	return b.String()
}

// buildFilterQuery renders a structured filter as a Gremlin traversal rooted
// at Review vertices.
func buildFilterQuery(req *models.FilterRequest, limit int) (string, error) {
	if req.MinScore != nil && req.MaxScore != nil && *req.MinScore > *req.MaxScore {
		return "", errors.NewValidationError(
			errors.ErrCodeInvalidRange,
			"min_score cannot exceed max_score",
			nil,
		)
	}

	var b strings.Builder
	b.WriteString("g.V().hasLabel('Hotel')")
	if req.HotelName != "" {
		fmt.Fprintf(&b, ".has('hotel_name', '%s')", escapeGremlinString(req.HotelName))
	}
	b.WriteString(".out('HAS_REVIEW')")

	if req.MinScore != nil {
		fmt.Fprintf(&b, ".has('score', gte(%g))", *req.MinScore)
	}
	if req.MaxScore != nil {
		fmt.Fprintf(&b, ".has('score', lte(%g))", *req.MaxScore)
	}
	if req.TravelerType != "" {
		fmt.Fprintf(&b, ".where(__.in('WROTE').has('traveler_type', '%s'))", escapeGremlinString(req.TravelerType))
	}
	if req.Language != "" {
		fmt.Fprintf(&b, ".where(__.out('WRITTEN_IN').has('code', '%s'))", escapeGremlinString(req.Language))
	}
	if req.Aspect != "" {
		fmt.Fprintf(&b, ".where(__.out('HAS_ANALYSIS').out('ANALYZES_ASPECT').has('name', '%s'))", escapeGremlinString(req.Aspect))
	}

	fmt.Fprintf(&b, ".valueMap(true).limit(%d)", limit)
	return b.String(), nil
}

// escapeGremlinString escapes user input embedded in string literals.
func escapeGremlinString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}

func toTranslationResult(result translator.Result) models.TranslationResult {
	return models.TranslationResult{
		QueryText:        result.QueryText,
		Explanation:      result.Explanation,
		Confidence:       result.Confidence,
		Source:           string(result.Source),
		DetectedLanguage: string(result.Language),
	}
}

// toGraphRows converts untyped Gremlin result data into response rows.
// valueMap results come back as maps; scalars get wrapped.
func toGraphRows(rows []interface{}) []models.GraphRow {
	if len(rows) == 0 {
		return nil
	}

	converted := make([]models.GraphRow, 0, len(rows))
	for _, row := range rows {
		switch v := row.(type) {
		case map[string]interface{}:
			converted = append(converted, models.GraphRow(v))
		default:
			converted = append(converted, models.GraphRow{"value": v})
		}
	}
	return converted
}

// toAspectMap flattens a Gremlin group() result into a string-keyed map.
func toAspectMap(rows []interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for _, row := range rows {
		if m, ok := row.(map[string]interface{}); ok {
			for k, v := range m {
				result[k] = v
			}
		}
	}
	return result
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}
