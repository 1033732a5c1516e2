package models

import "time"

// API Response structures

// TranslationResult is the translation metadata shared by ask and translate
// responses.
type TranslationResult struct {
	QueryText        string  `json:"query_text"`
	Explanation      string  `json:"explanation,omitempty"`
	Confidence       float64 `json:"confidence"`
	Source           string  `json:"source"`
	DetectedLanguage string  `json:"detected_language"`
}

// TranslateResponse returns the generated query without executing it.
type TranslateResponse struct {
	Question    string            `json:"question"`
	Translation TranslationResult `json:"translation"`
	DurationMS  int64             `json:"duration_ms"`
}

// AskResponse answers a natural language question end to end.
type AskResponse struct {
	Question    string            `json:"question"`
	Answer      string            `json:"answer,omitempty"`
	Translation TranslationResult `json:"translation"`
	GraphRows   []GraphRow        `json:"graph_rows,omitempty"`
	Reviews     []ScoredReview    `json:"reviews,omitempty"`
	DurationMS  int64             `json:"duration_ms"`
}

// GraphRow is one untyped result row from a Gremlin traversal. Property maps
// come back as map values keyed by property name.
type GraphRow map[string]interface{}

// FilterResponse returns structured filter results.
type FilterResponse struct {
	Rows       []GraphRow `json:"rows"`
	QueryText  string     `json:"query_text"`
	DurationMS int64      `json:"duration_ms"`
}

// ReviewDocument is one indexed review available for semantic retrieval.
type ReviewDocument struct {
	ID           string    `json:"id"`
	HotelName    string    `json:"hotel_name"`
	Text         string    `json:"text"`
	Language     string    `json:"language,omitempty"`
	Score        float64   `json:"score,omitempty"`
	TravelerType string    `json:"traveler_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ScoredReview pairs a review document with its similarity to the query.
type ScoredReview struct {
	Review     ReviewDocument `json:"review"`
	Similarity float64        `json:"similarity"`
}

// SimilarReviewsResponse returns semantic retrieval results.
type SimilarReviewsResponse struct {
	Query   string         `json:"query"`
	Reviews []ScoredReview `json:"reviews"`
}

// IndexReviewResponse acknowledges one indexed review.
type IndexReviewResponse struct {
	ID        string    `json:"id"`
	IndexedAt time.Time `json:"indexed_at"`
}

// AspectStat aggregates analysis scores for one review aspect.
type AspectStat struct {
	Aspect      string  `json:"aspect"`
	ReviewCount int     `json:"review_count"`
	AvgScore    float64 `json:"avg_score"`
}

// AnalyticsResponse summarizes aspect-level sentiment across the graph.
type AnalyticsResponse struct {
	HotelName string       `json:"hotel_name,omitempty"`
	Aspects   []AspectStat `json:"aspects"`
}

// HotelScore aggregates review scores for one hotel.
type HotelScore struct {
	HotelName   string  `json:"hotel_name"`
	ReviewCount int     `json:"review_count"`
	AvgScore    float64 `json:"avg_score"`
}

// HotelAveragesResponse ranks hotels by their average review score.
type HotelAveragesResponse struct {
	Hotels []HotelScore `json:"hotels"`
}

// DistributionBucket is one key in a review distribution.
type DistributionBucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// DistributionResponse breaks reviews down along one dimension, such as
// language or source platform.
type DistributionResponse struct {
	Dimension string               `json:"dimension"`
	HotelName string               `json:"hotel_name,omitempty"`
	Buckets   []DistributionBucket `json:"buckets"`
}

// SchemaResponse describes the graph vocabulary for clients.
type SchemaResponse struct {
	Vertices []SchemaVertex `json:"vertices"`
	Edges    []SchemaEdge   `json:"edges"`
}

// SchemaVertex is one vertex label with its properties.
type SchemaVertex struct {
	Label      string   `json:"label"`
	Properties []string `json:"properties,omitempty"`
}

// SchemaEdge is one directed edge label.
type SchemaEdge struct {
	Label string `json:"label"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// APIError represents standardized error response
type APIError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
