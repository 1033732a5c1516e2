package models

// API Request structures

// AskRequest asks a natural language question about the review graph.
type AskRequest struct {
	Question string `json:"question"`
	// Limit bounds graph results. Zero means the configured default.
	Limit int `json:"limit,omitempty"`
	// IncludeReviews controls whether semantically similar review text is
	// retrieved and blended into the answer.
	IncludeReviews bool `json:"include_reviews,omitempty"`
}

// TranslateRequest converts a natural language question to Gremlin without
// executing it.
type TranslateRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// FilterRequest queries reviews through structured filters instead of free
// text.
type FilterRequest struct {
	HotelName    string   `json:"hotel_name,omitempty"`
	Aspect       string   `json:"aspect,omitempty"`
	Language     string   `json:"language,omitempty"`
	TravelerType string   `json:"traveler_type,omitempty"`
	MinScore     *float64 `json:"min_score,omitempty"`
	MaxScore     *float64 `json:"max_score,omitempty"`
	Limit        int      `json:"limit,omitempty"`
}

// SimilarReviewsRequest retrieves reviews semantically similar to the query
// text.
type SimilarReviewsRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// IndexReviewRequest stores one review document for semantic retrieval.
type IndexReviewRequest struct {
	HotelName    string  `json:"hotel_name"`
	Text         string  `json:"text"`
	Language     string  `json:"language,omitempty"`
	Score        float64 `json:"score,omitempty"`
	TravelerType string  `json:"traveler_type,omitempty"`
}
