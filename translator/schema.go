package translator

import (
	"fmt"
	"strings"
)

// Vertex describes an entity type stored in the review graph.
type Vertex struct {
	Label       string
	Description string
	Properties  string
}

// Edge describes a directed relationship between two vertex labels.
type Edge struct {
	Label       string
	From        string
	To          string
	Description string
}

// Schema is the static description of the hotel review graph. It is built
// once at startup and shared read-only by every request.
type Schema struct {
	Vertices []Vertex
	Edges    []Edge

	promptBlock string
}

// NewSchema builds the hotel review domain schema and pre-renders the prompt
// block derived from it.
func NewSchema() (*Schema, error) {
	s := &Schema{
		Vertices: []Vertex{
			{Label: "Hotel", Description: "Hotel properties", Properties: "id, hotel_name, city, country, star_rating, address"},
			{Label: "Review", Description: "Guest reviews", Properties: "id, score, title, text, created_at, stay_date, verified"},
			{Label: "Reviewer", Description: "Review authors", Properties: "id, username, join_date, review_count, traveler_type"},
			{Label: "Analysis", Description: "Sentiment analysis of a review", Properties: "id, sentiment_score, confidence, aspect_score"},
			{Label: "Aspect", Description: "Service aspects such as cleanliness or service", Properties: "id, name, category"},
			{Label: "Language", Description: "Languages reviews are written in", Properties: "code, name"},
			{Label: "Source", Description: "Review platforms", Properties: "id, name, url"},
			{Label: "HotelGroup", Description: "Hotel chains", Properties: "id, name, headquarters"},
			{Label: "AccommodationType", Description: "Room types", Properties: "id, name, category, capacity"},
			{Label: "Location", Description: "Geographic areas", Properties: "id, name, type"},
			{Label: "Amenity", Description: "Hotel facilities", Properties: "id, name, category, is_free"},
		},
		Edges: []Edge{
			{Label: "OWNS", From: "HotelGroup", To: "Hotel", Description: "group owns hotel"},
			{Label: "HAS_REVIEW", From: "Hotel", To: "Review", Description: "hotel receives review"},
			{Label: "WROTE", From: "Reviewer", To: "Review", Description: "reviewer writes review"},
			{Label: "HAS_ANALYSIS", From: "Review", To: "Analysis", Description: "review has sentiment analysis"},
			{Label: "ANALYZES_ASPECT", From: "Analysis", To: "Aspect", Description: "analysis covers aspect"},
			{Label: "OFFERS", From: "Hotel", To: "AccommodationType", Description: "hotel offers room type"},
			{Label: "PROVIDES", From: "Hotel", To: "Amenity", Description: "hotel provides amenity"},
			{Label: "LOCATED_IN", From: "Hotel", To: "Location", Description: "hotel located in area"},
			{Label: "SOURCED_FROM", From: "Review", To: "Source", Description: "review comes from platform"},
			{Label: "WRITTEN_IN", From: "Review", To: "Language", Description: "review written in language"},
			{Label: "SUPPORTS_LANGUAGE", From: "Hotel", To: "Language", Description: "hotel supports language"},
			{Label: "REFERS_TO", From: "Review", To: "Location", Description: "review mentions location"},
			{Label: "MENTIONS", From: "Review", To: "Amenity", Description: "review mentions amenity"},
		},
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	s.promptBlock = s.renderPromptBlock()
	return s, nil
}

// validate checks that every edge references declared vertex labels. A schema
// that fails this check would let few-shot examples teach the generator
// traversals that cannot exist.
func (s *Schema) validate() error {
	labels := make(map[string]bool, len(s.Vertices))
	for _, v := range s.Vertices {
		labels[v.Label] = true
	}
	for _, e := range s.Edges {
		if !labels[e.From] {
			return fmt.Errorf("edge %s references undeclared source vertex %q", e.Label, e.From)
		}
		if !labels[e.To] {
			return fmt.Errorf("edge %s references undeclared target vertex %q", e.Label, e.To)
		}
	}
	return nil
}

// PromptBlock returns the schema section embedded in every generation prompt.
func (s *Schema) PromptBlock() string {
	return s.promptBlock
}

func (s *Schema) renderPromptBlock() string {
	var b strings.Builder
	b.WriteString("GRAPH SCHEMA - Hotel Review Domain:\n\nVERTICES (Nodes):\n")
	for _, v := range s.Vertices {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", v.Label, v.Description, v.Properties)
	}
	b.WriteString("\nEDGES (Relationships):\n")
	for _, e := range s.Edges {
		fmt.Fprintf(&b, "- %s: %s -> %s (%s)\n", e.Label, e.From, e.To, e.Description)
	}
	return b.String()
}

// HasEdge reports whether the schema declares an edge label.
func (s *Schema) HasEdge(label string) bool {
	for _, e := range s.Edges {
		if e.Label == label {
			return true
		}
	}
	return false
}

// HasVertex reports whether the schema declares a vertex label.
func (s *Schema) HasVertex(label string) bool {
	for _, v := range s.Vertices {
		if v.Label == label {
			return true
		}
	}
	return false
}
