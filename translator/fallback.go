package translator

import "fmt"

// FallbackPattern maps a recognized intent directly to a parameterized query
// template without involving the generator. Patterns are tried in order and
// the first match wins.
type FallbackPattern struct {
	Name     string
	Language Language
	Matches  func(text string) bool
	// Template renders the query for the matched intent. The limit is always
	// the request's effective result limit.
	Template func(text string, limit int) string
}

// FallbackGenerator produces deterministic queries when the generative path
// is unavailable or unusable. Total by construction: every per-language
// pattern list ends with a catch-all that matches any input.
type FallbackGenerator struct {
	patterns map[Language][]FallbackPattern
}

// NewFallbackGenerator builds the ordered per-language pattern lists. The
// intent predicates carry both English and Turkish keywords, so the two lists
// share them; what differs is which list a request is routed to. Unknown
// language routes to the English list.
func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{
		patterns: map[Language][]FallbackPattern{
			LanguageEnglish: buildPatterns(LanguageEnglish),
			LanguageTurkish: buildPatterns(LanguageTurkish),
		},
	}
}

// buildPatterns assembles the intent buckets for one language, most specific
// first, catch-all last.
func buildPatterns(lang Language) []FallbackPattern {
	return []FallbackPattern{
		{
			Name:     "guest-category",
			Language: lang,
			Matches: func(text string) bool {
				_, ok := guestCategoryIntent(text)
				return ok
			},
			Template: func(text string, limit int) string {
				category, _ := guestCategoryIntent(text)
				return fmt.Sprintf(
					"g.V().hasLabel('Reviewer').has('traveler_type', '%s').out('WROTE').valueMap(true).limit(%d)",
					category, limit)
			},
		},
		{
			Name:     "language-review",
			Language: lang,
			Matches: func(text string) bool {
				_, ok := reviewLanguageIntent(text)
				return ok
			},
			Template: func(text string, limit int) string {
				code, _ := reviewLanguageIntent(text)
				return fmt.Sprintf(
					"g.V().hasLabel('Review').where(__.out('WRITTEN_IN').has('code', '%s')).valueMap(true).limit(%d)",
					code, limit)
			},
		},
		{
			Name:     "service-quality",
			Language: lang,
			Matches:  isServiceQualityIntent,
			Template: func(text string, limit int) string {
				return fmt.Sprintf(
					"g.V().hasLabel('Hotel').where(__.out('HAS_REVIEW').out('HAS_ANALYSIS').where(__.out('ANALYZES_ASPECT').has('name', 'service')).has('aspect_score', gte(4.0))).valueMap(true).select('hotel_name').limit(%d)",
					limit)
			},
		},
		{
			Name:     "cleanliness",
			Language: lang,
			Matches:  isCleanlinessIntent,
			Template: func(text string, limit int) string {
				return fmt.Sprintf(
					"g.V().hasLabel('Review').where(__.out('HAS_ANALYSIS').has('sentiment_score', lt(0)).where(__.out('ANALYZES_ASPECT').has('name', 'cleanliness'))).valueMap(true).limit(%d)",
					limit)
			},
		},
		{
			Name:     "maintenance",
			Language: lang,
			Matches:  isMaintenanceIntent,
			Template: func(text string, limit int) string {
				return fmt.Sprintf(
					"g.V().hasLabel('Review').or(__.has('text', containing('maintenance')), __.has('text', containing('bakım'))).valueMap(true).limit(%d)",
					limit)
			},
		},
		{
			Name:     "accommodation-type",
			Language: lang,
			Matches:  isAccommodationTypeIntent,
			Template: func(text string, limit int) string {
				return fmt.Sprintf(
					"g.V().hasLabel('AccommodationType').valueMap(true).limit(%d)", limit)
			},
		},
		{
			Name:     "low-rating",
			Language: lang,
			Matches:  isLowRatingIntent,
			Template: func(text string, limit int) string {
				return fmt.Sprintf(
					"g.V().hasLabel('Hotel').where(__.out('HAS_REVIEW').has('score', lt(3.0))).valueMap(true).select('hotel_name').limit(%d)",
					limit)
			},
		},
		{
			Name:     "hotel-listing",
			Language: lang,
			Matches:  isHotelListingIntent,
			Template: func(text string, limit int) string {
				return fmt.Sprintf(
					"g.V().hasLabel('Hotel').valueMap(true).select('hotel_name').limit(%d)", limit)
			},
		},
		{
			// Catch-all keeps the fallback total: any input gets a fully
			// projected, capped hotel listing.
			Name:     "catch-all",
			Language: lang,
			Matches:  func(string) bool { return true },
			Template: func(text string, limit int) string {
				return fmt.Sprintf("g.V().hasLabel('Hotel').valueMap(true).limit(%d)", limit)
			},
		},
	}
}

// Generate returns the query for the first matching intent pattern of the
// given language, plus the name of the pattern that matched. Never fails and
// never returns an empty query.
func (f *FallbackGenerator) Generate(text string, lang Language, limit int) (string, string) {
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	patterns, ok := f.patterns[lang]
	if !ok {
		patterns = f.patterns[LanguageEnglish]
	}
	normalized := normalizeText(text)
	for _, p := range patterns {
		if p.Matches(normalized) {
			return p.Template(normalized, limit), p.Name
		}
	}
	// Unreachable: the catch-all always matches. Kept so the function stays
	// total even if the pattern list is misconfigured.
	return fmt.Sprintf("g.V().hasLabel('Hotel').valueMap(true).limit(%d)", limit), "catch-all"
}

// PatternNames lists the configured patterns for a language in match order.
func (f *FallbackGenerator) PatternNames(lang Language) []string {
	patterns, ok := f.patterns[lang]
	if !ok {
		patterns = f.patterns[LanguageEnglish]
	}
	names := make([]string, len(patterns))
	for i, p := range patterns {
		names[i] = p.Name
	}
	return names
}
