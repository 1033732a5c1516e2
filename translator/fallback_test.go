package translator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackGenerator_Generate(t *testing.T) {
	generator := NewFallbackGenerator()

	tests := []struct {
		name            string
		text            string
		language        Language
		limit           int
		expectedPattern string
		expectedQuery   string
	}{
		{
			name:            "VIP guest category",
			text:            "Show VIP guest reviews",
			language:        LanguageEnglish,
			limit:           10,
			expectedPattern: "guest-category",
			expectedQuery:   "g.V().hasLabel('Reviewer').has('traveler_type', 'VIP').out('WROTE').valueMap(true).limit(10)",
		},
		{
			name:            "turkish VIP phrasing hits the same bucket",
			text:            "VIP misafirlerin yorumlarını göster",
			language:        LanguageTurkish,
			limit:           10,
			expectedPattern: "guest-category",
			expectedQuery:   "g.V().hasLabel('Reviewer').has('traveler_type', 'VIP').out('WROTE').valueMap(true).limit(10)",
		},
		{
			name:            "reviews in a specific language",
			text:            "Show reviews written in English",
			language:        LanguageEnglish,
			limit:           10,
			expectedPattern: "language-review",
			expectedQuery:   "g.V().hasLabel('Review').where(__.out('WRITTEN_IN').has('code', 'en')).valueMap(true).limit(10)",
		},
		{
			name:            "turkish language-review phrasing",
			text:            "İngilizce yazılmış yorumları göster",
			language:        LanguageTurkish,
			limit:           10,
			expectedPattern: "language-review",
			expectedQuery:   "g.V().hasLabel('Review').where(__.out('WRITTEN_IN').has('code', 'en')).valueMap(true).limit(10)",
		},
		{
			name:            "cleanliness complaint",
			text:            "Temizlik şikayetlerini göster",
			language:        LanguageTurkish,
			limit:           10,
			expectedPattern: "cleanliness",
		},
		{
			name:            "hotel listing",
			text:            "Otellerin isimlerini göster",
			language:        LanguageTurkish,
			limit:           10,
			expectedPattern: "hotel-listing",
			expectedQuery:   "g.V().hasLabel('Hotel').valueMap(true).select('hotel_name').limit(10)",
		},
		{
			name:            "unrecognized input falls to catch-all",
			text:            "xyzzy plugh quux",
			language:        LanguageEnglish,
			limit:           10,
			expectedPattern: "catch-all",
			expectedQuery:   "g.V().hasLabel('Hotel').valueMap(true).limit(10)",
		},
		{
			name:            "empty input falls to catch-all",
			text:            "",
			language:        LanguageUnknown,
			limit:           10,
			expectedPattern: "catch-all",
			expectedQuery:   "g.V().hasLabel('Hotel').valueMap(true).limit(10)",
		},
		{
			name:            "custom limit flows into template",
			text:            "xyzzy",
			language:        LanguageEnglish,
			limit:           3,
			expectedPattern: "catch-all",
			expectedQuery:   "g.V().hasLabel('Hotel').valueMap(true).limit(3)",
		},
		{
			name:            "non-positive limit uses the default",
			text:            "xyzzy",
			language:        LanguageEnglish,
			limit:           0,
			expectedPattern: "catch-all",
			expectedQuery:   fmt.Sprintf("g.V().hasLabel('Hotel').valueMap(true).limit(%d)", DefaultResultLimit),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, pattern := generator.Generate(tt.text, tt.language, tt.limit)
			assert.Equal(t, tt.expectedPattern, pattern)
			if tt.expectedQuery != "" {
				assert.Equal(t, tt.expectedQuery, query)
			}
			assert.NotEmpty(t, query)
		})
	}
}

// Every fallback query must itself satisfy the repair rules, otherwise the
// fallback path would ship queries the generative path is not allowed to.
func TestFallbackGenerator_OutputIsAlreadyValid(t *testing.T) {
	generator := NewFallbackGenerator()
	validator := NewValidator()

	inputs := []struct {
		text string
		lang Language
	}{
		{"Show VIP guest reviews", LanguageEnglish},
		{"Show reviews written in Turkish", LanguageEnglish},
		{"Which hotels have good service quality", LanguageEnglish},
		{"Temizlik şikayetlerini göster", LanguageTurkish},
		{"Bakım sorunları olan odalar", LanguageTurkish},
		{"Konaklama türlerini göster", LanguageTurkish},
		{"Show the worst rated hotels", LanguageEnglish},
		{"Otellerin isimlerini göster", LanguageTurkish},
		{"complete gibberish input", LanguageUnknown},
	}

	for _, input := range inputs {
		t.Run(input.text, func(t *testing.T) {
			query, _ := generator.Generate(input.text, input.lang, DefaultResultLimit)
			req := Request{RawText: input.text, Language: input.lang}
			repaired, ok := validator.ValidateAndRepair(query, req)
			assert.True(t, ok)
			assert.Equal(t, query, repaired, "fallback output should not need repair")
		})
	}
}

func TestFallbackGenerator_PatternOrder(t *testing.T) {
	generator := NewFallbackGenerator()

	for _, lang := range []Language{LanguageEnglish, LanguageTurkish, LanguageUnknown} {
		names := generator.PatternNames(lang)
		assert.NotEmpty(t, names)
		assert.Equal(t, "catch-all", names[len(names)-1],
			"catch-all must be the terminal pattern for %s", lang)
		for _, name := range names[:len(names)-1] {
			assert.NotEqual(t, "catch-all", name)
		}
	}
}

func TestFallbackGenerator_AlwaysProducesAnchoredQuery(t *testing.T) {
	generator := NewFallbackGenerator()
	inputs := []string{"", "???", "otel", "hotel", "random words here", "VIP"}

	for _, text := range inputs {
		for _, lang := range []Language{LanguageEnglish, LanguageTurkish, LanguageUnknown} {
			query, pattern := generator.Generate(text, lang, 10)
			assert.True(t, strings.HasPrefix(query, "g.V()"), "query %q", query)
			assert.Contains(t, query, "limit(10)")
			assert.NotEmpty(t, pattern)
		}
	}
}
