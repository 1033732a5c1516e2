package translator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComposer(t *testing.T) *PromptComposer {
	t.Helper()
	schema, err := NewSchema()
	require.NoError(t, err)
	return NewPromptComposer(schema)
}

func TestPromptComposer_Compose_English(t *testing.T) {
	composer := newTestComposer(t)
	prompt := composer.Compose("Show the names of all hotels", LanguageEnglish)

	assert.Contains(t, prompt, "GREMLIN SYNTAX RULES:")
	assert.Contains(t, prompt, "Hotel")
	assert.Contains(t, prompt, "HAS_REVIEW")
	assert.Contains(t, prompt, "Show the names of all hotels")
	assert.Contains(t, prompt, `User Query: "Show the names of all hotels"`)
	assert.Contains(t, prompt, "Respond with ONLY the Gremlin query")

	// English prompts carry the English example set and no Turkish hint block.
	assert.Contains(t, prompt, "Find all 5-star hotels in Istanbul")
	assert.NotContains(t, prompt, "COMMON TURKISH HOTEL TERMS")
}

func TestPromptComposer_Compose_Turkish(t *testing.T) {
	composer := newTestComposer(t)
	prompt := composer.Compose("Otellerin isimlerini göster", LanguageTurkish)

	assert.Contains(t, prompt, "COMMON TURKISH HOTEL TERMS:")
	assert.Contains(t, prompt, "'otel' = hotel")
	assert.Contains(t, prompt, "Otellerin isimlerini göster")
	assert.Contains(t, prompt, "VIP misafirlerin yorumlarını göster")
	assert.NotContains(t, prompt, "Find all 5-star hotels in Istanbul")
}

func TestPromptComposer_Compose_UnknownLanguageUsesEnglish(t *testing.T) {
	composer := newTestComposer(t)
	prompt := composer.Compose("??", LanguageUnknown)

	assert.Contains(t, prompt, "Show the names of all hotels")
	assert.NotContains(t, prompt, "COMMON TURKISH HOTEL TERMS")
}

// The composer is the cache key boundary upstream, so identical requests must
// produce byte-identical prompts.
func TestPromptComposer_Compose_Deterministic(t *testing.T) {
	composer := newTestComposer(t)

	for _, tc := range []struct {
		text string
		lang Language
	}{
		{"Show the names of all hotels", LanguageEnglish},
		{"Otellerin isimlerini göster", LanguageTurkish},
	} {
		first := composer.Compose(tc.text, tc.lang)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, composer.Compose(tc.text, tc.lang))
		}
	}
}

func TestFewShotExamples(t *testing.T) {
	english := FewShotExamples(LanguageEnglish)
	turkish := FewShotExamples(LanguageTurkish)
	unknown := FewShotExamples(LanguageUnknown)

	assert.Equal(t, english, unknown)
	assert.NotEqual(t, english, turkish)

	// Every curated example must itself be a parseable, rule-compliant query:
	// the examples teach the generator the target shape.
	validator := NewValidator()
	for _, ex := range append(append([]FewShotExample{}, english...), turkish...) {
		req := Request{RawText: ex.Text, Language: ex.Language}
		repaired, ok := validator.ValidateAndRepair(ex.Query, req)
		assert.True(t, ok, "example %q must parse", ex.Text)
		assert.Equal(t, ex.Query, repaired, "example %q must already be compliant", ex.Text)
		assert.True(t, strings.HasPrefix(ex.Query, "g.V()"))
		assert.Contains(t, ex.Query, "limit(")
	}
}
