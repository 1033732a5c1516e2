package translator

import (
	"fmt"
	"strings"
)

// generationRules is the fixed instruction block describing how the generator
// must construct Gremlin traversals for this schema.
const generationRules = `GREMLIN SYNTAX RULES:
1. Always start with g.V() for vertex queries
2. Use hasLabel('VertexType') to filter by vertex type
3. Use has('property', 'value') for exact property matches
4. Use has('property', gte(value)) / has('property', lte(value)) for comparisons
5. Use out('EdgeLabel') and in('EdgeLabel') following the schema edge directions
6. Use where() for sub-traversal conditions
7. Always project full properties with valueMap(true) when returning entities
8. When the user asks for names, add select('hotel_name') after valueMap(true)
9. Filter reviews by language through out('WRITTEN_IN').has('code', ...)
10. Filter guest categories on the Reviewer property traveler_type, never on review text
11. Always end the query with limit(n)`

// PromptComposer builds generation prompts from the static schema, the
// curated few-shot sets and the user's text. Pure and deterministic: the same
// (text, language) pair always yields byte-identical output.
type PromptComposer struct {
	schema *Schema
}

// NewPromptComposer returns a composer bound to the given schema.
func NewPromptComposer(schema *Schema) *PromptComposer {
	return &PromptComposer{schema: schema}
}

// Compose assembles the full generation prompt for one request.
func (p *PromptComposer) Compose(text string, lang Language) string {
	var b strings.Builder

	b.WriteString("You are an expert Gremlin query translator for a hotel review graph database. ")
	b.WriteString("Convert the natural language query into a single executable Gremlin traversal.\n\n")

	b.WriteString(p.schema.PromptBlock())
	b.WriteString("\n")
	b.WriteString(generationRules)
	b.WriteString("\n\n")

	b.WriteString(renderExamples(FewShotExamples(lang)))

	if lang == LanguageTurkish {
		b.WriteString(renderTurkishHints())
	}

	fmt.Fprintf(&b, "User Query: %q\n\n", text)
	b.WriteString("Respond with ONLY the Gremlin query, no explanation or markdown.\n\nGremlin Query:")
	return b.String()
}

func renderExamples(examples []FewShotExample) string {
	var b strings.Builder
	b.WriteString("EXAMPLES:\n\n")
	for i, ex := range examples {
		fmt.Fprintf(&b, "Example %d:\nUser: %s\nGremlin: %s\n\n", i+1, ex.Text, ex.Query)
	}
	return b.String()
}

func renderTurkishHints() string {
	var b strings.Builder
	b.WriteString("LANGUAGE NOTE: The input query is in Turkish. Understand the semantic meaning and convert to Gremlin.\n")
	b.WriteString("COMMON TURKISH HOTEL TERMS:\n")
	for _, pair := range turkishVocabulary {
		fmt.Fprintf(&b, "- '%s' = %s\n", pair.Turkish, pair.English)
	}
	b.WriteString("\n")
	return b.String()
}
